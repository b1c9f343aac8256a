package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/richard-senior/sketchsvg/internal/logger"
	_ "modernc.org/sqlite"
)

// Persistable is implemented by every struct stored through a Store.
// Columns come from the struct tags: dbtype (required), column, primary and index.
type Persistable interface {
	GetTableName() string
	GetPrimaryKey() map[string]any
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists tagged structs in a sqlite database
type Store struct {
	db *sql.DB
	mu sync.Mutex // serialises the exists-then-write of Save
}

// OpenStore opens (creating if needed) the sqlite database at path, ":memory:" included
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" a single database and sqlite writes serial
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Debug("Database initialized successfully", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateTable creates the table and indexes of obj if they do not exist
func (s *Store) CreateTable(ctx context.Context, obj Persistable) error {
	tableName := obj.GetTableName()
	createSQL := generateCreateTableSQL(obj, tableName)
	logger.Debug("Creating table with SQL", createSQL)

	if _, err := s.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	for _, query := range generateIndexSQL(obj, tableName) {
		logger.Debug("Creating index with SQL", query)
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			logger.Warn("Failed to create index", err)
		}
	}
	return nil
}

// column describes one persisted struct field
type column struct {
	name    string
	dbType  string
	primary bool
	index   bool
	field   int
}

// columnsOf reads the persisted fields of obj's struct type in declaration order
func columnsOf(obj any) []column {
	objType := reflect.TypeOf(obj)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}

	var cols []column
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() || field.Tag.Get("db") == "-" {
			continue
		}
		dbType := field.Tag.Get("dbtype")
		if dbType == "" {
			continue
		}
		name := field.Tag.Get("column")
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		cols = append(cols, column{
			name:    name,
			dbType:  dbType,
			primary: field.Tag.Get("primary") == "true",
			index:   field.Tag.Get("index") == "true",
			field:   i,
		})
	}
	return cols
}

func valueOf(obj any) reflect.Value {
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return v
}

// generateCreateTableSQL generates CREATE TABLE SQL from struct tags
func generateCreateTableSQL(obj any, tableName string) string {
	var defs []string
	var primaryKeys []string
	for _, c := range columnsOf(obj) {
		defs = append(defs, fmt.Sprintf("%s %s", c.name, c.dbType))
		if c.primary {
			primaryKeys = append(primaryKeys, c.name)
		}
	}
	if len(primaryKeys) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(primaryKeys, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, strings.Join(defs, ", "))
}

// generateIndexSQL generates index creation SQL from struct tags
func generateIndexSQL(obj any, tableName string) []string {
	var indexSQL []string
	for _, c := range columnsOf(obj) {
		if !c.index {
			continue
		}
		indexName := fmt.Sprintf("idx_%s_%s", tableName, c.name)
		indexSQL = append(indexSQL, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", indexName, tableName, c.name))
	}
	return indexSQL
}

// Save persists the object (INSERT or UPDATE)
func (s *Store) Save(ctx context.Context, obj Persistable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return save(ctx, s.db, obj)
}

// BulkSave saves multiple objects in one transaction
func (s *Store) BulkSave(ctx context.Context, objects []Persistable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, obj := range objects {
		if err := save(ctx, tx, obj); err != nil {
			return fmt.Errorf("failed to save object: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func save(ctx context.Context, db execer, obj Persistable) error {
	exists, err := exists(ctx, db, obj)
	if err != nil {
		return fmt.Errorf("failed to check existence: %w", err)
	}
	if exists {
		return update(ctx, db, obj)
	}
	return insert(ctx, db, obj)
}

func insert(ctx context.Context, db execer, obj Persistable) error {
	tableName := obj.GetTableName()
	v := valueOf(obj)

	var names, placeholders []string
	var values []any
	for _, c := range columnsOf(obj) {
		names = append(names, c.name)
		placeholders = append(placeholders, "?")
		values = append(values, v.Field(c.field).Interface())
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName, strings.Join(names, ", "), strings.Join(placeholders, ", "))
	logger.Debug("Insert SQL", query)

	if _, err := db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", tableName, err)
	}
	return nil
}

func update(ctx context.Context, db execer, obj Persistable) error {
	tableName := obj.GetTableName()
	v := valueOf(obj)

	var setPairs []string
	var values []any
	for _, c := range columnsOf(obj) {
		if c.primary {
			continue
		}
		setPairs = append(setPairs, fmt.Sprintf("%s = ?", c.name))
		values = append(values, v.Field(c.field).Interface())
	}

	whereClause, whereValues := buildWhereClause(obj.GetPrimaryKey())
	values = append(values, whereValues...)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", tableName, strings.Join(setPairs, ", "), whereClause)
	logger.Debug("Update SQL", query)

	if _, err := db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to update %s: %w", tableName, err)
	}
	return nil
}

func exists(ctx context.Context, db execer, obj Persistable) (bool, error) {
	tableName := obj.GetTableName()
	whereClause, values := buildWhereClause(obj.GetPrimaryKey())
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", tableName, whereClause)

	var count int
	if err := db.QueryRowContext(ctx, query, values...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check existence in %s: %w", tableName, err)
	}
	return count > 0, nil
}

// Delete removes the object by primary key
func (s *Store) Delete(ctx context.Context, obj Persistable) error {
	tableName := obj.GetTableName()
	whereClause, values := buildWhereClause(obj.GetPrimaryKey())
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", tableName, whereClause)

	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", tableName, err)
	}
	return nil
}

// FindWhere returns every row of T matching whereClause, all rows when it is empty
func FindWhere[T any, P interface {
	*T
	Persistable
}](ctx context.Context, s *Store, whereClause string, args ...any) ([]*T, error) {
	var zero T
	tableName := P(&zero).GetTableName()
	cols := columnsOf(&zero)

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), tableName)
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	logger.Debug("FindWhere SQL", query)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", tableName, err)
	}
	defer rows.Close()

	var results []*T
	for rows.Next() {
		obj := new(T)
		v := valueOf(obj)
		destinations := make([]any, len(cols))
		for i, c := range cols {
			destinations[i] = v.Field(c.field).Addr().Interface()
		}
		if err := rows.Scan(destinations...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", tableName, err)
		}
		results = append(results, obj)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows from %s: %w", tableName, err)
	}
	return results, nil
}

// buildWhereClause builds a WHERE clause from a primary key map, columns sorted by name
func buildWhereClause(primaryKey map[string]any) (string, []any) {
	cols := make([]string, 0, len(primaryKey))
	for column := range primaryKey {
		cols = append(cols, column)
	}
	sort.Strings(cols)

	conditions := make([]string, len(cols))
	values := make([]any, len(cols))
	for i, column := range cols {
		conditions[i] = fmt.Sprintf("%s = ?", column)
		values[i] = primaryKey[column]
	}
	return strings.Join(conditions, " AND "), values
}
