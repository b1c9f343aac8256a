package reconstruction

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderedMap is a JSON object decoded with its keys kept in document order.
// Entities and profiles are keyed by uuid and their order is the order the sketch was authored in.
type OrderedMap[T any] struct {
	Keys   []string
	Values []T
}

func (m *OrderedMap[T]) Len() int {
	return len(m.Keys)
}

func (m *OrderedMap[T]) UnmarshalJSON(data []byte) error {
	m.Keys = nil
	m.Values = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}
		var v T
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		m.Keys = append(m.Keys, key)
		m.Values = append(m.Values, v)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
