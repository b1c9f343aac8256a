package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// ********************************************************
// ********* LOGGING **************************************
// ********************************************************

var (
	mu             sync.Mutex
	showDateTime   bool
	useColour      = true
	defaultLogger  *Logger
	logFile        *os.File
	DefaultLogFile = "/tmp/sketchsvg.log"
)

type LogLevel int

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorOrange  = "\033[38;5;208m"
)

const (
	DEBUG LogLevel = iota
	INFO
	INFORM
	HIGHLIGHT
	WARN
	ERROR
	FATAL
)

type Logger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	level       LogLevel
}

func init() {
	defaultLogger = NewLogger(INFO)
	showDateTime = false
}

func flags() int {
	if showDateTime {
		return log.Ldate | log.Ltime
	}
	return 0
}

func SetShowDateTime(value bool) {
	mu.Lock()
	defer mu.Unlock()
	showDateTime = value
	defaultLogger.infoLogger.SetFlags(flags())
	defaultLogger.errorLogger.SetFlags(flags())
}

// SetLevel drops every message below level
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger.level = level
}

func GetLevel() LogLevel {
	mu.Lock()
	defer mu.Unlock()
	return defaultLogger.level
}

// ParseLevel maps a level name such as "debug" or "WARN" to its LogLevel
func ParseLevel(name string) (LogLevel, error) {
	for l := DEBUG; l <= FATAL; l++ {
		if strings.EqualFold(name, l.String()) {
			return l, nil
		}
	}
	return INFO, fmt.Errorf("unknown log level: %s", name)
}

// SetOutput sends every level to w with colours switched off. Mostly useful in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeLogFile()
	useColour = false
	defaultLogger.infoLogger = log.New(w, "", flags())
	defaultLogger.errorLogger = log.New(w, "", flags())
}

// SetLogOutput sets the output destination for logs
// 'c' for console, 'f' for file, 'b' for both
func SetLogOutput(outputType rune) error {
	return SetLogFile(outputType, DefaultLogFile)
}

// SetLogFile is SetLogOutput with an explicit log file path
func SetLogFile(outputType rune, path string) error {
	mu.Lock()
	defer mu.Unlock()
	closeLogFile()

	var infoWriter, errorWriter io.Writer
	switch outputType {
	case 'c':
		infoWriter = os.Stdout
		errorWriter = os.Stderr
		useColour = true
	case 'f', 'b':
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		if outputType == 'f' {
			infoWriter = f
			errorWriter = f
			useColour = false
		} else {
			infoWriter = io.MultiWriter(os.Stdout, f)
			errorWriter = io.MultiWriter(os.Stderr, f)
			useColour = true
		}
	default:
		return fmt.Errorf("invalid log output type: %c", outputType)
	}

	defaultLogger.infoLogger = log.New(infoWriter, "", flags())
	defaultLogger.errorLogger = log.New(errorWriter, "", flags())
	return nil
}

// Close releases the log file, if one is open
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLogFile()
}

func closeLogFile() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func NewLogger(level LogLevel) *Logger {
	return &Logger{
		infoLogger:  log.New(os.Stdout, "", flags()),
		errorLogger: log.New(os.Stderr, "", flags()),
		level:       level,
	}
}

func (l LogLevel) colour() string {
	switch l {
	case DEBUG:
		return colorBlue
	case INFO:
		return colorGreen
	case INFORM:
		return colorMagenta
	case HIGHLIGHT:
		return colorCyan
	case WARN:
		return colorYellow
	case ERROR:
		return colorOrange
	case FATAL:
		return colorRed
	default:
		return colorReset
	}
}

func (l *Logger) log(level LogLevel, format string, v ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level < l.level {
		return
	}

	// caller of the package level function
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}
	file = filepath.Base(file)

	msg := format
	var jsonObjects []string
	if len(v) > 0 {
		var processed []string
		processed, jsonObjects = processArgs(v...)
		if len(processed) > 0 {
			msg = fmt.Sprintf("%s %s", format, strings.Join(processed, " "))
		}
	}

	colourOn, colourOff := "", ""
	if useColour {
		colourOn, colourOff = level.colour(), colorReset
	}

	out := l.infoLogger
	if level >= ERROR {
		out = l.errorLogger
	}
	out.Printf("[%s] %s:%d: %s%s%s", level, file, line, colourOn, msg, colourOff)
	// complex arguments follow on their own lines
	for _, obj := range jsonObjects {
		out.Printf("[%s] %s:%d: %s%s%s", level, file, line, colourOn, obj, colourOff)
	}
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case INFORM:
		return "INFORM"
	case HIGHLIGHT:
		return "HIGHLIGHT"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// processArgs processes arguments, converting non-primitives to JSON
// Returns a slice of string representations for primitive types and a slice of JSON strings for complex types
func processArgs(args ...any) ([]string, []string) {
	var primitives []string
	var jsonObjects []string

	for _, arg := range args {
		if isPrimitive(arg) {
			switch v := arg.(type) {
			case float32:
				primitives = append(primitives, fmt.Sprintf("%.2f", v))
			case float64:
				primitives = append(primitives, fmt.Sprintf("%.2f", v))
			case string:
				primitives = append(primitives, v)
			case error:
				primitives = append(primitives, v.Error())
			case nil:
				primitives = append(primitives, "nil")
			default:
				primitives = append(primitives, fmt.Sprintf("%v", v))
			}
			continue
		}
		if s, ok := arg.(fmt.Stringer); ok {
			primitives = append(primitives, s.String())
			continue
		}
		jsonBytes, err := json.MarshalIndent(arg, "", "  ")
		if err != nil {
			primitives = append(primitives, fmt.Sprintf("%v", arg))
			continue
		}
		primitives = append(primitives, fmt.Sprintf("[Object of type %s]", reflect.TypeOf(arg)))
		jsonObjects = append(jsonObjects, string(jsonBytes))
	}
	return primitives, jsonObjects
}

// isPrimitive checks if a value is a primitive type
func isPrimitive(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, error:
		return true
	default:
		return false
	}
}

// Convenience methods using the default logger
func Debug(format string, v ...any) {
	defaultLogger.log(DEBUG, format, v...)
}

func Info(format string, v ...any) {
	defaultLogger.log(INFO, format, v...)
}

func Inform(format string, v ...any) {
	defaultLogger.log(INFORM, format, v...)
}

func Highlight(format string, v ...any) {
	defaultLogger.log(HIGHLIGHT, format, v...)
}

func Warn(format string, v ...any) {
	defaultLogger.log(WARN, format, v...)
}

func Error(format string, v ...any) {
	defaultLogger.log(ERROR, format, v...)
}

func Fatal(format string, v ...any) {
	defaultLogger.log(FATAL, format, v...)
	os.Exit(1)
}
