package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := GetLevel()
	SetOutput(&buf)
	t.Cleanup(func() {
		SetLevel(old)
		_ = SetLogOutput('c')
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)
	SetLevel(WARN)

	Info("not shown")
	Warn("shown", 3)
	Error("also shown", errors.New("boom"))

	out := buf.String()
	assert.NotContains(t, out, "not shown")
	assert.Contains(t, out, "[WARN] logger_test.go:")
	assert.Contains(t, out, "shown 3")
	assert.Contains(t, out, "[ERROR]")
	assert.Contains(t, out, "also shown boom")
	assert.NotContains(t, out, "\033[")
}

func TestComplexArgumentsAsJSON(t *testing.T) {
	buf := capture(t)
	SetLevel(DEBUG)

	Debug("viewport", struct{ Left, Top float64 }{1, 2}, 0.25)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[0], "[Object of type struct")
	assert.Contains(t, lines[0], "0.25")
	assert.Contains(t, buf.String(), `"Left": 1`)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, WARN, l)

	l, err = ParseLevel("HIGHLIGHT")
	require.NoError(t, err)
	assert.Equal(t, HIGHLIGHT, l)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestSetLogFile(t *testing.T) {
	capture(t)
	path := filepath.Join(t.TempDir(), "sketchsvg.log")
	require.NoError(t, SetLogFile('f', path))
	SetLevel(INFO)
	Info("written to file")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")

	assert.Error(t, SetLogFile('x', path))
}
