package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(""))
}

func TestLevelForVerbosity(t *testing.T) {
	assert.Equal(t, "", LevelForVerbosity(0))
	assert.Equal(t, "info", LevelForVerbosity(1))
	assert.Equal(t, "debug", LevelForVerbosity(2))
	assert.Equal(t, "trace", LevelForVerbosity(5))
}

func TestWriter_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "reviewkeeper.log")
	var console bytes.Buffer

	logger := zerolog.New(writer(&console, nil, path))
	logger.Info().Str("table", "reviews").Msg("Table ready")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Table ready")
	assert.Contains(t, string(data), "table=reviews")
	assert.Contains(t, console.String(), "Table ready")
}

func TestWriter_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer

	logger := zerolog.New(writer(&console, nil, ""))
	logger.Warn().Msg("hello")

	assert.Contains(t, console.String(), "hello")
}
