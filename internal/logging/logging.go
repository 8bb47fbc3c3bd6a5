package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/saltyorg/reviewkeeper/internal/config"
)

const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 30
	DefaultCompress   = true

	timeFormat = "2006-01-02 15:04:05"
)

// Apply sets the global log level and output writers. Console output goes
// to stderr so command output on stdout stays clean. When logFilePath is
// set, a rotating plain-text copy is written there as well.
func Apply(level string, loader *config.Loader, logFilePath string) {
	ApplyTo(os.Stderr, level, loader, logFilePath)
}

// ApplyTo is Apply with console output sent to out instead of stderr
func ApplyTo(out io.Writer, level string, loader *config.Loader, logFilePath string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	log.Logger = zerolog.New(writer(out, loader, logFilePath)).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to warn
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// LevelForVerbosity maps a -v count onto a level name
func LevelForVerbosity(verbosity int) string {
	switch verbosity {
	case 0:
		return ""
	case 1:
		return "info"
	case 2:
		return "debug"
	default:
		return "trace"
	}
}

func writer(console io.Writer, loader *config.Loader, logFilePath string) io.Writer {
	consoleOutput := zerolog.ConsoleWriter{Out: console, TimeFormat: timeFormat}
	if logFilePath == "" {
		return consoleOutput
	}

	if err := ensureLogDir(logFilePath); err != nil {
		log.Error().Err(err).Str("path", logFilePath).Msg("Failed to prepare log directory; logging to console only")
		return consoleOutput
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    loader.Int("log.max_size_mb", DefaultMaxSizeMB),
		MaxBackups: loader.Int("log.max_backups", DefaultMaxBackups),
		MaxAge:     loader.Int("log.max_age_days", DefaultMaxAgeDays),
		Compress:   loader.Bool("log.compress", DefaultCompress),
	}

	fileConsole := zerolog.ConsoleWriter{
		Out:        fileWriter,
		TimeFormat: timeFormat,
		NoColor:    true,
	}

	return zerolog.MultiLevelWriter(consoleOutput, fileConsole)
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
