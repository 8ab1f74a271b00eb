// backend-go/pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger

	console io.Writer = consoleWriter(os.Stdout)
	level             = zerolog.InfoLevel
)

// FileOptions describes a rotated log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Log = newLogger(console, level)
}

func consoleWriter(out io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func newLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Setup configures the global loggers for a server mode. "release" writes
// JSON lines, any other mode writes colored console output at debug level.
// The package-level logger of github.com/rs/zerolog/log follows the same setup.
func Setup(mode string) {
	if mode == "release" {
		console, level = os.Stdout, zerolog.InfoLevel
	} else {
		console, level = consoleWriter(os.Stdout), zerolog.DebugLevel
	}
	Log = newLogger(console, level)
	zerolog.SetGlobalLevel(level)
	log.Logger = Log
}

// AddFile tees the global logger into a size-rotated JSON file. The
// returned closer flushes and closes the file.
func AddFile(opts FileOptions) io.Closer {
	file := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	Log = newLogger(zerolog.MultiLevelWriter(console, file), level)
	log.Logger = Log
	return file
}

// SetLevel sets the log level
func SetLevel(levelStr string) {
	lvl, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		lvl = zerolog.InfoLevel
	}
	level = lvl
	zerolog.SetGlobalLevel(lvl)
	Log = Log.Level(lvl)
	log.Logger = Log
}
