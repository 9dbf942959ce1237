package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the shared application logger.
var Logger = logrus.New()

// Config controls logger output.
type Config struct {
	Level      string // debug, info, warn, error
	OutputFile string // log file path; empty means stderr only
	FileOnly   bool   // suppress terminal output (required under the TUI)
	MaxSize    int    // MB per file before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Init configures the shared logger. Under the TUI, FileOnly must be set so
// log lines never land on the alternate screen.
func Init(cfg Config) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   cfg.OutputFile != "",
	})

	var outputs []io.Writer
	if !cfg.FileOnly {
		outputs = append(outputs, os.Stderr)
	}

	if cfg.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0o755); err != nil {
			return err
		}
		maxSize := cfg.MaxSize
		if maxSize <= 0 {
			maxSize = 50
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		outputs = append(outputs, &lumberjack.Logger{
			Filename:   cfg.OutputFile,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}

	switch len(outputs) {
	case 0:
		Logger.SetOutput(io.Discard)
	case 1:
		Logger.SetOutput(outputs[0])
	default:
		Logger.SetOutput(io.MultiWriter(outputs...))
	}
	return nil
}

// WithComponent returns an entry tagged with the component name.
func WithComponent(name string) *logrus.Entry {
	return Logger.WithField("component", name)
}
