package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// Options controls where and how much the application logs.
type Options struct {
	File       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Stdout     bool
}

var output io.Writer = os.Stdout

// Setup initializes Logrus with a rotating file, optionally mirrored to stdout.
func Setup(opts Options) {
	// 1) Lumberjack for file rotation
	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB, // megabytes
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays, // days
		Compress:   true,
	}

	output = rotator
	if opts.Stdout {
		output = io.MultiWriter(os.Stdout, rotator)
	}

	// 2) Configure Logrus to write there
	logrus.SetOutput(output)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
		logrus.WithField("level", opts.Level).Warn("Unknown log level, using info")
	}
	logrus.SetLevel(level)
}

// Writer is the destination shared by the application and access logs.
func Writer() io.Writer {
	return output
}

// GormLogger routes GORM's SQL and slow-query logs through Logrus.
func GormLogger() gormlogger.Interface {
	level := gormlogger.Warn
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info // capture SQL at Debug
	}
	return gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
