// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level     string
	File      string
	Component string
}

// Setup configures a JSON logrus logger writing to stdout and, when a file
// is configured, to a rotating log file as well.
func Setup(opts Options) (*logrus.Entry, io.Closer) {
	log := logrus.StandardLogger()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
		closer = rotator
	} else {
		log.SetOutput(os.Stdout)
	}

	return log.WithField("component", opts.Component), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
