package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/kapildev5262/Token-World/config"
	"github.com/sirupsen/logrus"
)

var (
	logger        = logrus.New()
	sentryEnabled bool
)

func init() {
	Init(*config.ServerConfig(), os.Stdout)
}

// Init configures output, level and error reporting for the package logger
func Init(cfg config.ServerConfiguration, output io.Writer) {
	logger.Formatter = &formatter{}
	logger.Out = output

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Level = level

	sentryEnabled = false
	if cfg.Environment == "production" || cfg.Environment == "staging" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			AttachStacktrace: true,
		})
		if err != nil {
			logger.Fatalf("Sentry initialization failed: %v", err)
		}
		sentryEnabled = true
	}
}

// SetLogLevel sets the log level for the logger.
func SetLogLevel(level logrus.Level) {
	logger.Level = level
}

// Fields type, used to pass to `WithFields`.
type Fields logrus.Fields

// Entry is a logger entry carrying fields
type Entry struct {
	entry  *logrus.Entry
	fields Fields
}

// WithFields returns an entry that logs with the given fields attached
func WithFields(fields Fields) *Entry {
	return &Entry{entry: logger.WithFields(logrus.Fields(fields)), fields: fields}
}

// Debugf logs a message at level Debug
func (e *Entry) Debugf(format string, args ...interface{}) {
	e.entry.Debugf(format, args...)
}

// Infof logs a message at level Info
func (e *Entry) Infof(format string, args ...interface{}) {
	e.entry.Infof(format, args...)
}

// Warnf logs a message at level Warn and reports it
func (e *Entry) Warnf(format string, args ...interface{}) {
	if logger.Level >= logrus.WarnLevel {
		capture(sentry.LevelWarning, fmt.Sprintf(format, args...), e.fields)
	}
	e.entry.Warnf(format, args...)
}

// Errorf logs a message at level Error and reports it
func (e *Entry) Errorf(format string, args ...interface{}) {
	if logger.Level >= logrus.ErrorLevel {
		capture(sentry.LevelError, fmt.Sprintf(format, args...), e.fields)
	}
	e.entry.Errorf(format, args...)
}

// ErrorWithFields logs an error with additional context
func ErrorWithFields(err error, fields Fields) {
	if logger.Level >= logrus.ErrorLevel {
		wrappedErr := fmt.Errorf("error occurred: %w", err)
		if sentryEnabled {
			sentry.WithScope(func(scope *sentry.Scope) {
				scope.SetLevel(sentry.LevelError)
				applyFields(scope, fields)
				sentry.CaptureException(wrappedErr)
			})
		}
		logger.WithFields(logrus.Fields(fields)).Error(wrappedErr.Error())
	}
}

// Debugf logs a message at level Debug
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Infof logs a message at level Info
func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Warnf logs a message at level Warn
func Warnf(format string, args ...interface{}) {
	WithFields(nil).Warnf(format, args...)
}

// Errorf logs a message at level Error
func Errorf(format string, args ...interface{}) {
	WithFields(nil).Errorf(format, args...)
}

// Fatalf logs a fatal message and exits
func Fatalf(format string, args ...interface{}) {
	capture(sentry.LevelFatal, fmt.Sprintf(format, args...), nil)
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
	logger.Fatalf(format, args...)
}

func capture(level sentry.Level, msg string, fields Fields) {
	if !sentryEnabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		applyFields(scope, fields)
		sentry.CaptureMessage(msg)
	})
}

func applyFields(scope *sentry.Scope, fields Fields) {
	for key, value := range fields {
		switch v := value.(type) {
		case string:
			scope.SetTag(key, v)
		default:
			scope.SetExtra(key, value)
		}
	}
}

// Formatter implements logrus.Formatter interface
type formatter struct {
	prefix string
}

// Format building log message
func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var sb bytes.Buffer
	sb.WriteString(strings.ToUpper(entry.Level.String()))
	sb.WriteString(" ")
	sb.WriteString(entry.Time.Format(time.RFC3339))
	sb.WriteString(" ")
	sb.WriteString(f.prefix)
	sb.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for key := range entry.Data {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		sb.WriteString(" [")
		for _, key := range keys {
			sb.WriteString(fmt.Sprintf("%s=%v ", key, entry.Data[key]))
		}
		sb.WriteString("]")
	}
	sb.WriteString("\n")

	return sb.Bytes(), nil
}
