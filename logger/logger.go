// Package logger prints coloured, prefixed log lines.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/beka-birhanu/vinom-maze/config"
)

var ErrNilWriter = errors.New("logger: nil writer")

// Logger is the logging surface services depend on.
type Logger interface {
	Info(string)
	Warning(string)
	Error(string)
}

// ColorLogger writes "[PREFIX] [LEVEL] message" lines with the prefix in colour.
type ColorLogger struct {
	out *log.Logger
}

// New creates a logger tagging every line with prefix in the given colour.
func New(prefix, color string, w io.Writer) (*ColorLogger, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	tag := fmt.Sprintf("%s[%s]%s ", color, prefix, config.ColorReset)
	return &ColorLogger{out: log.New(w, tag, log.LstdFlags)}, nil
}

// Discard returns a logger that drops everything.
func Discard() *ColorLogger {
	return &ColorLogger{out: log.New(io.Discard, "", 0)}
}

func (l *ColorLogger) Info(msg string) {
	l.out.Printf("%s[INFO]%s %s", config.LogInfoColor, config.LogColorReset, msg)
}

func (l *ColorLogger) Warning(msg string) {
	l.out.Printf("%s[WARNING]%s %s", config.LogWarningColor, config.LogColorReset, msg)
}

func (l *ColorLogger) Error(msg string) {
	l.out.Printf("%s[ERROR]%s %s", config.LogErrorColor, config.LogColorReset, msg)
}
