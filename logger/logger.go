package logger

import (
	"log"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

var LoggerEnabled = true

type DefaultLogger struct {
	name string
}

func NewDefaultLogger(name string) *DefaultLogger {
	return &DefaultLogger{name: name}
}

func (d *DefaultLogger) Debug(format string, args ...any) {
	d.print("DEBUG", format, args...)
}

func (d *DefaultLogger) Info(format string, args ...any) {
	d.print("INFO", format, args...)
}

func (d *DefaultLogger) Error(format string, args ...any) {
	d.print("ERROR", format, args...)
}

func (d *DefaultLogger) print(level, format string, args ...any) {
	if LoggerEnabled {
		log.Printf("["+level+"] "+d.name+" | "+format+"\n", args...)
	}
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}
