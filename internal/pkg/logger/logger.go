// Package logger provides the process-wide structured logger.
//
// A single instance is created from config.LoggerSettings with InitLogger and shared
// by every component through GetLogger. Console loggers write text to stdout; file
// loggers write JSON lines to a rotated file.
package logger

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Panic(args ...interface{})
}
