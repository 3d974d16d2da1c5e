package rtsp2mkv

import "log"

// LogLevel is a log level, mirroring gohlslib's four-level scheme.
type LogLevel int

// Log levels.
const (
	LogLevelDebug LogLevel = iota + 1
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// LogFunc is the prototype of the log function a Sink reports through.
// Every "logged" event in spec.md §7 (truncation, allocation failure,
// setup failure) goes through this callback.
type LogFunc func(level LogLevel, format string, args ...interface{})

func defaultLogFunc(_ LogLevel, format string, args ...interface{}) {
	log.Printf(format, args...)
}
