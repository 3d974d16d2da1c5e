package main

import (
	"fmt"
	"log"

	"github.com/gookit/color"

	"github.com/bluenviron/rtsp2mkv"
)

// colorLogFunc is an rtsp2mkv.LogFunc that prefixes each line with a
// severity tag colorized the way gohlslib's example programs colorize
// their own CLI output.
func colorLogFunc(level rtsp2mkv.LogLevel, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	switch level {
	case rtsp2mkv.LogLevelError:
		log.Println(color.Red.Render("[ERR] "), msg)
	case rtsp2mkv.LogLevelWarn:
		log.Println(color.Yellow.Render("[WARN]"), msg)
	case rtsp2mkv.LogLevelInfo:
		log.Println(color.Cyan.Render("[INFO]"), msg)
	default:
		log.Println(color.Gray.Render("[DBG] "), msg)
	}
}
