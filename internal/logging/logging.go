// Package logging wraps github.com/shenwei356/go-logging with the section-
// banner texture used throughout cmd/index.go
// ("-------------------- [main parameters] --------------------" banners,
// blank Info() calls as spacers, elapsed-time footers).
package logging

import (
	"os"

	logging "github.com/shenwei356/go-logging"
)

var log = logging.MustGetLogger("aindex")

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(`%{color}[%{level:.4s}]%{color:reset} %{message}`)
	backendFormatted := logging.NewBackendFormatter(backend, formatter)
	logging.SetBackend(backendFormatted)
}

// SetQuiet raises the logging threshold so only warnings and errors show,
// matching cmd.getOptions's `--quiet` flag semantics (Verbose
// = !quiet).
func SetQuiet(quiet bool) {
	if quiet {
		logging.SetLevel(logging.WARNING, "aindex")
	} else {
		logging.SetLevel(logging.INFO, "aindex")
	}
}

// Infof logs at info level.
func Infof(format string, args ...interface{}) { log.Infof(format, args...) }

// Info logs a plain message, or a blank line as a spacer when called with
// no arguments (mirrors cmd.index.go's bare log.Info() banner spacers).
func Info(args ...interface{}) { log.Info(args...) }

// Warningf logs at warning level.
func Warningf(format string, args ...interface{}) { log.Warningf(format, args...) }

// Errorf logs at error level.
func Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }

// Banner prints a section header the way cmd/index.go delimits build
// phases: a blank line, a dashed title, a blank line.
func Banner(title string) {
	log.Info()
	log.Infof("-------------------- %s --------------------", title)
	log.Info()
}
