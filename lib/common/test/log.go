package test

import (
	"os"

	logging "github.com/inconshreveable/log15"
)

// LogHandler returns the handler test code should install; set
// `MAAT_LOG_HANDLER=null` to silence test logging.
func LogHandler() logging.Handler {
	switch os.Getenv("MAAT_LOG_HANDLER") {
	case "null":
		return logging.DiscardHandler()
	default:
		return logging.CallerStackHandler("%+v", logging.StdoutHandler)
	}
}
