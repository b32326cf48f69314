package runner

import (
	logging "github.com/inconshreveable/log15"

	"maatnet.io/maat/lib/common"
)

var log = logging.New("module", "noderunner")

// DebugPProf mounts the pprof handlers on the debug router when set.
var DebugPProf bool

func init() {
	SetLogging(common.DefaultLogLevel, common.DefaultLogHandler)
}

// SetLogging resets the package logger's level and destination.
func SetLogging(level logging.Lvl, handler logging.Handler) {
	log.SetHandler(logging.LvlFilterHandler(level, handler))
}
