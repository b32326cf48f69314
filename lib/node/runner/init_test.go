package runner

import (
	logging "github.com/inconshreveable/log15"

	"maatnet.io/maat/lib/common/test"
)

// Tests log at debug level; MAAT_LOG_HANDLER=null silences them.
func init() {
	SetLogging(logging.LvlDebug, test.LogHandler())
}
