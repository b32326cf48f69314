package common

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"time"

	logging "github.com/inconshreveable/log15"

	"maatnet.io/maat/lib/errors"
)

var (
	DefaultLogLevel   = logging.LvlInfo
	DefaultLogHandler = logging.StreamHandler(os.Stdout, logging.TerminalFormat())

	log = logging.New("module", "common")
)

func init() {
	SetLogging(DefaultLogLevel, DefaultLogHandler)
}

func SetLogging(level logging.Lvl, handler logging.Handler) {
	log.SetHandler(logging.LvlFilterHandler(level, handler))
}

// NopLogger discards everything thrown at it.
func NopLogger() logging.Logger {
	l := logging.New()
	l.SetHandler(logging.DiscardHandler())
	return l
}

// `formatJSONValue` and `JsonFormatEx` were derived from
// https://github.com/inconshreveable/log15/blob/199fca55789248e0520a3bd33e9045799738e793/format.go#L131
const errorKey = "LOG15_ERROR"

func formatJSONValue(value interface{}) (formatted interface{}) {
	defer func() {
		if err := recover(); err != nil {
			v := reflect.ValueOf(value)
			if v.Kind() != reflect.Ptr || !v.IsNil() {
				panic(err)
			}
			formatted = "nil"
		}
	}()

	switch v := value.(type) {
	case json.Marshaler, Serializable, *errors.Error:
		return v
	case time.Time:
		return FormatISO8601(v)
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

// JsonFormatEx renders log records as json objects, one per line when
// lineSeparated is set.
func JsonFormatEx(pretty, lineSeparated bool) logging.Format {
	marshal := json.Marshal
	if pretty {
		marshal = func(v interface{}) ([]byte, error) {
			return json.MarshalIndent(v, "", "    ")
		}
	}

	return logging.FormatFunc(func(r *logging.Record) []byte {
		entry := map[string]interface{}{
			r.KeyNames.Time: r.Time,
			r.KeyNames.Lvl:  r.Lvl.String(),
			r.KeyNames.Msg:  r.Msg,
		}

		for i := 0; i < len(r.Ctx); i += 2 {
			k, ok := r.Ctx[i].(string)
			if !ok {
				entry[errorKey] = fmt.Sprintf("%+v is not a string key", r.Ctx[i])
			}
			entry[k] = formatJSONValue(r.Ctx[i+1])
		}

		b, err := marshal(entry)
		if err != nil {
			b, _ = marshal(map[string]string{errorKey: err.Error()})
			return b
		}

		if lineSeparated {
			b = append(b, '\n')
		}

		return b
	})
}
