package common

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v2"
)

// Encode writes v to w in one of the cli's output formats.
type Encode func(v interface{}, w io.Writer) error

var DefaultEncodes = map[string]Encode{
	"json":       jsonEncoder(false),
	"prettyjson": jsonEncoder(true),
	"yaml": func(v interface{}, w io.Writer) error {
		return yaml.NewEncoder(w).Encode(v)
	},
}

func jsonEncoder(pretty bool) Encode {
	return func(v interface{}, w io.Writer) error {
		e := json.NewEncoder(w)
		if pretty {
			e.SetIndent("", "  ")
		}
		return e.Encode(&v)
	}
}
