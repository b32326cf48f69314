package httputils

import (
	"encoding/json"
	"net/http"

	"github.com/nvellon/hal"
)

// HALResource is anything that renders itself as a hal resource; the api
// layer's resource wrappers all do.
type HALResource interface {
	Resource() *hal.Resource
}

// WriteJSON renders v as the response body. HAL resources go out as
// application/hal+json, errors become problem bodies, anything else is
// marshaled as-is.
func WriteJSON(w http.ResponseWriter, code int, v interface{}) error {
	contentType := "application/json"
	switch body := v.(type) {
	case HALResource:
		contentType = "application/hal+json"
		v = body.Resource()
	case error:
		v = NewErrorProblem(body, code)
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)

	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}

	_, err = w.Write(encoded)
	return err
}

// MustWriteJSON panics when the value cannot be written; the panic lands in
// `RecoverMiddleware`.
func MustWriteJSON(w http.ResponseWriter, code int, v interface{}) {
	if err := WriteJSON(w, code, v); err != nil {
		panic(err)
	}
}

// WriteJSONError writes err as a problem body with its mapped status.
func WriteJSONError(w http.ResponseWriter, err error) {
	code := StatusCode(err)
	if e := WriteJSON(w, code, err); e != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
