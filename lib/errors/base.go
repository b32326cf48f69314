package errors

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
)

// Error is a coded error; the catalog assigns each failure a stable code
// clients can match on. Data carries per-occurrence detail.
type Error struct {
	Code    uint                   `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data" rlp:"-"`
}

func NewError(code uint, message string) *Error {
	return &Error{Code: code, Message: message, Data: map[string]interface{}{}}
}

func (o *Error) Serialize() ([]byte, error) {
	return json.Marshal(o)
}

func (o *Error) Error() string {
	b, _ := o.Serialize()
	return string(b)
}

// SetData should be called on a Clone; catalog entries are shared.
func (o *Error) SetData(k string, v interface{}) *Error {
	o.Data[k] = v
	return o
}

func (o *Error) Clone() *Error {
	n := *o
	n.Data = make(map[string]interface{}, len(o.Data))
	for k, v := range o.Data {
		n.Data[k] = v
	}

	return &n
}

// Equal compares only by code; cloned errors with extra data still match
// their catalog origin.
func (o *Error) Equal(e error) bool {
	other, ok := e.(*Error)
	return ok && o.Code == other.Code
}

// EncodeRLP emits Data pairs first, in sorted key order, then the code and
// message. A nil error encodes as an empty list.
func (o *Error) EncodeRLP(w io.Writer) error {
	if o == nil {
		return rlp.Encode(w, []uint{})
	}

	if len(o.Data) > 0 {
		keys := make([]string, 0, len(o.Data))
		for k := range o.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([][2]interface{}, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, [2]interface{}{k, o.Data[k]})
		}
		if err := rlp.Encode(w, pairs); err != nil {
			return err
		}
	}

	return rlp.Encode(w, struct {
		Code    uint
		Message string
	}{o.Code, o.Message})
}
