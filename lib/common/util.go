package common

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"

	uuid "github.com/satori/go.uuid"
)

const MaxUintEncodeByte = 8

// GetUniqueIDFromUUID returns a time-ordered unique id; records indexed by
// it iterate in creation order.
func GetUniqueIDFromUUID() string {
	return uuid.Must(uuid.NewV1(), nil).String()
}

func GenerateUUID() string {
	return uuid.Must(uuid.NewV4(), nil).String()
}

func GetENVValue(key, defaultValue string) string {
	if v, found := os.LookupEnv(key); found {
		return v
	}

	return defaultValue
}

func GetUrlQuery(query url.Values, key, defaultValue string) string {
	if v := query.Get(key); v != "" {
		return v
	}

	return defaultValue
}

// InStringArray returns the position of s in a, or -1.
func InStringArray(a []string, s string) (int, bool) {
	for i, h := range a {
		if h == s {
			return i, true
		}
	}

	return -1, false
}

// MustUnmarshalJSON is for decoding data this process wrote itself, where a
// failure means corruption rather than bad input.
func MustUnmarshalJSON(data []byte, v interface{}) {
	if err := json.Unmarshal(data, v); err != nil {
		panic(err)
	}
}

func MustMarshalJSON(o interface{}) []byte {
	b, _ := json.Marshal(o)
	return b
}

func EncodeJSONValue(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func JSONMarshalIndent(o interface{}) ([]byte, error) {
	return json.MarshalIndent(o, "", "  ")
}

// JSONMarshalWithoutEscapeHTML marshals without escaping `&`, `<` and `>`;
// resource links must survive the round trip unmangled.
func JSONMarshalWithoutEscapeHTML(o interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(o); err != nil {
		return nil, err
	}

	// Encode appends a trailing newline
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// RequestURLFromRequest rebuilds the absolute url a request was made to.
func RequestURLFromRequest(r *http.Request) *url.URL {
	u := *r.URL
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	u.Host = r.Host

	return &u
}

func IsExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func IsNotExists(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

// IsEmpty reports whether the directory at path has no entries.
func IsEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	switch _, err := f.Readdirnames(1); err {
	case io.EOF:
		return true, nil
	default:
		return false, err
	}
}

func EncodeUint64ToByteSlice(i uint64) [MaxUintEncodeByte]byte {
	var b [MaxUintEncodeByte]byte
	binary.BigEndian.PutUint64(b[:], i)
	return b
}

func DecodeUint64FromByteSlice(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
