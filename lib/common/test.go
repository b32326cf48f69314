// Test helpers shared across packages.
package common

import (
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"
)

// NewTestConfig returns the config unittests run under.
func NewTestConfig() Config {
	conf := NewConfig([]byte("maat-unittest"))
	conf.OperationTimeGap = DefaultOperationTimeGap

	return conf
}

// CheckRoundTripRLP encodes record to rlp, decodes it back and requires the
// result to match, object hash included.
func CheckRoundTripRLP(t *testing.T, record interface{}) {
	encoded, err := rlp.EncodeToBytes(record)
	require.NoError(t, err)

	decoded := reflect.New(reflect.TypeOf(record))
	require.NoError(t, rlp.DecodeBytes(encoded, decoded.Interface()))

	require.Equal(t, record, decoded.Elem().Interface())
	require.Equal(t, MustMakeObjectHash(record), MustMakeObjectHash(decoded.Elem().Interface()))
}

// MustParseEndpoint panics on a bad endpoint string; for fixtures only.
func MustParseEndpoint(endpoint string) *Endpoint {
	parsed, err := ParseEndpoint(endpoint)
	if err != nil {
		panic(err)
	}

	return parsed
}
