package httpcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var _ Adapter = (*MemCacheAdapter)(nil)

func TestMemCacheAdapter(t *testing.T) {
	a := NewMemCacheAdapter(10)

	deadline := time.Now().Add(time.Minute)
	stored := &Response{
		Value:      []byte("proposal page"),
		StatusCode: 200,
		Expiration: deadline,
	}

	a.Set("proposals?limit=10", stored, deadline)

	got, ok := a.Get("proposals?limit=10")
	require.True(t, ok)
	require.Equal(t, stored, got)

	a.Remove("proposals?limit=10")
	_, ok = a.Get("proposals?limit=10")
	require.False(t, ok)
}

func TestMemCacheAdapterEvicts(t *testing.T) {
	a := NewMemCacheAdapter(2)

	a.Set("a", &Response{Value: []byte("a")}, time.Time{})
	a.Set("b", &Response{Value: []byte("b")}, time.Time{})
	a.Set("c", &Response{Value: []byte("c")}, time.Time{})

	// oldest entry fell off the lru
	_, ok := a.Get("a")
	require.False(t, ok)
	_, ok = a.Get("c")
	require.True(t, ok)
}
