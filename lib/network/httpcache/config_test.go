package httpcache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"maatnet.io/maat/lib/common"
)

func TestNewAdapter(t *testing.T) {
	conf := common.NewConfig([]byte("test-network"))

	{ // memory
		conf.HTTPCacheAdapter = common.HTTPCacheMemoryAdapterName
		a, err := NewAdapter(conf)
		require.NoError(t, err)
		require.IsType(t, (*MemCacheAdapter)(nil), a)
	}

	{ // caching off
		conf.HTTPCacheAdapter = ""
		a, err := NewAdapter(conf)
		require.NoError(t, err)
		require.Nil(t, a)
	}

	{ // unknown
		conf.HTTPCacheAdapter = "bogus"
		_, err := NewAdapter(conf)
		require.Error(t, err)
	}
}
