/*
	In this file, there are unittests for checking Config struct.
*/
package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

//	TestConfigDefault tests the default values.
func TestConfigDefault(t *testing.T) {
	n := NewConfig([]byte("maat-test"))
	require.Equal(t, []byte("maat-test"), n.NetworkID)
	require.Equal(t, DefaultOperationTimeGap, n.OperationTimeGap)
	require.Equal(t, HTTPCachePoolSize, n.HTTPCachePoolSize)

	require.False(t, n.RateLimitRuleAPI.IsZero())
	require.Equal(t, RateLimitAPI, n.RateLimitRuleAPI.Default)
	require.Empty(t, n.RateLimitRuleAPI.ByIPAddress)
}

//	TestConfigSetAndGet tests setting fields and checking.
func TestConfigSetAndGet(t *testing.T) {
	n := NewConfig([]byte("maat-test"))
	n.OperationTimeGap = 3 * time.Minute
	n.HTTPCacheAdapter = "mem"

	require.Equal(t, 3*time.Minute, n.OperationTimeGap)
	require.Equal(t, "mem", n.HTTPCacheAdapter)
}

func TestParseEndpointDefaults(t *testing.T) {
	e, err := ParseEndpoint("https://127.0.0.1:12345")
	require.Nil(t, err)
	require.Equal(t, "https", e.Scheme)
	require.Equal(t, "localhost:12345", e.Host)

	_, err = ParseEndpoint("127.0.0.1:12345")
	require.NotNil(t, err)

	e, err = ParseEndpoint("memory://test")
	require.Nil(t, err)
	require.Equal(t, "memory", e.Scheme)
}

func TestParseBoolQueryString(t *testing.T) {
	for _, s := range []string{"true", "yes", "1", "TRUE"} {
		v, err := ParseBoolQueryString(s)
		require.Nil(t, err)
		require.True(t, v)
	}
	for _, s := range []string{"false", "no", "0"} {
		v, err := ParseBoolQueryString(s)
		require.Nil(t, err)
		require.False(t, v)
	}

	_, err := ParseBoolQueryString("maybe")
	require.NotNil(t, err)
}
