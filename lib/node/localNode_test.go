package node

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/common/keypair"
)

func TestLocalNodeStateChange(t *testing.T) {
	localNode := NewTestLocalNode0()

	require.Equal(t, StateNONE, localNode.State())

	localNode.SetBooting()
	require.Equal(t, StateBOOTING, localNode.State())

	localNode.SetRunning()
	require.Equal(t, StateRUNNING, localNode.State())

	localNode.SetTerminating()
	require.Equal(t, StateTERMINATING, localNode.State())
}

func TestLocalNodeMarshalJSON(t *testing.T) {
	endpoint, err := common.NewEndpointFromString("https://localhost:5000")
	require.NoError(t, err)

	localNode := NewTestLocalNode(keypair.Random(), endpoint)

	// alias and address come from a random keypair, so only the stable
	// fields are checked
	b, err := localNode.MarshalJSON()
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), `"endpoint":"https://localhost:5000"`))
	require.True(t, strings.Contains(string(b), `"state":"NONE"`))

	localNode.SetRunning()
	b, err = localNode.MarshalJSON()
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), `"state":"RUNNING"`))
}

func TestLocalNodePublishEndpoint(t *testing.T) {
	bindEndpoint := common.MustParseEndpoint("https://0.0.0.0:5000")
	localNode := NewTestLocalNode(keypair.Random(), bindEndpoint)

	{ // localNode.PublishEndpoint() is empty
		require.Nil(t, localNode.PublishEndpoint())
		require.Equal(t, bindEndpoint, localNode.Endpoint())
	}

	{ // localNode.PublishEndpoint() is not empty
		publishEndpoint := common.MustParseEndpoint("https://show.me:5000")
		localNode.SetPublishEndpoint(publishEndpoint)

		require.Equal(t, publishEndpoint, localNode.PublishEndpoint())
		require.Equal(t, publishEndpoint, localNode.Endpoint())
		require.Equal(t, bindEndpoint, localNode.BindEndpoint())
	}
}

func TestMakeAlias(t *testing.T) {
	kp := keypair.Random()
	address := kp.Address()

	l := len(address)
	expected := fmt.Sprintf("%s.%s", address[:4], address[l-8:l-4])
	require.Equal(t, expected, MakeAlias(address))

	// an explicit alias wins over the derived one
	localNode, err := NewLocalNode(kp, &common.Endpoint{Scheme: "memory", Host: "unittests"}, "n1")
	require.NoError(t, err)
	require.Equal(t, "n1", localNode.Alias())
}
