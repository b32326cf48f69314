//
// Functions usable only from unit tests
//
package runner

import (
	"fmt"
	"math/rand"
	"net"
	"strconv"
	"time"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/common/keypair"
	"maatnet.io/maat/lib/ledger"
	"maatnet.io/maat/lib/network"
	"maatnet.io/maat/lib/node"
	"maatnet.io/maat/lib/storage"
)

var networkID []byte = []byte("maat-test-network")

func getPort() string {
	const ephemeralStart = 49152
	var testPort = "5000"
	for {
		s := rand.NewSource(int64(time.Now().Nanosecond()))
		r := rand.New(s)
		testPort = strconv.Itoa(r.Intn(65535-ephemeralStart) + ephemeralStart) // ephemeral ports range 49152 ~ 65535

		ln, err := net.Listen("tcp", ":"+testPort)
		if err == nil {
			ln.Close()
			time.Sleep(100 * time.Millisecond)
			break
		}
	}
	return testPort
}

func createTestNodeRunner(conf common.Config) (*NodeRunner, *keypair.Full) {
	kp := keypair.Random()
	endpoint, _ := common.NewEndpointFromString(
		fmt.Sprintf(
			"http://localhost:%s?NodeName=%s",
			getPort(),
			kp.Address(),
		),
	)
	localNode, _ := node.NewLocalNode(kp, endpoint, "")

	networkConfig, _ := network.NewHTTP2NetworkConfigFromEndpoint(localNode.Alias(), localNode.Endpoint())
	n := network.NewHTTP2Network(networkConfig)

	st := storage.NewTestStorage()
	adminKP := keypair.Random()
	lg := ledger.NewTestLedger(st, adminKP.Address())

	nr, err := NewNodeRunner(localNode, n, st, lg, conf)
	if err != nil {
		panic(err)
	}

	return nr, adminKP
}

func createTestNodeRunnerWithReady(conf common.Config) (*NodeRunner, *keypair.Full) {
	nr, adminKP := createTestNodeRunner(conf)

	go func() {
		if err := nr.Start(); err != nil {
			panic(err)
		}
	}()

	T := time.NewTicker(100 * time.Millisecond)
	stopTimer := make(chan bool)

	go func() {
		time.Sleep(5 * time.Second)
		stopTimer <- true
	}()

	go func() {
		for _ = range T.C {
			if !nr.Network().IsReady() {
				continue
			}
			stopTimer <- true
		}
	}()

	select {
	case <-stopTimer:
		T.Stop()
	}

	return nr, adminKP
}
