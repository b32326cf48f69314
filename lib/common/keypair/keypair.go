// Package keypair wraps stellar's keypair package with the few extras the
// node needs around the ed25519 identities every caller is addressed by.
package keypair

import (
	stellar "github.com/stellar/go/keypair"
)

type (
	Full = stellar.Full
	KP   = stellar.KP
)

var (
	Master        = stellar.Master
	Parse         = stellar.Parse
	RandomCanFail = stellar.Random
)

// MakeSignature signs hash scoped to the network id, so signatures never
// carry over to another network.
func MakeSignature(kp KP, networkID []byte, hash string) ([]byte, error) {
	return kp.Sign(append(networkID, []byte(hash)...))
}
