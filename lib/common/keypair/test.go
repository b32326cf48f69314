package keypair

import (
	stellar "github.com/stellar/go/keypair"
)

// Random returns a fresh keypair. Fixture helper; panics instead of failing.
func Random() *Full {
	kp, err := stellar.Random()
	if err != nil {
		panic(err)
	}

	return kp
}
