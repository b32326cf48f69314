package common

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/argon2"
)

var HashSalt = []byte("maat")

// MakeHash is the ledger's one hash function: argon2 over the raw bytes.
func MakeHash(b []byte) []byte {
	return argon2.Key(b, HashSalt, 3, 32*1024, 4, 32)
}

// MakeObjectHash hashes the rlp encoding of i, so the hashed layout is
// pinned by the struct definition rather than by json key order.
func MakeObjectHash(i interface{}) ([]byte, error) {
	encoded, err := rlp.EncodeToBytes(i)
	if err != nil {
		return nil, err
	}

	return MakeHash(encoded), nil
}

func MustMakeObjectHash(i interface{}) []byte {
	b, _ := MakeObjectHash(i)
	return b
}

func MustMakeObjectHashString(i interface{}) string {
	return base58.Encode(MustMakeObjectHash(i))
}
