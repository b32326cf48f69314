package governance

import (
	"maatnet.io/maat/lib/common/keypair"
)

func TestMakeAddress() string {
	return keypair.Random().Address()
}

func TestMakeProposal(id uint64) Proposal {
	return NewProposal(id, "raise quorum", "raise the quorum to 2/3", TestMakeAddress(), 1500000000)
}
