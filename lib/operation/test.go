package operation

import (
	"maatnet.io/maat/lib/common/keypair"
)

func TestMakeOperation(networkID []byte, payload Payload) (kp *keypair.Full, op Operation) {
	kp = keypair.Random()
	op = TestMakeOperationWithKeypair(networkID, kp, payload)

	return
}

func TestMakeOperationWithKeypair(networkID []byte, kp *keypair.Full, payload Payload) (op Operation) {
	op, _ = NewOperation(kp.Address(), payload)
	op.Sign(kp, networkID)

	return
}
