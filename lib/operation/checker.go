package operation

import (
	"time"

	"github.com/btcsuite/btcutil/base58"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/common/keypair"
	"maatnet.io/maat/lib/errors"
)

type Checker struct {
	common.DefaultChecker

	Conf      common.Config
	Operation Operation
}

// WellFormedCheckerFuncs runs over every inbound envelope before the ledger
// is touched.
var WellFormedCheckerFuncs = []common.CheckerFunc{
	CheckVersion,
	CheckSource,
	CheckCreatedTime,
	CheckPayload,
	CheckHash,
	CheckVerifySignature,
}

func CheckVersion(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.Operation.H.Version != CurrentVersion {
		err = errors.InvalidMessageVersion
		return
	}

	return
}

func CheckSource(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if _, err = keypair.Parse(checker.Operation.B.Source); err != nil {
		err = errors.BadPublicAddress
		return
	}

	return
}

// CheckCreatedTime rejects envelopes whose `Created` time is too far from
// the local clock, in either direction. Replayed and pre-dated envelopes
// fall out here.
func CheckCreatedTime(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	var created time.Time
	if created, err = common.ParseISO8601(checker.Operation.H.Created); err != nil {
		return
	}

	now := time.Now()
	timeStart := now.Add(time.Duration(-1) * checker.Conf.OperationTimeGap)
	timeEnd := now.Add(checker.Conf.OperationTimeGap)
	if !common.InTimeSpan(timeStart, timeEnd, created) {
		err = errors.MessageHasIncorrectTime
		return
	}

	return
}

func CheckPayload(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	if checker.Operation.B.Payload == nil {
		err = errors.InvalidOperation
		return
	}

	return checker.Operation.B.Payload.IsWellFormed(checker.Conf)
}

func CheckHash(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	if checker.Operation.H.Hash != checker.Operation.B.MakeHashString() {
		err = errors.HashDoesNotMatch
		return
	}

	return
}

func CheckVerifySignature(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	var kp keypair.KP
	if kp, err = keypair.Parse(checker.Operation.B.Source); err != nil {
		return
	}
	err = kp.Verify(
		append(checker.Conf.NetworkID, []byte(checker.Operation.H.Hash)...),
		base58.Decode(checker.Operation.H.Signature),
	)
	if err != nil {
		err = errors.SignatureVerificationFailed
		return
	}

	return
}
