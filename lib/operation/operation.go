package operation

import (
	"encoding/json"
	"reflect"

	"github.com/btcsuite/btcutil/base58"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/common/keypair"
	"maatnet.io/maat/lib/errors"
)

// CurrentVersion is the only envelope version this node accepts.
const CurrentVersion = "1"

type OperationType string

const (
	TypeCreateProposal        OperationType = "create-proposal"
	TypeCastVote              OperationType = "cast-vote"
	TypeCloseProposal         OperationType = "close-proposal"
	TypeTransferAdministrator OperationType = "transfer-administrator"
)

func IsValidOperationType(oType string) bool {
	_, b := common.InStringArray([]string{
		string(TypeCreateProposal),
		string(TypeCastVote),
		string(TypeCloseProposal),
		string(TypeTransferAdministrator),
	}, oType)
	return b
}

// Operation is the signed request envelope. The header carries the
// provenance, the body carries the caller and one typed payload.
type Operation struct {
	T string
	H Header
	B Body
}

type Header struct {
	Version   string `json:"version"`
	Created   string `json:"created"`
	Hash      string `json:"hash"`
	Signature string `json:"signature"`
}

type Body struct {
	Source  string        `json:"source"`
	Type    OperationType `json:"type"`
	Payload Payload       `json:"payload"`
}

type Payload interface {
	//
	// Check that this payload is self consistent
	//
	// This routine runs before the ledger is touched, so it may only
	// reject what is visible in the payload itself
	//
	// Returns:
	//   An `error` if the payload is invalid, `nil` otherwise
	//
	IsWellFormed(common.Config) error
}

func (b Body) MakeHash() []byte {
	return common.MustMakeObjectHash(b)
}

func (b Body) MakeHashString() string {
	return base58.Encode(b.MakeHash())
}

func NewOperation(source string, payload Payload) (op Operation, err error) {
	var t OperationType
	switch payload.(type) {
	case CreateProposal:
		t = TypeCreateProposal
	case CastVote:
		t = TypeCastVote
	case CloseProposal:
		t = TypeCloseProposal
	case TransferAdministrator:
		t = TypeTransferAdministrator
	default:
		err = errors.UnknownOperationType
		return
	}

	body := Body{
		Source:  source,
		Type:    t,
		Payload: payload,
	}

	op = Operation{
		T: "operation",
		H: Header{
			Version: CurrentVersion,
			Created: common.NowISO8601(),
			Hash:    body.MakeHashString(),
		},
		B: body,
	}

	return
}

func (o Operation) IsWellFormed(conf common.Config) (err error) {
	checker := &Checker{
		DefaultChecker: common.DefaultChecker{Funcs: WellFormedCheckerFuncs},
		Conf:           conf,
		Operation:      o,
	}
	if err = common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return
	}

	return
}

func (o Operation) GetType() string {
	return o.T
}

func (o Operation) GetHash() string {
	return o.H.Hash
}

func (o Operation) Source() string {
	return o.B.Source
}

func (o Operation) Serialize() (encoded []byte, err error) {
	encoded, err = json.Marshal(o)
	return
}

func (o Operation) String() string {
	encoded, _ := json.MarshalIndent(o, "", "  ")
	return string(encoded)
}

func (o *Operation) Sign(kp keypair.KP, networkID []byte) {
	o.H.Hash = o.B.MakeHashString()
	signature, _ := keypair.MakeSignature(kp, networkID, o.H.Hash)

	o.H.Signature = base58.Encode(signature)

	return
}

type bodyEnvelop struct {
	Source  string          `json:"source"`
	Type    OperationType   `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (b *Body) UnmarshalJSON(data []byte) (err error) {
	var bj bodyEnvelop
	if err = json.Unmarshal(data, &bj); err != nil {
		return
	}

	b.Source = bj.Source
	b.Type = bj.Type

	var payload Payload
	if payload, err = UnmarshalPayloadJSON(bj.Type, bj.Payload); err != nil {
		return
	}
	b.Payload = payload
	return nil
}

func UnmarshalPayloadJSON(t OperationType, b []byte) (Payload, error) {
	if pi, err := newPayloadFromType(t); err != nil {
		return nil, err
	} else if err = json.Unmarshal(b, pi); err != nil {
		return nil, err
	} else {
		// No other way to go from interface-to-pointer to interface-to-value
		// because values within interfaces are not addressable
		return reflect.ValueOf(pi).Elem().Interface().(Payload), nil
	}
}

// Returns: A pointer to a payload with a type matching `ty`
func newPayloadFromType(ty OperationType) (interface{}, error) {
	switch ty {
	case TypeCreateProposal:
		return &CreateProposal{}, nil
	case TypeCastVote:
		return &CastVote{}, nil
	case TypeCloseProposal:
		return &CloseProposal{}, nil
	case TypeTransferAdministrator:
		return &TransferAdministrator{}, nil
	default:
		return nil, errors.InvalidOperation
	}
}
