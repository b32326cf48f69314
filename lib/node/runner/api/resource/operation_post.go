package resource

import (
	"github.com/nvellon/hal"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/operation"
)

// OperationPost is the response of an applied operation: the envelope
// identity plus the resource the operation touched, embedded as `result`.
type OperationPost struct {
	op     operation.Operation
	result Resource
}

func NewOperationPost(op operation.Operation, result Resource) *OperationPost {
	r := &OperationPost{
		op:     op,
		result: result,
	}
	return r
}

func (o OperationPost) GetMap() hal.Entry {
	return hal.Entry{
		"hash":   o.op.GetHash(),
		"type":   string(o.op.B.Type),
		"source": o.op.Source(),
		"status": "applied",
	}
}

func (o OperationPost) Resource() *hal.Resource {
	r := hal.NewResource(o, o.LinkSelf())
	if o.result != nil {
		r.Embed("result", o.result.Resource())
	}
	return r
}

func (o OperationPost) LinkSelf() string {
	if o.result != nil {
		return o.result.LinkSelf()
	}
	return URLOperations
}

func (o OperationPost) MarshalJSON() ([]byte, error) {
	r := o.Resource()
	return common.JSONMarshalWithoutEscapeHTML(r.GetMap())
}
