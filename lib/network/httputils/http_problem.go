package httputils

import (
	"fmt"
	"net/http"

	"maatnet.io/maat/lib/errors"
)

const DefaultProblemType = "about:blank"

// Problem is the problem details object of RFC 7807. Every non-2xx body the
// api surface writes is one of these.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func NewProblem(problemType, title string) Problem {
	return Problem{
		Type:  problemType,
		Title: title,
	}
}

func NewStatusProblem(status int) Problem {
	p := NewProblem(DefaultProblemType, http.StatusText(status))
	p.Status = status
	return p
}

func NewDetailedStatusProblem(status int, detail string) Problem {
	p := NewStatusProblem(status)
	p.Detail = detail
	return p
}

// NewErrorProblem keeps catalog errors distinguishable by their code; the
// type field points at the error's reference url.
func NewErrorProblem(err error, status int) Problem {
	var p Problem
	if e, ok := err.(*errors.Error); ok {
		p = NewProblem(fmt.Sprintf("https://maatnet.io/errors/%d", e.Code), e.Message)
	} else {
		p = NewProblem(DefaultProblemType, err.Error())
	}

	p.Status = status

	return p
}

func (p Problem) SetInstance(instance string) Problem {
	p.Instance = instance
	return p
}
