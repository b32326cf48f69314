package api

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	observable "github.com/GianlucaGuarini/go-observable"

	"maatnet.io/maat/lib/common/observer"
	"maatnet.io/maat/lib/errors"
	"maatnet.io/maat/lib/governance"
	"maatnet.io/maat/lib/network/httputils"
	"maatnet.io/maat/lib/node/runner/api/resource"
)

const DefaultContentType = "application/json"

// renderEventResource turns an observer payload into its api resource; the
// ledger triggers with `*governance.Proposal` and `*governance.VoteRecord`,
// handlers render initial frames with the resources themselves.
func renderEventResource(args ...interface{}) ([]byte, error) {
	if len(args) <= 1 {
		return nil, fmt.Errorf("render: value is empty")
	}
	i := args[1]

	if i == nil {
		return []byte{}, nil
	}

	switch v := i.(type) {
	case *governance.Proposal:
		return json.Marshal(resource.NewProposal(*v).Resource())
	case governance.Proposal:
		return json.Marshal(resource.NewProposal(v).Resource())
	case *governance.VoteRecord:
		return json.Marshal(resource.NewVote(*v).Resource())
	case governance.VoteRecord:
		return json.Marshal(resource.NewVote(v).Resource())
	case resource.Resource:
		return json.Marshal(v.Resource())
	}

	return json.Marshal(i)
}

// PostSubscribeHandler opens one stream over an arbitrary set of observer
// conditions; the request body is a json array of condition groups.
func (api NetworkHandlerAPI) PostSubscribeHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if !httputils.IsEventStream(r) {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}
	var groups []observer.Conditions
	if err := json.Unmarshal(body, &groups); err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter)
		return
	}

	var events []string
	for _, conditions := range groups {
		events = append(events, conditions.Event())
	}

	es := NewEventStream(w, r, renderEventResource, DefaultContentType)
	es.Render(nil)
	es.Run(observer.ResourceObserver, events...)
}

// EventStream writes newline-delimited json frames over a chunked response,
// one frame per observer trigger, until the request context ends.
type EventStream struct {
	contentType string
	renderFunc  RenderFunc
	request     *http.Request
	writer      http.ResponseWriter
	flusher     http.Flusher
	err         error
	rendered    bool
	stop        chan struct{}
}

// RenderFunc shapes one frame; args[0] is the event name (or "pre" for
// frames rendered before the subscription), args[1] the payload.
type RenderFunc func(args ...interface{}) ([]byte, error)

var RenderJSONFunc = func(args ...interface{}) ([]byte, error) {
	if len(args) <= 1 {
		return nil, fmt.Errorf("render: value is empty")
	}
	v := args[1]
	if v == nil {
		return nil, nil
	}

	return json.Marshal(v)
}

func NewDefaultEventStream(w http.ResponseWriter, r *http.Request) *EventStream {
	return NewEventStream(w, r, RenderJSONFunc, DefaultContentType)
}

func NewEventStream(w http.ResponseWriter, r *http.Request, renderFunc RenderFunc, ct string) *EventStream {
	es := &EventStream{
		request:     r,
		writer:      w,
		renderFunc:  renderFunc,
		contentType: ct,
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		es.err = fmt.Errorf("http: streaming needs a flushable response writer")
		return es
	}
	es.flusher = flusher

	return es
}

// Render writes one frame outside the subscription, usually the current
// state before the live updates begin.
func (s *EventStream) Render(args ...interface{}) {
	if s.err != nil {
		return
	}

	payload, err := s.renderFunc(append([]interface{}{"pre"}, args...)...)
	if err != nil {
		payload = s.errMessage(err)
	}

	if !s.rendered {
		s.writer.Header().Set("Content-Type", s.contentType)
		s.rendered = true
	}

	fmt.Fprintf(s.writer, "%s\n", payload)
	s.flusher.Flush()
}

// Run subscribes and blocks until the client goes away.
func (s *EventStream) Run(ob *observable.Observable, events ...string) {
	s.Start(ob, events...)()
}

// Start registers the listener and returns the loop that pumps frames to
// the client; the split lets a handler do work between subscribing and
// serving.
func (s *EventStream) Start(ob *observable.Observable, events ...string) func() {
	if s.err != nil {
		http.Error(s.writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return func() {}
	}

	event := strings.Join(events, " ")
	frames := make(chan []byte)
	s.stop = make(chan struct{})

	relay := func(args ...interface{}) {
		render := args
		if len(args) <= 1 {
			render = append([]interface{}{event}, args...)
		}

		payload, err := s.renderFunc(render...)
		if err != nil {
			frames <- s.errMessage(err)
		}

		select {
		case frames <- payload:
		case <-s.stop:
		}
	}
	ob.On(event, relay)

	return func() {
		defer ob.Off(event, relay)

		for {
			select {
			case payload := <-frames:
				fmt.Fprintf(s.writer, "%s\n", payload)
				s.flusher.Flush()
			case <-s.request.Context().Done():
				close(s.stop)
				return
			}
		}
	}
}

func (s *EventStream) errMessage(err error) []byte {
	problem := httputils.NewErrorProblem(err, httputils.StatusCode(err))
	b, err := json.Marshal(problem)
	if err != nil {
		return []byte{}
	}

	return b
}
