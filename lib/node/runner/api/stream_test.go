package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	observable "github.com/GianlucaGuarini/go-observable"
	"github.com/stretchr/testify/require"

	"maatnet.io/maat/lib/common/keypair"
	"maatnet.io/maat/lib/common/observer"
	"maatnet.io/maat/lib/governance"
)

// waitObserved spins until a listener is registered on the event, so the
// test can trigger without racing the subscription.
func waitObserved(event string) {
	for {
		observer.ResourceObserver.RLock()
		n := len(observer.ResourceObserver.Callbacks[event])
		observer.ResourceObserver.RUnlock()
		if n > 0 {
			return
		}
	}
}

func readEventLine(t *testing.T, reader *bufio.Reader) map[string]interface{} {
	t.Helper()

	line, err := reader.ReadBytes('\n')
	require.NoError(t, err)
	line = bytes.Trim(line, "\n")
	if len(line) == 0 {
		line, err = reader.ReadBytes('\n')
		require.NoError(t, err)
		line = bytes.Trim(line, "\n")
	}
	recv := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(line, &recv))
	return recv
}

func TestGetProposalHandlerStream(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	ts, st, adminKP, lg := prepareAPIServer()
	defer st.Close()
	defer ts.Close()

	ids := prepareProposals(lg, adminKP, 1)

	voterKP := keypair.Random()
	event := observer.NewCondition(observer.Prop, observer.Identifier, "0").String()
	go func() {
		waitObserved(event)
		if err := lg.CastVote(ids[0], voterKP.Address(), true, testCreated); err != nil {
			panic(err)
		}
		wg.Done()
	}()

	// Do a Request
	url := strings.Replace(GetProposalHandlerPattern, "{id}", "0", -1)
	respBody := request(ts, url, true)
	defer respBody.Close()
	reader := bufio.NewReader(respBody)

	{ // the current state comes first
		recv := readEventLine(t, reader)
		require.Equal(t, uint64(0), uint64(recv["id"].(float64)))
		require.Equal(t, uint64(0), uint64(recv["yes_count"].(float64)))
	}

	{ // the vote moves the counters
		recv := readEventLine(t, reader)
		require.Equal(t, uint64(1), uint64(recv["yes_count"].(float64)))
		require.Equal(t, uint64(0), uint64(recv["no_count"].(float64)))
	}
	wg.Wait()
}

func TestGetVotesByProposalHandlerStream(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	ts, st, adminKP, lg := prepareAPIServer()
	defer st.Close()
	defer ts.Close()

	ids := prepareProposals(lg, adminKP, 1)
	voters := prepareVotes(lg, ids[0], 1, 0)

	lateKP := keypair.Random()
	event := observer.NewCondition(observer.Vote, observer.ProposalID, "0").String()
	go func() {
		waitObserved(event)
		if err := lg.CastVote(ids[0], lateKP.Address(), false, testCreated); err != nil {
			panic(err)
		}
		wg.Done()
	}()

	// Do a Request
	url := strings.Replace(GetProposalVotesHandlerPattern, "{id}", "0", -1)
	respBody := request(ts, url, true)
	defer respBody.Close()
	reader := bufio.NewReader(respBody)

	{ // votes cast before the subscription replay first
		recv := readEventLine(t, reader)
		require.Equal(t, voters[0].Address(), recv["voter"])
		require.Equal(t, true, recv["support"])
	}

	{ // then the live one
		recv := readEventLine(t, reader)
		require.Equal(t, lateKP.Address(), recv["voter"])
		require.Equal(t, false, recv["support"])
	}
	wg.Wait()
}

func TestPostSubscribeHandler(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	ts, st, adminKP, lg := prepareAPIServer()
	defer st.Close()
	defer ts.Close()

	voterKP := keypair.Random()
	go func() {
		waitObserved(observer.NewCondition(observer.Prop, observer.Created).String())
		waitObserved(observer.NewCondition(observer.Vote, observer.Cast).String())

		if _, err := lg.CreateProposal("observed", "created while subscribed", adminKP.Address(), testCreated); err != nil {
			panic(err)
		}
		if err := lg.CastVote(uint64(0), voterKP.Address(), true, testCreated); err != nil {
			panic(err)
		}
		wg.Done()
	}()

	// Do a Request
	conditions := []observer.Conditions{
		observer.NewConditions(observer.NewCondition(observer.Prop, observer.Created)),
		observer.NewConditions(observer.NewCondition(observer.Vote, observer.Cast)),
	}
	b, err := json.Marshal(conditions)
	require.NoError(t, err)

	respBody := request(ts, PostSubscribePattern, true, b)
	defer respBody.Close()
	reader := bufio.NewReader(respBody)

	{ // the creation notification
		recv := readEventLine(t, reader)
		require.Equal(t, uint64(0), uint64(recv["id"].(float64)))
		require.Equal(t, "observed", recv["title"])
		require.Equal(t, adminKP.Address(), recv["creator"])
	}

	{ // the vote notification
		recv := readEventLine(t, reader)
		require.Equal(t, voterKP.Address(), recv["voter"])
		require.Equal(t, true, recv["support"])
	}
	wg.Wait()
}

func TestPostSubscribeHandlerNotEventStream(t *testing.T) {
	ts, st, _, _ := prepareAPIServer()
	defer st.Close()
	defer ts.Close()

	b, err := json.Marshal([]observer.Conditions{
		observer.NewConditions(observer.NewCondition(observer.Prop, observer.Created)),
	})
	require.NoError(t, err)

	resp, err := ts.Client().Post(ts.URL+PostSubscribePattern, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIStreamRun(t *testing.T) {
	tests := []struct {
		name       string
		events     []string
		makeStream func(http.ResponseWriter, *http.Request) *EventStream
		trigger    func(*observable.Observable)
		respFunc   func(testing.TB, *http.Response)
	}{
		{
			"default",
			[]string{"test1"},
			func(w http.ResponseWriter, r *http.Request) *EventStream {
				es := NewDefaultEventStream(w, r)
				return es
			},
			func(ob *observable.Observable) {
				p := governance.NewProposal(7, "streamed", "over the wire", "creator", testCreated)
				ob.Trigger("test1", &p)
			},
			func(t testing.TB, res *http.Response) {
				s := bufio.NewScanner(res.Body)
				s.Scan()

				var p governance.Proposal
				require.Nil(t, json.Unmarshal(s.Bytes(), &p))
				require.Nil(t, s.Err())
				require.Equal(t, p, governance.NewProposal(7, "streamed", "over the wire", "creator", testCreated))
			},
		},
		{
			"renderFunc",
			[]string{"test1"},
			func(w http.ResponseWriter, r *http.Request) *EventStream {
				renderFunc := func(args ...interface{}) ([]byte, error) {
					s, ok := args[1].(*governance.Proposal)
					if !ok {
						return nil, fmt.Errorf("this is not serializable")
					}
					bs, err := s.Serialize()
					if err != nil {
						return nil, err
					}
					return bs, nil
				}
				es := NewEventStream(w, r, renderFunc, DefaultContentType)
				return es
			},
			func(ob *observable.Observable) {
				p := governance.NewProposal(7, "streamed", "over the wire", "creator", testCreated)
				ob.Trigger("test1", &p)
			},
			func(t testing.TB, res *http.Response) {
				s := bufio.NewScanner(res.Body)
				s.Scan()

				var p governance.Proposal
				require.Nil(t, json.Unmarshal(s.Bytes(), &p))
				require.Nil(t, s.Err())
				require.Equal(t, p, governance.NewProposal(7, "streamed", "over the wire", "creator", testCreated))
			},
		},
		{
			"renderBeforeObservable",
			[]string{"test1"},
			func(w http.ResponseWriter, r *http.Request) *EventStream {
				es := NewDefaultEventStream(w, r)
				p := governance.NewProposal(7, "streamed", "over the wire", "creator", testCreated)
				es.Render(&p)
				return es
			},
			nil, // no trigger
			func(t testing.TB, res *http.Response) {
				s := bufio.NewScanner(res.Body)
				s.Scan()

				var p governance.Proposal
				require.Nil(t, json.Unmarshal(s.Bytes(), &p))
				require.Nil(t, s.Err())
				require.Equal(t, p, governance.NewProposal(7, "streamed", "over the wire", "creator", testCreated))
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ready := make(chan chan struct{})
			ob := observable.New()

			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				es := test.makeStream(w, r)
				run := es.Start(ob, test.events...)

				if test.trigger != nil {
					c := <-ready
					close(c)
				}

				run()
			}))
			defer ts.Close()

			if test.trigger != nil {
				go func() {
					c := make(chan struct{})
					ready <- c
					<-c
					test.trigger(ob)
				}()
			}

			req, err := http.NewRequest("GET", ts.URL, nil)
			if err != nil {
				t.Fatal(err)
			}
			ctx, cancel := context.WithCancel(req.Context())
			defer cancel()

			req = req.WithContext(ctx)

			res, err := ts.Client().Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer res.Body.Close()

			test.respFunc(t, res)
		})
	}
}
