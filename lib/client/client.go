package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"

	"github.com/sethgrid/pester"

	"maatnet.io/maat/lib/common"
)

const (
	UrlPrefixForAPIV1 = "/api/v1"

	UrlProposals     = "/proposals"
	UrlProposal      = "/proposals/{id}"
	UrlProposalVotes = "/proposals/{id}/votes"
	UrlProposalVote  = "/proposals/{id}/votes/{address}"
	UrlProposalTally = "/proposals/{id}/tally"
	UrlAdministrator = "/administrator"
	UrlOperations    = "/operations"
)

type QueryKey string

func (qk QueryKey) String() string {
	return string(qk)
}

const (
	QueryLimit   QueryKey = "limit"
	QueryReverse QueryKey = "reverse"
	QueryCursor  QueryKey = "cursor"
)

type Q struct {
	Key   QueryKey
	Value string
}

type Queries []Q

// toQueryString renders the known paging keys; anything else is dropped.
func (qs Queries) toQueryString() string {
	if len(qs) == 0 {
		return ""
	}

	values := neturl.Values{}
	for _, q := range qs {
		switch q.Key {
		case QueryLimit, QueryReverse, QueryCursor:
			values.Add(q.Key.String(), q.Value)
		}
	}

	return "?" + values.Encode()
}

// Client talks to one node's public api.
type Client struct {
	URL string

	HTTP *common.HTTP2Client
}

func NewClient(url string) *Client {
	httpClient, err := common.NewPersistentHTTP2Client(
		0,
		0,
		true,
		&common.RetrySetting{MaxRetries: 5, Concurrency: 1, Backoff: pester.ExponentialBackoff},
	)
	if err != nil {
		panic(err)
	}

	return &Client{
		URL:  url,
		HTTP: httpClient,
	}
}

// toResponse decodes the body into response, or into a problem error when
// the status is not 2xx. The body is always closed.
func (c *Client) toResponse(resp *http.Response, response interface{}) error {
	defer resp.Body.Close()
	decoder := json.NewDecoder(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var p Problem
		if err := decoder.Decode(&p); err != nil {
			return err
		}
		return Error{Problem: p}
	}

	return decoder.Decode(response)
}

func (c *Client) Get(path string, headers http.Header) (*http.Response, error) {
	return c.HTTP.Get(c.URL+UrlPrefixForAPIV1+path, headers)
}

func (c *Client) Post(path string, body []byte, headers http.Header) (*http.Response, error) {
	return c.HTTP.Post(c.URL+UrlPrefixForAPIV1+path, body, headers)
}

func (c *Client) getJSON(path string, queries Queries, out interface{}) error {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	resp, err := c.Get(path+queries.toQueryString(), headers)
	if err != nil {
		return err
	}

	return c.toResponse(resp, out)
}

func idUrl(pattern string, id uint64) string {
	return strings.Replace(pattern, "{id}", strconv.FormatUint(id, 10), -1)
}

func (c *Client) Proposal(id uint64, queries ...Q) (Proposal, error) {
	var p Proposal
	err := c.getJSON(idUrl(UrlProposal, id), Queries(queries), &p)
	return p, err
}

func (c *Client) Proposals(queries ...Q) (ProposalsPage, error) {
	var page ProposalsPage
	err := c.getJSON(UrlProposals, Queries(queries), &page)
	return page, err
}

func (c *Client) Votes(id uint64, queries ...Q) (VotesPage, error) {
	var page VotesPage
	err := c.getJSON(idUrl(UrlProposalVotes, id), Queries(queries), &page)
	return page, err
}

func (c *Client) Vote(id uint64, address string, queries ...Q) (Vote, error) {
	path := strings.Replace(idUrl(UrlProposalVote, id), "{address}", address, -1)

	var v Vote
	err := c.getJSON(path, Queries(queries), &v)
	return v, err
}

// HasVoted resolves a missing vote record to `false` instead of an error.
func (c *Client) HasVoted(id uint64, address string) (bool, error) {
	_, err := c.Vote(id, address)
	if err == nil {
		return true, nil
	}
	if e, ok := err.(Error); ok && e.Problem.Status == http.StatusNotFound {
		return false, nil
	}

	return false, err
}

func (c *Client) Tally(id uint64, queries ...Q) (Tally, error) {
	var tally Tally
	err := c.getJSON(idUrl(UrlProposalTally, id), Queries(queries), &tally)
	return tally, err
}

func (c *Client) Administrator(queries ...Q) (Administrator, error) {
	var admin Administrator
	err := c.getJSON(UrlAdministrator, Queries(queries), &admin)
	return admin, err
}

// NodeInfo is served on the root path, outside the api prefix.
func (c *Client) NodeInfo() (NodeInfo, error) {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	var info NodeInfo
	resp, err := c.HTTP.Get(c.URL+"/", headers)
	if err != nil {
		return info, err
	}

	return info, c.toResponse(resp, &info)
}

func (c *Client) SubmitOperation(body []byte) (OperationPost, error) {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	var posted OperationPost
	resp, err := c.Post(UrlOperations, body, headers)
	if err != nil {
		return posted, err
	}

	return posted, c.toResponse(resp, &posted)
}

// Stream follows a server-sent event feed, passing each line to handler
// until the context is done or the connection drops.
func (c *Client) Stream(ctx context.Context, path string, cursor *string, handler func(data []byte) error) error {
	query := neturl.Values{}
	if cursor != nil {
		query.Set("cursor", *cursor)
	}

	headers := http.Header{}
	headers.Set("Accept", "text/event-stream")

	resp, err := c.Get(path+"?"+query.Encode(), headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return err
		}
		if len(line) > 0 {
			handler(line)
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

func proposalLines(handler func(Proposal)) func([]byte) error {
	return func(b []byte) error {
		var p Proposal
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		handler(p)
		return nil
	}
}

func (c *Client) StreamProposal(ctx context.Context, id uint64, cursor *string, handler func(Proposal)) error {
	return c.Stream(ctx, idUrl(UrlProposal, id), cursor, proposalLines(handler))
}

func (c *Client) StreamProposals(ctx context.Context, cursor *string, handler func(Proposal)) error {
	return c.Stream(ctx, UrlProposals, cursor, proposalLines(handler))
}

func (c *Client) StreamVotesByProposal(ctx context.Context, id uint64, cursor *string, handler func(Vote)) error {
	return c.Stream(ctx, idUrl(UrlProposalVotes, id), cursor, func(b []byte) error {
		var v Vote
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		handler(v)
		return nil
	})
}
