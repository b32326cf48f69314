package resource

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/governance"
	"maatnet.io/maat/lib/ledger"
)

func TestResourceProposal(t *testing.T) {
	p := governance.NewProposal(3, "raise quorum", "raise the quorum to 2/3", "GADMIN", 1500000000)
	p.YesCount = 2
	p.NoCount = 1

	rp := NewProposal(p)
	j, _ := json.MarshalIndent(rp.Resource(), "", " ")

	var f interface{}
	common.MustUnmarshalJSON(j, &f)
	m := f.(map[string]interface{})
	require.Equal(t, p.ID, uint64(m["id"].(float64)))
	require.Equal(t, p.Title, m["title"])
	require.Equal(t, p.Description, m["description"])
	require.Equal(t, p.YesCount, uint64(m["yes_count"].(float64)))
	require.Equal(t, p.NoCount, uint64(m["no_count"].(float64)))
	require.Equal(t, true, m["active"])
	require.Equal(t, p.Creator, m["creator"])

	l := m["_links"].(map[string]interface{})
	require.Equal(t, "/api/v1/proposals/3", l["self"].(map[string]interface{})["href"])
	require.Equal(t, "/api/v1/proposals/3/votes{?cursor,limit,reverse}", l["votes"].(map[string]interface{})["href"])
	require.Equal(t, "/api/v1/proposals/3/tally", l["tally"].(map[string]interface{})["href"])
}

func TestResourceVote(t *testing.T) {
	v := governance.NewVoteRecord(3, "GVOTER", true, 1500000000)

	rv := NewVote(v)
	j, _ := json.MarshalIndent(rv.Resource(), "", " ")

	var f interface{}
	common.MustUnmarshalJSON(j, &f)
	m := f.(map[string]interface{})
	require.Equal(t, v.ProposalID, uint64(m["proposal_id"].(float64)))
	require.Equal(t, v.Voter, m["voter"])
	require.Equal(t, v.Support, m["support"])

	l := m["_links"].(map[string]interface{})
	require.Equal(t, "/api/v1/proposals/3/votes/GVOTER", l["self"].(map[string]interface{})["href"])
	require.Equal(t, "/api/v1/proposals/3", l["proposal"].(map[string]interface{})["href"])
}

func TestResourceTally(t *testing.T) {
	p := governance.NewProposal(0, "t", "d", "GADMIN", 1500000000)
	p.YesCount = 1
	p.NoCount = 2

	rt := NewTally(p)
	j, _ := json.MarshalIndent(rt.Resource(), "", " ")

	var f interface{}
	common.MustUnmarshalJSON(j, &f)
	m := f.(map[string]interface{})
	require.Equal(t, uint64(3333), uint64(m["yes_percent"].(float64)))
	require.Equal(t, uint64(6666), uint64(m["no_percent"].(float64)))
	require.Equal(t, ledger.TallyScale, uint64(m["scale"].(float64)))
	require.Equal(t, false, m["approved"])

	l := m["_links"].(map[string]interface{})
	require.Equal(t, "/api/v1/proposals/0/tally", l["self"].(map[string]interface{})["href"])
}

func TestResourceTallyNoVotes(t *testing.T) {
	p := governance.NewProposal(1, "t", "d", "GADMIN", 1500000000)

	rt := NewTally(p)
	entry := rt.GetMap()
	require.Equal(t, uint64(0), entry["yes_percent"])
	require.Equal(t, uint64(0), entry["no_percent"])
	require.Equal(t, false, entry["approved"])
}

func TestResourceAdministrator(t *testing.T) {
	a := governance.NewAdministrator("GADMIN")

	ra := NewAdministrator(a)
	j, _ := json.MarshalIndent(ra.Resource(), "", " ")

	var f interface{}
	common.MustUnmarshalJSON(j, &f)
	m := f.(map[string]interface{})
	require.Equal(t, a.Address, m["address"])

	l := m["_links"].(map[string]interface{})
	require.Equal(t, URLAdministrator, l["self"].(map[string]interface{})["href"])
}

func TestResourceList(t *testing.T) {
	var rs []Resource
	for i := uint64(0); i < 3; i++ {
		p := governance.NewProposal(i, "t", "d", "GADMIN", 1500000000)
		rs = append(rs, NewProposal(p))
	}

	self := "/api/v1/proposals?limit=3"
	next := "/api/v1/proposals?cursor=x&reverse=false&limit=3"
	prev := "/api/v1/proposals?cursor=y&reverse=true&limit=3"
	rl := NewResourceList(rs, self, next, prev)
	j, _ := json.MarshalIndent(rl.Resource(), "", " ")

	var f interface{}
	common.MustUnmarshalJSON(j, &f)
	m := f.(map[string]interface{})

	l := m["_links"].(map[string]interface{})
	require.Equal(t, self, l["self"].(map[string]interface{})["href"])
	require.Equal(t, next, l["next"].(map[string]interface{})["href"])
	require.Equal(t, prev, l["prev"].(map[string]interface{})["href"])

	records := m["_embedded"].(map[string]interface{})["records"].([]interface{})
	require.Equal(t, 3, len(records))
	for i, v := range records {
		record := v.(map[string]interface{})
		require.Equal(t, uint64(i), uint64(record["id"].(float64)))
		l := record["_links"].(map[string]interface{})
		require.True(t, strings.HasPrefix(l["self"].(map[string]interface{})["href"].(string), "/api/v1/proposals/"))
	}
}
