package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"maatnet.io/maat/lib/common/keypair"
	"maatnet.io/maat/lib/common/observer"
	"maatnet.io/maat/lib/errors"
	"maatnet.io/maat/lib/governance"
	"maatnet.io/maat/lib/storage"
)

const testNow int64 = 1500000000

func TestNewLedgerRequiresGenesis(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	_, err := NewLedger(st)
	require.Equal(t, errors.AdministratorNotFound, err)
}

func TestCreateProposal(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	id, err := lg.CreateProposal("raise quorum", "raise the quorum to 2/3", admin, testNow)
	require.NoError(t, err)
	require.Equal(t, uint64(0), id)

	p, err := lg.ProposalInfo(id)
	require.NoError(t, err)
	require.Equal(t, "raise quorum", p.Title)
	require.Equal(t, "raise the quorum to 2/3", p.Description)
	require.Equal(t, uint64(0), p.YesCount)
	require.Equal(t, uint64(0), p.NoCount)
	require.True(t, p.Active)
	require.Equal(t, testNow, p.Created)
	require.Equal(t, admin, p.Creator)

	count, err := lg.ProposalCount()
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)

	// identifiers are handed out sequentially
	id, err = lg.CreateProposal("second", "another proposal", admin, testNow)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	id, err = lg.CreateProposal("third", "yet another proposal", admin, testNow)
	require.NoError(t, err)
	require.Equal(t, uint64(2), id)
}

func TestCreateProposalValidation(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	_, err := lg.CreateProposal("", "description", admin, testNow)
	require.Equal(t, errors.InvalidInput, err)

	_, err = lg.CreateProposal("title", "", admin, testNow)
	require.Equal(t, errors.InvalidInput, err)

	outsider := keypair.Random().Address()
	_, err = lg.CreateProposal("title", "description", outsider, testNow)
	require.True(t, errors.Unauthorized.Equal(err))

	// nothing was persisted by the failed attempts
	count, err := lg.ProposalCount()
	require.NoError(t, err)
	require.Equal(t, uint64(0), count)
}

func TestCastVote(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	id, err := lg.CreateProposal("title", "description", admin, testNow)
	require.NoError(t, err)

	yesVoter := keypair.Random().Address()
	noVoter := keypair.Random().Address()

	require.NoError(t, lg.CastVote(id, yesVoter, true, testNow+10))
	require.NoError(t, lg.CastVote(id, noVoter, false, testNow+20))

	p, err := lg.ProposalInfo(id)
	require.NoError(t, err)
	require.Equal(t, uint64(1), p.YesCount)
	require.Equal(t, uint64(1), p.NoCount)

	voted, err := lg.HasVoted(id, yesVoter)
	require.NoError(t, err)
	require.True(t, voted)

	voted, err = lg.HasVoted(id, keypair.Random().Address())
	require.NoError(t, err)
	require.False(t, voted)

	// the record keeps the answer and the timestamp for audit
	v, err := governance.GetVoteRecord(st, id, noVoter)
	require.NoError(t, err)
	require.False(t, v.Support)
	require.Equal(t, testNow+20, v.Created)
}

func TestCastVoteUnknownProposal(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	voter := keypair.Random().Address()

	err := lg.CastVote(0, voter, true, testNow)
	require.True(t, errors.ProposalNotFound.Equal(err))

	_, err = lg.CreateProposal("title", "description", admin, testNow)
	require.NoError(t, err)

	// the count is the upper bound of the valid range
	err = lg.CastVote(1, voter, true, testNow)
	require.True(t, errors.ProposalNotFound.Equal(err))
}

func TestCastVoteDuplicate(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	id, err := lg.CreateProposal("title", "description", admin, testNow)
	require.NoError(t, err)

	voter := keypair.Random().Address()
	require.NoError(t, lg.CastVote(id, voter, true, testNow))

	// the flipped answer must change nothing
	err = lg.CastVote(id, voter, false, testNow+10)
	require.True(t, errors.DuplicateVote.Equal(err))

	p, err := lg.ProposalInfo(id)
	require.NoError(t, err)
	require.Equal(t, uint64(1), p.YesCount)
	require.Equal(t, uint64(0), p.NoCount)

	v, err := governance.GetVoteRecord(st, id, voter)
	require.NoError(t, err)
	require.True(t, v.Support)
}

func TestCastVoteInactive(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	id, err := lg.CreateProposal("title", "description", admin, testNow)
	require.NoError(t, err)
	require.NoError(t, lg.CloseProposal(id, admin, testNow+10))

	err = lg.CastVote(id, keypair.Random().Address(), true, testNow+20)
	require.True(t, errors.ProposalInactive.Equal(err))
}

func TestCloseProposal(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	err := lg.CloseProposal(0, admin, testNow)
	require.True(t, errors.ProposalNotFound.Equal(err))

	id, err := lg.CreateProposal("title", "description", admin, testNow)
	require.NoError(t, err)

	outsider := keypair.Random().Address()
	err = lg.CloseProposal(id, outsider, testNow+10)
	require.True(t, errors.Unauthorized.Equal(err))

	p, err := lg.ProposalInfo(id)
	require.NoError(t, err)
	require.True(t, p.Active)

	require.NoError(t, lg.CloseProposal(id, admin, testNow+10))

	p, err = lg.ProposalInfo(id)
	require.NoError(t, err)
	require.False(t, p.Active)

	// closing twice must fail, closed is forever
	err = lg.CloseProposal(id, admin, testNow+20)
	require.True(t, errors.ProposalAlreadyClosed.Equal(err))
}

func TestTransferAdministrator(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	successor := keypair.Random().Address()

	err := lg.TransferAdministrator(successor, successor)
	require.True(t, errors.Unauthorized.Equal(err))

	err = lg.TransferAdministrator("", admin)
	require.Equal(t, errors.InvalidInput, err)

	require.NoError(t, lg.TransferAdministrator(successor, admin))

	current, err := lg.Administrator()
	require.NoError(t, err)
	require.Equal(t, successor, current)

	// the old administrator lost every privilege
	_, err = lg.CreateProposal("title", "description", admin, testNow)
	require.True(t, errors.Unauthorized.Equal(err))

	id, err := lg.CreateProposal("title", "description", successor, testNow)
	require.NoError(t, err)
	require.Equal(t, uint64(0), id)
}

func TestVotePercentages(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	id, err := lg.CreateProposal("title", "description", admin, testNow)
	require.NoError(t, err)

	// no votes at all: both shares are zero
	yesPct, noPct, err := lg.VotePercentages(id)
	require.NoError(t, err)
	require.Equal(t, uint64(0), yesPct)
	require.Equal(t, uint64(0), noPct)

	require.NoError(t, lg.CastVote(id, keypair.Random().Address(), true, testNow))
	require.NoError(t, lg.CastVote(id, keypair.Random().Address(), false, testNow))

	yesPct, noPct, err = lg.VotePercentages(id)
	require.NoError(t, err)
	require.Equal(t, uint64(5000), yesPct)
	require.Equal(t, uint64(5000), noPct)

	// floor division: 1 yes, 2 no leaves 3333 + 6666 < 10000
	require.NoError(t, lg.CastVote(id, keypair.Random().Address(), false, testNow))

	yesPct, noPct, err = lg.VotePercentages(id)
	require.NoError(t, err)
	require.Equal(t, uint64(3333), yesPct)
	require.Equal(t, uint64(6666), noPct)

	_, _, err = lg.VotePercentages(99)
	require.True(t, errors.ProposalNotFound.Equal(err))
}

func TestProposalResult(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	id, err := lg.CreateProposal("title", "description", admin, testNow)
	require.NoError(t, err)

	approved, err := lg.ProposalResult(id)
	require.NoError(t, err)
	require.False(t, approved)

	require.NoError(t, lg.CastVote(id, keypair.Random().Address(), true, testNow))

	approved, err = lg.ProposalResult(id)
	require.NoError(t, err)
	require.True(t, approved)

	require.NoError(t, lg.CastVote(id, keypair.Random().Address(), false, testNow))
	require.NoError(t, lg.CastVote(id, keypair.Random().Address(), false, testNow))

	approved, err = lg.ProposalResult(id)
	require.NoError(t, err)
	require.False(t, approved)
}

func TestProposalResultTieNotApproved(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	id, err := lg.CreateProposal("title", "description", admin, testNow)
	require.NoError(t, err)

	require.NoError(t, lg.CastVote(id, keypair.Random().Address(), true, testNow))
	require.NoError(t, lg.CastVote(id, keypair.Random().Address(), false, testNow))

	// equal counts mean no approval, strictly more yes votes are required
	approved, err := lg.ProposalResult(id)
	require.NoError(t, err)
	require.False(t, approved)
}

func TestProposalIDs(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	ids, err := lg.AllProposalIDs()
	require.NoError(t, err)
	require.Equal(t, 0, len(ids))

	active, err := lg.ActiveProposalIDs()
	require.NoError(t, err)
	require.Equal(t, 0, len(active))

	for i := 0; i < 5; i++ {
		_, err := lg.CreateProposal("title", "description", admin, testNow)
		require.NoError(t, err)
	}

	require.NoError(t, lg.CloseProposal(1, admin, testNow))
	require.NoError(t, lg.CloseProposal(3, admin, testNow))

	ids, err = lg.AllProposalIDs()
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 1, 2, 3, 4}, ids)

	active, err = lg.ActiveProposalIDs()
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 2, 4}, active)
}

// The walkthrough scenario: one proposal, two voters, a duplicate attempt,
// a tie, a closure and a late voter.
func TestGovernanceScenario(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	id, err := lg.CreateProposal("A", "desc", admin, testNow)
	require.NoError(t, err)
	require.Equal(t, uint64(0), id)

	x := keypair.Random().Address()
	y := keypair.Random().Address()
	z := keypair.Random().Address()

	require.NoError(t, lg.CastVote(id, x, true, testNow+10))

	err = lg.CastVote(id, x, true, testNow+20)
	require.True(t, errors.DuplicateVote.Equal(err))

	p, err := lg.ProposalInfo(id)
	require.NoError(t, err)
	require.Equal(t, uint64(1), p.YesCount)
	require.Equal(t, uint64(0), p.NoCount)

	require.NoError(t, lg.CastVote(id, y, false, testNow+30))

	yesPct, noPct, err := lg.VotePercentages(id)
	require.NoError(t, err)
	require.Equal(t, uint64(5000), yesPct)
	require.Equal(t, uint64(5000), noPct)

	approved, err := lg.ProposalResult(id)
	require.NoError(t, err)
	require.False(t, approved)

	require.NoError(t, lg.CloseProposal(id, admin, testNow+40))

	err = lg.CastVote(id, z, true, testNow+50)
	require.True(t, errors.ProposalInactive.Equal(err))
}

func TestLedgerPersistence(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	id, err := lg.CreateProposal("title", "description", admin, testNow)
	require.NoError(t, err)
	require.NoError(t, lg.CastVote(id, keypair.Random().Address(), true, testNow))

	closedID, err := lg.CreateProposal("second", "description", admin, testNow)
	require.NoError(t, err)
	require.NoError(t, lg.CloseProposal(closedID, admin, testNow))

	// a fresh ledger over the same storage sees the same state
	reopened, err := NewLedger(st)
	require.NoError(t, err)

	count, err := reopened.ProposalCount()
	require.NoError(t, err)
	require.Equal(t, uint64(2), count)

	p, err := reopened.ProposalInfo(id)
	require.NoError(t, err)
	require.Equal(t, uint64(1), p.YesCount)
	require.True(t, p.Active)

	p, err = reopened.ProposalInfo(closedID)
	require.NoError(t, err)
	require.False(t, p.Active)

	current, err := reopened.Administrator()
	require.NoError(t, err)
	require.Equal(t, admin, current)
}

func TestConcurrentVoters(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	id, err := lg.CreateProposal("title", "description", admin, testNow)
	require.NoError(t, err)

	total := 30

	var g errgroup.Group
	for i := 0; i < total; i++ {
		support := i%2 == 0
		g.Go(func() error {
			return lg.CastVote(id, keypair.Random().Address(), support, testNow)
		})
	}
	require.NoError(t, g.Wait())

	p, err := lg.ProposalInfo(id)
	require.NoError(t, err)
	require.Equal(t, uint64(total), p.YesCount+p.NoCount)
	require.Equal(t, uint64(total/2), p.YesCount)
}

func TestLedgerEvents(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	admin := keypair.Random().Address()
	lg := NewTestLedger(st, admin)

	var wg sync.WaitGroup
	wg.Add(3)

	var created governance.ProposalCreated
	createdFunc := func(args ...interface{}) {
		created = args[0].(governance.ProposalCreated)
		wg.Done()
	}
	createdEvent := observer.NewCondition(observer.Prop, observer.Created).String()
	observer.ResourceObserver.On(createdEvent, createdFunc)
	defer observer.ResourceObserver.Off(createdEvent, createdFunc)

	var voted governance.Voted
	votedFunc := func(args ...interface{}) {
		voted = args[0].(governance.Voted)
		wg.Done()
	}
	votedEvent := observer.NewCondition(observer.Vote, observer.Cast).String()
	observer.ResourceObserver.On(votedEvent, votedFunc)
	defer observer.ResourceObserver.Off(votedEvent, votedFunc)

	var closed governance.ProposalClosed
	closedFunc := func(args ...interface{}) {
		closed = args[0].(governance.ProposalClosed)
		wg.Done()
	}
	closedEvent := observer.NewCondition(observer.Prop, observer.Closed).String()
	observer.ResourceObserver.On(closedEvent, closedFunc)
	defer observer.ResourceObserver.Off(closedEvent, closedFunc)

	id, err := lg.CreateProposal("title", "description", admin, testNow)
	require.NoError(t, err)

	voter := keypair.Random().Address()
	require.NoError(t, lg.CastVote(id, voter, true, testNow+10))
	require.NoError(t, lg.CloseProposal(id, admin, testNow+20))

	wg.Wait()

	require.Equal(t, id, created.ID)
	require.Equal(t, "title", created.Title)
	require.Equal(t, admin, created.Creator)
	require.Equal(t, testNow, created.Timestamp)

	require.Equal(t, voter, voted.Voter)
	require.Equal(t, id, voted.ProposalID)
	require.True(t, voted.Support)
	require.Equal(t, testNow+10, voted.Timestamp)

	require.Equal(t, id, closed.ID)
	require.Equal(t, uint64(1), closed.YesCount)
	require.Equal(t, uint64(0), closed.NoCount)
	require.Equal(t, testNow+20, closed.Timestamp)
}
