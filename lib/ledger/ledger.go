package ledger

import (
	"strconv"
	"sync"
	"time"

	logging "github.com/inconshreveable/log15"

	"maatnet.io/maat/lib/common/observer"
	"maatnet.io/maat/lib/errors"
	"maatnet.io/maat/lib/governance"
	"maatnet.io/maat/lib/metrics"
	"maatnet.io/maat/lib/storage"
)

// TallyScale is the fixed-point scale of vote percentages;
// 10000 == 100.00%.
const TallyScale uint64 = 10000

// Operation names used in logs and metrics labels.
const (
	OperationCreateProposal        = "create-proposal"
	OperationCastVote              = "cast-vote"
	OperationCloseProposal         = "close-proposal"
	OperationTransferAdministrator = "transfer-administrator"
)

// Ledger is the governance state machine. It is a single logical sequential
// machine: every mutation runs alone under the write lock, validates
// completely, then persists in one storage transaction; queries share the
// read lock. Partial application is never observable.
type Ledger struct {
	sync.RWMutex

	storage *storage.LevelDBBackend
	active  uint64
	log     logging.Logger
}

// NewLedger opens the state machine over genesis-initialized storage; it
// refuses storage without an administrator record.
func NewLedger(st *storage.LevelDBBackend) (lg *Ledger, err error) {
	var exists bool
	if exists, err = governance.ExistsAdministrator(st); err != nil {
		return
	} else if !exists {
		err = errors.AdministratorNotFound
		return
	}

	if exists, err = governance.ExistsProposalCount(st); err != nil {
		return
	} else if !exists {
		if err = governance.SetProposalCount(st, 0); err != nil {
			return
		}
	}

	lg = &Ledger{
		storage: st,
		log:     log,
	}

	var count uint64
	if count, err = governance.GetProposalCount(st); err != nil {
		return nil, err
	}
	if lg.active, err = lg.countActive(); err != nil {
		return nil, err
	}

	metrics.Ledger.SetProposals(count)
	metrics.Ledger.SetActiveProposals(lg.active)

	lg.log.Info("ledger opened", "proposals", count, "active", lg.active)

	return
}

func (lg *Ledger) countActive() (n uint64, err error) {
	iterFunc, closeFunc := governance.GetProposals(lg.storage, storage.ListOptions{})
	defer closeFunc()

	for {
		p, hasNext, _ := iterFunc()
		if !hasNext {
			break
		}

		if p.Active {
			n++
		}
	}

	return
}

// getProposal resolves an id inside `[0, count)` or fails with
// `ProposalNotFound`. The caller must hold the lock.
func (lg *Ledger) getProposal(id uint64) (governance.Proposal, error) {
	count, err := governance.GetProposalCount(lg.storage)
	if err != nil {
		return governance.Proposal{}, err
	}
	if id >= count {
		return governance.Proposal{}, errors.ProposalNotFound.Clone().SetData("id", id)
	}

	return governance.GetProposal(lg.storage, id)
}

// CreateProposal allocates the next sequential id and stores a new active
// proposal. Only the administrator may create.
func (lg *Ledger) CreateProposal(title, description, creator string, now int64) (uint64, error) {
	began := time.Now()

	lg.Lock()
	defer lg.Unlock()

	if len(title) < 1 || len(description) < 1 {
		return 0, errors.InvalidInput
	}

	admin, err := governance.GetAdministrator(lg.storage)
	if err != nil {
		return 0, err
	}
	if creator != admin.Address {
		return 0, errors.Unauthorized.Clone().SetData("creator", creator)
	}

	id, err := governance.GetProposalCount(lg.storage)
	if err != nil {
		return 0, err
	}

	if exists, err := governance.ExistsProposal(lg.storage, id); err != nil {
		return 0, err
	} else if exists {
		return 0, errors.ProposalAlreadyExists.Clone().SetData("id", id)
	}

	p := governance.NewProposal(id, title, description, creator, now)

	ts, err := lg.storage.OpenTransaction()
	if err != nil {
		return 0, err
	}

	if err := p.Save(ts); err != nil {
		ts.Discard()
		return 0, err
	}
	if err := governance.SetProposalCount(ts, id+1); err != nil {
		ts.Discard()
		return 0, err
	}
	if err := ts.Commit(); err != nil {
		ts.Discard()
		return 0, err
	}

	lg.active++

	metrics.Ledger.SetProposals(id + 1)
	metrics.Ledger.SetActiveProposals(lg.active)
	metrics.Ledger.ObserveApply(OperationCreateProposal, time.Since(began).Seconds())
	lg.log.Info("proposal created", "id", id, "title", title, "creator", creator)

	lg.triggerProposalCreated(p)

	return id, nil
}

// CastVote records one vote per (proposal, voter) and moves the matching
// counter. The duplicate check and the increment are one atomic step.
func (lg *Ledger) CastVote(proposalID uint64, voter string, support bool, now int64) error {
	began := time.Now()

	lg.Lock()
	defer lg.Unlock()

	if len(voter) < 1 {
		return errors.InvalidInput
	}

	p, err := lg.getProposal(proposalID)
	if err != nil {
		return err
	}
	if !p.Active {
		return errors.ProposalInactive.Clone().SetData("id", proposalID)
	}

	if exists, err := governance.ExistsVoteRecord(lg.storage, proposalID, voter); err != nil {
		return err
	} else if exists {
		return errors.DuplicateVote.Clone().SetData("id", proposalID).SetData("voter", voter)
	}

	v := governance.NewVoteRecord(proposalID, voter, support, now)
	if support {
		p.YesCount++
	} else {
		p.NoCount++
	}

	ts, err := lg.storage.OpenTransaction()
	if err != nil {
		return err
	}

	if err := v.Save(ts); err != nil {
		ts.Discard()
		return err
	}
	if err := p.Save(ts); err != nil {
		ts.Discard()
		return err
	}
	if err := ts.Commit(); err != nil {
		ts.Discard()
		return err
	}

	metrics.Ledger.IncVotes()
	metrics.Ledger.ObserveApply(OperationCastVote, time.Since(began).Seconds())
	lg.log.Info("vote cast", "id", proposalID, "voter", voter, "support", support)

	lg.triggerVoted(p, v)

	return nil
}

// CloseProposal retires a proposal permanently. Only the administrator may
// close, and only once per proposal.
func (lg *Ledger) CloseProposal(proposalID uint64, caller string, now int64) error {
	began := time.Now()

	lg.Lock()
	defer lg.Unlock()

	p, err := lg.getProposal(proposalID)
	if err != nil {
		return err
	}

	admin, err := governance.GetAdministrator(lg.storage)
	if err != nil {
		return err
	}
	if caller != admin.Address {
		return errors.Unauthorized.Clone().SetData("caller", caller)
	}

	if !p.Active {
		return errors.ProposalAlreadyClosed.Clone().SetData("id", proposalID)
	}

	p.Active = false
	if err := p.Save(lg.storage); err != nil {
		return err
	}

	lg.active--

	metrics.Ledger.SetActiveProposals(lg.active)
	metrics.Ledger.ObserveApply(OperationCloseProposal, time.Since(began).Seconds())
	lg.log.Info("proposal closed", "id", proposalID, "yes", p.YesCount, "no", p.NoCount)

	lg.triggerProposalClosed(p, now)

	return nil
}

// TransferAdministrator hands the administrator role to another address.
// Only the current holder may transfer; no history is kept.
func (lg *Ledger) TransferAdministrator(newAdmin, caller string) error {
	began := time.Now()

	lg.Lock()
	defer lg.Unlock()

	admin, err := governance.GetAdministrator(lg.storage)
	if err != nil {
		return err
	}
	if caller != admin.Address {
		return errors.Unauthorized.Clone().SetData("caller", caller)
	}

	if len(newAdmin) < 1 {
		return errors.InvalidInput
	}

	if err := governance.NewAdministrator(newAdmin).Save(lg.storage); err != nil {
		return err
	}

	metrics.Ledger.ObserveApply(OperationTransferAdministrator, time.Since(began).Seconds())
	lg.log.Info("administrator transferred", "from", caller, "to", newAdmin)

	return nil
}

// HasVoted reports the (proposal, voter) membership fact.
func (lg *Ledger) HasVoted(proposalID uint64, voter string) (bool, error) {
	lg.RLock()
	defer lg.RUnlock()

	if _, err := lg.getProposal(proposalID); err != nil {
		return false, err
	}

	return governance.ExistsVoteRecord(lg.storage, proposalID, voter)
}

// ProposalInfo returns the stored proposal.
func (lg *Ledger) ProposalInfo(proposalID uint64) (governance.Proposal, error) {
	lg.RLock()
	defer lg.RUnlock()

	return lg.getProposal(proposalID)
}

// AllProposalIDs returns every id ever assigned, ascending. Identifiers are
// sequential, so this is `[0, count)`.
func (lg *Ledger) AllProposalIDs() ([]uint64, error) {
	lg.RLock()
	defer lg.RUnlock()

	count, err := governance.GetProposalCount(lg.storage)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, count)
	for id := uint64(0); id < count; id++ {
		ids = append(ids, id)
	}

	return ids, nil
}

// ActiveProposalIDs returns the ids still open for voting, ascending. This
// scans every proposal; the cost grows with the total count.
func (lg *Ledger) ActiveProposalIDs() ([]uint64, error) {
	lg.RLock()
	defer lg.RUnlock()

	ids := []uint64{}

	iterFunc, closeFunc := governance.GetProposals(lg.storage, storage.ListOptions{})
	defer closeFunc()

	for {
		p, hasNext, _ := iterFunc()
		if !hasNext {
			break
		}

		if p.Active {
			ids = append(ids, p.ID)
		}
	}

	return ids, nil
}

// VotePercentages returns the yes and no shares scaled by `TallyScale`,
// floor-divided; with no votes both are 0. The two shares may not add up to
// the full scale, that rounding loss is accepted.
func (lg *Ledger) VotePercentages(proposalID uint64) (yesPct, noPct uint64, err error) {
	lg.RLock()
	defer lg.RUnlock()

	var p governance.Proposal
	if p, err = lg.getProposal(proposalID); err != nil {
		return
	}

	total := p.YesCount + p.NoCount
	if total == 0 {
		return 0, 0, nil
	}

	yesPct = p.YesCount * TallyScale / total
	noPct = p.NoCount * TallyScale / total

	return
}

// ProposalResult reports approval: strictly more yes than no votes. A tie
// is not approved.
func (lg *Ledger) ProposalResult(proposalID uint64) (bool, error) {
	lg.RLock()
	defer lg.RUnlock()

	p, err := lg.getProposal(proposalID)
	if err != nil {
		return false, err
	}

	return p.YesCount > p.NoCount, nil
}

// Administrator returns the current administrator address.
func (lg *Ledger) Administrator() (string, error) {
	lg.RLock()
	defer lg.RUnlock()

	admin, err := governance.GetAdministrator(lg.storage)
	if err != nil {
		return "", err
	}

	return admin.Address, nil
}

// ProposalCount returns the number of proposals ever created.
func (lg *Ledger) ProposalCount() (uint64, error) {
	lg.RLock()
	defer lg.RUnlock()

	return governance.GetProposalCount(lg.storage)
}

func formatProposalID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func (lg *Ledger) triggerProposalCreated(p governance.Proposal) {
	var (
		t    = observer.ResourceObserver.Trigger
		cond = observer.NewCondition
	)

	ev := governance.ProposalCreated{
		ID:        p.ID,
		Title:     p.Title,
		Creator:   p.Creator,
		Timestamp: p.Created,
	}

	t(cond(observer.Prop, observer.Created).String(), ev)
	t(cond(observer.Prop, observer.All).String(), &p)
	t(cond(observer.Prop, observer.Identifier, formatProposalID(p.ID)).String(), &p)
}

func (lg *Ledger) triggerVoted(p governance.Proposal, v governance.VoteRecord) {
	var (
		t    = observer.ResourceObserver.Trigger
		cond = observer.NewCondition
	)

	ev := governance.Voted{
		Voter:      v.Voter,
		ProposalID: v.ProposalID,
		Support:    v.Support,
		Timestamp:  v.Created,
	}

	t(cond(observer.Vote, observer.Cast).String(), ev)
	t(cond(observer.Vote, observer.All).String(), &v)
	t(cond(observer.Vote, observer.ProposalID, formatProposalID(v.ProposalID)).String(), &v)

	// the counters moved, so the proposal listeners hear it too
	t(cond(observer.Prop, observer.Identifier, formatProposalID(p.ID)).String(), &p)
}

func (lg *Ledger) triggerProposalClosed(p governance.Proposal, now int64) {
	var (
		t    = observer.ResourceObserver.Trigger
		cond = observer.NewCondition
	)

	ev := governance.ProposalClosed{
		ID:        p.ID,
		YesCount:  p.YesCount,
		NoCount:   p.NoCount,
		Timestamp: now,
	}

	t(cond(observer.Prop, observer.Closed).String(), ev)
	t(cond(observer.Prop, observer.All).String(), &p)
	t(cond(observer.Prop, observer.Identifier, formatProposalID(p.ID)).String(), &p)
}
