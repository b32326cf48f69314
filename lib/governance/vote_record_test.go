package governance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"maatnet.io/maat/lib/errors"
	"maatnet.io/maat/lib/storage"
)

func TestSaveNewVoteRecord(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	voter := TestMakeAddress()
	v := NewVoteRecord(0, voter, true, 1500000000)
	require.NoError(t, v.Save(st))

	exists, err := ExistsVoteRecord(st, 0, voter)
	require.NoError(t, err)
	require.True(t, exists)

	fetched, err := GetVoteRecord(st, 0, voter)
	require.NoError(t, err)
	require.Equal(t, v, fetched)
}

func TestSaveVoteRecordRefusesDuplicate(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	voter := TestMakeAddress()
	v := NewVoteRecord(0, voter, true, 1500000000)
	require.NoError(t, v.Save(st))

	// the flipped answer must not replace the first one
	again := NewVoteRecord(0, voter, false, 1500000010)
	err := again.Save(st)
	require.Equal(t, errors.DuplicateVote, err)

	fetched, err := GetVoteRecord(st, 0, voter)
	require.NoError(t, err)
	require.True(t, fetched.Support)
}

func TestVoteRecordSameVoterDifferentProposals(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	voter := TestMakeAddress()
	require.NoError(t, NewVoteRecord(0, voter, true, 1500000000).Save(st))
	require.NoError(t, NewVoteRecord(1, voter, false, 1500000000).Save(st))

	exists, err := ExistsVoteRecord(st, 0, voter)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = ExistsVoteRecord(st, 1, voter)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestVoteRecordsIterateInVotingOrder(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	var votingOrder []string
	for i := 0; i < 30; i++ {
		voter := TestMakeAddress()
		require.NoError(t, NewVoteRecord(3, voter, i%2 == 0, 1500000000).Save(st))

		votingOrder = append(votingOrder, voter)
	}

	// another proposal's votes must not leak into the iteration
	require.NoError(t, NewVoteRecord(4, TestMakeAddress(), true, 1500000000).Save(st))

	var collected []string
	iterFunc, closeFunc := GetVoteRecordsByProposal(st, 3, storage.ListOptions{})
	for {
		v, hasNext, _ := iterFunc()
		if !hasNext {
			break
		}

		require.Equal(t, uint64(3), v.ProposalID)
		collected = append(collected, v.Voter)
	}
	closeFunc()

	require.Equal(t, votingOrder, collected)
}

func TestVoteRecordsIterationLimit(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, NewVoteRecord(0, TestMakeAddress(), true, 1500000000).Save(st))
	}

	var collected []VoteRecord
	iterFunc, closeFunc := GetVoteRecordsByProposal(st, 0, storage.ListOptions{Limit: 4})
	for {
		v, hasNext, _ := iterFunc()
		if !hasNext {
			break
		}

		collected = append(collected, v)
	}
	closeFunc()

	require.Equal(t, 4, len(collected))
}
