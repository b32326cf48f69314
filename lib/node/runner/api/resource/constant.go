package resource

const (
	APIVersionV1 = "/v1"
	APIPrefix    = "/api"

	URLProposals     = APIPrefix + APIVersionV1 + "/proposals"
	URLProposal      = APIPrefix + APIVersionV1 + "/proposals/{id}"
	URLProposalVotes = APIPrefix + APIVersionV1 + "/proposals/{id}/votes"
	URLProposalVote  = APIPrefix + APIVersionV1 + "/proposals/{id}/votes/{address}"
	URLProposalTally = APIPrefix + APIVersionV1 + "/proposals/{id}/tally"
	URLAdministrator = APIPrefix + APIVersionV1 + "/administrator"
	URLOperations    = APIPrefix + APIVersionV1 + "/operations"
)
