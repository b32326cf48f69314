package governance

// Notification payloads delivered over the observer bus and the event
// streams. Timestamps are seconds since epoch, same as the records they
// describe.

type ProposalCreated struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Creator   string `json:"creator"`
	Timestamp int64  `json:"timestamp"`
}

type Voted struct {
	Voter      string `json:"voter"`
	ProposalID uint64 `json:"id"`
	Support    bool   `json:"support"`
	Timestamp  int64  `json:"timestamp"`
}

type ProposalClosed struct {
	ID        uint64 `json:"id"`
	YesCount  uint64 `json:"yes_count"`
	NoCount   uint64 `json:"no_count"`
	Timestamp int64  `json:"timestamp"`
}
