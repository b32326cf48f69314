package storage

// ListOptions shapes an iteration over one key prefix: direction, the key
// to resume from, and how many records make a page. The zero value walks
// the whole prefix forward, unbounded.
type ListOptions struct {
	Reverse bool
	Cursor  []byte
	Limit   uint64
}
