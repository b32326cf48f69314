package storage

type Item struct {
	Key   string
	Value interface{}
}

type IterItem struct {
	N     uint64
	Key   []byte
	Value []byte
}

// Clone copies the item out of the iterator's shared buffers; keep the
// result, not the original, past the next iteration step.
func (i IterItem) Clone() IterItem {
	key := make([]byte, len(i.Key))
	copy(key, i.Key)

	value := make([]byte, len(i.Value))
	copy(value, i.Value)

	return IterItem{
		N:     i.N,
		Key:   key,
		Value: value,
	}
}
