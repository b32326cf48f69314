// Test helpers for packages that need a throwaway storage.
package storage

// NewTestStorage opens an in-memory backend. It panics on failure; tests
// have no use for a nil storage.
func NewTestStorage() *LevelDBBackend {
	st := &LevelDBBackend{}
	config, _ := NewConfigFromString("memory://")
	if err := st.Init(config); err != nil {
		panic(err)
	}
	return st
}
