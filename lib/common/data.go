package common

// Serializable is anything that can render itself to bytes; the storage
// layer persists these.
type Serializable interface {
	Serialize() ([]byte, error)
}
