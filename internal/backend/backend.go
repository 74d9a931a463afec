package backend

import (
	"context"

	"fintrack/internal/store"
)

// Type selects the persistence backend at startup.
type Type string

const (
	FileBackend  Type = "file"
	MongoBackend Type = "mongo"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, MongoBackend:
		return true
	default:
		return false
	}
}

// Config holds what each backend needs to start.
type Config struct {
	Type Type

	// File backend
	DataDir string

	// Mongo backend
	MongoURI string
	MongoDB  string
}

// CleanupFunc releases backend resources.
type CleanupFunc func(ctx context.Context) error

// Result bundles both stores (a single instance implements both ports) and
// an optional cleanup function.
type Result struct {
	Transactions store.TransactionStore
	Users        store.UserStore
	Cleanup      CleanupFunc
}
