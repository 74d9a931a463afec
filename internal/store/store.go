package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

var (
	// ErrNotFound reports an unknown record id on read, update or delete.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail reports a registration against an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("user already exists with this email")

	// ErrUnavailable wraps backend failures: an unreachable document store
	// or an unreadable/unwritable data file. Retry policy is the caller's.
	ErrUnavailable = errors.New("storage unavailable")
)

// Ports for the interchangeable persistence backends. Both implementations
// must produce identical results for the same inputs: the file store
// evaluates core.Filter and the aggregators directly in memory, the mongo
// store mirrors the same semantics server-side.
type (
	TransactionStore interface {
		// Insert persists a new transaction, assigning id and timestamps.
		Insert(ctx context.Context, t core.Transaction) (core.Transaction, error)

		// FindByID returns the transaction or ErrNotFound.
		FindByID(ctx context.Context, id string) (core.Transaction, error)

		// FindAll returns one page of the filtered collection ordered by
		// date descending then creation order descending, plus metadata
		// over the full filtered set.
		FindAll(ctx context.Context, f core.Filter, p core.Page) ([]core.Transaction, core.PageInfo, error)

		// Update replaces the mutable fields of an existing transaction
		// and returns the stored result, or ErrNotFound.
		Update(ctx context.Context, id string, t core.Transaction) (core.Transaction, error)

		// Delete permanently removes a transaction, or returns ErrNotFound.
		Delete(ctx context.Context, id string) error

		// Summary aggregates totals over all records, optionally scoped
		// to one owner.
		Summary(ctx context.Context, ownerID string) (core.Summary, error)

		// Breakdown aggregates expense records per category, optionally
		// scoped to one owner.
		Breakdown(ctx context.Context, ownerID string) ([]core.BreakdownEntry, error)
	}

	// Purger wipes every collection. Both backends implement it; the
	// seeder uses it to start from a clean dataset.
	Purger interface {
		Purge(ctx context.Context) error
	}

	UserStore interface {
		// InsertUser persists a new user or returns ErrDuplicateEmail.
		InsertUser(ctx context.Context, u core.User) (core.User, error)
		FindUserByID(ctx context.Context, id string) (core.User, error)
		FindUserByEmail(ctx context.Context, email string) (core.User, error)
		// UpdateUserProfile replaces name, currency and monthly budget.
		UpdateUserProfile(ctx context.Context, id string, u core.User) (core.User, error)
	}
)
