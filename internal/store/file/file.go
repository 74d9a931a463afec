// Package file implements the flat collection backend: the whole dataset
// lives in memory and every mutation is written through to JSON files before
// the operation completes.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const (
	transactionsFile = "transactions.json"
	usersFile        = "users.json"
)

// Store holds both collections in memory as the single source of truth.
// Mutating calls take the write lock for the whole update-then-persist
// critical section, so no two write-throughs can interleave and readers
// never observe a half-applied change.
type Store struct {
	mu  sync.RWMutex
	dir string

	transactions []core.Transaction
	users        []core.User

	// seq orders records created at the same timestamp: higher means more
	// recently created. In-memory only, rebuilt from file order on load.
	seq     map[string]uint64
	nextSeq uint64
}

// Open loads the collections from dir, creating it and starting from empty
// collections when the files do not exist yet.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", store.ErrUnavailable, err)
	}

	s := &Store{dir: dir, seq: make(map[string]uint64)}
	if err := readCollection(filepath.Join(dir, transactionsFile), &s.transactions); err != nil {
		return nil, err
	}
	if err := readCollection(filepath.Join(dir, usersFile), &s.users); err != nil {
		return nil, err
	}
	for _, t := range s.transactions {
		s.nextSeq++
		s.seq[t.ID] = s.nextSeq
	}
	return s, nil
}

func readCollection(path string, out any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", store.ErrUnavailable, filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: parse %s: %v", store.ErrUnavailable, filepath.Base(path), err)
	}
	return nil
}

// writeCollection serializes the full collection to a temp file and renames
// it into place, so a crash mid-write never leaves a truncated file.
func (s *Store) writeCollection(name string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", store.ErrUnavailable, name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", store.ErrUnavailable, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", store.ErrUnavailable, name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close %s: %v", store.ErrUnavailable, name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replace %s: %v", store.ErrUnavailable, name, err)
	}
	return nil
}

// Insert implements store.TransactionStore.
func (s *Store) Insert(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now

	next := append(append([]core.Transaction(nil), s.transactions...), t)
	if err := s.writeCollection(transactionsFile, next); err != nil {
		return core.Transaction{}, err
	}
	s.transactions = next
	s.nextSeq++
	s.seq[t.ID] = s.nextSeq
	return t, nil
}

// FindByID implements store.TransactionStore.
func (s *Store) FindByID(_ context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

// FindAll implements store.TransactionStore. The full filtered set is
// ordered in memory, then the requested page is sliced from it.
func (s *Store) FindAll(_ context.Context, f core.Filter, p core.Page) ([]core.Transaction, core.PageInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]core.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if f.Matches(t) {
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date.Time) || !a.CreatedAt.Equal(b.CreatedAt) {
			return core.MoreRecent(a, b)
		}
		return s.seq[a.ID] > s.seq[b.ID]
	})

	page := append([]core.Transaction(nil), p.Slice(matched)...)
	return page, core.NewPageInfo(p, len(matched)), nil
}

// Update implements store.TransactionStore. It is a full-field replace of
// the mutable fields; id and creation time are preserved.
func (s *Store) Update(_ context.Context, id string, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Transaction{}, store.ErrNotFound
	}

	updated := s.transactions[idx]
	updated.Title = t.Title
	updated.Type = t.Type
	updated.Amount = t.Amount
	updated.Category = t.Category
	updated.Date = t.Date
	updated.OwnerID = t.OwnerID
	updated.Description = t.Description
	updated.UpdatedAt = time.Now().UTC()

	next := append([]core.Transaction(nil), s.transactions...)
	next[idx] = updated
	if err := s.writeCollection(transactionsFile, next); err != nil {
		return core.Transaction{}, err
	}
	s.transactions = next
	return updated, nil
}

// Delete implements store.TransactionStore.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return store.ErrNotFound
	}

	next := make([]core.Transaction, 0, len(s.transactions)-1)
	next = append(next, s.transactions[:idx]...)
	next = append(next, s.transactions[idx+1:]...)
	if err := s.writeCollection(transactionsFile, next); err != nil {
		return err
	}
	s.transactions = next
	delete(s.seq, id)
	return nil
}

// Purge implements store.Purger, wiping both collections on disk and in
// memory.
func (s *Store) Purge(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeCollection(transactionsFile, []core.Transaction{}); err != nil {
		return err
	}
	if err := s.writeCollection(usersFile, []core.User{}); err != nil {
		return err
	}
	s.transactions = nil
	s.users = nil
	s.seq = make(map[string]uint64)
	s.nextSeq = 0
	return nil
}

// Summary implements store.TransactionStore.
func (s *Store) Summary(_ context.Context, ownerID string) (core.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Summarize(s.ownedLocked(ownerID)), nil
}

// Breakdown implements store.TransactionStore.
func (s *Store) Breakdown(_ context.Context, ownerID string) ([]core.BreakdownEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.BreakdownByCategory(s.ownedLocked(ownerID)), nil
}

func (s *Store) ownedLocked(ownerID string) []core.Transaction {
	if ownerID == "" {
		return s.transactions
	}
	owned := make([]core.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if t.OwnerID == ownerID {
			owned = append(owned, t)
		}
	}
	return owned
}
