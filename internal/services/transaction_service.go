package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// TransactionService orchestrates transaction operations across the record
// store and the optional AMQP event publisher.
type TransactionService struct {
	store      store.TransactionStore
	amqpClient *amqp.Client
}

func NewTransactionService(store store.TransactionStore, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// Create validates and persists a new transaction, then publishes a
// created event.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.store.Insert(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishEvent(ctx, saved.ID, amqp.ActionCreated)
	return saved, nil
}

// Get returns a transaction by id.
func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.FindByID(ctx, id)
}

// List returns one page of the filtered, date-ordered collection.
func (s *TransactionService) List(ctx context.Context, f core.Filter, p core.Page) ([]core.Transaction, core.PageInfo, error) {
	return s.store.FindAll(ctx, f, p)
}

// Update validates and replaces an existing transaction, then publishes an
// updated event.
func (s *TransactionService) Update(ctx context.Context, id string, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	updated, err := s.store.Update(ctx, id, t)
	if err != nil {
		return core.Transaction{}, err
	}

	s.publishEvent(ctx, id, amqp.ActionUpdated)
	return updated, nil
}

// Delete removes a transaction permanently, then publishes a deleted event.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(ctx, id, amqp.ActionDeleted)
	return nil
}

// Summary aggregates totals, optionally scoped to one owner.
func (s *TransactionService) Summary(ctx context.Context, ownerID string) (core.Summary, error) {
	return s.store.Summary(ctx, ownerID)
}

// Breakdown aggregates expenses per category, optionally scoped to one owner.
func (s *TransactionService) Breakdown(ctx context.Context, ownerID string) ([]core.BreakdownEntry, error) {
	return s.store.Breakdown(ctx, ownerID)
}

// publishEvent is best-effort: the mutation already succeeded locally, so a
// broker failure is logged and never surfaces to the caller.
func (s *TransactionService) publishEvent(ctx context.Context, id, action string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishTransactionEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "action", action, "error", err)
	}
}

// Close closes the AMQP connection if one was configured.
func (s *TransactionService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close transaction service: %w", err)
		}
	}
	return nil
}
