package http

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, page := parseListQuery(r.URL.Query())

	items, info, err := s.transactions.List(r.Context(), filter, page)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}
	if items == nil {
		items = []core.Transaction{}
	}
	writePage(w, items, info)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.transactions.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Get transaction error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch transaction")
		return
	}
	writeData(w, http.StatusOK, t)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := decodeTransaction(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	saved, err := s.transactions.Create(r.Context(), t)
	if err != nil {
		if isValidationError(err) {
			writeValidationError(w, err)
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}
	writeDataMessage(w, http.StatusCreated, saved, "Transaction created successfully")
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := decodeTransaction(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	updated, err := s.transactions.Update(r.Context(), r.PathValue("id"), t)
	if err != nil {
		switch {
		case isValidationError(err):
			writeValidationError(w, err)
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Transaction not found")
		default:
			slog.ErrorContext(r.Context(), "Update transaction error", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update transaction")
		}
		return
	}
	writeDataMessage(w, http.StatusOK, updated, "Transaction updated successfully")
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := s.transactions.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	writeMessage(w, http.StatusOK, "Transaction deleted successfully")
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.transactions.Summary(r.Context(), r.URL.Query().Get("ownerId"))
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch summary")
		return
	}
	writeData(w, http.StatusOK, summary)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := s.transactions.Breakdown(r.Context(), r.URL.Query().Get("ownerId"))
	if err != nil {
		slog.ErrorContext(r.Context(), "Breakdown error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch breakdown")
		return
	}
	if breakdown == nil {
		breakdown = []core.BreakdownEntry{}
	}
	writeData(w, http.StatusOK, breakdown)
}

// handleDashboard serves the landing page's data needs in one call, fetching
// summary and breakdown concurrently.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("ownerId")

	var (
		summary   core.Summary
		breakdown []core.BreakdownEntry
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		summary, err = s.transactions.Summary(ctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		breakdown, err = s.transactions.Breakdown(ctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch dashboard")
		return
	}
	if breakdown == nil {
		breakdown = []core.BreakdownEntry{}
	}
	writeData(w, http.StatusOK, map[string]any{
		"summary":   summary,
		"breakdown": breakdown,
	})
}
