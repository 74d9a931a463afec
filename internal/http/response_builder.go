// Package http provides the REST boundary over the transaction and user
// services. Handlers translate between the API envelope and the core
// contracts; no business logic lives here.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
)

// envelope is the response shape shared by every endpoint.
type envelope struct {
	Success    bool           `json:"success"`
	Data       any            `json:"data,omitempty"`
	Message    string         `json:"message,omitempty"`
	Pagination *core.PageInfo `json:"pagination,omitempty"`
	Errors     []string       `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeDataMessage(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Message: message})
}

func writePage(w http.ResponseWriter, data any, info core.PageInfo) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Pagination: &info})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  errorMessages(err),
	})
}

// errorMessages flattens an errors.Join result into the individual messages,
// mirroring the per-field error list the API reports for bad payloads.
func errorMessages(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}

// validation sentinels, used to pick a 400 over a 500
var fieldErrors = []error{
	core.ErrEmptyTitle, core.ErrTitleTooLong, core.ErrInvalidType,
	core.ErrInvalidAmount, core.ErrInvalidCategory, core.ErrZeroDate,
	core.ErrInvalidDate, core.ErrFutureDate, core.ErrDescriptionTooLong,
	core.ErrEmptyName, core.ErrNameTooLong, core.ErrInvalidEmail,
	core.ErrShortPassword,
}

func isValidationError(err error) bool {
	for _, sentinel := range fieldErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
