package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// profileData is the user shape returned by the API: never the password
// hash.
type profileData struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Currency      string    `json:"currency"`
	MonthlyBudget float64   `json:"monthlyBudget"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toProfile(u core.User) profileData {
	return profileData{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Currency:      u.Currency,
		MonthlyBudget: u.MonthlyBudget,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var p registerPayload
	if err := decodeBody(r, &p); err != nil {
		writeValidationError(w, err)
		return
	}

	u, err := s.users.Register(r.Context(), p.Name, p.Email, p.Password)
	if err != nil {
		switch {
		case isValidationError(err):
			writeValidationError(w, err)
		case errors.Is(err, store.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "User already exists with this email")
		default:
			slog.ErrorContext(r.Context(), "Register error", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}
	writeDataMessage(w, http.StatusCreated, toProfile(u), "User registered successfully")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var p loginPayload
	if err := decodeBody(r, &p); err != nil {
		writeValidationError(w, err)
		return
	}
	if p.Email == "" || p.Password == "" {
		writeError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	u, err := s.users.Authenticate(r.Context(), p.Email, p.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Login error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	writeDataMessage(w, http.StatusOK, toProfile(u), "Login successful")
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Get profile error", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	writeData(w, http.StatusOK, toProfile(u))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p profilePayload
	if err := decodeBody(r, &p); err != nil {
		writeValidationError(w, err)
		return
	}

	u, err := s.users.UpdateProfile(r.Context(), r.PathValue("id"), core.User{
		Name:          p.Name,
		Currency:      p.Currency,
		MonthlyBudget: p.MonthlyBudget,
	})
	if err != nil {
		switch {
		case isValidationError(err):
			writeValidationError(w, err)
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			slog.ErrorContext(r.Context(), "Update profile error", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}
	writeDataMessage(w, http.StatusOK, toProfile(u), "Profile updated successfully")
}
