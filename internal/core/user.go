package core

import (
	"errors"
	"strings"
	"time"
)

const (
	maxNameLen      = 50
	minPasswordLen  = 6
	DefaultCurrency = "USD"
)

// User is an account holder. PasswordHash is the bcrypt digest of the
// password; it is persisted but must never appear in API responses.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password,omitempty"`
	Currency      string    `json:"currency"`
	MonthlyBudget float64   `json:"monthlyBudget"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

var (
	ErrEmptyName     = errors.New("name is required")
	ErrNameTooLong   = errors.New("name cannot exceed 50 characters")
	ErrInvalidEmail  = errors.New("please enter a valid email")
	ErrShortPassword = errors.New("password must be at least 6 characters long")
)

// NormalizeEmail lowercases and trims an email address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail performs a minimal shape check, leaving real verification to
// delivery.
func ValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}

// ValidName checks the display name constraints.
func ValidName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return ErrEmptyName
	}
	if len(name) > maxNameLen {
		return ErrNameTooLong
	}
	return nil
}

// Validate checks the profile fields. The password is validated separately
// before hashing, since only its digest is stored here.
func (u User) Validate() error {
	var errs []error
	if err := ValidName(u.Name); err != nil {
		errs = append(errs, err)
	}
	if !ValidEmail(u.Email) {
		errs = append(errs, ErrInvalidEmail)
	}
	return errors.Join(errs...)
}

// ValidPassword checks a plaintext password ahead of hashing.
func ValidPassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrShortPassword
	}
	return nil
}
