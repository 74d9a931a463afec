package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	Income  Type = "income"
	Expense Type = "expense"
)

const (
	CategoryFood      Category = "food"
	CategoryTransport Category = "transport"
	CategoryShopping  Category = "shopping"
	CategoryBills     Category = "bills"
	CategorySalary    Category = "salary"
	CategoryFreelance Category = "freelance"
	CategoryOther     Category = "other"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
)

type (
	Type string

	Category string

	// Date is a calendar date with no time-of-day component.
	// It marshals to and from ISO form (2006-01-02).
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Type        Type      `json:"type"`
		Amount      float64   `json:"amount"`
		Category    Category  `json:"category"`
		Date        Date      `json:"date"`
		OwnerID     string    `json:"ownerId,omitempty"`
		Description string    `json:"description,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}
)

var (
	ErrEmptyTitle         = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title cannot exceed 100 characters")
	ErrInvalidType        = errors.New("type must be either income or expense")
	ErrInvalidAmount      = errors.New("amount must be a positive number greater than 0")
	ErrInvalidCategory    = errors.New("invalid category selected")
	ErrZeroDate           = errors.New("date is required")
	ErrInvalidDate        = errors.New("date must be in valid format")
	ErrFutureDate         = errors.New("date cannot be in the future")
	ErrDescriptionTooLong = errors.New("description cannot exceed 500 characters")
)

// Categories lists every valid category in declaration order.
var Categories = []Category{
	CategoryFood, CategoryTransport, CategoryShopping, CategoryBills,
	CategorySalary, CategoryFreelance, CategoryOther,
}

func (t Type) Valid() bool {
	return t == Income || t == Expense
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts an ISO calendar date, optionally with a time component.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.UTC().Date()
			return NewDate(y, int(m), d), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks every field constraint and reports all violations joined
// into a single error. Callers that need the individual messages can unwrap.
func (t Transaction) Validate() error {
	var errs []error

	if len(strings.TrimSpace(t.Title)) == 0 {
		errs = append(errs, ErrEmptyTitle)
	} else if len(t.Title) > maxTitleLen {
		errs = append(errs, ErrTitleTooLong)
	}
	if !t.Type.Valid() {
		errs = append(errs, ErrInvalidType)
	}
	if !(t.Amount > 0) || math.IsInf(t.Amount, 0) || math.IsNaN(t.Amount) {
		errs = append(errs, ErrInvalidAmount)
	}
	if !t.Category.Valid() {
		errs = append(errs, ErrInvalidCategory)
	}
	if t.Date.IsZero() {
		errs = append(errs, ErrZeroDate)
	} else if t.Date.After(time.Now()) {
		errs = append(errs, ErrFutureDate)
	}
	if len(t.Description) > maxDescriptionLen {
		errs = append(errs, ErrDescriptionTooLong)
	}

	return errors.Join(errs...)
}

// MoreRecent reports whether a sorts before b in the canonical listing
// order: date descending, then creation time descending.
func MoreRecent(a, b Transaction) bool {
	if !a.Date.Equal(b.Date.Time) {
		return a.Date.After(b.Date.Time)
	}
	return a.CreatedAt.After(b.CreatedAt)
}
