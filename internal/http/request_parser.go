package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// parseListQuery turns listing query parameters into a filter and page.
// Filter parsing is lenient by design: an unrecognized type and unparseable
// dates are dropped rather than rejected, so a sloppy query narrows less
// instead of failing.
func parseListQuery(q url.Values) (core.Filter, core.Page) {
	var start, end core.Date
	if v := strings.TrimSpace(q.Get("startDate")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			start = d
		}
	}
	if v := strings.TrimSpace(q.Get("endDate")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			end = d
		}
	}

	f := core.NewFilter(
		q.Get("type"),
		q.Get("category"),
		start, end,
		q.Get("search"),
		q.Get("ownerId"),
	)

	page := core.DefaultPage()
	if v := strings.TrimSpace(q.Get("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Number = n
		}
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page.Limit = n
		}
	}
	return f, core.NewPage(page.Number, page.Limit)
}

// transactionPayload is the mutation request body.
type transactionPayload struct {
	Title       string  `json:"title"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	OwnerID     string  `json:"ownerId"`
	Description string  `json:"description"`
}

// decodeTransaction parses and shapes a mutation body. Field constraint
// checks happen later in core; only an unreadable body or a malformed date
// fail here.
func decodeTransaction(r *http.Request) (core.Transaction, error) {
	var p transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return core.Transaction{}, fmt.Errorf("invalid request body: %w", err)
	}

	t := core.Transaction{
		Title:       strings.TrimSpace(p.Title),
		Type:        core.Type(p.Type),
		Amount:      p.Amount,
		Category:    core.Category(p.Category),
		OwnerID:     strings.TrimSpace(p.OwnerID),
		Description: strings.TrimSpace(p.Description),
	}
	if strings.TrimSpace(p.Date) != "" {
		d, err := core.ParseDate(p.Date)
		if err != nil {
			return core.Transaction{}, core.ErrInvalidDate
		}
		t.Date = d
	}
	return t, nil
}

type registerPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profilePayload struct {
	Name          string  `json:"name"`
	Currency      string  `json:"currency"`
	MonthlyBudget float64 `json:"monthlyBudget"`
}

func decodeBody(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
