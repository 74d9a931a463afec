package core

import "sort"

type (
	// Summary aggregates income, expenses and the derived balance over a
	// set of transactions.
	Summary struct {
		TotalIncome      float64 `json:"totalIncome"`
		TotalExpenses    float64 `json:"totalExpenses"`
		CurrentBalance   float64 `json:"currentBalance"`
		TransactionCount int     `json:"transactionCount"`
	}

	// BreakdownEntry is one category's share of total expenses.
	BreakdownEntry struct {
		Category   Category `json:"category"`
		Amount     float64  `json:"amount"`
		Count      int      `json:"count"`
		Percentage float64  `json:"percentage"`
	}
)

// Summarize computes totals over the given transactions. Empty input yields
// the zero Summary.
func Summarize(items []Transaction) Summary {
	var s Summary
	for _, t := range items {
		switch t.Type {
		case Income:
			s.TotalIncome += t.Amount
		case Expense:
			s.TotalExpenses += t.Amount
		}
		s.TransactionCount++
	}
	s.CurrentBalance = s.TotalIncome - s.TotalExpenses
	return s
}

// BreakdownByCategory groups expense transactions by category and computes
// each group's share of the expense grand total. Non-expense records are
// skipped. Entries sort by amount descending, category ascending on ties.
// Empty input yields an empty slice.
func BreakdownByCategory(items []Transaction) []BreakdownEntry {
	type group struct {
		amount float64
		count  int
	}
	groups := make(map[Category]*group)
	var grandTotal float64
	for _, t := range items {
		if t.Type != Expense {
			continue
		}
		g, ok := groups[t.Category]
		if !ok {
			g = &group{}
			groups[t.Category] = g
		}
		g.amount += t.Amount
		g.count++
		grandTotal += t.Amount
	}

	entries := make([]BreakdownEntry, 0, len(groups))
	for cat, g := range groups {
		e := BreakdownEntry{Category: cat, Amount: g.amount, Count: g.count}
		if grandTotal > 0 {
			e.Percentage = g.amount / grandTotal * 100
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Amount != entries[j].Amount {
			return entries[i].Amount > entries[j].Amount
		}
		return entries[i].Category < entries[j].Category
	})
	return entries
}
