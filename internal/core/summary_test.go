package core

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	items := []Transaction{
		{Type: Income, Amount: 100, Date: NewDate(2024, 1, 1)},
		{Type: Expense, Amount: 40, Category: CategoryFood, Date: NewDate(2024, 1, 2)},
		{Type: Expense, Amount: 60, Category: CategoryBills, Date: NewDate(2024, 1, 3)},
	}
	s := Summarize(items)
	if s.TotalIncome != 100 || s.TotalExpenses != 100 || s.CurrentBalance != 0 || s.TransactionCount != 3 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s != (Summary{}) {
		t.Fatalf("empty input should yield zero summary, got %+v", s)
	}
}

func TestSummarizeBalanceIdentity(t *testing.T) {
	items := []Transaction{
		{Type: Income, Amount: 1234.56},
		{Type: Income, Amount: 0.44},
		{Type: Expense, Amount: 999.99},
		{Type: Expense, Amount: 0.01},
	}
	s := Summarize(items)
	if s.CurrentBalance != s.TotalIncome-s.TotalExpenses {
		t.Fatalf("balance %v != income %v - expenses %v", s.CurrentBalance, s.TotalIncome, s.TotalExpenses)
	}
}

func TestBreakdownByCategory(t *testing.T) {
	items := []Transaction{
		{Type: Income, Amount: 100, Category: CategorySalary},
		{Type: Expense, Amount: 40, Category: CategoryFood},
		{Type: Expense, Amount: 60, Category: CategoryBills},
	}
	entries := BreakdownByCategory(items)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Category != CategoryBills || entries[0].Amount != 60 || entries[0].Count != 1 || entries[0].Percentage != 60 {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Category != CategoryFood || entries[1].Amount != 40 || entries[1].Count != 1 || entries[1].Percentage != 40 {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
}

func TestBreakdownPercentagesSumTo100(t *testing.T) {
	items := []Transaction{
		{Type: Expense, Amount: 33.33, Category: CategoryFood},
		{Type: Expense, Amount: 33.33, Category: CategoryBills},
		{Type: Expense, Amount: 33.34, Category: CategoryTransport},
		{Type: Expense, Amount: 0.07, Category: CategoryOther},
	}
	var sum float64
	for _, e := range BreakdownByCategory(items) {
		sum += e.Percentage
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percentages sum to %v, want 100", sum)
	}
}

func TestBreakdownTieBreaksByCategoryName(t *testing.T) {
	items := []Transaction{
		{Type: Expense, Amount: 50, Category: CategoryTransport},
		{Type: Expense, Amount: 50, Category: CategoryBills},
		{Type: Expense, Amount: 50, Category: CategoryFood},
	}
	entries := BreakdownByCategory(items)
	want := []Category{CategoryBills, CategoryFood, CategoryTransport}
	for i, e := range entries {
		if e.Category != want[i] {
			t.Fatalf("position %d: got %q want %q", i, e.Category, want[i])
		}
	}
}

func TestBreakdownEmptyAndNonExpenseInput(t *testing.T) {
	if got := BreakdownByCategory(nil); len(got) != 0 {
		t.Fatalf("empty input should yield empty breakdown, got %v", got)
	}
	onlyIncome := []Transaction{{Type: Income, Amount: 100, Category: CategorySalary}}
	if got := BreakdownByCategory(onlyIncome); len(got) != 0 {
		t.Fatalf("income-only input should yield empty breakdown, got %v", got)
	}
}

func TestBreakdownGroupsMultipleRecords(t *testing.T) {
	items := []Transaction{
		{Type: Expense, Amount: 85.50, Category: CategoryFood},
		{Type: Expense, Amount: 65.00, Category: CategoryFood},
		{Type: Expense, Amount: 120.00, Category: CategoryBills},
	}
	entries := BreakdownByCategory(items)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Category != CategoryFood || entries[0].Amount != 150.50 || entries[0].Count != 2 {
		t.Fatalf("unexpected grouping %+v", entries[0])
	}
}
