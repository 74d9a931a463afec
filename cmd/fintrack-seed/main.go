// Command fintrack-seed resets the configured backend and populates it with
// a demo user and a set of sample transactions.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

const (
	demoUserName     = "John Doe"
	demoUserEmail    = "john.doe@example.com"
	demoUserPassword = "password123"
	demoUserBudget   = 2000
)

var sampleTransactions = []core.Transaction{
	{Title: "Monthly Salary", Type: core.Income, Amount: 3500.00, Category: core.CategorySalary, Date: core.NewDate(2024, 1, 1), Description: "Monthly salary payment"},
	{Title: "Grocery Shopping", Type: core.Expense, Amount: 85.50, Category: core.CategoryFood, Date: core.NewDate(2024, 1, 15), Description: "Weekly grocery shopping at supermarket"},
	{Title: "Gas Bill", Type: core.Expense, Amount: 120.00, Category: core.CategoryBills, Date: core.NewDate(2024, 1, 10), Description: "Monthly gas utility bill"},
	{Title: "Uber Ride", Type: core.Expense, Amount: 25.75, Category: core.CategoryTransport, Date: core.NewDate(2024, 1, 12), Description: "Ride to downtown"},
	{Title: "Freelance Project", Type: core.Income, Amount: 800.00, Category: core.CategoryFreelance, Date: core.NewDate(2024, 1, 8), Description: "Web development project payment"},
	{Title: "Online Shopping", Type: core.Expense, Amount: 150.25, Category: core.CategoryShopping, Date: core.NewDate(2024, 1, 14), Description: "Clothes and accessories"},
	{Title: "Restaurant Dinner", Type: core.Expense, Amount: 65.00, Category: core.CategoryFood, Date: core.NewDate(2024, 1, 16), Description: "Dinner with friends"},
	{Title: "Electricity Bill", Type: core.Expense, Amount: 95.30, Category: core.CategoryBills, Date: core.NewDate(2024, 1, 5), Description: "Monthly electricity bill"},
}

// seed wipes the backend, creates the demo user and inserts the sample
// transactions owned by that user. Rerunning produces the same dataset.
func seed(ctx context.Context, result *backend.Result, logger *slog.Logger) error {
	purger, ok := result.Transactions.(store.Purger)
	if !ok {
		return fmt.Errorf("backend does not support purging")
	}
	if err := purger.Purge(ctx); err != nil {
		return fmt.Errorf("clear existing data: %w", err)
	}
	logger.Info("Cleared existing data")

	users := services.NewUserService(result.Users)
	user, err := users.Register(ctx, demoUserName, demoUserEmail, demoUserPassword)
	if err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}
	if _, err := users.UpdateProfile(ctx, user.ID, core.User{
		Name:          user.Name,
		Currency:      user.Currency,
		MonthlyBudget: demoUserBudget,
	}); err != nil {
		return fmt.Errorf("set demo user budget: %w", err)
	}
	logger.Info("Created demo user", "id", user.ID, "email", user.Email)

	for _, t := range sampleTransactions {
		t.OwnerID = user.ID
		saved, err := result.Transactions.Insert(ctx, t)
		if err != nil {
			return fmt.Errorf("insert sample transaction %q: %w", t.Title, err)
		}
		logger.Info("Inserted sample transaction", "id", saved.ID, "title", saved.Title)
	}

	logger.Info("Seeding complete", "transactions", len(sampleTransactions))
	return nil
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := backend.Create(ctx, backend.Config{
		Type:     backend.Type(cfg.DataBackend),
		DataDir:  cfg.DataDir,
		MongoURI: cfg.MongoURI,
		MongoDB:  cfg.MongoDB,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(context.Background()); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	if err := seed(ctx, result, logger); err != nil {
		logger.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}
