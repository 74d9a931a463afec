package backend

import (
	"context"
	"fmt"
	"log/slog"

	filestore "fintrack/internal/store/file"
	mongostore "fintrack/internal/store/mongo"
)

// Create initializes the backend named in config. Both backends satisfy the
// same store ports and must produce identical query results.
func Create(ctx context.Context, config Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case MongoBackend:
		s, err := mongostore.Connect(ctx, config.MongoURI, config.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("initialize mongo backend: %w", err)
		}
		logger.Info("Initialized mongo backend", "db", config.MongoDB)
		return &Result{Transactions: s, Users: s, Cleanup: s.Close}, nil

	default:
		dataDir := config.DataDir
		if dataDir == "" {
			dataDir = "data"
		}
		s, err := filestore.Open(dataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize file backend: %w", err)
		}
		logger.Info("Initialized file backend", "data_dir", dataDir)
		return &Result{Transactions: s, Users: s}, nil
	}
}
