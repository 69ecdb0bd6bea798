package backend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"babytracker/internal/config"
	"babytracker/internal/database"
	"babytracker/internal/database/migration"
	"babytracker/internal/repository"
	"babytracker/internal/repository/memory"
	"babytracker/internal/repository/postgres"
)

var (
	newPostgres = database.NewPostgres
	migrate     = migration.EnsureMigrated
)

func noopClose() error { return nil }

// Open returns the document store selected by cfg.StoreBackend and a function releasing it.
//
// A postgres backend that is not configured or cannot be reached is not fatal: Open logs a
// warning and returns a nil store so the API keeps serving diagnostics. Unknown backends are an error.
func Open(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (repository.DocumentStore, func() error, error) {
	switch cfg.StoreBackend {
	case repository.BackendMemory:
		log.Info("document_store_ready", zap.String("backend", repository.BackendMemory))
		return memory.NewDocumentMemory(), noopClose, nil
	case repository.BackendPostgres, "":
		return openPostgres(ctx, cfg.Database, log)
	default:
		return nil, noopClose, fmt.Errorf("unknown store backend: %q (supported: %s, %s)",
			cfg.StoreBackend, repository.BackendPostgres, repository.BackendMemory)
	}
}

func openPostgres(ctx context.Context, c config.DatabaseConfig, log *zap.Logger) (repository.DocumentStore, func() error, error) {
	log = log.With(zap.String("backend", repository.BackendPostgres))
	if !c.Configured() {
		log.Warn("document_store_not_configured")
		return nil, noopClose, nil
	}

	db, err := newPostgres(ctx, c)
	if err != nil {
		log.Warn("document_store_unavailable", zap.Error(err))
		return nil, noopClose, nil
	}

	name := database.DatabaseName(c)
	mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := migrate(mctx, db, log, name); err != nil {
		// The store stays wired so diagnostics can report the error.
		log.Error("document_store_migration_failed", zap.Error(err))
	}

	log.Info("document_store_ready", zap.String("db_name", name))
	return postgres.NewDocumentPostgres(db, name), db.Close, nil
}
