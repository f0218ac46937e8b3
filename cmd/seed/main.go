package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-account-service/config"
	repo "github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-account-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	var r repo.AccountRepository
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("STORAGE_DRIVER=memory; seeded account will not outlive this process")
		r = memory.NewAccountRepository()
	} else {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
		if err != nil {
			logger.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.Fatalf("migration failed: %v", err)
		}
		r = pginfra.NewAccountRepository(pool)
	}

	in := seedInputFromEnv()
	acc, created, err := seedAdmin(ctx, r, helpers.NewPasswordHasher(cfg.BcryptCost), in)
	if err != nil {
		logger.Fatalf("failed to seed account: %v", err)
	}
	if !created {
		logger.WithField("email", acc.Email).Info("account already exists; nothing to do")
		return
	}
	logger.WithField("id", acc.ID).WithField("email", acc.Email).Info("seeded admin account")
}
