package main

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	repo "github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

const AdminRole = "admin"

type seedInput struct {
	Email    string
	Password string
	Name     string
	Mobile   string
}

func seedInputFromEnv() seedInput {
	get := func(key, def string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return def
	}
	return seedInput{
		Email:    get("SEED_EMAIL", "admin@example.com"),
		Password: get("SEED_PASSWORD", "password123"),
		Name:     get("SEED_NAME", "Administrator"),
		Mobile:   get("SEED_MOBILE", "000-0000"),
	}
}

// seedAdmin creates the admin account unless one with the same email exists.
func seedAdmin(ctx context.Context, r repo.AccountRepository, hasher *helpers.PasswordHasher, in seedInput) (*entity.Account, bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, errors.Wrap(err, "lookup seed account")
	}
	if existing != nil {
		return existing, false, nil
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, false, errors.Wrap(err, "hash seed password")
	}
	name := in.Name
	acc := &entity.Account{
		FullName:     &name,
		Email:        email,
		PasswordHash: hash,
		Mobile:       in.Mobile,
		Role:         AdminRole,
	}
	if err := r.Create(ctx, acc); err != nil {
		return nil, false, errors.Wrap(err, "create seed account")
	}
	return acc, true, nil
}
