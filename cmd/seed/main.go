package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/config"
	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	pginfra "github.com/oksasatya/go-identity-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-identity-service/pkg/helpers"
	"github.com/oksasatya/go-identity-service/pkg/result"
)

// seed creates the administrator account when it does not exist yet.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), MaxConns: 2, MinConns: 1})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()
	repo := pginfra.NewUserRepository(pool)

	name := entity.NewUserName(cfg.SeedAdminUsername)
	email := entity.NewUserEmail(cfg.SeedAdminEmail)
	cred := entity.NewUserCredential(cfg.SeedAdminPassword)
	scope := entity.NewUserScope("profile email")
	if r := result.Combine(name, email, cred, scope); r.IsFailure() {
		log.Fatalf("invalid admin account: %s", r.Error())
	}

	existing, err := repo.Exists(ctx, name.Value().Value(), email.Value().Value())
	if err != nil {
		log.Fatalf("failed to look up admin: %v", err)
	}
	if existing != nil {
		logger.WithField("username", existing.Username().Value()).Info("admin already present")
		return
	}

	created := entity.NewUser(entity.UserProps{
		Username:        name.Value(),
		Email:           email.Value(),
		Credential:      cred.Value(),
		Scope:           scope.Value(),
		IsEmailVerified: true,
		IsAdminUser:     true,
	}, nil)
	if created.IsFailure() {
		log.Fatalf("failed to build admin: %s", created.Error())
	}
	admin := created.Value()
	// Seeding is not a sign up; no USER_CREATED side effects.
	admin.ClearEvents()

	if ok, err := repo.Save(ctx, admin); err != nil || !ok {
		log.Fatalf("failed to seed admin: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"id":       admin.ID().String(),
		"username": admin.Username().Value(),
		"email":    admin.Email().Value(),
	}).Info("seeded admin")
}
