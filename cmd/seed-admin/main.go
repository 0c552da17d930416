// Command seed-admin creates the bootstrap admin account if it does not
// already exist. Credentials come from SEED_ADMIN_USERNAME, SEED_ADMIN_EMAIL
// and SEED_ADMIN_PASSWORD, with development defaults.
package main

import (
	"context"
	"os"

	"farmbooking-go/internal/auth"
	"farmbooking-go/internal/config"
	"farmbooking-go/internal/db"
	identitydomain "farmbooking-go/internal/domain/identity"
	"farmbooking-go/pkg/logger"
	"github.com/google/uuid"
)

func main() {
	log := logger.NewFromEnv()

	cfg, err := config.Load(log)
	if err != nil {
		log.Critical("seed-admin: load config failed", "err", err)
		os.Exit(1)
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		log.Critical("seed-admin: db connect failed", "err", err)
		os.Exit(1)
	}

	if err := db.Migrate(dbConn); err != nil {
		log.Critical("seed-admin: migrate failed", "err", err)
		os.Exit(1)
	}

	username := getEnv("SEED_ADMIN_USERNAME", "admin")
	email := getEnv("SEED_ADMIN_EMAIL", "admin@farm.local")
	password := getEnv("SEED_ADMIN_PASSWORD", "Admin@123")
	phone := getEnv("SEED_ADMIN_PHONE", "+10000000000")

	ctx := context.Background()

	var count int64
	err = dbConn.WithContext(ctx).Model(&identitydomain.Identity{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		log.Critical("seed-admin: lookup failed", "err", err)
		os.Exit(1)
	}
	if count > 0 {
		log.Info("seed-admin: admin already exists", "username", username)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Critical("seed-admin: hash password failed", "err", err)
		os.Exit(1)
	}

	admin := identitydomain.Identity{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        &email,
		PasswordHash: hash,
		Role:         identitydomain.RoleAdmin,
		IsActive:     true,
		Phone:        &phone,
	}
	if err := dbConn.WithContext(ctx).Create(&admin).Error; err != nil {
		log.Critical("seed-admin: create failed", "err", err)
		os.Exit(1)
	}

	log.Info("seed-admin: admin created", "username", username, "email", email)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
