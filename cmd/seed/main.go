package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/attendly/attendance-backend-go/internal/config"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     string
}

var seedUsers = []seedUser{
	{"Admin", "admin@attendly.local", "admin123", "admin"},
	{"Alice Employee", "alice@attendly.local", "password123", "employee"},
	{"Bob Employee", "bob@attendly.local", "password123", "employee"},
}

// Seeds a development database: a handful of accounts plus the
// settings singleton with default working hours.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(cfg.MigrationURL(), logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("failed to hash password", "email", u.email, "error", err)
			os.Exit(1)
		}

		_, err = db.Exec(ctx, `
			INSERT INTO users (name, email, password_hash, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO NOTHING
		`, u.name, u.email, string(hash), u.role)
		if err != nil {
			logger.Error("failed to seed user", "email", u.email, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded user", "email", u.email, "role", u.role)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO settings (default_check_in_time, default_check_out_time, allowed_ips)
		SELECT '09:00', '17:00', '{}'
		WHERE NOT EXISTS (SELECT 1 FROM settings)
	`)
	if err != nil {
		logger.Error("failed to seed settings", "error", err)
		os.Exit(1)
	}
	logger.Info("seeded settings")
}
