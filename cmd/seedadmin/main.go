// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/admin"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/config"
	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
)

const seedTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	email := flag.String("email", "", "admin email (defaults to ADMIN_EMAIL)")
	password := flag.String("password", "", "admin password (defaults to ADMIN_PASSWORD)")
	migrate := flag.Bool("migrate", true, "apply database migrations first")
	flag.Parse()

	if err := run(*configPath, *email, *password, *migrate); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, email, password string, migrate bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if email == "" {
		email = cfg.Seed.AdminEmail
	}
	if password == "" {
		password = cfg.Seed.AdminPassword
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exits right after

	if migrate {
		if err := core.Migrate(db); err != nil {
			return err
		}
	}

	svc := admin.NewService(admin.NewRepository(db.DB))
	a, created, err := svc.Seed(ctx, email, password)
	if err != nil {
		return err
	}

	if created {
		slog.Info("admin created", "email", a.Email, "id", a.ID)
	} else {
		slog.Info("admin password updated", "email", a.Email, "id", a.ID)
	}
	return nil
}
