package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"testea/internal/access"
	"testea/internal/config"
	"testea/internal/project"
	"testea/pkg/logger"
	"testea/pkg/utils"
)

// Seeds a password-gated project for local development:
//
//	go run ./cmd/seed -name demo -password password123
func main() {
	name := flag.String("name", "demo", "project name")
	password := flag.String("password", "", "access password (8-16 chars); empty creates an ungated project")
	description := flag.String("description", "", "project description")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := utils.OpenPostgres(ctx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	var hash string
	if *password != "" {
		hash, err = access.HashPassword(*password)
		if err != nil {
			log.Error("password hash failed", "err", err)
			os.Exit(1)
		}
	}

	p := project.Project{
		ID:             uuid.NewString(),
		Name:           *name,
		Description:    *description,
		IdentifierHash: hash,
	}
	if err := project.NewRepo(db).Create(ctx, p); err != nil {
		log.Error("project create failed", "err", err, "name", p.Name)
		os.Exit(1)
	}

	log.Info("project seeded", "id", p.ID, "name", p.Name, "gated", hash != "")
}
