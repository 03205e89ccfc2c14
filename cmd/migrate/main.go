package main

import (
	"database/sql"
	"flag"
	"log"
	"os"

	"employee-onboarding-backend/config"
	"employee-onboarding-backend/migrations"
	"employee-onboarding-backend/pkg/logger"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pressly/goose/v3"
)

// migrate applies the embedded SQL migrations.
//
//	go run ./cmd/migrate            # up
//	go run ./cmd/migrate -cmd down  # roll back one
//	go run ./cmd/migrate -cmd status
func main() {
	command := flag.String("cmd", "up", "goose command: up, down, status, version, redo")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Env)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Log.Error("Failed to set dialect", "error", err)
		os.Exit(1)
	}

	if err := goose.Run(*command, db, ".", flag.Args()...); err != nil {
		logger.Log.Error("Migration failed", "cmd", *command, "error", err)
		os.Exit(1)
	}
	logger.Log.Info("Migration finished", "cmd", *command)
}
