package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"phonestore/internal/config"
	"phonestore/internal/infrastructure/logger"
	"phonestore/internal/infrastructure/mysql"
	"phonestore/internal/migrations"
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		log.Fatal("usage: migrate <up|down|version>")
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.IsProduction())
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(context.Background(), cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()

	m, err := migrations.New(db)
	if err != nil {
		zapLogger.Fatal("creating migrator", zap.Error(err))
	}

	switch args[0] {
	case "up":
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			zapLogger.Info("no pending migrations")
			return
		}
		if err != nil {
			zapLogger.Fatal("migration up failed", zap.Error(err))
		}
		zapLogger.Info("migrations applied")

	case "down":
		err = m.Steps(-1)
		if errors.Is(err, migrate.ErrNoChange) {
			zapLogger.Info("no migrations to roll back")
			return
		}
		if err != nil {
			zapLogger.Fatal("migration down failed", zap.Error(err))
		}
		zapLogger.Info("migration rolled back")

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			zapLogger.Info("no migrations applied yet")
			return
		}
		if err != nil {
			zapLogger.Fatal("reading migration version", zap.Error(err))
		}
		zapLogger.Info("current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	default:
		zapLogger.Fatal("unknown command", zap.String("command", args[0]))
	}
}
