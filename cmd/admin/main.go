package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"phonestore/internal/auth/repository"
	"phonestore/internal/config"
	"phonestore/internal/infrastructure/logger"
	"phonestore/internal/infrastructure/mysql"
)

const usage = "usage: admin <grant|revoke> -id <user id> -email <email>"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}
	command := os.Args[1]

	fs := flag.NewFlagSet(command, flag.ExitOnError)
	id := fs.String("id", "", "identity provider user id")
	email := fs.String("email", "", "user email")
	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatal(err)
	}
	if strings.TrimSpace(*id) == "" || strings.TrimSpace(*email) == "" {
		log.Fatal(usage)
	}

	var isAdmin bool
	switch command {
	case "grant":
		isAdmin = true
	case "revoke":
		isAdmin = false
	default:
		log.Fatal(usage)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := mysql.NewConnection(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()

	repo := repository.NewMySQLProfileRepository(db)
	if err := repo.Upsert(ctx, *id, *email, isAdmin); err != nil {
		zapLogger.Fatal("updating profile", zap.Error(err))
	}

	zapLogger.Info("profile updated", zap.String("id", *id), zap.String("email", *email), zap.Bool("isAdmin", isAdmin))
	fmt.Printf("%s: %s (%s) isAdmin=%t\n", command, *id, *email, isAdmin)
}
