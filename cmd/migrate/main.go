package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"creativestudio/internal/db"
	"creativestudio/internal/infra"
)

func main() {
	_ = godotenv.Load()

	logger := infra.NewLogger(os.Getenv("APP_ENV"), "migrate")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal().Msg("migrate: DATABASE_URL is required")
	}

	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("migrate: open database")
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		logger.Fatal().Err(err).Msg("migrate: ping database")
	}
	applied, err := db.Migrate(ctx, conn, logger)
	if err != nil {
		logger.Fatal().Err(err).Strs("applied", applied).Msg("migrate: failed")
	}
	logger.Info().Int("applied", len(applied)).Msg("migrate: schema up to date")
}
