package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"creativestudio/internal/infra"
	"creativestudio/internal/infra/credentials"
	"creativestudio/internal/providers/genai"
)

func main() {
	_ = godotenv.Load()

	var (
		keyFlag  string
		skipPing bool
	)
	flag.StringVar(&keyFlag, "key", "", "Gemini API key (falls back to GEMINI_API_KEY)")
	flag.BoolVar(&skipPing, "skip-validate", false, "store the key without a validation call")
	flag.Parse()

	key := strings.TrimSpace(keyFlag)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "Gemini API key is required via -key or GEMINI_API_KEY")
		os.Exit(1)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	logger := infra.NewLogger(os.Getenv("APP_ENV"), "geminikey")

	validatedAt := time.Time{}
	if !skipPing {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := genai.Validate(ctx, genai.Factory(genai.Options{BaseURL: os.Getenv("GEMINI_BASE_URL"), Logger: &logger}), key)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "key validation failed: %s\n", genai.ErrorMessage(err))
			os.Exit(1)
		}
		validatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infra.NewDBPool(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := credentials.NewStore(infra.NewSQLRunner(pool, logger))
	if err := store.SetSharedGeminiKey(ctx, key, validatedAt); err != nil {
		fmt.Fprintf(os.Stderr, "failed to persist gemini api key: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Gemini API key stored successfully")
}
