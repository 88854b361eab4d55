package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"creativestudio/internal/infra"
	"creativestudio/internal/sqlinline"
)

// ProviderGemini names the shared Gemini key row in integration_tokens.
const ProviderGemini = "gemini"

var ErrEmptyKey = errors.New("gemini api key is required")

// Store keeps the shared provider credential used when a request carries no
// override key.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// SharedGeminiKey returns the stored key, or "" when none is configured.
func (s *Store) SharedGeminiKey(ctx context.Context) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, ProviderGemini)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// SetSharedGeminiKey upserts the shared key. validatedAt records when the key
// last passed a ping; the zero time means it was stored without validation.
func (s *Store) SetSharedGeminiKey(ctx context.Context, key string, validatedAt time.Time) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	props := map[string]any{}
	if !validatedAt.IsZero() {
		props["validated_at"] = validatedAt.UTC().Format(time.RFC3339)
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, ProviderGemini, key, raw)
	return err
}

// ResolveGeminiKey prefers the environment key and falls back to the store.
func ResolveGeminiKey(ctx context.Context, envKey string, store *Store) (string, error) {
	if key := strings.TrimSpace(envKey); key != "" {
		return key, nil
	}
	if store == nil {
		return "", nil
	}
	return store.SharedGeminiKey(ctx)
}
