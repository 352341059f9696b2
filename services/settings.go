package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/khomabhena/imali-api/models"
)

type SettingsService struct {
	db *sql.DB
}

func NewSettingsService(db *sql.DB) *SettingsService {
	return &SettingsService{db: db}
}

// GetOrCreate returns the user's settings, inserting the defaults
// (intermediate mode, USD) on first access. The insert is idempotent under
// concurrent callers.
func (s *SettingsService) GetOrCreate(ctx context.Context, userID string) (*models.Settings, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("create default settings: %w", err)
	}

	return s.get(ctx, userID)
}

func (s *SettingsService) get(ctx context.Context, userID string) (*models.Settings, error) {
	var settings models.Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, default_mode, default_currency, created_at, updated_at
		FROM settings WHERE user_id = $1
	`, userID).Scan(
		&settings.UserID, &settings.DefaultMode, &settings.DefaultCurrency,
		&settings.CreatedAt, &settings.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	return &settings, nil
}

func (s *SettingsService) Update(ctx context.Context, userID string, req models.UpdateSettingsRequest) (*models.Settings, error) {
	current, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DefaultMode != nil {
		current.DefaultMode = *req.DefaultMode
	}
	if req.DefaultCurrency != nil {
		current.DefaultCurrency = *req.DefaultCurrency
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE settings SET default_mode = $1, default_currency = $2, updated_at = NOW()
		WHERE user_id = $3
	`, current.DefaultMode, current.DefaultCurrency, userID)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	return s.get(ctx, userID)
}
