package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/postpilot/internal/models"
)

type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserSettings, bool, error)
	Upsert(ctx context.Context, s *models.UserSettings) error
}

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserSettings, bool, error) {
	query := `SELECT user_id, gemini_api_key, cloudinary_cloud_name, cloudinary_api_key, cloudinary_api_secret,
		created_at, updated_at FROM user_settings WHERE user_id = $1`
	row := r.db.QueryRowContext(ctx, query, userID)

	var s models.UserSettings
	err := row.Scan(&s.UserID, &s.GeminiAPIKey, &s.CloudinaryCloudName, &s.CloudinaryAPIKey,
		&s.CloudinaryAPISecret, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &s, true, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, s *models.UserSettings) error {
	query := `
		INSERT INTO user_settings (user_id, gemini_api_key, cloudinary_cloud_name, cloudinary_api_key, cloudinary_api_secret)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET gemini_api_key = EXCLUDED.gemini_api_key,
			cloudinary_cloud_name = EXCLUDED.cloudinary_cloud_name,
			cloudinary_api_key = EXCLUDED.cloudinary_api_key,
			cloudinary_api_secret = EXCLUDED.cloudinary_api_secret,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, s.UserID, s.GeminiAPIKey, s.CloudinaryCloudName,
		s.CloudinaryAPIKey, s.CloudinaryAPISecret)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
