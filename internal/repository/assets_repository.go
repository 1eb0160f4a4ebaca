package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/postpilot/internal/models"
)

type MediaAssetRepository interface {
	Create(ctx context.Context, ma *models.MediaAsset) error
	GetByPublicID(ctx context.Context, publicID string) (*models.MediaAsset, error)
	Remove(ctx context.Context, publicID string) error
}

type mediaAssetRepository struct {
	db *sql.DB
}

func NewMediaAssetRepository(db *sql.DB) MediaAssetRepository {
	return &mediaAssetRepository{db: db}
}

func (r *mediaAssetRepository) Create(ctx context.Context, ma *models.MediaAsset) error {
	query := `
		INSERT INTO media_assets (public_id, user_id, secure_url, resource_type, storage, file_type, file_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, ma.PublicID, ma.UserID, ma.SecureURL, ma.ResourceType,
		ma.Storage, ma.FileType, ma.FileSize).Scan(&ma.CreatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *mediaAssetRepository) GetByPublicID(ctx context.Context, publicID string) (*models.MediaAsset, error) {
	query := `
		SELECT public_id, user_id, secure_url, resource_type, storage, file_type, file_size, created_at
		FROM media_assets
		WHERE public_id = $1
	`

	var ma models.MediaAsset
	err := r.db.QueryRowContext(ctx, query, publicID).Scan(
		&ma.PublicID,
		&ma.UserID,
		&ma.SecureURL,
		&ma.ResourceType,
		&ma.Storage,
		&ma.FileType,
		&ma.FileSize,
		&ma.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &ma, nil
}

func (r *mediaAssetRepository) Remove(ctx context.Context, publicID string) error {
	query := `DELETE FROM media_assets WHERE public_id = $1`
	_, err := r.db.ExecContext(ctx, query, publicID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
