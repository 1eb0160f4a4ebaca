package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/maheshrc27/postpilot/internal/models"
)

type FacebookPageRepository interface {
	Upsert(ctx context.Context, page *models.FacebookPage) error
	GetByID(ctx context.Context, pageID string) (*models.FacebookPage, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.FacebookPage, error)
	CheckByUserID(ctx context.Context, pageID string, userID int64) (bool, error)
	Remove(ctx context.Context, pageID string) error
}

// ErrPageOwnedElsewhere is returned by Upsert when the page is already linked to another user.
var ErrPageOwnedElsewhere = errors.New("page is linked to another account")

type facebookPageRepository struct {
	db *sql.DB
}

func NewFacebookPageRepository(db *sql.DB) FacebookPageRepository {
	return &facebookPageRepository{db: db}
}

// Upsert keeps one row per page id. A re-sync by the owning user replaces name, token
// and stats; a sync by any other user leaves the row untouched.
func (r *facebookPageRepository) Upsert(ctx context.Context, page *models.FacebookPage) error {
	query := `
		INSERT INTO facebook_pages (page_id, user_id, name, access_token, picture_url, followers_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (page_id) DO UPDATE
		SET name = EXCLUDED.name,
			access_token = EXCLUDED.access_token,
			picture_url = EXCLUDED.picture_url,
			followers_count = EXCLUDED.followers_count,
			updated_at = CURRENT_TIMESTAMP
		WHERE facebook_pages.user_id = EXCLUDED.user_id
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		page.PageID,
		page.UserID,
		page.Name,
		page.AccessToken,
		page.PictureURL,
		page.FollowersCount,
	).Scan(&page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrPageOwnedElsewhere
		}
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *facebookPageRepository) GetByID(ctx context.Context, pageID string) (*models.FacebookPage, error) {
	query := `SELECT page_id, user_id, name, access_token, picture_url, followers_count, created_at, updated_at
		FROM facebook_pages WHERE page_id = $1`

	var page models.FacebookPage
	err := r.db.QueryRowContext(ctx, query, pageID).Scan(&page.PageID, &page.UserID, &page.Name, &page.AccessToken,
		&page.PictureURL, &page.FollowersCount, &page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &page, nil
}

func (r *facebookPageRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.FacebookPage, error) {
	query := `SELECT page_id, user_id, name, picture_url, followers_count, created_at, updated_at
		FROM facebook_pages WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var pages []*models.FacebookPage
	for rows.Next() {
		var page models.FacebookPage
		err := rows.Scan(&page.PageID, &page.UserID, &page.Name, &page.PictureURL, &page.FollowersCount,
			&page.CreatedAt, &page.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		pages = append(pages, &page)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return pages, nil
}

func (r *facebookPageRepository) CheckByUserID(ctx context.Context, pageID string, userID int64) (bool, error) {
	query := "SELECT 1 FROM facebook_pages WHERE page_id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, pageID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *facebookPageRepository) Remove(ctx context.Context, pageID string) error {
	query := `DELETE FROM facebook_pages WHERE page_id = $1`
	_, err := r.db.ExecContext(ctx, query, pageID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
