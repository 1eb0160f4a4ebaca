package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/postpilot/internal/models"
)

type ScheduledPostRepository interface {
	Create(ctx context.Context, post *models.ScheduledPost) error
	GetByID(ctx context.Context, id string) (*models.ScheduledPost, error)
	ListByUserID(ctx context.Context, userID int64, pageID string) ([]*models.ScheduledPost, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error)
	Update(ctx context.Context, post *models.ScheduledPost) (bool, error)
	Claim(ctx context.Context, id string) (bool, error)
	MarkPosted(ctx context.Context, id, facebookPostID string, postedAt time.Time) error
	MarkFailed(ctx context.Context, id, message string) error
	CancelByPage(ctx context.Context, userID int64, pageID string) (int64, error)
	RemoveByPage(ctx context.Context, userID int64, pageID string) (int64, error)
	CheckByUserID(ctx context.Context, id string, userID int64) (bool, error)
	Remove(ctx context.Context, id string) error
}

type scheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

const scheduledPostColumns = `id, user_id, title, content, post_type, media_urls, carousel_images,
	page_id, page_name, scheduled_for, interval_minutes, is_recurring, first_comment,
	post_first_comment, status, facebook_post_id, posted_at, error_message, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheduledPost(row rowScanner) (*models.ScheduledPost, error) {
	var post models.ScheduledPost
	var postedAt sql.NullTime
	err := row.Scan(
		&post.ID, &post.UserID, &post.Title, &post.Content, &post.PostType,
		pq.Array(&post.MediaURLs), pq.Array(&post.CarouselImages),
		&post.PageID, &post.PageName, &post.ScheduledFor, &post.IntervalMinutes, &post.IsRecurring,
		&post.FirstComment, &post.PostFirstComment, &post.Status, &post.FacebookPostID,
		&postedAt, &post.ErrorMessage, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if postedAt.Valid {
		t := postedAt.Time
		post.PostedAt = &t
	}
	return &post, nil
}

func (r *scheduledPostRepository) Create(ctx context.Context, post *models.ScheduledPost) error {
	query := `
		INSERT INTO scheduled_posts (id, user_id, title, content, post_type, media_urls, carousel_images,
			page_id, page_name, scheduled_for, interval_minutes, is_recurring, first_comment,
			post_first_comment, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		post.ID,
		post.UserID,
		post.Title,
		post.Content,
		post.PostType,
		pq.Array(post.MediaURLs),
		pq.Array(post.CarouselImages),
		post.PageID,
		post.PageName,
		post.ScheduledFor,
		post.IntervalMinutes,
		post.IsRecurring,
		post.FirstComment,
		post.PostFirstComment,
		post.Status,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id string) (*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts WHERE id = $1`

	post, err := scanScheduledPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *scheduledPostRepository) ListByUserID(ctx context.Context, userID int64, pageID string) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts WHERE user_id = $1`
	args := []any{userID}

	if pageID != "" {
		query += ` AND page_id = $2`
		args = append(args, pageID)
	}
	query += ` ORDER BY scheduled_for ASC`

	return r.list(ctx, query, args...)
}

// ListDue returns every scheduled post whose time has come. The order is not significant.
func (r *scheduledPostRepository) ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts WHERE status = $1 AND scheduled_for <= $2`
	return r.list(ctx, query, models.PostStatusScheduled, now)
}

func (r *scheduledPostRepository) list(ctx context.Context, query string, args ...any) ([]*models.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		post, err := scanScheduledPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return posts, nil
}

// Update writes the user-editable fields. It only touches rows that are still scheduled
// and reports whether a row was changed.
func (r *scheduledPostRepository) Update(ctx context.Context, post *models.ScheduledPost) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET title = $1,
			content = $2,
			scheduled_for = $3,
			interval_minutes = $4,
			is_recurring = $5,
			first_comment = $6,
			post_first_comment = $7,
			updated_at = $8
		WHERE id = $9 AND status = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		post.Title,
		post.Content,
		post.ScheduledFor,
		post.IntervalMinutes,
		post.IsRecurring,
		post.FirstComment,
		post.PostFirstComment,
		time.Now(),
		post.ID,
		models.PostStatusScheduled,
	)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	return affectedOne(result)
}

// Claim moves a post from scheduled to processing. Only one caller can win the claim
// for a given row; the others get false.
func (r *scheduledPostRepository) Claim(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, models.PostStatusProcessing, time.Now(), id, models.PostStatusScheduled)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	return affectedOne(result)
}

func (r *scheduledPostRepository) MarkPosted(ctx context.Context, id, facebookPostID string, postedAt time.Time) error {
	query := `
		UPDATE scheduled_posts
		SET status = $1,
			facebook_post_id = $2,
			posted_at = $3,
			error_message = '',
			updated_at = $4
		WHERE id = $5 AND status = $6
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusPosted, facebookPostID, postedAt, time.Now(), id, models.PostStatusProcessing)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduledPostRepository) MarkFailed(ctx context.Context, id, message string) error {
	query := `
		UPDATE scheduled_posts
		SET status = $1,
			error_message = $2,
			updated_at = $3
		WHERE id = $4 AND status = $5
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusFailed, message, time.Now(), id, models.PostStatusProcessing)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduledPostRepository) CancelByPage(ctx context.Context, userID int64, pageID string) (int64, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $1,
			updated_at = $2
		WHERE user_id = $3 AND page_id = $4 AND status = $5
	`
	result, err := r.db.ExecContext(ctx, query, models.PostStatusCancelled, time.Now(), userID, pageID, models.PostStatusScheduled)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return result.RowsAffected()
}

func (r *scheduledPostRepository) RemoveByPage(ctx context.Context, userID int64, pageID string) (int64, error) {
	query := `DELETE FROM scheduled_posts WHERE user_id = $1 AND page_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, pageID)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return result.RowsAffected()
}

func (r *scheduledPostRepository) CheckByUserID(ctx context.Context, id string, userID int64) (bool, error) {
	query := "SELECT 1 FROM scheduled_posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *scheduledPostRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM scheduled_posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func affectedOne(result sql.Result) (bool, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}
