package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postRowColumns = []string{
	"id", "user_id", "title", "content", "post_type", "media_urls", "carousel_images",
	"page_id", "page_name", "scheduled_for", "interval_minutes", "is_recurring", "first_comment",
	"post_first_comment", "status", "facebook_post_id", "posted_at", "error_message", "created_at", "updated_at",
}

func TestScheduledPostClaim(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewScheduledPostRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE scheduled_posts")).
		WithArgs(models.PostStatusProcessing, sqlmock.AnyArg(), "p1", models.PostStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE scheduled_posts")).
		WithArgs(models.PostStatusProcessing, sqlmock.AnyArg(), "p1", models.PostStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	won, err := repo.Claim(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, won)

	won, err = repo.Claim(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, won)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostListDue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewScheduledPostRepository(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(postRowColumns).
		AddRow("p1", int64(7), "Launch", "hello", "carousel", "{https://x/a.jpg,https://x/b.jpg}",
			"{https://x/a.jpg,https://x/b.jpg}", "page-1", "Page", now.Add(-time.Minute), 0, false, "",
			false, "scheduled", "", nil, "", now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduled_posts WHERE status = $1 AND scheduled_for <= $2")).
		WithArgs(models.PostStatusScheduled, now).
		WillReturnRows(rows)

	posts, err := repo.ListDue(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	assert.Equal(t, "p1", posts[0].ID)
	assert.Equal(t, []string{"https://x/a.jpg", "https://x/b.jpg"}, posts[0].CarouselImages)
	assert.Nil(t, posts[0].PostedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostMarkPostedIsConditional(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewScheduledPostRepository(db)
	postedAt := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $5 AND status = $6")).
		WithArgs(models.PostStatusPosted, "123", postedAt, sqlmock.AnyArg(), "p1", models.PostStatusProcessing).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkPosted(context.Background(), "p1", "123", postedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostCancelByPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewScheduledPostRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE user_id = $3 AND page_id = $4 AND status = $5")).
		WithArgs(models.PostStatusCancelled, sqlmock.AnyArg(), int64(7), "page-1", models.PostStatusScheduled).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.CancelByPage(context.Background(), 7, "page-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostGetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewScheduledPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduled_posts WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(postRowColumns))

	post, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, post)
}
