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

func TestFacebookPageUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFacebookPageRepository(db)
	now := time.Now()

	page := &models.FacebookPage{PageID: "42", UserID: 7, Name: "Bakery", AccessToken: "enc", FollowersCount: 10}

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (page_id) DO UPDATE")).
		WithArgs("42", int64(7), "Bakery", "enc", "", int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Upsert(context.Background(), page))
	assert.Equal(t, now, page.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacebookPageUpsertRefusesOtherOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFacebookPageRepository(db)

	page := &models.FacebookPage{PageID: "42", UserID: 8, Name: "Bakery", AccessToken: "enc"}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE facebook_pages.user_id = EXCLUDED.user_id")).
		WithArgs("42", int64(8), "Bakery", "enc", "", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

	err = repo.Upsert(context.Background(), page)
	assert.ErrorIs(t, err, ErrPageOwnedElsewhere)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFacebookPageCheckByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFacebookPageRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM facebook_pages")).
		WithArgs("42", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM facebook_pages")).
		WithArgs("42", int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	ok, err := repo.CheckByUserID(context.Background(), "42", 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CheckByUserID(context.Background(), "42", 8)
	require.NoError(t, err)
	assert.False(t, ok)
}
