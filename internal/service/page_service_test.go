package service

import (
	"context"
	"errors"
	"testing"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPageRepo mirrors the owner-guarded upsert of the postgres repository.
type memPageRepo struct {
	pages map[string]*models.FacebookPage
}

func (r *memPageRepo) Upsert(ctx context.Context, page *models.FacebookPage) error {
	if existing, ok := r.pages[page.PageID]; ok && existing.UserID != page.UserID {
		return repository.ErrPageOwnedElsewhere
	}
	cp := *page
	r.pages[page.PageID] = &cp
	return nil
}

func (r *memPageRepo) GetByID(ctx context.Context, pageID string) (*models.FacebookPage, error) {
	p, ok := r.pages[pageID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memPageRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.FacebookPage, error) {
	var out []*models.FacebookPage
	for _, p := range r.pages {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memPageRepo) CheckByUserID(ctx context.Context, pageID string, userID int64) (bool, error) {
	p, ok := r.pages[pageID]
	return ok && p.UserID == userID, nil
}

func (r *memPageRepo) Remove(ctx context.Context, pageID string) error {
	delete(r.pages, pageID)
	return nil
}

func newTestPageService() (*memPageRepo, PageService) {
	repo := &memPageRepo{pages: map[string]*models.FacebookPage{}}
	cfg := config.Config{SecretKey: "0123456789abcdef0123456789abcdef"}
	return repo, NewPageService(cfg, repo)
}

func TestSyncStoresEncryptedToken(t *testing.T) {
	repo, svc := newTestPageService()

	n, err := svc.Sync(context.Background(), 7, []transfer.PageSync{{ID: "page-1", Name: "Bakery", AccessToken: "tok"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotEqual(t, "tok", repo.pages["page-1"].AccessToken)

	token, err := svc.AccessToken(context.Background(), "page-1")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestSyncRefusesPageOwnedByAnotherUser(t *testing.T) {
	repo, svc := newTestPageService()

	_, err := svc.Sync(context.Background(), 7, []transfer.PageSync{{ID: "page-1", Name: "Bakery", AccessToken: "tok"}})
	require.NoError(t, err)

	n, err := svc.Sync(context.Background(), 8, []transfer.PageSync{{ID: "page-1", Name: "Stolen", AccessToken: "other"}})
	assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
	assert.Equal(t, 0, n)
	assert.Equal(t, int64(7), repo.pages["page-1"].UserID)
	assert.Equal(t, "Bakery", repo.pages["page-1"].Name)

	owns, err := svc.Owns(context.Background(), 8, "page-1")
	require.NoError(t, err)
	assert.False(t, owns)
}

func TestAccessTokenMissingPage(t *testing.T) {
	_, svc := newTestPageService()

	_, err := svc.AccessToken(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}
