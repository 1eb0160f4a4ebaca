package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPostRepo struct {
	posts map[string]*models.ScheduledPost
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[string]*models.ScheduledPost{}}
}

func (r *memPostRepo) Create(ctx context.Context, post *models.ScheduledPost) error {
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memPostRepo) GetByID(ctx context.Context, id string) (*models.ScheduledPost, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memPostRepo) ListByUserID(ctx context.Context, userID int64, pageID string) ([]*models.ScheduledPost, error) {
	var out []*models.ScheduledPost
	for _, p := range r.posts {
		if p.UserID == userID && (pageID == "" || p.PageID == pageID) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memPostRepo) ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	return nil, nil
}

func (r *memPostRepo) Update(ctx context.Context, post *models.ScheduledPost) (bool, error) {
	p, ok := r.posts[post.ID]
	if !ok || p.Status != models.PostStatusScheduled {
		return false, nil
	}
	cp := *post
	r.posts[post.ID] = &cp
	return true, nil
}

func (r *memPostRepo) Claim(ctx context.Context, id string) (bool, error) { return false, nil }

func (r *memPostRepo) MarkPosted(ctx context.Context, id, facebookPostID string, postedAt time.Time) error {
	return nil
}

func (r *memPostRepo) MarkFailed(ctx context.Context, id, message string) error { return nil }

func (r *memPostRepo) CancelByPage(ctx context.Context, userID int64, pageID string) (int64, error) {
	var n int64
	for _, p := range r.posts {
		if p.UserID == userID && p.PageID == pageID && p.Status == models.PostStatusScheduled {
			p.Status = models.PostStatusCancelled
			n++
		}
	}
	return n, nil
}

func (r *memPostRepo) RemoveByPage(ctx context.Context, userID int64, pageID string) (int64, error) {
	var n int64
	for id, p := range r.posts {
		if p.UserID == userID && p.PageID == pageID {
			delete(r.posts, id)
			n++
		}
	}
	return n, nil
}

func (r *memPostRepo) CheckByUserID(ctx context.Context, id string, userID int64) (bool, error) {
	p, ok := r.posts[id]
	return ok && p.UserID == userID, nil
}

func (r *memPostRepo) Remove(ctx context.Context, id string) error {
	delete(r.posts, id)
	return nil
}

type fakePages struct {
	owned map[string]int64
}

func (f *fakePages) AccessToken(ctx context.Context, pageID string) (string, error) {
	return "", ErrPageCredentials
}

func (f *fakePages) Sync(ctx context.Context, userID int64, pages []transfer.PageSync) (int, error) {
	return len(pages), nil
}

func (f *fakePages) List(ctx context.Context, userID int64) ([]*models.FacebookPage, error) {
	return nil, nil
}

func (f *fakePages) Remove(ctx context.Context, userID int64, pageID string) error { return nil }

func (f *fakePages) Owns(ctx context.Context, userID int64, pageID string) (bool, error) {
	return f.owned[pageID] == userID, nil
}

func newTestPostService() (*memPostRepo, PostService) {
	repo := newMemPostRepo()
	return repo, NewPostService(repo, &fakePages{owned: map[string]int64{"page-1": 7}})
}

func TestCreateScheduledPost(t *testing.T) {
	repo, svc := newTestPostService()

	post, err := svc.Create(context.Background(), 7, &transfer.PostCreation{
		Title:        "Launch",
		PostType:     "image",
		MediaURLs:    []string{"https://x/y.jpg"},
		PageID:       "page-1",
		ScheduledFor: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, models.PostStatusScheduled, post.Status)
	assert.Contains(t, repo.posts, post.ID)
}

func TestCreateRejectsInvalidPosts(t *testing.T) {
	_, svc := newTestPostService()
	when := time.Now().Add(time.Hour)

	cases := map[string]*transfer.PostCreation{
		"missing title":     {PostType: "text", Content: "x", PageID: "page-1", ScheduledFor: when},
		"unknown type":      {Title: "t", PostType: "story", PageID: "page-1", ScheduledFor: when},
		"image without url": {Title: "t", PostType: "image", PageID: "page-1", ScheduledFor: when},
		"short carousel": {Title: "t", PostType: "carousel", PageID: "page-1", ScheduledFor: when,
			CarouselImages: []string{"https://x/a.jpg", ""}},
		"recurring without interval": {Title: "t", PostType: "text", Content: "x", PageID: "page-1",
			ScheduledFor: when, IsRecurring: true},
		"interval over a year": {Title: "t", PostType: "text", Content: "x", PageID: "page-1",
			ScheduledFor: when, IsRecurring: true, IntervalMinutes: models.MaxIntervalMinutes + 1},
	}

	for name, pc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), 7, pc)
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
		})
	}
}

func TestCreateRejectsForeignPage(t *testing.T) {
	_, svc := newTestPostService()

	_, err := svc.Create(context.Background(), 8, &transfer.PostCreation{
		Title: "t", PostType: "text", Content: "x", PageID: "page-1", ScheduledFor: time.Now(),
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateOnlyWhileScheduled(t *testing.T) {
	repo, svc := newTestPostService()
	repo.posts["p1"] = &models.ScheduledPost{ID: "p1", UserID: 7, Title: "old", PostType: "image",
		PageID: "page-1", Status: models.PostStatusScheduled}
	repo.posts["p2"] = &models.ScheduledPost{ID: "p2", UserID: 7, Title: "done", PostType: "image",
		PageID: "page-1", Status: models.PostStatusPosted}

	title := "new"
	interval := 60
	recurring := true
	post, err := svc.Update(context.Background(), 7, &transfer.PostUpdate{ID: "p1", Title: &title,
		IntervalMinutes: &interval, IsRecurring: &recurring})
	require.NoError(t, err)
	assert.Equal(t, "new", post.Title)
	assert.Equal(t, 60, repo.posts["p1"].IntervalMinutes)

	_, err = svc.Update(context.Background(), 7, &transfer.PostUpdate{ID: "p2", Title: &title})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestUpdateRejectsOversizedInterval(t *testing.T) {
	repo, svc := newTestPostService()
	repo.posts["p1"] = &models.ScheduledPost{ID: "p1", UserID: 7, Title: "t", PostType: "image",
		PageID: "page-1", Status: models.PostStatusScheduled, IsRecurring: true, IntervalMinutes: 60}

	interval := 200_000_000
	_, err := svc.Update(context.Background(), 7, &transfer.PostUpdate{ID: "p1", IntervalMinutes: &interval})
	assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
	assert.Equal(t, 60, repo.posts["p1"].IntervalMinutes)
}

func TestBulkStopAutomation(t *testing.T) {
	repo, svc := newTestPostService()
	repo.posts["p1"] = &models.ScheduledPost{ID: "p1", UserID: 7, PageID: "page-1", Status: models.PostStatusScheduled}
	repo.posts["p2"] = &models.ScheduledPost{ID: "p2", UserID: 7, PageID: "page-1", Status: models.PostStatusProcessing}
	repo.posts["p3"] = &models.ScheduledPost{ID: "p3", UserID: 7, PageID: "page-2", Status: models.PostStatusScheduled}

	result, err := svc.Bulk(context.Background(), 7, &transfer.BulkAction{Action: transfer.BulkStopAutomation, PageID: "page-1"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Affected)
	assert.Equal(t, models.PostStatusCancelled, repo.posts["p1"].Status)
	assert.Equal(t, models.PostStatusProcessing, repo.posts["p2"].Status)
	assert.Equal(t, models.PostStatusScheduled, repo.posts["p3"].Status)
}

func TestBulkUnknownAction(t *testing.T) {
	_, svc := newTestPostService()

	_, err := svc.Bulk(context.Background(), 7, &transfer.BulkAction{Action: "pause", PageID: "page-1"})
	assert.True(t, errors.Is(err, ErrValidation))
}
