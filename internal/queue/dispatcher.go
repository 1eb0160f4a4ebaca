package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Dispatcher publishes due scheduled posts one at a time.
type Dispatcher struct {
	posts     repository.ScheduledPostRepository
	attempts  repository.PublishAttemptRepository
	creds     service.CredentialStore
	publisher service.FacebookService
	now       func() time.Time
}

func NewDispatcher(
	posts repository.ScheduledPostRepository,
	attempts repository.PublishAttemptRepository,
	creds service.CredentialStore,
	publisher service.FacebookService) *Dispatcher {
	return &Dispatcher{
		posts:     posts,
		attempts:  attempts,
		creds:     creds,
		publisher: publisher,
		now:       time.Now,
	}
}

// Due lists the posts a pass started now would pick up.
func (d *Dispatcher) Due(ctx context.Context) ([]*models.ScheduledPost, error) {
	return d.posts.ListDue(ctx, d.now())
}

// PollAndDispatch runs one pass. A single post failing never aborts the
// pass; the returned summary has one result per due post.
func (d *Dispatcher) PollAndDispatch(ctx context.Context) (*transfer.DispatchSummary, error) {
	due, err := d.posts.ListDue(ctx, d.now())
	if err != nil {
		return nil, err
	}

	summary := &transfer.DispatchSummary{
		Due:     len(due),
		Results: make([]transfer.DispatchResult, 0, len(due)),
	}

	for _, post := range due {
		summary.Results = append(summary.Results, d.dispatchOne(ctx, post))
	}

	if len(due) > 0 {
		slog.Info("dispatch pass complete", "due", len(due))
	}
	return summary, nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, post *models.ScheduledPost) transfer.DispatchResult {
	result := transfer.DispatchResult{PostID: post.ID}

	claimed, err := d.posts.Claim(ctx, post.ID)
	if err != nil {
		result.Status = transfer.DispatchFailed
		result.Error = err.Error()
		return result
	}
	if !claimed {
		result.Status = transfer.DispatchSkipped
		result.Error = "already claimed"
		return result
	}

	facebookPostID, err := d.publish(ctx, post)
	if err != nil {
		slog.Error("scheduled post failed", "post_id", post.ID, "page_id", post.PageID, "error", err)
		if markErr := writeTwice(ctx, func(ctx context.Context) error {
			return d.posts.MarkFailed(ctx, post.ID, err.Error())
		}); markErr != nil {
			slog.Error("unable to record failure", "post_id", post.ID, "error", markErr)
		}
		d.recordAttempt(ctx, post, "", err.Error())

		result.Status = transfer.DispatchFailed
		result.Error = err.Error()
		return result
	}

	postedAt := d.now()
	if err := writeTwice(ctx, func(ctx context.Context) error {
		return d.posts.MarkPosted(ctx, post.ID, facebookPostID, postedAt)
	}); err != nil {
		slog.Error("unable to record publish", "post_id", post.ID, "facebook_post_id", facebookPostID, "error", err)
		result.Error = "published but status not recorded: " + err.Error()
	}
	d.recordAttempt(ctx, post, facebookPostID, "")

	if post.IsRecurring && post.IntervalMinutes > 0 {
		d.scheduleNext(ctx, post)
	}

	slog.Info("scheduled post published", "post_id", post.ID, "facebook_post_id", facebookPostID)
	result.Status = transfer.DispatchPosted
	result.FacebookPostID = facebookPostID
	return result
}

// writeTwice runs a terminal status write, retrying it once on error.
func writeTwice(ctx context.Context, write func(ctx context.Context) error) error {
	err := write(ctx)
	if err == nil {
		return nil
	}
	slog.Warn("status write failed, retrying", "error", err)
	return write(ctx)
}

// publish resolves the page token, publishes and posts the first comment.
func (d *Dispatcher) publish(ctx context.Context, post *models.ScheduledPost) (facebookPostID string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected error: %v", r)
		}
	}()

	token, err := d.creds.AccessToken(ctx, post.PageID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return "", service.ErrPageCredentials
		}
		return "", err
	}

	res, err := d.publisher.Publish(ctx, &transfer.PublishRequest{
		PageID:         post.PageID,
		AccessToken:    token,
		PostType:       post.PostType,
		Content:        post.Content,
		MediaURLs:      post.MediaURLs,
		CarouselImages: post.CarouselImages,
	})
	if err != nil {
		return "", err
	}

	if post.PostFirstComment && post.FirstComment != "" {
		if _, err := d.publisher.PostComment(ctx, res.PostID, post.FirstComment, token); err != nil {
			slog.Warn("first comment not posted", "post_id", post.ID, "facebook_post_id", res.PostID, "error", err)
		}
	}

	return res.PostID, nil
}

func (d *Dispatcher) scheduleNext(ctx context.Context, post *models.ScheduledPost) {
	id, err := gonanoid.New()
	if err != nil {
		slog.Error("unable to generate id for next occurrence", "post_id", post.ID, "error", err)
		return
	}

	next := *post
	next.ID = id
	next.ScheduledFor = post.NextOccurrence(d.now())
	next.Status = models.PostStatusScheduled
	next.FacebookPostID = ""
	next.PostedAt = nil
	next.ErrorMessage = ""

	if err := d.posts.Create(ctx, &next); err != nil {
		slog.Error("unable to schedule next occurrence", "post_id", post.ID, "error", err)
		return
	}
	slog.Info("next occurrence scheduled", "post_id", post.ID, "next_id", next.ID, "scheduled_for", next.ScheduledFor)
}

func (d *Dispatcher) recordAttempt(ctx context.Context, post *models.ScheduledPost, facebookPostID, message string) {
	_, err := d.attempts.Create(ctx, &models.PublishAttempt{
		PostID:         post.ID,
		PageID:         post.PageID,
		FacebookPostID: facebookPostID,
		ErrorMessage:   message,
	})
	if err != nil {
		slog.Warn("publish attempt not recorded", "post_id", post.ID, "error", err)
	}
}
