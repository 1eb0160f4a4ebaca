package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type PostService interface {
	Create(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.ScheduledPost, error)
	List(ctx context.Context, userID int64, pageID string) ([]*models.ScheduledPost, error)
	PostInfo(ctx context.Context, userID int64, postID string) (*models.ScheduledPost, error)
	Update(ctx context.Context, userID int64, pu *transfer.PostUpdate) (*models.ScheduledPost, error)
	Remove(ctx context.Context, userID int64, postID string) error
	Bulk(ctx context.Context, userID int64, action *transfer.BulkAction) (*transfer.BulkResult, error)
}

type postService struct {
	pr    repository.ScheduledPostRepository
	pages PageService
}

func NewPostService(pr repository.ScheduledPostRepository, pages PageService) PostService {
	return &postService{
		pr:    pr,
		pages: pages,
	}
}

// ValidatePostCreation checks the fields a scheduled post needs before it can be stored.
func ValidatePostCreation(pc *transfer.PostCreation) error {
	if pc == nil {
		return validationError("post creation data is nil")
	}
	if strings.TrimSpace(pc.Title) == "" {
		return validationError("title cannot be empty")
	}
	if pc.PageID == "" {
		return validationError("page id is required")
	}
	if !models.ValidPostType(pc.PostType) {
		return validationError("unknown post type %q", pc.PostType)
	}
	if pc.ScheduledFor.IsZero() {
		return validationError("scheduled time is required")
	}

	switch pc.PostType {
	case models.PostTypeText:
		if strings.TrimSpace(pc.Content) == "" {
			return validationError("content is required for text posts")
		}
	case models.PostTypeCarousel:
		if len(nonEmpty(pc.CarouselImages)) < 2 {
			return validationError("carousel requires at least 2 images")
		}
	default:
		if len(nonEmpty(pc.MediaURLs)) == 0 {
			return validationError("media url is required for %s posts", pc.PostType)
		}
	}

	if pc.IsRecurring && pc.IntervalMinutes <= 0 {
		return validationError("recurring posts need a positive interval")
	}
	if pc.IntervalMinutes < 0 {
		return validationError("interval cannot be negative")
	}
	if pc.IntervalMinutes > models.MaxIntervalMinutes {
		return validationError("interval cannot exceed %d minutes", models.MaxIntervalMinutes)
	}
	return nil
}

func (s *postService) Create(ctx context.Context, userID int64, pc *transfer.PostCreation) (*models.ScheduledPost, error) {
	if err := ValidatePostCreation(pc); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	owns, err := s.pages.Owns(ctx, userID, pc.PageID)
	if err != nil {
		return nil, err
	}
	if !owns {
		err = fmt.Errorf("%w: page doesn't exist", ErrNotFound)
		slog.Info(err.Error())
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	mediaURLs := nonEmpty(pc.MediaURLs)
	carousel := nonEmpty(pc.CarouselImages)
	if pc.PostType == models.PostTypeCarousel && len(mediaURLs) == 0 {
		mediaURLs = carousel
	}

	post := &models.ScheduledPost{
		ID:               id,
		UserID:           userID,
		Title:            strings.TrimSpace(pc.Title),
		Content:          pc.Content,
		PostType:         pc.PostType,
		MediaURLs:        mediaURLs,
		CarouselImages:   carousel,
		PageID:           pc.PageID,
		PageName:         pc.PageName,
		ScheduledFor:     pc.ScheduledFor.UTC(),
		IntervalMinutes:  pc.IntervalMinutes,
		IsRecurring:      pc.IsRecurring,
		FirstComment:     pc.FirstComment,
		PostFirstComment: pc.PostFirstComment,
		Status:           models.PostStatusScheduled,
	}

	if err := s.pr.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	slog.Info("scheduled post created", "post_id", post.ID, "page_id", post.PageID, "scheduled_for", post.ScheduledFor)
	return post, nil
}

func (s *postService) List(ctx context.Context, userID int64, pageID string) ([]*models.ScheduledPost, error) {
	posts, err := s.pr.ListByUserID(ctx, userID, pageID)
	if err != nil {
		return nil, fmt.Errorf("Error getting scheduled posts")
	}
	if posts == nil {
		posts = []*models.ScheduledPost{}
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, userID int64, postID string) (*models.ScheduledPost, error) {
	if err := s.checkOwner(ctx, userID, postID); err != nil {
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("Error getting post info")
	}
	if post == nil {
		return nil, fmt.Errorf("%w: post doesn't exist", ErrNotFound)
	}

	return post, nil
}

func (s *postService) Update(ctx context.Context, userID int64, pu *transfer.PostUpdate) (*models.ScheduledPost, error) {
	if pu == nil || pu.ID == "" {
		return nil, validationError("post id is required")
	}

	post, err := s.PostInfo(ctx, userID, pu.ID)
	if err != nil {
		return nil, err
	}

	if post.Status != models.PostStatusScheduled {
		return nil, validationError("only scheduled posts can be edited, this one is %s", post.Status)
	}

	if pu.Title != nil {
		if strings.TrimSpace(*pu.Title) == "" {
			return nil, validationError("title cannot be empty")
		}
		post.Title = strings.TrimSpace(*pu.Title)
	}
	if pu.Content != nil {
		post.Content = *pu.Content
	}
	if pu.ScheduledFor != nil {
		post.ScheduledFor = pu.ScheduledFor.UTC()
	}
	if pu.IntervalMinutes != nil {
		post.IntervalMinutes = *pu.IntervalMinutes
	}
	if pu.IsRecurring != nil {
		post.IsRecurring = *pu.IsRecurring
	}
	if pu.FirstComment != nil {
		post.FirstComment = *pu.FirstComment
	}
	if pu.PostFirstComment != nil {
		post.PostFirstComment = *pu.PostFirstComment
	}

	if post.IntervalMinutes < 0 || (post.IsRecurring && post.IntervalMinutes == 0) {
		return nil, validationError("recurring posts need a positive interval")
	}
	if post.IntervalMinutes > models.MaxIntervalMinutes {
		return nil, validationError("interval cannot exceed %d minutes", models.MaxIntervalMinutes)
	}
	if post.PostType == models.PostTypeText && strings.TrimSpace(post.Content) == "" {
		return nil, validationError("content is required for text posts")
	}

	updated, err := s.pr.Update(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}
	if !updated {
		return nil, validationError("post is no longer scheduled")
	}

	return post, nil
}

func (s *postService) Remove(ctx context.Context, userID int64, postID string) error {
	if err := s.checkOwner(ctx, userID, postID); err != nil {
		return err
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("Error removing post")
	}

	return nil
}

func (s *postService) Bulk(ctx context.Context, userID int64, action *transfer.BulkAction) (*transfer.BulkResult, error) {
	if action == nil || action.PageID == "" {
		return nil, validationError("page id is required")
	}

	var affected int64
	var err error

	switch action.Action {
	case transfer.BulkStopAutomation:
		affected, err = s.pr.CancelByPage(ctx, userID, action.PageID)
	case transfer.BulkDeleteAll:
		affected, err = s.pr.RemoveByPage(ctx, userID, action.PageID)
	default:
		return nil, validationError("unknown bulk action %q", action.Action)
	}
	if err != nil {
		return nil, fmt.Errorf("error running %s: %w", action.Action, err)
	}

	slog.Info("bulk action applied", "action", action.Action, "page_id", action.PageID, "affected", affected)
	return &transfer.BulkResult{Action: action.Action, Affected: affected}, nil
}

func (s *postService) checkOwner(ctx context.Context, userID int64, postID string) error {
	var err error

	if userID == 0 {
		err = errors.New("User is not valid")
		slog.Info(err.Error())
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if postID == "" {
		return validationError("post id is required")
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = fmt.Errorf("%w: post doesn't exist", ErrNotFound)
		slog.Info(err.Error())
		return err
	}
	return nil
}
