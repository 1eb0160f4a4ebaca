package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/maheshrc27/postpilot/pkg/utils"
)

// CredentialStore resolves the publishing token for a page.
type CredentialStore interface {
	AccessToken(ctx context.Context, pageID string) (string, error)
}

type PageService interface {
	CredentialStore
	Sync(ctx context.Context, userID int64, pages []transfer.PageSync) (int, error)
	List(ctx context.Context, userID int64) ([]*models.FacebookPage, error)
	Remove(ctx context.Context, userID int64, pageID string) error
	Owns(ctx context.Context, userID int64, pageID string) (bool, error)
}

type pageService struct {
	cfg config.Config
	fp  repository.FacebookPageRepository
}

func NewPageService(cfg config.Config, fp repository.FacebookPageRepository) PageService {
	return &pageService{
		cfg: cfg,
		fp:  fp,
	}
}

func (s *pageService) Sync(ctx context.Context, userID int64, pages []transfer.PageSync) (int, error) {
	if userID == 0 {
		err := errors.New("UserID is not valid")
		slog.Info(err.Error())
		return 0, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if len(pages) == 0 {
		return 0, validationError("no pages to sync")
	}

	for i, p := range pages {
		if p.ID == "" || p.Name == "" || p.AccessToken == "" {
			return 0, validationError("page %d is missing id, name or access token", i+1)
		}
	}

	synced := 0
	for _, p := range pages {
		encryptedToken, err := utils.Encrypt([]byte(p.AccessToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return synced, err
		}

		page := &models.FacebookPage{
			PageID:         p.ID,
			UserID:         userID,
			Name:           p.Name,
			AccessToken:    encryptedToken,
			PictureURL:     p.PictureURL,
			FollowersCount: p.FollowersCount,
		}
		if err := s.fp.Upsert(ctx, page); err != nil {
			if errors.Is(err, repository.ErrPageOwnedElsewhere) {
				slog.Warn("page sync refused", "page_id", p.ID, "user_id", userID)
				return synced, validationError("page %s is linked to another account", p.ID)
			}
			return synced, fmt.Errorf("Error saving page %s", p.ID)
		}
		synced++
	}

	slog.Info("facebook pages synced", "user_id", userID, "count", synced)
	return synced, nil
}

func (s *pageService) List(ctx context.Context, userID int64) ([]*models.FacebookPage, error) {
	if userID == 0 {
		err := errors.New("UserID is not valid")
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	pages, err := s.fp.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting facebook pages")
	}

	return pages, nil
}

func (s *pageService) Owns(ctx context.Context, userID int64, pageID string) (bool, error) {
	if pageID == "" {
		return false, nil
	}
	return s.fp.CheckByUserID(ctx, pageID, userID)
}

func (s *pageService) Remove(ctx context.Context, userID int64, pageID string) error {
	if pageID == "" {
		return validationError("page id is required")
	}

	isValid, err := s.fp.CheckByUserID(ctx, pageID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = fmt.Errorf("%w: page doesn't exist", ErrNotFound)
		slog.Info(err.Error())
		return err
	}

	if err := s.fp.Remove(ctx, pageID); err != nil {
		return fmt.Errorf("Error removing page")
	}
	return nil
}

func (s *pageService) AccessToken(ctx context.Context, pageID string) (string, error) {
	page, err := s.fp.GetByID(ctx, pageID)
	if err != nil {
		return "", err
	}

	if page == nil || page.AccessToken == "" {
		return "", ErrPageCredentials
	}

	token, err := utils.Decrypt(page.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return "", ErrPageCredentials
	}

	return token, nil
}
