package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

// MediaStore is an object store that hands back a stable public URL.
type MediaStore interface {
	Name() string
	Upload(ctx context.Context, file []byte, folder, resourceType, contentType string) (*transfer.UploadResult, error)
	Delete(ctx context.Context, publicID, resourceType string) (string, error)
}

type MediaService interface {
	Upload(ctx context.Context, userID int64, file []byte, folder, resourceType string) (*transfer.UploadResult, error)
	Delete(ctx context.Context, userID int64, publicID, resourceType string) (*transfer.DeleteResult, error)
}

type mediaService struct {
	settings   SettingsService
	ma         repository.MediaAssetRepository
	fallback   MediaStore
	cloudinary func(creds *transfer.CloudinaryCredentials) (MediaStore, error)
}

func NewMediaService(settings SettingsService, ma repository.MediaAssetRepository, r2 *R2Service) MediaService {
	return &mediaService{
		settings:   settings,
		ma:         ma,
		fallback:   &r2Store{r2: r2},
		cloudinary: newCloudinaryStore,
	}
}

var allowedMediaTypes = map[string]struct{}{
	"jpg": {}, "png": {}, "gif": {}, "webp": {}, "mp4": {}, "mov": {},
}

func (s *mediaService) Upload(ctx context.Context, userID int64, file []byte, folder, resourceType string) (*transfer.UploadResult, error) {
	if len(file) == 0 {
		return nil, validationError("file is required")
	}

	kind, err := filetype.Match(file)
	if err != nil || kind == types.Unknown {
		return nil, validationError("unsupported file type")
	}
	if _, ok := allowedMediaTypes[kind.Extension]; !ok {
		return nil, validationError("file type %s is not allowed", kind.Extension)
	}

	resourceType, err = resolveResourceType(resourceType, kind.MIME.Type)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	store, err := s.storeFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := store.Upload(ctx, file, folder, resourceType, kind.MIME.Value)
	if err != nil {
		return nil, err
	}

	asset := &models.MediaAsset{
		PublicID:     result.PublicID,
		UserID:       userID,
		SecureURL:    result.SecureURL,
		ResourceType: result.ResourceType,
		Storage:      store.Name(),
		FileType:     kind.MIME.Value,
		FileSize:     int64(len(file)),
	}
	if err := s.ma.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("Error saving media asset")
	}

	return result, nil
}

func (s *mediaService) Delete(ctx context.Context, userID int64, publicID, resourceType string) (*transfer.DeleteResult, error) {
	if publicID == "" {
		return nil, validationError("public id is required")
	}

	asset, err := s.ma.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if asset != nil && asset.UserID != userID {
		return nil, fmt.Errorf("%w: media doesn't exist", ErrNotFound)
	}

	var store MediaStore
	if asset != nil && asset.Storage == models.StorageR2 {
		store = s.fallback
	} else {
		store, err = s.storeFor(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	if resourceType == "" && asset != nil {
		resourceType = asset.ResourceType
	}
	if resourceType == "" {
		resourceType = "image"
	}

	result, err := store.Delete(ctx, publicID, resourceType)
	if err != nil {
		return nil, err
	}

	if asset != nil {
		if err := s.ma.Remove(ctx, publicID); err != nil {
			slog.Warn("media asset row was not removed", "public_id", publicID, "error", err)
		}
	}

	return &transfer.DeleteResult{Result: result}, nil
}

func (s *mediaService) storeFor(ctx context.Context, userID int64) (MediaStore, error) {
	creds, err := s.settings.CloudinaryCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return s.fallback, nil
	}
	return s.cloudinary(creds)
}

// resolveResourceType turns the requested type into image or video, checking it against the sniffed MIME type.
func resolveResourceType(requested, mimeType string) (string, error) {
	detected := "image"
	if mimeType == "video" {
		detected = "video"
	}

	switch strings.ToLower(requested) {
	case "", "auto":
		return detected, nil
	case "reel":
		if detected != "video" {
			return "", validationError("reels must be video files")
		}
		return "video", nil
	case "image", "video":
		if strings.ToLower(requested) != detected {
			return "", validationError("file is not a valid %s", requested)
		}
		return detected, nil
	default:
		return "", validationError("unknown resource type %q", requested)
	}
}
