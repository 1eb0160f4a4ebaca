package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

// cloudinaryStore uploads into the user's own Cloudinary account.
type cloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func newCloudinaryStore(creds *transfer.CloudinaryCredentials) (MediaStore, error) {
	cld, err := cloudinary.NewFromParams(creds.CloudName, creds.APIKey, creds.APISecret)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: invalid cloudinary credentials", ErrUnauthorized)
	}
	return &cloudinaryStore{cld: cld}, nil
}

func (s *cloudinaryStore) Name() string { return models.StorageCloudinary }

func (s *cloudinaryStore) Upload(ctx context.Context, file []byte, folder, resourceType, contentType string) (*transfer.UploadResult, error) {
	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(file), uploader.UploadParams{
		Folder:       folder,
		ResourceType: resourceType,
	})
	if err != nil {
		slog.Error("cloudinary upload failed", "error", err)
		return nil, fmt.Errorf("error uploading file: %w", err)
	}
	if resp.Error.Message != "" {
		slog.Error("cloudinary upload rejected", "error", resp.Error.Message)
		return nil, errors.New(resp.Error.Message)
	}

	return &transfer.UploadResult{
		SecureURL:    resp.SecureURL,
		PublicID:     resp.PublicID,
		ResourceType: resp.ResourceType,
	}, nil
}

func (s *cloudinaryStore) Delete(ctx context.Context, publicID, resourceType string) (string, error) {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		slog.Error("cloudinary destroy failed", "public_id", publicID, "error", err)
		return "", err
	}
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	return resp.Result, nil
}
