package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type R2Service struct {
	config cfg.Config

	once   sync.Once
	client *s3.Client
	err    error
}

func NewR2Service(cfg cfg.Config) *R2Service {
	return &R2Service{config: cfg}
}

func (r *R2Service) R2Client(ctx context.Context) (*s3.Client, error) {
	r.once.Do(func() {
		awsCfg, err := config.LoadDefaultConfig(ctx,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r.config.R2.AccessKey, r.config.R2.SecretKey, "")),
			config.WithRegion("auto"),
		)
		if err != nil {
			slog.Info(err.Error())
			r.err = err
			return
		}

		r.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.config.R2.AccountID))
		})
	})
	return r.client, r.err
}

func (r *R2Service) Configured() bool {
	return r.config.R2.AccountID != "" && r.config.R2.BucketName != "" && r.config.R2.PublicURL != ""
}

// UploadToR2 stores file under key in the platform bucket.
func (r *R2Service) UploadToR2(ctx context.Context, key string, file []byte, filetype string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(filetype),
	}

	r2Client, err := r.R2Client(ctx)
	if err != nil {
		return err
	}

	_, err = r2Client.PutObject(ctx, input)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *R2Service) DeleteFromR2(ctx context.Context, key string) error {
	r2Client, err := r.R2Client(ctx)
	if err != nil {
		return err
	}

	_, err = r2Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.config.R2.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *R2Service) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(r.config.R2.PublicURL, "/"), key)
}

// r2Store adapts the platform bucket to MediaStore.
type r2Store struct {
	r2 *R2Service
}

func (s *r2Store) Name() string { return models.StorageR2 }

func (s *r2Store) Upload(ctx context.Context, file []byte, folder, resourceType, contentType string) (*transfer.UploadResult, error) {
	if !s.r2.Configured() {
		return nil, validationError("no media storage is configured; add cloudinary credentials in settings")
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	key := id
	if folder != "" {
		key = strings.Trim(folder, "/") + "/" + id
	}

	if err := s.r2.UploadToR2(ctx, key, file, contentType); err != nil {
		return nil, fmt.Errorf("error uploading file: %w", err)
	}

	return &transfer.UploadResult{
		SecureURL:    s.r2.PublicURL(key),
		PublicID:     key,
		ResourceType: resourceType,
	}, nil
}

func (s *r2Store) Delete(ctx context.Context, publicID, resourceType string) (string, error) {
	if err := s.r2.DeleteFromR2(ctx, publicID); err != nil {
		return "", err
	}
	return "ok", nil
}
