package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/maheshrc27/postpilot/pkg/utils"
)

type SettingsService interface {
	Get(ctx context.Context, userID int64) (*transfer.SettingsView, error)
	Update(ctx context.Context, userID int64, input *transfer.SettingsUpdate) error
	GeminiAPIKey(ctx context.Context, userID int64) (string, error)
	CloudinaryCredentials(ctx context.Context, userID int64) (*transfer.CloudinaryCredentials, error)
}

type settingsService struct {
	cfg config.Config
	sr  repository.SettingsRepository
}

func NewSettingsService(cfg config.Config, sr repository.SettingsRepository) SettingsService {
	return &settingsService{
		cfg: cfg,
		sr:  sr,
	}
}

func (s *settingsService) Get(ctx context.Context, userID int64) (*transfer.SettingsView, error) {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &transfer.SettingsView{
		HasGeminiAPIKey:     settings.GeminiAPIKey != "",
		HasCloudinary:       settings.CloudinaryCloudName != "" && settings.CloudinaryAPIKey != "" && settings.CloudinaryAPISecret != "",
		CloudinaryCloudName: settings.CloudinaryCloudName,
	}
	if settings.GeminiAPIKey != "" {
		view.GeminiAPIKeyHint = utils.MaskSecret(settings.GeminiAPIKey)
	}
	return view, nil
}

func (s *settingsService) Update(ctx context.Context, userID int64, input *transfer.SettingsUpdate) error {
	if input == nil {
		return validationError("settings body is empty")
	}

	settings, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	if input.GeminiAPIKey != nil {
		settings.GeminiAPIKey = strings.TrimSpace(*input.GeminiAPIKey)
	}
	if input.CloudinaryCloudName != nil {
		settings.CloudinaryCloudName = strings.TrimSpace(*input.CloudinaryCloudName)
	}
	if input.CloudinaryAPIKey != nil {
		settings.CloudinaryAPIKey = strings.TrimSpace(*input.CloudinaryAPIKey)
	}
	if input.CloudinaryAPISecret != nil {
		settings.CloudinaryAPISecret = strings.TrimSpace(*input.CloudinaryAPISecret)
	}

	stored := &models.UserSettings{
		UserID:              userID,
		CloudinaryCloudName: settings.CloudinaryCloudName,
	}
	if stored.GeminiAPIKey, err = s.seal(settings.GeminiAPIKey); err != nil {
		return err
	}
	if stored.CloudinaryAPIKey, err = s.seal(settings.CloudinaryAPIKey); err != nil {
		return err
	}
	if stored.CloudinaryAPISecret, err = s.seal(settings.CloudinaryAPISecret); err != nil {
		return err
	}

	if err := s.sr.Upsert(ctx, stored); err != nil {
		return fmt.Errorf("Error saving settings")
	}
	return nil
}

func (s *settingsService) GeminiAPIKey(ctx context.Context, userID int64) (string, error) {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return "", err
	}

	if settings.GeminiAPIKey == "" {
		return "", validationError("gemini api key is not configured")
	}
	return settings.GeminiAPIKey, nil
}

func (s *settingsService) CloudinaryCredentials(ctx context.Context, userID int64) (*transfer.CloudinaryCredentials, error) {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if settings.CloudinaryCloudName == "" || settings.CloudinaryAPIKey == "" || settings.CloudinaryAPISecret == "" {
		return nil, nil
	}

	return &transfer.CloudinaryCredentials{
		CloudName: settings.CloudinaryCloudName,
		APIKey:    settings.CloudinaryAPIKey,
		APISecret: settings.CloudinaryAPISecret,
	}, nil
}

// load returns the decrypted settings row, or an empty row for users who never saved any.
func (s *settingsService) load(ctx context.Context, userID int64) (*models.UserSettings, error) {
	settings, isExist, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !isExist {
		return &models.UserSettings{UserID: userID}, nil
	}

	if settings.GeminiAPIKey, err = s.open(settings.GeminiAPIKey); err != nil {
		return nil, err
	}
	if settings.CloudinaryAPIKey, err = s.open(settings.CloudinaryAPIKey); err != nil {
		return nil, err
	}
	if settings.CloudinaryAPISecret, err = s.open(settings.CloudinaryAPISecret); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *settingsService) seal(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return utils.Encrypt([]byte(value), []byte(s.cfg.SecretKey))
}

func (s *settingsService) open(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	plain, err := utils.Decrypt(value, []byte(s.cfg.SecretKey))
	if err != nil {
		slog.Error("stored secret could not be decrypted", "error", err)
		return "", err
	}
	return plain, nil
}
