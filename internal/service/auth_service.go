package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type AuthService interface {
	AuthURL(state string) string
	LoginCallback(ctx context.Context, code string) (int64, error)
}

type authService struct {
	cfg config.Config
	u   repository.UserRepository
}

func NewAuthService(cfg config.Config, u repository.UserRepository) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
	}
}

func (s *authService) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.GoogleClientID,
		ClientSecret: s.cfg.GoogleClientSecret,
		RedirectURL:  s.cfg.GoogleRedirectURI,
		Scopes:       []string{oauth2v2.UserinfoEmailScope, oauth2v2.UserinfoProfileScope},
		Endpoint:     google.Endpoint,
	}
}

func (s *authService) AuthURL(state string) string {
	return s.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *authService) LoginCallback(ctx context.Context, code string) (int64, error) {
	if code == "" {
		err := errors.New("code or state is empty")
		slog.Info(err.Error())
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	oauth2Config := s.oauth2Config()
	if oauth2Config.ClientID == "" || oauth2Config.ClientSecret == "" || oauth2Config.RedirectURL == "" {
		err := errors.New("OAuth2 configuration is incomplete")
		slog.Info(err.Error())
		return 0, err
	}

	token, err := oauth2Config.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return 0, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	userInfo, err := s.getUserInfo(ctx, oauth2Config.TokenSource(ctx, token))
	if err != nil {
		return 0, err
	}

	user, isExist, err := s.u.GetByGoogleID(ctx, userInfo.Id)
	if err != nil {
		return 0, err
	}
	if isExist {
		return user.ID, nil
	}

	user, isExist, err = s.u.GetByEmail(ctx, userInfo.Email)
	if err != nil {
		return 0, err
	}

	if isExist {
		if user.GoogleID == "" {
			user.GoogleID = userInfo.Id
			user.ProfilePicture = userInfo.Picture
			if err := s.u.Update(ctx, user); err != nil {
				return 0, err
			}
		}
		return user.ID, nil
	}

	userID, err := s.u.Create(ctx, nil, &models.User{
		GoogleID:       userInfo.Id,
		Email:          userInfo.Email,
		Name:           userInfo.Name,
		ProfilePicture: userInfo.Picture,
	})
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	slog.Info("user signed up", "user_id", userID)
	return userID, nil
}

func (s *authService) getUserInfo(ctx context.Context, ts oauth2.TokenSource) (*oauth2v2.Userinfo, error) {
	svc, err := oauth2v2.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: google account has no email", ErrUnauthorized)
	}
	return info, nil
}
