package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type FacebookService interface {
	Publish(ctx context.Context, req *transfer.PublishRequest) (*transfer.PublishResult, error)
	PostComment(ctx context.Context, objectID, message, accessToken string) (string, error)
	Probe(ctx context.Context) error
}

type facebookService struct {
	cfg    config.Facebook
	client *http.Client
	plain  RetryPolicy
	phase  RetryPolicy
}

func NewFacebookService(cfg config.Config) FacebookService {
	fb := cfg.Facebook
	return &facebookService{
		cfg:    fb,
		client: &http.Client{},
		plain: RetryPolicy{
			MaxAttempts: fb.MaxAttempts,
			Timeout:     fb.PublishTimeout,
			Backoff:     LinearBackoff(fb.RetryBackoff),
			Retryable:   IsTransient,
		},
		phase: RetryPolicy{
			MaxAttempts: fb.PhaseAttempts,
			Timeout:     fb.PublishTimeout,
			Backoff:     LinearBackoff(fb.RetryBackoff),
			Retryable:   IsTransient,
		},
	}
}

func (s *facebookService) Publish(ctx context.Context, req *transfer.PublishRequest) (*transfer.PublishResult, error) {
	if err := ValidatePublishRequest(req); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	var postID string
	var err error

	switch req.PostType {
	case models.PostTypeReel:
		postID, err = s.publishReel(ctx, req)
	case models.PostTypeCarousel:
		postID, err = s.publishCarousel(ctx, req)
	default:
		postID, err = s.publishPlain(ctx, req)
	}
	if err != nil {
		slog.Error("facebook publish failed", "page_id", req.PageID, "post_type", req.PostType, "error", err)
		return nil, err
	}

	slog.Info("facebook publish succeeded", "page_id", req.PageID, "post_type", req.PostType, "facebook_post_id", postID)
	return &transfer.PublishResult{PostID: postID}, nil
}

// ValidatePublishRequest rejects requests that can never succeed before any call is made.
func ValidatePublishRequest(req *transfer.PublishRequest) error {
	if req == nil {
		return validationError("publish request is empty")
	}
	if req.PageID == "" {
		return validationError("page id is required")
	}
	if req.AccessToken == "" {
		return validationError("access token is required")
	}
	if !models.ValidPostType(req.PostType) {
		return validationError("unknown post type %q", req.PostType)
	}

	switch req.PostType {
	case models.PostTypeText:
		if strings.TrimSpace(req.Content) == "" {
			return validationError("message is required for text posts")
		}
	case models.PostTypeCarousel:
		if len(carouselImages(req)) < 2 {
			return validationError("carousel requires at least 2 images")
		}
	default:
		if firstNonEmpty(req.MediaURLs) == "" {
			return validationError("media url is required for %s posts", req.PostType)
		}
	}
	return nil
}

func (s *facebookService) Probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, s.cfg.ProbeURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Warn("facebook probe failed", "error", err)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

func (s *facebookService) PostComment(ctx context.Context, objectID, message, accessToken string) (string, error) {
	if objectID == "" || strings.TrimSpace(message) == "" {
		return "", validationError("object id and message are required")
	}
	if accessToken == "" {
		return "", validationError("access token is required")
	}

	form := url.Values{}
	form.Set("message", message)
	form.Set("access_token", accessToken)

	var result transfer.GraphIDResponse
	err := s.plain.Do(ctx, func(ctx context.Context) error {
		return s.postForm(ctx, s.endpoint(objectID, "comments"), form, &result)
	})
	if err != nil {
		return "", err
	}
	return result.ID, nil
}

func (s *facebookService) publishPlain(ctx context.Context, req *transfer.PublishRequest) (string, error) {
	if err := s.Probe(ctx); err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("access_token", req.AccessToken)

	var edge string
	switch req.PostType {
	case models.PostTypeText:
		edge = "feed"
		form.Set("message", req.Content)
	case models.PostTypeImage:
		edge = "photos"
		form.Set("url", firstNonEmpty(req.MediaURLs))
		if req.Content != "" {
			form.Set("caption", req.Content)
		}
	case models.PostTypeVideo:
		edge = "videos"
		form.Set("file_url", firstNonEmpty(req.MediaURLs))
		if req.Content != "" {
			form.Set("description", req.Content)
		}
	}

	var result transfer.GraphIDResponse
	err := s.plain.Do(ctx, func(ctx context.Context) error {
		return s.postForm(ctx, s.endpoint(req.PageID, edge), form, &result)
	})
	if err != nil {
		return "", err
	}

	if result.PostID != "" {
		return result.PostID, nil
	}
	if result.ID == "" {
		return "", &GraphError{StatusCode: http.StatusOK, Message: "no post id returned"}
	}
	return result.ID, nil
}

// publishReel runs start, upload and finish in order. A failed phase ends the operation.
func (s *facebookService) publishReel(ctx context.Context, req *transfer.PublishRequest) (string, error) {
	reelsURL := s.endpoint(req.PageID, "video_reels")

	start := url.Values{}
	start.Set("upload_phase", "start")
	start.Set("access_token", req.AccessToken)

	var session transfer.ReelStartResponse
	err := s.phase.Do(ctx, func(ctx context.Context) error {
		return s.postForm(ctx, reelsURL, start, &session)
	})
	if err != nil {
		return "", fmt.Errorf("reel start failed: %w", err)
	}
	if session.VideoID == "" || session.UploadURL == "" {
		return "", &GraphError{StatusCode: http.StatusOK, Message: "reel start returned no upload session"}
	}

	err = s.phase.Do(ctx, func(ctx context.Context) error {
		return s.uploadReel(ctx, session.UploadURL, firstNonEmpty(req.MediaURLs), req.AccessToken)
	})
	if err != nil {
		return "", fmt.Errorf("reel upload failed: %w", err)
	}

	finish := url.Values{}
	finish.Set("upload_phase", "finish")
	finish.Set("video_id", session.VideoID)
	finish.Set("video_state", "PUBLISHED")
	finish.Set("description", req.Content)
	finish.Set("access_token", req.AccessToken)

	var done transfer.ReelFinishResponse
	err = s.phase.Do(ctx, func(ctx context.Context) error {
		return s.postForm(ctx, reelsURL, finish, &done)
	})
	if err != nil {
		return "", fmt.Errorf("reel finish failed: %w", err)
	}
	if !done.Success {
		return "", &GraphError{StatusCode: http.StatusOK, Message: "reel finish was not accepted"}
	}

	if done.PostID != "" {
		return done.PostID, nil
	}
	return session.VideoID, nil
}

func (s *facebookService) uploadReel(ctx context.Context, uploadURL, mediaURL, accessToken string) error {
	media, err := s.fetchMedia(ctx, mediaURL)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(media))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+accessToken)
	req.Header.Set("offset", "0")
	req.Header.Set("file_size", strconv.Itoa(len(media)))

	var result transfer.ReelUploadResponse
	if err := s.do(req, &result); err != nil {
		return err
	}
	if !result.Success {
		return &GraphError{StatusCode: http.StatusOK, Message: "reel upload was not accepted"}
	}
	return nil
}

func (s *facebookService) fetchMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &GraphError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to fetch media: status %d", resp.StatusCode)}
	}

	media, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read media: %w", err)
	}
	return media, nil
}

// publishCarousel uploads every image unpublished and attaches the ids to one feed post.
// Photos uploaded before a failure are left unpublished.
func (s *facebookService) publishCarousel(ctx context.Context, req *transfer.PublishRequest) (string, error) {
	images := carouselImages(req)
	mediaIDs := make([]string, 0, len(images))

	for i, image := range images {
		form := url.Values{}
		form.Set("url", image)
		form.Set("published", "false")
		form.Set("access_token", req.AccessToken)

		var photo transfer.GraphIDResponse
		err := s.phase.Do(ctx, func(ctx context.Context) error {
			return s.postForm(ctx, s.endpoint(req.PageID, "photos"), form, &photo)
		})
		if err != nil {
			return "", fmt.Errorf("carousel image %d failed: %w", i+1, err)
		}
		if photo.ID == "" {
			return "", &GraphError{StatusCode: http.StatusOK, Message: fmt.Sprintf("carousel image %d returned no media id", i+1)}
		}
		mediaIDs = append(mediaIDs, photo.ID)
	}

	form := url.Values{}
	form.Set("access_token", req.AccessToken)
	if req.Content != "" {
		form.Set("message", req.Content)
	}
	for i, id := range mediaIDs {
		attached, _ := json.Marshal(map[string]string{"media_fbid": id})
		form.Set(fmt.Sprintf("attached_media[%d]", i), string(attached))
	}

	var result transfer.GraphIDResponse
	err := s.phase.Do(ctx, func(ctx context.Context) error {
		return s.postForm(ctx, s.endpoint(req.PageID, "feed"), form, &result)
	})
	if err != nil {
		return "", fmt.Errorf("carousel publish failed: %w", err)
	}
	if result.ID == "" {
		return "", &GraphError{StatusCode: http.StatusOK, Message: "no post id returned"}
	}
	return result.ID, nil
}

func (s *facebookService) endpoint(objectID, edge string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.GraphURL, "/"), url.PathEscape(objectID), edge)
}

func (s *facebookService) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, out)
}

func (s *facebookService) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseGraphError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &GraphError{StatusCode: resp.StatusCode, Message: "error parsing response"}
	}
	return nil
}

func parseGraphError(status int, body []byte) error {
	var graphResp transfer.GraphErrorResponse
	if err := json.Unmarshal(body, &graphResp); err == nil && graphResp.Error.Message != "" {
		return &GraphError{StatusCode: status, Code: graphResp.Error.Code, Message: graphResp.Error.Message}
	}
	return &GraphError{StatusCode: status, Message: fmt.Sprintf("request failed with status %d", status)}
}

func carouselImages(req *transfer.PublishRequest) []string {
	images := nonEmpty(req.CarouselImages)
	if len(images) == 0 {
		images = nonEmpty(req.MediaURLs)
	}
	return images
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
