package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

// FacebookHandler publishes immediately, bypassing the schedule.
type FacebookHandler struct {
	fb    service.FacebookService
	pages service.PageService
}

func NewFacebookHandler(fb service.FacebookService, pages service.PageService) *FacebookHandler {
	return &FacebookHandler{fb: fb, pages: pages}
}

func (h *FacebookHandler) Post(c *fiber.Ctx) error {
	var input transfer.FacebookPostRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	token, err := h.pageToken(c.Context(), GetUserID(c), input.PageID, input.AccessToken)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.fb.Publish(c.Context(), &transfer.PublishRequest{
		PageID:         input.PageID,
		AccessToken:    token,
		PostType:       input.PostType,
		Content:        input.Message,
		MediaURLs:      input.MediaURLs,
		CarouselImages: input.CarouselImages,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *FacebookHandler) Reel(c *fiber.Ctx) error {
	var input transfer.FacebookReelRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	token, err := h.pageToken(c.Context(), GetUserID(c), input.PageID, input.AccessToken)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.fb.Publish(c.Context(), &transfer.PublishRequest{
		PageID:      input.PageID,
		AccessToken: token,
		PostType:    models.PostTypeReel,
		Content:     input.Description,
		MediaURLs:   []string{input.VideoURL},
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *FacebookHandler) Comment(c *fiber.Ctx) error {
	var input transfer.FacebookCommentRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Unable to parse json")
	}
	if input.ObjectID == "" || input.Message == "" {
		return badRequest(c, "object_id and message are required")
	}

	token, err := h.pageToken(c.Context(), GetUserID(c), input.PageID, input.AccessToken)
	if err != nil {
		return respondError(c, err)
	}

	commentID, err := h.fb.PostComment(c.Context(), input.ObjectID, input.Message, token)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id": commentID,
	})
}

// pageToken prefers a caller supplied token and otherwise uses the stored
// token of a page the user owns.
func (h *FacebookHandler) pageToken(ctx context.Context, userID int64, pageID, supplied string) (string, error) {
	if supplied != "" {
		return supplied, nil
	}
	if pageID == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "page_id is required")
	}

	owns, err := h.pages.Owns(ctx, userID, pageID)
	if err != nil {
		return "", err
	}
	if !owns {
		return "", service.ErrPageCredentials
	}

	return h.pages.AccessToken(ctx, pageID)
}
