package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type PageHandler struct {
	s service.PageService
}

func NewPageHandler(service service.PageService) *PageHandler {
	return &PageHandler{s: service}
}

func (h *PageHandler) ListPages(c *fiber.Ctx) error {
	userID := GetUserID(c)

	pages, err := h.s.List(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(pages)
}

func (h *PageHandler) SyncPages(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var input transfer.PageSyncRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	synced, err := h.s.Sync(c.Context(), userID, input.Pages)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"synced": synced,
	})
}

func (h *PageHandler) RemovePage(c *fiber.Ctx) error {
	userID := GetUserID(c)
	pageID := c.Query("id")

	if pageID == "" {
		return badRequest(c, "page id is required")
	}

	if err := h.s.Remove(c.Context(), userID, pageID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
