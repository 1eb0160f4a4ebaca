package handlers

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

func (h *MediaHandler) UploadMedia(c *fiber.Ctx) error {
	userID := GetUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file selected")
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error(err.Error())
		return badRequest(c, "Unable to read file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error(err.Error())
		return badRequest(c, "Unable to read file")
	}

	result, err := h.s.Upload(c.Context(), userID, data, c.FormValue("folder"), c.FormValue("resource_type", "auto"))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MediaHandler) DeleteMedia(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var input transfer.MediaDelete
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	result, err := h.s.Delete(c.Context(), userID, input.PublicID, input.ResourceType)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
