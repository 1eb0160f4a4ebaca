package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type GenerateHandler struct {
	s service.CaptionService
}

func NewGenerateHandler(service service.CaptionService) *GenerateHandler {
	return &GenerateHandler{s: service}
}

func (h *GenerateHandler) GenerateCaptions(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var input transfer.CaptionRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	result, err := h.s.GenerateCaptions(c.Context(), userID, &input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *GenerateHandler) GeneratePrompts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var input transfer.PromptRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	result, err := h.s.GeneratePrompts(c.Context(), userID, &input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
