package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type SettingsHandler struct {
	s service.SettingsService
}

func NewSettingsHandler(service service.SettingsService) *SettingsHandler {
	return &SettingsHandler{s: service}
}

func (h *SettingsHandler) GetSettingsInfo(c *fiber.Ctx) error {
	userId := GetUserID(c)

	settingsInfo, err := h.s.Get(c.Context(), userId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(settingsInfo)
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var settings transfer.SettingsUpdate
	if err := c.BodyParser(&settings); err != nil {
		return badRequest(c, "Unable to parse json")
	}

	if err := h.s.Update(c.Context(), userId, &settings); err != nil {
		return respondError(c, err)
	}

	view, err := h.s.Get(c.Context(), userId)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}
