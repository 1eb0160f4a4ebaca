package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

type PassRunner interface {
	Run(ctx context.Context) (*transfer.DispatchSummary, error)
}

type DuePosts interface {
	Due(ctx context.Context) ([]*models.ScheduledPost, error)
}

type SchedulerControl interface {
	Start() error
	Stop()
	IsRunning() bool
}

type CronHandler struct {
	runner    PassRunner
	due       DuePosts
	scheduler SchedulerControl
}

func NewCronHandler(runner PassRunner, due DuePosts, scheduler SchedulerControl) *CronHandler {
	return &CronHandler{
		runner:    runner,
		due:       due,
		scheduler: scheduler,
	}
}

func (h *CronHandler) ProcessScheduledPosts(c *fiber.Ctx) error {
	summary, err := h.runner.Run(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}

func (h *CronHandler) PreviewScheduledPosts(c *fiber.Ctx) error {
	posts, err := h.due.Due(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	return c.Status(fiber.StatusOK).JSON(transfer.DispatchPreview{
		Due:              len(posts),
		PostIDs:          ids,
		SchedulerRunning: h.scheduler.IsRunning(),
	})
}

func (h *CronHandler) StartScheduler(c *fiber.Ctx) error {
	if err := h.scheduler.Start(); err != nil {
		return respondError(c, err)
	}
	return h.SchedulerStatus(c)
}

func (h *CronHandler) StopScheduler(c *fiber.Ctx) error {
	h.scheduler.Stop()
	return h.SchedulerStatus(c)
}

func (h *CronHandler) SchedulerStatus(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"running": h.scheduler.IsRunning(),
	})
}
