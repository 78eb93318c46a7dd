package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-tracker/internal/service"
)

// StatsHandler exposes the aggregate ticket report.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// Get GET /stats.
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	report, err := h.service.Report(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(report)
}
