package handler

import (
	"context"
	"time"

	"trivia-gen/internal/domain"
	"trivia-gen/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// Pinger is anything whose reachability can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the extraction/generation backend and the
// question cache are reachable.
type HealthHandler struct {
	backend Pinger
	cache   Pinger
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. cache may be nil.
func NewHealthHandler(backend Pinger, cache Pinger, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HealthHandler{backend: backend, cache: cache, timeout: timeout}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	if err := h.backend.Ping(ctx); err != nil {
		return domain.NewBackendUnavailableError(err)
	}

	resp := dto.HealthResponse{Status: "ok", Backend: "up"}
	if h.cache != nil {
		// The cache only saves work, so a dead cache degrades rather than fails.
		resp.Cache = "up"
		if err := h.cache.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Cache = "down"
		}
	}
	return c.JSON(resp)
}
