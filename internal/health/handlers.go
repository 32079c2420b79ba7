package health

import (
	"context"

	"folio-backend/internal/middleware"
	"folio-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers bundles the health endpoints.
type Handlers struct {
	Rdb            *redis.Client
	Upstreams      Upstreams
	HealthAdminKey string
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := CollectHealth(c.Context(), h.Rdb, h.Upstreams)
	return c.Status(fiber.StatusOK).JSON(result)
}

// Reset GET /health/reset — clears the traffic counters. Guarded by the
// admin key when one is configured.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if h.HealthAdminKey != "" && c.Query("key") != h.HealthAdminKey {
		return response.Error(c, "Forbidden", fiber.StatusForbidden, nil)
	}
	if h.Rdb != nil {
		ctx := context.Background()
		h.Rdb.Del(ctx,
			middleware.KeyReqTotal,
			middleware.KeyReqErrors,
			middleware.KeyResTime,
			middleware.KeyResCount,
			middleware.KeyStartTime,
			middleware.KeyLastReq,
		)
	}
	return response.Success(c, "Health counters reset", nil, nil)
}
