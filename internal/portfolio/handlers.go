package portfolio

import (
	"errors"
	"net/url"

	"folio-backend/internal/domain"
	"folio-backend/internal/pkg/response"
	"folio-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles the portfolio HTTP handlers.
type Handlers struct {
	Service *Service
}

// GetHoldings GET /api/v1/portfolio/holdings
func (h *Handlers) GetHoldings(c *fiber.Ctx) error {
	return response.Success(c, "Portfolio fetched successfully", h.Service.View(), nil)
}

// GetSummary GET /api/v1/portfolio/summary
func (h *Handlers) GetSummary(c *fiber.Ctx) error {
	v := h.Service.View()
	return response.Success(c, "Portfolio summary fetched successfully", fiber.Map{
		"summary":     v.Summary,
		"lastUpdated": v.LastUpdated,
	}, nil)
}

// GetSectors GET /api/v1/portfolio/sectors
func (h *Handlers) GetSectors(c *fiber.Ctx) error {
	labels, err := h.Service.ListSectors(c.Context())
	if err != nil {
		return response.Error(c, "Failed to fetch sectors", fiber.StatusBadGateway, errDetails(err))
	}
	return response.Success(c, "Sectors fetched successfully", fiber.Map{
		"sectors": h.Service.Sectors(),
		"labels":  labels,
	}, nil)
}

// GetStocksBySector GET /api/v1/portfolio/sectors/:sector/stocks
func (h *Handlers) GetStocksBySector(c *fiber.Ctx) error {
	sector, err := decodeSectorParam(c)
	if err != nil {
		return response.Error(c, "Invalid sector", fiber.StatusBadRequest, nil)
	}
	stocks, err := h.Service.StocksBySector(c.Context(), sector)
	if err != nil {
		if errors.Is(err, domain.ErrSectorNotFound) {
			return response.Error(c, "Sector not found", fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Failed to fetch stocks by sector", fiber.StatusBadGateway, errDetails(err))
	}
	return response.Success(c, "Stocks fetched successfully", stocks, nil)
}

type renameSectorRequest struct {
	NewSector string `json:"newSector"`
}

// RenameSector PUT /api/v1/portfolio/sectors/:sector
func (h *Handlers) RenameSector(c *fiber.Ctx) error {
	sector, err := decodeSectorParam(c)
	if err != nil {
		return response.Error(c, "Invalid sector", fiber.StatusBadRequest, nil)
	}
	var req renameSectorRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if err := validation.ValidateSectorLabel(req.NewSector); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	if err := h.Service.RenameSector(c.Context(), sector, req.NewSector); err != nil {
		switch {
		case errors.Is(err, domain.ErrSectorNotFound):
			return response.Error(c, "Sector not found", fiber.StatusNotFound, nil)
		case errors.Is(err, domain.ErrRefreshInFlight):
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return response.Error(c, "Failed to rename sector", fiber.StatusBadGateway, errDetails(err))
		}
	}
	return response.Success(c, "Sector renamed successfully", nil, nil)
}

// AddHolding POST /api/v1/portfolio/holdings
func (h *Handlers) AddHolding(c *fiber.Ctx) error {
	var in domain.HoldingInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if err := validation.ValidateHoldingInput(in); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	created, err := h.Service.AddHolding(c.Context(), in)
	if err != nil && created.ID == "" {
		return response.Error(c, "Failed to add holding", fiber.StatusBadGateway, errDetails(err))
	}
	return response.SuccessCreated(c, "Holding added successfully", created, refreshMeta(err))
}

// UpdateHolding PUT /api/v1/portfolio/holdings/:id
func (h *Handlers) UpdateHolding(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return response.Error(c, "Holding id is required", fiber.StatusBadRequest, nil)
	}
	var in domain.HoldingInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if err := validation.ValidateHoldingInput(in); err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	updated, err := h.Service.UpdateHolding(c.Context(), id, in)
	if err != nil && updated.ID == "" {
		if errors.Is(err, domain.ErrHoldingNotFound) {
			return response.Error(c, "Holding not found", fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Failed to update holding", fiber.StatusBadGateway, errDetails(err))
	}
	return response.Success(c, "Holding updated successfully", updated, refreshMeta(err))
}

// DeleteHolding DELETE /api/v1/portfolio/holdings/:id
func (h *Handlers) DeleteHolding(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return response.Error(c, "Holding id is required", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.DeleteHolding(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrHoldingNotFound):
			return response.Error(c, "Holding not found", fiber.StatusNotFound, nil)
		case errors.Is(err, domain.ErrRefreshInFlight):
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return response.Error(c, "Failed to delete holding", fiber.StatusBadGateway, errDetails(err))
		}
	}
	return response.Success(c, "Holding deleted successfully", nil, nil)
}

// Refresh POST /api/v1/portfolio/refresh
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	if err := h.Service.Refresh(c.Context()); err != nil {
		if errors.Is(err, domain.ErrRefreshInFlight) {
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		}
		return response.Error(c, "Failed to refresh holdings", fiber.StatusBadGateway, errDetails(err))
	}
	return response.Success(c, "Portfolio refreshed successfully", h.Service.View(), nil)
}

// RefreshPrices POST /api/v1/portfolio/prices
func (h *Handlers) RefreshPrices(c *fiber.Ctx) error {
	if err := h.Service.UpdateLivePrices(c.Context()); err != nil {
		if errors.Is(err, domain.ErrRefreshInFlight) {
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		}
		return response.Error(c, "Failed to update live prices", fiber.StatusBadGateway, errDetails(err))
	}
	return response.Success(c, "Live prices updated successfully", h.Service.View(), nil)
}

// decodeSectorParam unescapes the :sector path segment; labels may carry
// spaces and slashes.
func decodeSectorParam(c *fiber.Ctx) (string, error) {
	sector, err := url.PathUnescape(c.Params("sector"))
	if err != nil || sector == "" {
		return "", errors.New("invalid sector")
	}
	return sector, nil
}

func errDetails(err error) fiber.Map {
	if err == nil {
		return nil
	}
	return fiber.Map{"message": err.Error()}
}

// refreshMeta surfaces a post-mutation refresh failure without hiding the
// successful mutation itself: the backend accepted the change, the displayed
// snapshot is just stale until the next refresh.
func refreshMeta(err error) fiber.Map {
	if err == nil {
		return nil
	}
	return fiber.Map{"refreshError": err.Error()}
}
