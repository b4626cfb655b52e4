package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ndisfraud/internal/service"
	"ndisfraud/internal/tools"
)

// ItemHandler exposes the verification tools as direct lookups.
type ItemHandler struct {
	verificationService service.VerificationService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(verificationService service.VerificationService) *ItemHandler {
	return &ItemHandler{verificationService: verificationService}
}

// Exists handles GET /api/v1/items/:code
// @Summary Check item code
// @Description Look up a support item code in the active price schedule
// @Tags items
// @Produce json
// @Param code path string true "Support item code" example(01_002_0107_1_1)
// @Success 200 {object} Response{data=tools.Outcome} "Lookup outcome"
// @Router /api/v1/items/{code} [get]
func (h *ItemHandler) Exists(c *gin.Context) {
	RespondOK(c, h.verificationService.ItemExists(c.Param("code")))
}

// Pricing handles GET /api/v1/items/:code/pricing?price=&location=
// @Summary Check item price
// @Description Compare a claimed unit price against the schedule cap for a location
// @Tags items
// @Produce json
// @Param code path string true "Support item code"
// @Param price query string true "Claimed unit price" example(78.81)
// @Param location query string false "Location type: standard, remote, very_remote" default(standard)
// @Success 200 {object} Response{data=tools.Outcome} "Pricing outcome"
// @Failure 400 {object} ErrorResponseBody "Missing or invalid price"
// @Router /api/v1/items/{code}/pricing [get]
func (h *ItemHandler) Pricing(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("price"))
	if raw == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_PRICE", "price query parameter is required")
		return
	}
	price, err := tools.ParsePrice(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PRICE", "price must be a decimal number")
		return
	}
	RespondOK(c, h.verificationService.ItemPricing(c.Param("code"), price, c.DefaultQuery("location", "standard")))
}

// OldPricing handles GET /api/v1/items/:code/old-pricing
// @Summary Check item against the old schedule
// @Description Report whether the item appears in the inactive price schedule
// @Tags items
// @Produce json
// @Param code path string true "Support item code"
// @Success 200 {object} Response{data=tools.Outcome} "Old pricing outcome"
// @Router /api/v1/items/{code}/old-pricing [get]
func (h *ItemHandler) OldPricing(c *gin.Context) {
	RespondOK(c, h.verificationService.OldPricingCheck(c.Param("code")))
}
