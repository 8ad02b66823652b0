package handlers

import (
	"io"
	"log"

	"github.com/copromote/henry-help/app/dto"
	businessflow "github.com/copromote/henry-help/business_flow"
	"github.com/gofiber/fiber/v3"
)

// maxPriceSheetBytes caps uploaded price sheets at 10MB.
const maxPriceSheetBytes = 10 << 20

// DiscoveryHandlerInterface defines the contract for pricing discovery handlers
type DiscoveryHandlerInterface interface {
	UploadPriceSheet(c fiber.Ctx) error
	SetManualPricing(c fiber.Ctx) error
	UpdateRetentionSettings(c fiber.Ctx) error
	UpdatePersona(c fiber.Ctx) error
	GetProfile(c fiber.Ctx) error
}

// DiscoveryHandler handles price-sheet discovery and program profile HTTP requests
type DiscoveryHandler struct {
	BaseHandler
	discoveryFlow businessflow.DiscoveryFlow
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(discoveryFlow businessflow.DiscoveryFlow) *DiscoveryHandler {
	return &DiscoveryHandler{
		BaseHandler:   NewBaseHandler(),
		discoveryFlow: discoveryFlow,
	}
}

// UploadPriceSheet runs pricing discovery over an uploaded CSV or XLSX price sheet
// @Summary Upload Price Sheet
// @Description Upload a CSV/XLSX price sheet and infer the seller's pricing model
// @Tags Discovery
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Price sheet (CSV or XLSX, <=10MB)"
// @Success 200 {object} dto.APIResponse{data=dto.DiscoveryResponse} "Discovery complete"
// @Failure 400 {object} dto.APIResponse "Invalid or unclassifiable file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/discovery/upload [post]
func (h *DiscoveryHandler) UploadPriceSheet(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "file is required", "INVALID_FILE", nil)
	}
	if fileHeader.Size > maxPriceSheetBytes {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "File too large", "FILE_TOO_LARGE", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPriceSheetBytes+1))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}

	result, err := h.discoveryFlow.RunDiscovery(h.createRequestContext(c, "/api/v1/discovery/upload"), sellerID, fileHeader.Filename, data, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsUploadEmpty(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Uploaded sheet has no usable rows", dto.ErrorUploadEmpty, nil)
		}
		if businessflow.IsUploadNotClassifiable(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Could not infer a pricing model from the sheet", dto.ErrorNotClassifiable, nil)
		}
		if businessflow.IsSellerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Seller not found", dto.ErrorSellerNotFound, nil)
		}

		log.Println("Discovery failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Discovery failed", "DISCOVERY_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Discovery complete", result)
}

// SetManualPricing sets flat plan prices directly, bypassing discovery
// @Summary Set Manual Pricing
// @Description Set flat 1/2/3 year plan prices by hand
// @Tags Discovery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ManualPricingRequest true "Flat plan prices"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Pricing updated"
// @Router /api/v1/discovery/manual-pricing [put]
func (h *DiscoveryHandler) SetManualPricing(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	var req dto.ManualPricingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SellerID = sellerID

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.discoveryFlow.SetManualPricing(h.createRequestContext(c, "/api/v1/discovery/manual-pricing"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsManualPriceInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Plan prices must increase with term length", dto.ErrorManualPriceNeeded, nil)
		}

		log.Println("Manual pricing update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Manual pricing update failed", "MANUAL_PRICING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Pricing updated", result)
}

// UpdateRetentionSettings updates the save-offer configuration
// @Summary Update Retention Settings
// @Description Configure the discount the agent may offer to save a declining prospect
// @Tags Discovery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RetentionSettingsRequest true "Retention settings"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Settings updated"
// @Router /api/v1/discovery/retention [put]
func (h *DiscoveryHandler) UpdateRetentionSettings(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	var req dto.RetentionSettingsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SellerID = sellerID

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.discoveryFlow.UpdateRetentionSettings(h.createRequestContext(c, "/api/v1/discovery/retention"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsRetentionOutOfRange(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Retention discount out of range", "RETENTION_OUT_OF_RANGE", nil)
		}
		if businessflow.IsProfileNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Program profile not found", dto.ErrorProfileNotFound, nil)
		}

		log.Println("Retention settings update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Retention settings update failed", "RETENTION_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Settings updated", result)
}

// UpdatePersona updates the voice agent persona and guardrails
// @Summary Update Persona
// @Description Update the voice agent's persona, tone and topic guardrails
// @Tags Discovery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePersonaRequest true "Persona fields"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Persona updated"
// @Router /api/v1/discovery/persona [put]
func (h *DiscoveryHandler) UpdatePersona(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	var req dto.UpdatePersonaRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SellerID = sellerID

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.discoveryFlow.UpdatePersona(h.createRequestContext(c, "/api/v1/discovery/persona"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsProfileNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Program profile not found", dto.ErrorProfileNotFound, nil)
		}

		log.Println("Persona update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Persona update failed", "PERSONA_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Persona updated", result)
}

// GetProfile returns the seller's current program profile
// @Summary Get Program Profile
// @Description Fetch the seller's warranty program profile and pricing state
// @Tags Discovery
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse} "Profile"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /api/v1/discovery/profile [get]
func (h *DiscoveryHandler) GetProfile(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	result, err := h.discoveryFlow.GetProfile(h.createRequestContext(c, "/api/v1/discovery/profile"), sellerID)
	if err != nil {
		if businessflow.IsProfileNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Program profile not found", dto.ErrorProfileNotFound, nil)
		}

		log.Println("Profile fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Profile fetch failed", "PROFILE_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Profile", result)
}
