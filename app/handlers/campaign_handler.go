package handlers

import (
	"log"
	"strconv"

	"github.com/copromote/henry-help/app/dto"
	businessflow "github.com/copromote/henry-help/business_flow"
	"github.com/gofiber/fiber/v3"
)

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	CreateCampaign(c fiber.Ctx) error
	UpdateCampaign(c fiber.Ctx) error
	GetCampaign(c fiber.Ctx) error
	ListCampaigns(c fiber.Ctx) error
	ChangeStatus(c fiber.Ctx) error
	AutosaveCampaign(c fiber.Ctx) error
}

// CampaignHandler handles campaign lifecycle HTTP requests
type CampaignHandler struct {
	BaseHandler
	campaignFlow businessflow.CampaignFlow
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow) *CampaignHandler {
	return &CampaignHandler{
		BaseHandler:  NewBaseHandler(),
		campaignFlow: campaignFlow,
	}
}

// CreateCampaign creates a new calling campaign in draft state
// @Summary Create Campaign
// @Description Create a new voice campaign in draft status
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCampaignRequest true "Campaign data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateCampaignResponse} "Campaign created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/campaigns [post]
func (h *CampaignHandler) CreateCampaign(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	var req dto.CreateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SellerID = sellerID

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.campaignFlow.CreateCampaign(h.createRequestContext(c, "/api/v1/campaigns"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsProfileNotDiscovered(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Run pricing discovery before creating campaigns", "PROFILE_NOT_DISCOVERED", nil)
		}

		log.Println("Campaign creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign creation failed", "CAMPAIGN_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Campaign created", result)
}

// UpdateCampaign updates a campaign's configuration
// @Summary Update Campaign
// @Description Update the configuration of a draft or paused campaign
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Campaign UUID"
// @Param request body dto.UpdateCampaignRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateCampaignResponse} "Campaign updated"
// @Router /api/v1/campaigns/{uuid} [put]
func (h *CampaignHandler) UpdateCampaign(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	var req dto.UpdateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = c.Params("uuid")
	req.SellerID = sellerID

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.campaignFlow.UpdateCampaign(h.createRequestContext(c, "/api/v1/campaigns/:uuid"), &req, h.clientMetadata(c))
	if err != nil {
		return h.campaignError(c, err, "Campaign update failed", "CAMPAIGN_UPDATE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign updated", result)
}

// GetCampaign fetches one campaign by UUID
// @Summary Get Campaign
// @Description Fetch a single campaign the seller owns
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Campaign UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetCampaignResponse} "Campaign"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Router /api/v1/campaigns/{uuid} [get]
func (h *CampaignHandler) GetCampaign(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	result, err := h.campaignFlow.GetCampaign(h.createRequestContext(c, "/api/v1/campaigns/:uuid"), c.Params("uuid"), sellerID)
	if err != nil {
		return h.campaignError(c, err, "Campaign fetch failed", "CAMPAIGN_FETCH_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaign", result)
}

// ListCampaigns lists the seller's campaigns with pagination
// @Summary List Campaigns
// @Description List the seller's campaigns with optional status/title filters
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param status query string false "Filter by status (draft|active|paused|archived)"
// @Param title query string false "Filter by title (contains)"
// @Success 200 {object} dto.APIResponse{data=dto.ListCampaignsResponse} "Campaigns"
// @Router /api/v1/campaigns [get]
func (h *CampaignHandler) ListCampaigns(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	req := dto.ListCampaignsRequest{SellerID: sellerID, Page: 1, Limit: 10}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		req.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		req.Limit = v
	}
	if v := c.Query("status"); v != "" {
		req.Status = &v
	}
	if v := c.Query("title"); v != "" {
		req.Title = &v
	}

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.campaignFlow.ListCampaigns(h.createRequestContext(c, "/api/v1/campaigns"), &req, h.clientMetadata(c))
	if err != nil {
		log.Println("Campaign listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Campaign listing failed", "CAMPAIGN_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Campaigns", result)
}

// ChangeStatus transitions a campaign between lifecycle states
// @Summary Change Campaign Status
// @Description Move a campaign between draft, active, paused and archived
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Campaign UUID"
// @Param request body dto.CampaignStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateCampaignResponse} "Status changed"
// @Router /api/v1/campaigns/{uuid}/status [put]
func (h *CampaignHandler) ChangeStatus(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	var req dto.CampaignStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = c.Params("uuid")
	req.SellerID = sellerID

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.campaignFlow.ChangeStatus(h.createRequestContext(c, "/api/v1/campaigns/:uuid/status"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsInvalidStatusTransition(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Status transition not allowed", "INVALID_STATUS_TRANSITION", err.Error())
		}
		if businessflow.IsCampaignScriptRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Campaign needs a script before activation", "CAMPAIGN_SCRIPT_REQUIRED", nil)
		}
		return h.campaignError(c, err, "Status change failed", "CAMPAIGN_STATUS_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Status changed", result)
}

// AutosaveCampaign accepts a debounced configuration edit
// @Summary Autosave Campaign
// @Description Queue a campaign configuration edit; it is persisted after a quiet period
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Campaign UUID"
// @Param request body dto.AutosaveCampaignRequest true "Draft fields"
// @Success 202 {object} dto.APIResponse "Autosave queued"
// @Router /api/v1/campaigns/{uuid}/autosave [post]
func (h *CampaignHandler) AutosaveCampaign(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	var req dto.AutosaveCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = c.Params("uuid")
	req.SellerID = sellerID

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	if err := h.campaignFlow.AutosaveConfig(h.createRequestContext(c, "/api/v1/campaigns/:uuid/autosave"), &req, h.clientMetadata(c)); err != nil {
		return h.campaignError(c, err, "Autosave failed", "CAMPAIGN_AUTOSAVE_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusAccepted, "Autosave queued", nil)
}

func (h *CampaignHandler) campaignError(c fiber.Ctx, err error, message, code string) error {
	if businessflow.IsCampaignNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
	}
	if businessflow.IsCampaignAccessDenied(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Campaign belongs to another seller", "CAMPAIGN_ACCESS_DENIED", nil)
	}
	if businessflow.IsCampaignUpdateNotAllowed(err) {
		return h.ErrorResponse(c, fiber.StatusConflict, "Campaign cannot be edited in its current status", "CAMPAIGN_UPDATE_NOT_ALLOWED", nil)
	}

	log.Println(message, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}
