package handlers

import (
	"io"
	"log"
	"strconv"

	"github.com/copromote/henry-help/app/dto"
	businessflow "github.com/copromote/henry-help/business_flow"
	"github.com/gofiber/fiber/v3"
)

// CallHandlerInterface defines the contract for call dispatch handlers
type CallHandlerInterface interface {
	TriggerCall(c fiber.Ctx) error
	ImportProspects(c fiber.Ctx) error
	ListCallRecords(c fiber.Ctx) error
}

// CallHandler handles outbound call HTTP requests
type CallHandler struct {
	BaseHandler
	callFlow businessflow.CallFlow
}

// NewCallHandler creates a new call handler
func NewCallHandler(callFlow businessflow.CallFlow) *CallHandler {
	return &CallHandler{
		BaseHandler: NewBaseHandler(),
		callFlow:    callFlow,
	}
}

// TriggerCall dispatches one outbound warranty call. Dashboard polling treats
// any non-200 as an outage, so dispatch failures still answer 200 and report
// the outcome in the body.
// @Summary Trigger Call
// @Description Dispatch one outbound call for a campaign, to a stored prospect or ad-hoc test data
// @Tags Calls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TriggerCallRequest true "Dispatch target"
// @Success 200 {object} dto.APIResponse{data=dto.TriggerCallResponse} "Dispatch outcome, success or failure"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/calls/trigger [post]
func (h *CallHandler) TriggerCall(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	var req dto.TriggerCallRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SellerID = sellerID

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}
	if req.ProspectUUID == nil && req.TestPhone == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Either prospect_uuid or test_phone is required", "INVALID_REQUEST", nil)
	}

	result, err := h.callFlow.TriggerCall(h.createRequestContext(c, "/api/v1/calls/trigger"), &req, h.clientMetadata(c))
	if err != nil {
		return h.SuccessResponse(c, fiber.StatusOK, "Dispatch failed", h.dispatchFailure(err))
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ImportProspects ingests a lead sheet of prospects for the seller. When the
// seller's profile uses the individual model, the stored column mapping is
// applied to each row to capture per-prospect plan prices.
// @Summary Import Prospects
// @Description Upload a CSV/XLSX lead sheet and create prospect records
// @Tags Calls
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Lead sheet (CSV or XLSX, <=10MB)"
// @Success 200 {object} dto.APIResponse{data=dto.ProspectImportResponse} "Import summary"
// @Failure 400 {object} dto.APIResponse "Invalid or unusable file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/calls/prospects [post]
func (h *CallHandler) ImportProspects(c fiber.Ctx) error {
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

	result, err := h.callFlow.ImportProspects(h.createRequestContext(c, "/api/v1/calls/prospects"), sellerID, fileHeader.Filename, data, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsUploadEmpty(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Uploaded sheet has no usable rows", dto.ErrorUploadEmpty, nil)
		}
		if businessflow.IsProspectSheetInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Lead sheet needs a phone column", dto.ErrorProspectSheetInvalid, nil)
		}
		if businessflow.IsSellerNotFound(err) || businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
		}
		log.Println("Prospect import failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Prospect import failed", "PROSPECT_IMPORT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// ListCallRecords lists the seller's call records newest first
// @Summary List Call Records
// @Description List the seller's call records with pagination
// @Tags Calls
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListCallRecordsResponse} "Call records"
// @Router /api/v1/calls [get]
func (h *CallHandler) ListCallRecords(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	page, limit := 1, 10
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	result, err := h.callFlow.ListCallRecords(h.createRequestContext(c, "/api/v1/calls"), sellerID, page, limit)
	if err != nil {
		log.Println("Call record listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Call record listing failed", "CALL_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Call records", result)
}

// dispatchFailure folds a business error into the 200-with-failure-body shape.
func (h *CallHandler) dispatchFailure(err error) *dto.TriggerCallResponse {
	resp := &dto.TriggerCallResponse{Success: false, Message: "Call dispatch failed"}

	switch {
	case businessflow.IsCampaignNotFound(err), businessflow.IsCampaignAccessDenied(err):
		resp.Error = "campaign not found"
		resp.Code = dto.ErrorCampaignNotFound
	case businessflow.IsCampaignNotDispatchable(err):
		resp.Error = "campaign is not active"
		resp.Code = dto.ErrorCampaignInactive
	case businessflow.IsProspectNotFound(err):
		resp.Error = "prospect not found"
		resp.Code = dto.ErrorProspectNotFound
	case businessflow.IsProspectDoNotCall(err):
		resp.Error = "prospect is on the do-not-call list"
		resp.Code = dto.ErrorProspectDoNotCall
	default:
		log.Println("Call dispatch failed", err)
		resp.Error = "internal error"
		resp.Code = dto.ErrorDispatchFailed
	}

	return resp
}
