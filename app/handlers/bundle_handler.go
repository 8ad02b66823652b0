package handlers

import (
	"log"
	"strconv"

	"github.com/copromote/henry-help/app/dto"
	businessflow "github.com/copromote/henry-help/business_flow"
	"github.com/gofiber/fiber/v3"
)

// BundleHandlerInterface defines the contract for bundle handlers
type BundleHandlerInterface interface {
	ProposeBundle(c fiber.Ctx) error
	DecideBundle(c fiber.Ctx) error
	GetBundle(c fiber.Ctx) error
	ListBundles(c fiber.Ctx) error
}

// BundleHandler handles cross-seller bundle HTTP requests
type BundleHandler struct {
	BaseHandler
	bundleFlow businessflow.BundleFlow
}

// NewBundleHandler creates a new bundle handler
func NewBundleHandler(bundleFlow businessflow.BundleFlow) *BundleHandler {
	return &BundleHandler{
		BaseHandler: NewBaseHandler(),
		bundleFlow:  bundleFlow,
	}
}

// ProposeBundle proposes a new product bundle, optionally to a partner seller
// @Summary Propose Bundle
// @Description Propose a product bundle, alone or with a partner seller
// @Tags Bundles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBundleRequest true "Bundle proposal"
// @Success 201 {object} dto.APIResponse{data=dto.CreateBundleResponse} "Bundle proposed"
// @Failure 404 {object} dto.APIResponse "Partner or product not found"
// @Router /api/v1/bundles [post]
func (h *BundleHandler) ProposeBundle(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	var req dto.CreateBundleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SellerID = sellerID

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.bundleFlow.ProposeBundle(h.createRequestContext(c, "/api/v1/bundles"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsPartnerSellerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Partner seller not found", dto.ErrorPartnerNotFound, nil)
		}
		if be, ok := err.(*businessflow.BusinessError); ok {
			switch be.Code {
			case "BUNDLE_VALIDATION_FAILED":
				return h.ErrorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, nil)
			case "BUNDLE_CREATION_FAILED":
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Bundle products could not be resolved", be.Code, be.Error())
			}
		}

		log.Println("Bundle proposal failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Bundle proposal failed", "BUNDLE_PROPOSE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Bundle proposed", result)
}

// DecideBundle lets the partner accept or decline a proposed bundle
// @Summary Decide Bundle
// @Description Accept or decline a bundle proposed to the seller
// @Tags Bundles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Bundle UUID"
// @Param request body dto.BundleDecisionRequest true "accepted or declined"
// @Success 200 {object} dto.APIResponse{data=dto.GetBundleResponse} "Decision recorded"
// @Router /api/v1/bundles/{uuid}/decision [put]
func (h *BundleHandler) DecideBundle(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	var req dto.BundleDecisionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = c.Params("uuid")
	req.SellerID = sellerID

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.bundleFlow.DecideBundle(h.createRequestContext(c, "/api/v1/bundles/:uuid/decision"), &req, h.clientMetadata(c))
	if err != nil {
		return h.bundleError(c, err, "Bundle decision failed", "BUNDLE_DECISION_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Decision recorded", result)
}

// GetBundle fetches one bundle visible to the seller
// @Summary Get Bundle
// @Description Fetch a bundle the seller proposed or was invited to
// @Tags Bundles
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Bundle UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetBundleResponse} "Bundle"
// @Failure 404 {object} dto.APIResponse "Bundle not found"
// @Router /api/v1/bundles/{uuid} [get]
func (h *BundleHandler) GetBundle(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	result, err := h.bundleFlow.GetBundle(h.createRequestContext(c, "/api/v1/bundles/:uuid"), c.Params("uuid"), sellerID)
	if err != nil {
		return h.bundleError(c, err, "Bundle fetch failed", "BUNDLE_FETCH_FAILED")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Bundle", result)
}

// ListBundles lists bundles the seller proposed or was invited to
// @Summary List Bundles
// @Description List bundles the seller proposed or was invited to, with pagination
// @Tags Bundles
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListBundlesResponse} "Bundles"
// @Router /api/v1/bundles [get]
func (h *BundleHandler) ListBundles(c fiber.Ctx) error {
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

	result, err := h.bundleFlow.ListBundles(h.createRequestContext(c, "/api/v1/bundles"), sellerID, page, limit)
	if err != nil {
		log.Println("Bundle listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Bundle listing failed", "BUNDLE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Bundles", result)
}

func (h *BundleHandler) bundleError(c fiber.Ctx, err error, message, code string) error {
	if businessflow.IsBundleNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Bundle not found", dto.ErrorBundleNotFound, nil)
	}
	if businessflow.IsBundleAccessDenied(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Bundle belongs to other sellers", "BUNDLE_ACCESS_DENIED", nil)
	}
	if businessflow.IsBundleNotActionable(err) {
		return h.ErrorResponse(c, fiber.StatusConflict, "Bundle has already been decided", dto.ErrorBundleNotActionable, nil)
	}

	log.Println(message, err)
	return h.ErrorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}
