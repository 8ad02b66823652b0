package handlers

import (
	"log"
	"strconv"

	"github.com/copromote/henry-help/app/dto"
	businessflow "github.com/copromote/henry-help/business_flow"
	"github.com/gofiber/fiber/v3"
)

// CatalogHandlerInterface defines the contract for catalog handlers
type CatalogHandlerInterface interface {
	SyncCatalog(c fiber.Ctx) error
	ListProducts(c fiber.Ctx) error
}

// CatalogHandler handles store catalog HTTP requests
type CatalogHandler struct {
	BaseHandler
	catalogFlow businessflow.CatalogFlow
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogFlow businessflow.CatalogFlow) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(),
		catalogFlow: catalogFlow,
	}
}

// SyncCatalog pulls the seller's product catalog from their store platform
// @Summary Sync Catalog
// @Description Pull products from the seller's Shopify or WooCommerce store
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CatalogSyncRequest true "Store connection"
// @Success 200 {object} dto.APIResponse{data=dto.CatalogSyncResponse} "Sync complete"
// @Failure 400 {object} dto.APIResponse "Unsupported platform"
// @Failure 502 {object} dto.APIResponse "Store unreachable"
// @Router /api/v1/catalog/sync [post]
func (h *CatalogHandler) SyncCatalog(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	var req dto.CatalogSyncRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.SellerID = sellerID

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.catalogFlow.SyncCatalog(h.createRequestContext(c, "/api/v1/catalog/sync"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsUnsupportedPlatform(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported store platform", dto.ErrorUnsupportedPlatform, nil)
		}
		if businessflow.IsCatalogSyncFailed(err) {
			return h.ErrorResponse(c, fiber.StatusBadGateway, "Store could not be reached", dto.ErrorSyncFailed, err.Error())
		}

		log.Println("Catalog sync failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Catalog sync failed", dto.ErrorSyncFailed, nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Sync complete", result)
}

// ListProducts lists the seller's synced products
// @Summary List Products
// @Description List the seller's synced catalog products with pagination
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.ListProductsResponse} "Products"
// @Router /api/v1/catalog/products [get]
func (h *CatalogHandler) ListProducts(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	req := dto.ListProductsRequest{SellerID: sellerID, Page: 1, Limit: 10}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		req.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		req.Limit = v
	}

	result, err := h.catalogFlow.ListProducts(h.createRequestContext(c, "/api/v1/catalog/products"), &req)
	if err != nil {
		log.Println("Product listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Product listing failed", "PRODUCT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Products", result)
}
