// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"time"

	"github.com/copromote/henry-help/app/dto"
	"github.com/copromote/henry-help/app/middleware"
	businessflow "github.com/copromote/henry-help/business_flow"
	"github.com/gofiber/fiber/v3"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	Signup(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	Refresh(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
	UpdateBranding(c fiber.Ctx) error
	Health(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authFlow businessflow.AuthFlow
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authFlow businessflow.AuthFlow) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(),
		authFlow:    authFlow,
	}
}

// Signup handles seller registration
// @Summary Seller Registration
// @Description Register a new seller account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Seller registration data"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Registration successful"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.authFlow.Signup(h.createRequestContext(c, "/api/v1/auth/signup"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Email already exists", dto.ErrorEmailExists, nil)
		}

		log.Println("Signup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Signup failed", "SIGNUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Registration successful", result)
}

// Login handles seller authentication
// @Summary Seller Login
// @Description Authenticate a seller with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful with tokens"
// @Failure 400 {object} dto.APIResponse "Invalid credentials"
// @Failure 401 {object} dto.APIResponse "Authentication failed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.authFlow.Login(h.createRequestContext(c, "/api/v1/auth/login"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsSellerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Seller not found", dto.ErrorSellerNotFound, nil)
		}
		if businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", dto.ErrorAccountInactive, nil)
		}
		if businessflow.IsIncorrectPassword(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Incorrect password", dto.ErrorIncorrectPassword, nil)
		}

		log.Println("Login failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh Session
// @Description Exchange a refresh token for new access and refresh tokens
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Session refreshed"
// @Failure 401 {object} dto.APIResponse "Invalid refresh token"
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.authFlow.RefreshSession(h.createRequestContext(c, "/api/v1/auth/refresh"), &req, h.clientMetadata(c))
	if err != nil {
		if businessflow.IsSellerNotFound(err) || businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account unavailable", dto.ErrorAccountInactive, nil)
		}

		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", dto.ErrorInvalidToken, nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Session refreshed", result)
}

// Logout deactivates the current session
// @Summary Logout
// @Description Deactivate the current session and revoke its access token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logged out"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	token, ok := middleware.GetSessionTokenFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	if err := h.authFlow.Logout(h.createRequestContext(c, "/api/v1/auth/logout"), token, h.clientMetadata(c)); err != nil {
		log.Println("Logout failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Logout failed", "LOGOUT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Logged out", nil)
}

// UpdateBranding updates the seller's voice-agent branding
// @Summary Update Branding
// @Description Update the brand name, website and logo the voice agent uses
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateBrandingRequest true "Branding fields"
// @Success 200 {object} dto.APIResponse{data=dto.AuthSellerDTO} "Branding updated"
// @Router /api/v1/account/branding [put]
func (h *AuthHandler) UpdateBranding(c fiber.Ctx) error {
	sellerID, resp, failed := h.sellerID(c)
	if failed {
		return resp
	}

	var req dto.UpdateBrandingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.authFlow.UpdateBranding(h.createRequestContext(c, "/api/v1/account/branding"), sellerID, &req, h.clientMetadata(c))
	if err != nil {
		log.Println("Branding update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Branding update failed", "BRANDING_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Branding updated", result)
}

// Health handles health check requests
// @Summary Health Check
// @Description Check the health status of the API
// @Tags Health
// @Produce json
// @Success 200 {object} dto.APIResponse "Service is healthy"
// @Router /api/v1/health [get]
func (h *AuthHandler) Health(c fiber.Ctx) error {
	return h.SuccessResponse(c, fiber.StatusOK, "Service is healthy", fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
