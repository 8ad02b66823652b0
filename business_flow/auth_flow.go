// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/copromote/henry-help/app/dto"
	"github.com/copromote/henry-help/app/services"
	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/repository"
	"github.com/copromote/henry-help/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthFlow handles seller registration, authentication and account branding
type AuthFlow interface {
	Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	RefreshSession(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionToken string, metadata *ClientMetadata) error
	UpdateBranding(ctx context.Context, sellerID uint, request *dto.UpdateBrandingRequest, metadata *ClientMetadata) (*dto.AuthSellerDTO, error)
}

// AuthFlowImpl implements the auth business flow
type AuthFlowImpl struct {
	sellerRepo   repository.SellerRepository
	sessionRepo  repository.SellerSessionRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewAuthFlow creates a new auth flow instance
func NewAuthFlow(
	sellerRepo repository.SellerRepository,
	sessionRepo repository.SellerSessionRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		sellerRepo:   sellerRepo,
		sessionRepo:  sessionRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Signup registers a new seller account and opens its first session
func (af *AuthFlowImpl) Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	email := normalizeEmail(request.Email)

	var resp *dto.LoginResponse
	err := repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		existing, err := af.sellerRepo.ByEmail(txCtx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailAlreadyExists
		}

		seller := &models.Seller{
			UUID:             uuid.New(),
			CompanyName:      request.CompanyName,
			ContactFirstName: request.ContactFirstName,
			ContactLastName:  request.ContactLastName,
			ContactPhone:     request.ContactPhone,
			Email:            email,
			WebsiteURL:       request.WebsiteURL,
			IsActive:         utils.ToPtr(true),
		}
		if err := seller.SetPassword(request.Password); err != nil {
			return err
		}

		if err := af.sellerRepo.Save(txCtx, seller); err != nil {
			return err
		}

		session, err := af.createSession(txCtx, seller.ID, metadata)
		if err != nil {
			return err
		}

		resp = &dto.LoginResponse{
			Seller:  ToAuthSellerDTO(*seller),
			Session: ToSellerSessionDTO(*session),
		}
		return nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Signup failed: %s", err.Error())
		_ = writeAudit(ctx, af.auditRepo, nil, models.AuditActionSignupFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	msg := fmt.Sprintf("Seller registered: %d", resp.Seller.ID)
	_ = writeAudit(ctx, af.auditRepo, &models.Seller{ID: resp.Seller.ID}, models.AuditActionSignupSuccess, msg, true, nil, metadata)

	return resp, nil
}

// Login authenticates a seller with email and password
func (af *AuthFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	var seller *models.Seller
	var resp *dto.LoginResponse

	err := repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		var err error
		seller, err = af.sellerRepo.ByEmail(txCtx, normalizeEmail(request.Email))
		if err != nil {
			return err
		}
		if seller == nil {
			return ErrSellerNotFound
		}
		if !utils.IsTrue(seller.IsActive) {
			return ErrAccountInactive
		}
		if !seller.CheckPassword(request.Password) {
			return ErrIncorrectPassword
		}

		session, err := af.createSession(txCtx, seller.ID, metadata)
		if err != nil {
			return err
		}

		now := utils.UTCNow()
		seller.LastLoginAt = &now
		if err := af.sellerRepo.Update(txCtx, seller); err != nil {
			return err
		}

		resp = &dto.LoginResponse{
			Seller:  ToAuthSellerDTO(*seller),
			Session: ToSellerSessionDTO(*session),
		}
		return nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		_ = writeAudit(ctx, af.auditRepo, seller, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("Seller logged in: %d", resp.Seller.ID)
	_ = writeAudit(ctx, af.auditRepo, seller, models.AuditActionLoginSuccess, msg, true, nil, metadata)

	return resp, nil
}

// RefreshSession exchanges a refresh token for a new session. The matching
// session row is deactivated so the old token pair dies together.
func (af *AuthFlowImpl) RefreshSession(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	claims, err := af.tokenService.ValidateToken(request.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("INVALID_TOKEN", "Invalid refresh token", err)
	}
	if claims.TokenType != "refresh" {
		return nil, NewBusinessError("INVALID_TOKEN", "Token is not a refresh token", services.ErrTokenInvalid)
	}

	seller, err := getSeller(ctx, af.sellerRepo, claims.SellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	var resp *dto.LoginResponse
	err = repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		// Retire the session the refresh token belongs to
		sessions, err := af.sessionRepo.ByFilter(txCtx, models.SellerSessionFilter{
			SellerID: &seller.ID,
			IsActive: utils.ToPtr(true),
		}, "", 0, 0)
		if err != nil {
			return err
		}
		for _, session := range sessions {
			if session.RefreshToken != nil && *session.RefreshToken == request.RefreshToken {
				session.IsActive = utils.ToPtr(false)
				if err := af.sessionRepo.Update(txCtx, session); err != nil {
					return err
				}
			}
		}

		if err := af.tokenService.RevokeToken(request.RefreshToken); err != nil {
			return err
		}

		session, err := af.createSession(txCtx, seller.ID, metadata)
		if err != nil {
			return err
		}

		resp = &dto.LoginResponse{
			Seller:  ToAuthSellerDTO(seller),
			Session: ToSellerSessionDTO(*session),
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}

	msg := fmt.Sprintf("Session refreshed: %d", seller.ID)
	_ = writeAudit(ctx, af.auditRepo, &seller, models.AuditActionTokenRefreshed, msg, true, nil, metadata)

	return resp, nil
}

// Logout deactivates the session behind the given access token
func (af *AuthFlowImpl) Logout(ctx context.Context, sessionToken string, metadata *ClientMetadata) error {
	session, err := af.sessionRepo.ByToken(ctx, sessionToken)
	if err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}
	if session == nil {
		return nil // already gone, nothing to do
	}

	err = repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		session.IsActive = utils.ToPtr(false)
		if err := af.sessionRepo.Update(txCtx, session); err != nil {
			return err
		}
		return af.tokenService.RevokeToken(sessionToken)
	})
	if err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}

	msg := fmt.Sprintf("Seller logged out: %d", session.SellerID)
	_ = writeAudit(ctx, af.auditRepo, &models.Seller{ID: session.SellerID}, models.AuditActionLogout, msg, true, nil, metadata)

	return nil
}

// UpdateBranding updates the voice-agent branding fields on the seller account
func (af *AuthFlowImpl) UpdateBranding(ctx context.Context, sellerID uint, request *dto.UpdateBrandingRequest, metadata *ClientMetadata) (*dto.AuthSellerDTO, error) {
	seller, err := getSeller(ctx, af.sellerRepo, sellerID)
	if err != nil {
		return nil, NewBusinessError("SELLER_LOOKUP_FAILED", "Failed to lookup seller", err)
	}

	if request.BrandVoiceName != nil {
		seller.BrandVoiceName = request.BrandVoiceName
	}
	if request.WebsiteURL != nil {
		seller.WebsiteURL = request.WebsiteURL
	}
	if request.LogoURL != nil {
		seller.LogoURL = request.LogoURL
	}

	err = repository.WithTransaction(ctx, af.db, func(txCtx context.Context) error {
		return af.sellerRepo.Update(txCtx, &seller)
	})
	if err != nil {
		return nil, NewBusinessError("BRANDING_UPDATE_FAILED", "Branding update failed", err)
	}

	msg := fmt.Sprintf("Branding updated: %d", seller.ID)
	_ = writeAudit(ctx, af.auditRepo, &seller, models.AuditActionBrandingUpdated, msg, true, nil, metadata)

	out := ToAuthSellerDTO(seller)
	return &out, nil
}

func (af *AuthFlowImpl) createSession(ctx context.Context, sellerID uint, metadata *ClientMetadata) (*models.SellerSession, error) {
	accessToken, refreshToken, err := af.tokenService.GenerateTokens(sellerID)
	if err != nil {
		return nil, err
	}

	ipAddress := ""
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	session := &models.SellerSession{
		SellerID:      sellerID,
		CorrelationID: uuid.New(),
		SessionToken:  accessToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     utils.UTCNowAdd(utils.SessionTimeout),
		IsActive:      utils.ToPtr(true),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	if err := af.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
