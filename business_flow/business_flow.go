// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/copromote/henry-help/app/dto"
	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/utils"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging and session tracking
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	DeviceInfo map[string]string `json:"device_info,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		DeviceInfo: make(map[string]string),
		Additional: make(map[string]string),
	}
}

// AddDeviceInfo adds device information to the metadata
func (cm *ClientMetadata) AddDeviceInfo(key, value string) {
	if cm.DeviceInfo == nil {
		cm.DeviceInfo = make(map[string]string)
	}
	cm.DeviceInfo[key] = value
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToAuthSellerDTO converts a seller model to AuthSellerDTO for authentication responses
func ToAuthSellerDTO(seller models.Seller) dto.AuthSellerDTO {
	return dto.AuthSellerDTO{
		ID:               seller.ID,
		UUID:             seller.UUID.String(),
		CompanyName:      seller.CompanyName,
		ContactFirstName: seller.ContactFirstName,
		ContactLastName:  seller.ContactLastName,
		Email:            seller.Email,
		BrandVoiceName:   seller.BrandVoiceName,
		IsActive:         seller.IsActive,
		CreatedAt:        seller.CreatedAt.Format(time.RFC3339),
	}
}

func ToSellerSessionDTO(session models.SellerSession) dto.SellerSessionDTO {
	refresh := ""
	if session.RefreshToken != nil {
		refresh = *session.RefreshToken
	}
	return dto.SellerSessionDTO{
		SessionToken: session.SessionToken,
		RefreshToken: refresh,
		ExpiresIn:    int(session.ExpiresAt.Sub(utils.UTCNow()).Seconds()),
		TokenType:    "Bearer",
		CreatedAt:    session.CreatedAt.Format(time.RFC3339),
	}
}

func paginate(page, limit int) (offset int, normalizedLimit int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return (page - 1) * limit, limit
}

func buildPagination(page, limit int, total int64) dto.PaginationDTO {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return dto.PaginationDTO{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
