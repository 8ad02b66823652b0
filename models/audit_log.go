// Package models contains domain entities and business models for the warranty-campaign platform
package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SellerID     *uint           `gorm:"index:idx_audit_seller_id" json:"seller_id,omitempty"`
	Seller       *Seller         `gorm:"foreignKey:SellerID;references:ID" json:"seller,omitempty"`
	Action       string          `gorm:"size:60;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionSignupSuccess            = "signup_success"
	AuditActionSignupFailed             = "signup_failed"
	AuditActionLoginSuccess             = "login_success"
	AuditActionLoginFailed              = "login_failed"
	AuditActionLogout                   = "logout"
	AuditActionTokenRefreshed           = "token_refreshed"
	AuditActionBrandingUpdated          = "branding_updated"
	AuditActionProfileDiscoveryRun      = "profile_discovery_run"
	AuditActionProfileDiscoveryFailed   = "profile_discovery_failed"
	AuditActionProfileManualPricing     = "profile_manual_pricing"
	AuditActionProfileUpdated           = "profile_updated"
	AuditActionCampaignCreated          = "campaign_created"
	AuditActionCampaignCreationFailed   = "campaign_creation_failed"
	AuditActionCampaignUpdated          = "campaign_updated"
	AuditActionCampaignStatusChanged    = "campaign_status_changed"
	AuditActionCallDispatched           = "call_dispatched"
	AuditActionCallDispatchFailed       = "call_dispatch_failed"
	AuditActionCallStatusReceived       = "call_status_received"
	AuditActionCatalogSyncCompleted     = "catalog_sync_completed"
	AuditActionCatalogSyncFailed        = "catalog_sync_failed"
	AuditActionBundleProposed           = "bundle_proposed"
	AuditActionBundleStatusChanged      = "bundle_status_changed"
	AuditActionProspectsImported        = "prospects_imported"
	AuditActionRetentionSettingsUpdated = "retention_settings_updated"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	SellerID      *uint
	Action        *string
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
