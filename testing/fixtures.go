// Package testing provides test utilities and database setup for integration tests
package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mrand "math/rand"
	"time"

	"github.com/copromote/henry-help/models"
	"github.com/copromote/henry-help/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestSeller creates an active seller with a hashed password
func (tf *TestFixtures) CreateTestSeller() (*models.Seller, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	randomDigits := fmt.Sprintf("%09d", mrand.Intn(900000000)+100000000)

	seller := &models.Seller{
		UUID:             uuid.New(),
		CompanyName:      "Acme Electronics",
		ContactFirstName: "John",
		ContactLastName:  "Doe",
		ContactPhone:     fmt.Sprintf("+1415%s", randomDigits[:7]),
		Email:            fmt.Sprintf("john.doe.%s@example.com", randomDigits),
		PasswordHash:     string(hashedPassword),
		IsActive:         utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(seller).Error; err != nil {
		return nil, fmt.Errorf("failed to create test seller: %w", err)
	}

	return seller, nil
}

// CreateTestProfile creates a tiered pricing profile for the seller
func (tf *TestFixtures) CreateTestProfile(sellerID uint) (*models.ProgramProfile, error) {
	profile := &models.ProgramProfile{
		UUID:              uuid.New(),
		SellerID:          sellerID,
		Model:             "tiered",
		Durations:         []string{"1YR", "2YR", "3YR"},
		RetentionDiscount: 0.1,
		RetentionType:     models.RetentionTypePercentage,
	}

	if err := tf.DB.DB.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create test profile: %w", err)
	}

	return profile, nil
}

// CreateTestCampaign creates a campaign in the given status
func (tf *TestFixtures) CreateTestCampaign(sellerID uint, status models.CampaignStatus) (*models.Campaign, error) {
	campaign := &models.Campaign{
		UUID:     uuid.New(),
		SellerID: sellerID,
		Status:   status,
		Title:    fmt.Sprintf("Campaign %d", mrand.Intn(100000)),
	}

	if err := tf.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}

	return campaign, nil
}

// CreateTestProspect creates a callable prospect with purchase context
func (tf *TestFixtures) CreateTestProspect(sellerID uint, amount float64) (*models.Prospect, error) {
	productName := "4K OLED TV"
	prospect := &models.Prospect{
		UUID:           uuid.New(),
		SellerID:       sellerID,
		FirstName:      "Dana",
		Phone:          fmt.Sprintf("+1415555%04d", mrand.Intn(10000)),
		ProductName:    &productName,
		PurchaseAmount: amount,
	}

	if err := tf.DB.DB.Create(prospect).Error; err != nil {
		return nil, fmt.Errorf("failed to create test prospect: %w", err)
	}

	return prospect, nil
}

// CreateTestProduct creates a synced catalog product for the seller
func (tf *TestFixtures) CreateTestProduct(sellerID uint) (*models.Product, error) {
	product := &models.Product{
		UUID:       uuid.New(),
		SellerID:   sellerID,
		Platform:   models.PlatformShopify,
		ExternalID: fmt.Sprintf("%d", mrand.Intn(10000000)),
		StoreURL:   "https://acme.myshopify.com",
		Title:      "Espresso Machine",
		Price:      499.99,
		Currency:   "USD",
		SyncedAt:   time.Now().UTC(),
	}

	if err := tf.DB.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}

	return product, nil
}

// GenerateSecureToken returns a URL-safe random token
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates an active seller session
func (tf *TestFixtures) CreateTestSession(sellerID uint) (*models.SellerSession, error) {
	sessionToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure session token: %w", err)
	}

	refreshToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure refresh token: %w", err)
	}

	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	session := &models.SellerSession{
		CorrelationID: uuid.New(),
		SellerID:      sellerID,
		SessionToken:  sessionToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		IsActive:      utils.ToPtr(true),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}

// CreateTestAuditLog creates a test audit log entry
func (tf *TestFixtures) CreateTestAuditLog(sellerID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test %s action", action)
	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	audit := &models.AuditLog{
		SellerID:    sellerID,
		Action:      action,
		Description: &description,
		Success:     &success,
		IPAddress:   &ipAddress,
		UserAgent:   &userAgent,
	}

	if !success {
		errorMessage := "Test failed action"
		audit.ErrorMessage = &errorMessage
	}

	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}

	return audit, nil
}
