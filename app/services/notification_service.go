package services

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// NotificationService notifies sellers about campaign events, currently by
// email only.
type NotificationService interface {
	SendEmail(email, subject, message string) error
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(email, subject, message string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	emailProvider EmailProvider
}

// NewNotificationService creates a new notification service
func NewNotificationService(emailProvider EmailProvider) NotificationService {
	return &NotificationServiceImpl{emailProvider: emailProvider}
}

// SendEmail sends an email to the specified address
func (s *NotificationServiceImpl) SendEmail(email, subject, message string) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return s.emailProvider.SendEmail(email, subject, message)
}

// LogEmailProvider writes notifications to the process log instead of
// delivering them. Used until a real mail provider is configured.
type LogEmailProvider struct{}

func NewLogEmailProvider() EmailProvider {
	return &LogEmailProvider{}
}

func (p *LogEmailProvider) SendEmail(email, subject, message string) error {
	log.Printf("Email to %s: %s - %s", email, subject, message)
	return nil
}

// MockNotificationService records sent notifications for tests
type MockNotificationService struct {
	mu    sync.Mutex
	Sent  []MockNotification
	Error error
}

type MockNotification struct {
	Email   string
	Subject string
	Message string
}

func (m *MockNotificationService) SendEmail(email, subject, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Error != nil {
		return m.Error
	}
	m.Sent = append(m.Sent, MockNotification{Email: email, Subject: subject, Message: message})
	return nil
}
