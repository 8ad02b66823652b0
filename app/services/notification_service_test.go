package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmailProvider struct {
	sent []MockNotification
}

func (p *recordingEmailProvider) SendEmail(email, subject, message string) error {
	p.sent = append(p.sent, MockNotification{Email: email, Subject: subject, Message: message})
	return nil
}

func TestNotificationServiceSendEmail(t *testing.T) {
	provider := &recordingEmailProvider{}
	svc := NewNotificationService(provider)

	require.NoError(t, svc.SendEmail("seller@example.com", "Warranty sold", "Call abc closed with a sale."))
	require.Len(t, provider.sent, 1)
	assert.Equal(t, "seller@example.com", provider.sent[0].Email)
	assert.Equal(t, "Warranty sold", provider.sent[0].Subject)
}

func TestNotificationServiceRejectsBadAddress(t *testing.T) {
	svc := NewNotificationService(&recordingEmailProvider{})

	assert.Error(t, svc.SendEmail("", "subject", "body"))
	assert.Error(t, svc.SendEmail("not-an-address", "subject", "body"))
}

func TestNotificationServiceWithoutProvider(t *testing.T) {
	svc := NewNotificationService(nil)
	assert.Error(t, svc.SendEmail("seller@example.com", "subject", "body"))
}
