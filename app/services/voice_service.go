// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/copromote/henry-help/config"
	"github.com/google/uuid"
)

// CallPayload is the structured request handed to the voice provider for one
// outbound call.
type CallPayload struct {
	Phone          string   `json:"phone"`
	AgentName      string   `json:"agent_name"`
	PersonaPrompt  string   `json:"persona_prompt,omitempty"`
	Guardrails     []string `json:"guardrails,omitempty"`
	FirstMessage   string   `json:"first_message"`
	Script         string   `json:"script"`
	VoiceID        string   `json:"voice_id,omitempty"`
	CallbackURL    string   `json:"callback_url,omitempty"`
	IdempotencyKey string   `json:"idempotency_key"`
}

// CallDispatch is the provider's acknowledgment of a placed call
type CallDispatch struct {
	ProviderCallID string `json:"call_id"`
	Status         string `json:"status"`
}

// VoiceService dispatches outbound calls to the voice-agent provider
type VoiceService interface {
	InitiateCall(ctx context.Context, payload CallPayload) (*CallDispatch, error)
}

// VoiceServiceImpl implements VoiceService over the provider's HTTP API with
// bounded retry: a fixed number of attempts with a fixed pause between them.
type VoiceServiceImpl struct {
	cfg    config.VoiceConfig
	client *http.Client
}

// NewVoiceService creates a new voice service client
func NewVoiceService(cfg config.VoiceConfig) VoiceService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &VoiceServiceImpl{
		cfg: cfg,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// InitiateCall places one call. Transient failures are retried up to
// cfg.RetryAttempts times with cfg.RetryBackoff between attempts; the last
// error is returned when all attempts fail.
func (s *VoiceServiceImpl) InitiateCall(ctx context.Context, payload CallPayload) (*CallDispatch, error) {
	if payload.IdempotencyKey == "" {
		payload.IdempotencyKey = uuid.New().String()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode call payload: %w", err)
	}

	attempts := s.cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := s.cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		dispatch, err := s.doInitiate(ctx, body)
		if err == nil {
			return dispatch, nil
		}
		lastErr = err
		log.Printf("voice dispatch attempt %d/%d failed: %v", attempt, attempts, err)

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return nil, fmt.Errorf("voice dispatch failed after %d attempts: %w", attempts, lastErr)
}

func (s *VoiceServiceImpl) doInitiate(ctx context.Context, body []byte) (*CallDispatch, error) {
	url := s.cfg.BaseURL + "/v1/calls"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("voice provider http status %d: %s", resp.StatusCode, string(b))
	}

	var out CallDispatch
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}
	if out.ProviderCallID == "" {
		return nil, fmt.Errorf("provider returned no call id")
	}
	return &out, nil
}

// MockVoiceService records dispatches for tests and local development
type MockVoiceService struct {
	calls atomic.Int64
	// FailFirst makes the first N attempts fail to exercise retry paths
	FailFirst int64
}

func NewMockVoiceService() *MockVoiceService {
	return &MockVoiceService{}
}

func (m *MockVoiceService) InitiateCall(ctx context.Context, payload CallPayload) (*CallDispatch, error) {
	n := m.calls.Add(1)
	if n <= m.FailFirst {
		return nil, fmt.Errorf("simulated provider failure %d", n)
	}
	return &CallDispatch{
		ProviderCallID: fmt.Sprintf("mock-%s", uuid.New().String()),
		Status:         "queued",
	}, nil
}

// Calls reports how many dispatch attempts the mock has seen
func (m *MockVoiceService) Calls() int64 {
	return m.calls.Load()
}
