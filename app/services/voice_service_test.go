package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/copromote/henry-help/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voiceConfig(baseURL string, attempts int) config.VoiceConfig {
	return config.VoiceConfig{
		BaseURL:       baseURL,
		APIKey:        "test-key",
		Timeout:       2 * time.Second,
		RetryAttempts: attempts,
		RetryBackoff:  10 * time.Millisecond,
	}
}

func TestInitiateCallSuccess(t *testing.T) {
	var gotAuth string
	var gotPayload CallPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode(CallDispatch{ProviderCallID: "call-123", Status: "queued"})
	}))
	defer server.Close()

	svc := NewVoiceService(voiceConfig(server.URL, 1))
	dispatch, err := svc.InitiateCall(context.Background(), CallPayload{
		Phone:        "+14155550123",
		AgentName:    "Henry",
		FirstMessage: "Hi Dana!",
		Script:       "script body",
	})

	require.NoError(t, err)
	assert.Equal(t, "call-123", dispatch.ProviderCallID)
	assert.Equal(t, "queued", dispatch.Status)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "+14155550123", gotPayload.Phone)
	assert.NotEmpty(t, gotPayload.IdempotencyKey, "an idempotency key should be generated")
}

func TestInitiateCallRetriesTransientFailures(t *testing.T) {
	var hits atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(CallDispatch{ProviderCallID: "call-456", Status: "queued"})
	}))
	defer server.Close()

	svc := NewVoiceService(voiceConfig(server.URL, 3))
	dispatch, err := svc.InitiateCall(context.Background(), CallPayload{Phone: "+14155550123"})

	require.NoError(t, err)
	assert.Equal(t, "call-456", dispatch.ProviderCallID)
	assert.Equal(t, int64(3), hits.Load())
}

func TestInitiateCallExhaustsRetries(t *testing.T) {
	var hits atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewVoiceService(voiceConfig(server.URL, 3))
	dispatch, err := svc.InitiateCall(context.Background(), CallPayload{Phone: "+14155550123"})

	require.Error(t, err)
	assert.Nil(t, dispatch)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, int64(3), hits.Load())
}

func TestInitiateCallRejectsEmptyCallID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(CallDispatch{Status: "queued"})
	}))
	defer server.Close()

	svc := NewVoiceService(voiceConfig(server.URL, 1))
	_, err := svc.InitiateCall(context.Background(), CallPayload{Phone: "+14155550123"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no call id")
}

func TestInitiateCallHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := voiceConfig(server.URL, 5)
	cfg.RetryBackoff = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	svc := NewVoiceService(cfg)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := svc.InitiateCall(ctx, CallPayload{Phone: "+14155550123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockVoiceServiceFailFirst(t *testing.T) {
	mock := NewMockVoiceService()
	mock.FailFirst = 2

	_, err := mock.InitiateCall(context.Background(), CallPayload{Phone: "+1"})
	require.Error(t, err)
	_, err = mock.InitiateCall(context.Background(), CallPayload{Phone: "+1"})
	require.Error(t, err)

	dispatch, err := mock.InitiateCall(context.Background(), CallPayload{Phone: "+1"})
	require.NoError(t, err)
	assert.Contains(t, dispatch.ProviderCallID, "mock-")
	assert.Equal(t, int64(3), mock.Calls())
}
