package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narrateapp/narrate/internal/httperr"
)

func TestPostJSONTimeoutBecomesGatewayTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := &http.Client{Timeout: 50 * time.Millisecond}
	_, err := postJSON(context.Background(), client, server.URL, nil, map[string]any{}, "Stub")
	require.Error(t, err)
	assert.Equal(t, http.StatusGatewayTimeout, httperr.StatusOf(err))
	assert.Contains(t, err.Error(), "timed out")
}

func TestPostJSONConnectFailureBecomesUnavailable(t *testing.T) {
	client := &http.Client{Timeout: time.Second}
	_, err := postJSON(context.Background(), client, "http://127.0.0.1:1", nil, map[string]any{}, "Stub")
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, httperr.StatusOf(err))
	assert.Contains(t, err.Error(), "cannot connect to Stub")
}

func TestPostJSONUpstreamStatusPreserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer server.Close()

	client := &http.Client{Timeout: time.Second}
	_, err := postJSON(context.Background(), client, server.URL, nil, map[string]any{}, "Stub")
	require.Error(t, err)
	assert.Equal(t, http.StatusTooManyRequests, httperr.StatusOf(err))
	assert.Contains(t, err.Error(), "Stub error: slow down")
}
