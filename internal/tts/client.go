package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/narrateapp/narrate/internal/httperr"
)

// postJSON issues a provider call and normalizes the three failure modes:
// a timeout maps to 504, a connection failure to 503, and a downstream
// non-success status is propagated verbatim with the vendor's body text.
// label is the provider's display label used in error messages.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload any, label string) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return nil, httperr.GatewayTimeout("%s generation timed out", label)
		}
		return nil, httperr.Unavailable("cannot connect to %s: check your connection or API settings", label)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", label, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, httperr.Upstream(resp.StatusCode, "%s error: %s", label, string(body))
	}
	return body, nil
}
