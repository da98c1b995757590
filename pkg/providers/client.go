package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every outbound provider call. The upstream APIs set
// no useful deadline of their own.
const DefaultTimeout = 30 * time.Second

// HTTPClient returns the http.Client used by backends, honoring timeout
// when positive and DefaultTimeout otherwise.
func HTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{Timeout: timeout}
}

// DoJSON performs one JSON-in/JSON-out call against a provider API. Non-2xx
// responses and malformed bodies surface as *ProviderError; deadline
// expiries map to ErrTimeout.
func DoJSON(ctx context.Context, client *http.Client, provider, method, url string, headers map[string]string, reqBody, respDest any) error {
	raw, err := DoRaw(ctx, client, provider, method, url, headers, reqBody)
	if err != nil {
		return err
	}

	if respDest == nil {
		return nil
	}

	err = json.Unmarshal(raw, respDest)
	if err != nil {
		return &ProviderError{
			Provider: provider,
			Message:  "malformed response body",
			Err:      err,
		}
	}

	return nil
}

// DoRaw performs one call and returns the raw response bytes, for backends
// that return binary payloads.
func DoRaw(ctx context.Context, client *http.Client, provider, method, url string, headers map[string]string, reqBody any) ([]byte, error) {
	var reader io.Reader

	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isClientTimeout(err) {
			return nil, fmt.Errorf("%w: %s", ErrTimeout, provider)
		}

		return nil, &ProviderError{Provider: provider, Err: err}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: provider, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{
			Provider: provider,
			Status:   resp.StatusCode,
			Message:  string(raw),
		}
	}

	return raw, nil
}

func isClientTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }

	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
