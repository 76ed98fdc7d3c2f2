package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/example/scriptbar/internal/logging"
)

const defaultHTTPTimeout = 15 * time.Second

// HTTPSource fetches output from a URL. A JSON response of the form
// {"output": "..."} is unwrapped; any other body is used as is.
type HTTPSource struct {
	URL string
	// APIKey is sent as X-API-KEY when set.
	APIKey string
	Client *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/plain, application/json")
	if s.APIKey != "" {
		req.Header.Set("X-API-KEY", s.APIKey)
	}
	logging.LogHTTPRequest(req)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch output: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		logging.LogHTTPResponse(resp, nil)
		return "", fmt.Errorf("%w: %s", ErrNotFound, s.URL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logging.LogHTTPResponse(resp, snippet)
		return "", fmt.Errorf("request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := readOutput(ctx, resp.Body, req.URL.Host)
	if err != nil {
		return "", err
	}
	logging.LogHTTPResponse(resp, body)

	if isJSON(resp.Header.Get("Content-Type")) {
		var envelope struct {
			Output *string `json:"output"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Output != nil {
			return *envelope.Output, nil
		}
	}
	return string(body), nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
