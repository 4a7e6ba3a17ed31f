package workprogress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/meetingscribe/workprogress/internal/auth"
	"github.com/meetingscribe/workprogress/internal/config"
)

// APIClient talks to the API server's work-progress routes. Activity logs
// live behind these routes rather than the store because the server owns
// their validation and metadata shaping.
type APIClient struct {
	baseURL string
	source  auth.Source
	client  *http.Client
	logger  *zap.Logger
}

// NewAPIClient creates a client for the API server's routes.
func NewAPIClient(cfg config.APIConfig, source auth.Source, logger *zap.Logger) (*APIClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("workprogress: API URL is required")
	}
	if source == nil {
		return nil, fmt.Errorf("workprogress: auth source is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		source:  source,
		client:  &http.Client{Timeout: cfg.AskTimeout.Duration()},
		logger:  logger,
	}, nil
}

// apiError is the server's error envelope.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *APIClient) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if sess, err := c.source.Session(ctx); err == nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token.AccessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && (apiErr.Error != "" || apiErr.Message != "") {
			msg := apiErr.Error
			if msg == "" {
				msg = apiErr.Message
			}
			return fmt.Errorf("api %s %s: status %d: %s", method, path, resp.StatusCode, msg)
		}
		return fmt.Errorf("api %s %s: status %d", method, path, resp.StatusCode)
	}

	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
