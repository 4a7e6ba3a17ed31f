// Package postgrest is a minimal client for the store's REST query interface.
//
// It covers the operators the data-access layer needs (eq, in, gte, lte,
// contains), ordered selects, inserts/updates/upserts with representation
// returns, and remote procedure calls. Authorization is stamped per request
// from an auth.Source; the store's row-level policy does the enforcement.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/meetingscribe/workprogress/internal/auth"
	"github.com/meetingscribe/workprogress/internal/config"
)

// Client issues table-scoped requests against the store's REST interface.
type Client struct {
	baseURL string
	anonKey config.Secret
	source  auth.Source
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a store client. The source may yield no session; requests
// then carry only the anon key and run under the store's anonymous role.
func NewClient(cfg config.StoreConfig, source auth.Source, logger *zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("postgrest: store URL is required")
	}
	if source == nil {
		source = auth.Anonymous{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		source:  source,
		client:  &http.Client{Timeout: cfg.Timeout.Duration()},
		logger:  logger,
	}, nil
}

// From starts a query against the named table.
func (c *Client) From(table string) *Query {
	return &Query{
		client:  c,
		table:   table,
		selects: "*",
	}
}

// Rpc calls a stored procedure. Privileged procedures (security definer) can
// bypass row-level policy; availability depends on the deployment.
func (c *Client) Rpc(ctx context.Context, fn string, args interface{}, dest interface{}) error {
	return c.do(ctx, http.MethodPost, "/rest/v1/rpc/"+fn, "", nil, args, dest)
}

// do executes one request and decodes the response (or the store error) into
// dest. A nil dest discards the body.
func (c *Client) do(ctx context.Context, method, path, rawQuery string, headers map[string]string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("postgrest: marshaling request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	u := c.baseURL + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("postgrest: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey.Value())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	// Prefer the signed-in identity; fall back to the anonymous role.
	bearer := c.anonKey.Value()
	if sess, err := c.source.Session(ctx); err == nil {
		bearer = sess.Token.AccessToken
	} else if !errors.Is(err, auth.ErrAuthRequired) {
		return fmt.Errorf("postgrest: resolving session: %w", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("postgrest: decoding response: %w", err)
	}
	return nil
}

// decodeError builds a structured *Error from a non-2xx store response.
func (c *Client) decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))

	storeErr := &Error{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, storeErr); err != nil || storeErr.Message == "" {
		storeErr.Message = strings.TrimSpace(string(raw))
		if storeErr.Message == "" {
			storeErr.Message = http.StatusText(resp.StatusCode)
		}
	}

	c.logger.Debug("store error",
		zap.Int("status", storeErr.Status),
		zap.String("code", storeErr.Code),
		zap.String("message", storeErr.Message))

	return storeErr
}
