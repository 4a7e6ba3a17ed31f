// Package aigateway is the client for the API server's AI routes: natural
// language questions over work history and one-shot generation calls.
//
// Ask degrades through three tiers (retrieval endpoints, context endpoints
// seeded with daily work info, then a local canned responder) and always
// yields an answer. Generation calls hit a single endpoint and propagate
// errors unmodified.
package aigateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/meetingscribe/workprogress/internal/auth"
	"github.com/meetingscribe/workprogress/internal/config"
)

// Answer sources, in order of degradation.
const (
	SourceDatabase = "database"
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// DateRange bounds a question or generation request, dates as YYYY-MM-DD.
type DateRange struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// Answer is the result of Ask. The answer text is never empty and Source is
// one of database, ai or fallback.
type Answer struct {
	Answer   string `json:"answer"`
	Source   string `json:"source"`
	Endpoint string `json:"endpoint,omitempty"`
	Workflow string `json:"workflow,omitempty"`
}

// Client talks to the AI routes of the API server.
type Client struct {
	primaryURL string
	backupURL  string
	dev        bool

	askTimeout      time.Duration
	generateTimeout time.Duration

	client  *http.Client
	limiter *rate.Limiter
	source  auth.Source
	logger  *zap.Logger
	metrics *Metrics
}

// NewClient creates an AI gateway client.
func NewClient(cfg config.APIConfig, source auth.Source, logger *zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("aigateway: API URL is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if source == nil {
		source = auth.Anonymous{}
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}

	return &Client{
		primaryURL:      strings.TrimRight(cfg.URL, "/"),
		backupURL:       strings.TrimRight(cfg.BackupURL, "/"),
		dev:             cfg.Dev,
		askTimeout:      cfg.AskTimeout.Duration(),
		generateTimeout: cfg.GenerateTimeout.Duration(),
		client:          &http.Client{},
		limiter:         rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm),
		source:          source,
		logger:          logger,
		metrics:         NewMetrics(logger),
	}, nil
}

// endpoints builds the ordered attempt list for a route suffix. The primary
// host carries both route prefixes; the backup host variants join the list
// only in a development context.
func (c *Client) endpoints(suffix string) []string {
	list := []string{
		c.primaryURL + "/api/ai/" + suffix,
		c.primaryURL + "/api/work-progress/ai/" + suffix,
	}
	if c.dev && c.backupURL != "" {
		list = append(list,
			c.backupURL+"/api/ai/"+suffix,
			c.backupURL+"/api/work-progress/ai/"+suffix,
		)
	}
	return list
}

// post issues one bounded JSON POST and decodes the response into dest.
func (c *Client) post(ctx context.Context, endpoint string, timeout time.Duration, body, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("aigateway: rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("aigateway: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("aigateway: creating request: %w", err)
	}
	return c.send(ctx, req, dest)
}

// get issues one bounded GET with query parameters.
func (c *Client) get(ctx context.Context, endpoint string, timeout time.Duration, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("aigateway: rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("aigateway: creating request: %w", err)
	}
	return c.send(ctx, req, dest)
}

func (c *Client) send(ctx context.Context, req *http.Request, dest interface{}) error {
	req.Header.Set("Content-Type", "application/json")
	if sess, err := c.source.Session(ctx); err == nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token.AccessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("aigateway: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("aigateway: %s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("aigateway: decoding response: %w", err)
	}
	return nil
}
