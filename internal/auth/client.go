package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/meetingscribe/workprogress/internal/config"
)

// ErrSignInFailed indicates the auth provider rejected the credentials.
var ErrSignInFailed = errors.New("auth: sign-in failed")

// refreshSkew renews tokens slightly before their reported expiry.
const refreshSkew = 30 * time.Second

// Client signs in against the GoTrue password grant and keeps the session
// fresh via refresh tokens.
//
// Thread-safe: concurrent Session calls share one cached session; refresh is
// serialized under the mutex.
type Client struct {
	baseURL string
	anonKey config.Secret
	client  *http.Client
	logger  *zap.Logger

	mu           sync.Mutex
	session      *Session
	refreshToken string
}

// NewClient creates an auth client for the given project base URL.
func NewClient(cfg config.StoreConfig, logger *zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("auth: store URL is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.URL,
		anonKey: cfg.AnonKey,
		client:  &http.Client{Timeout: cfg.Timeout.Duration()},
		logger:  logger,
	}, nil
}

// tokenResponse is the GoTrue token grant response body.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn performs a password grant and caches the resulting session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	tok, err := c.tokenGrant(ctx, "password", body)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.storeToken(tok)
	c.logger.Info("signed in", zap.String("user_id", c.session.UserID))
	return c.session, nil
}

// Session implements Source. It returns the cached session, refreshing it
// when the access token is near expiry. ErrAuthRequired when never signed in.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, ErrAuthRequired
	}

	if time.Until(c.session.Token.Expiry) > refreshSkew {
		return c.session, nil
	}

	if c.refreshToken == "" {
		return nil, ErrAuthRequired
	}

	tok, err := c.tokenGrant(ctx, "refresh_token", map[string]string{"refresh_token": c.refreshToken})
	if err != nil {
		c.logger.Warn("token refresh failed", zap.Error(err))
		// An expired session with a dead refresh token is no session at all.
		c.session = nil
		c.refreshToken = ""
		return nil, ErrAuthRequired
	}
	c.storeToken(tok)
	return c.session, nil
}

// SignOut drops the cached session.
func (c *Client) SignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	c.refreshToken = ""
}

// storeToken caches the session from a grant response. Caller holds c.mu.
func (c *Client) storeToken(tok *tokenResponse) {
	c.session = &Session{
		UserID: tok.User.ID,
		Email:  tok.User.Email,
		Token: oauth2.Token{
			AccessToken:  tok.AccessToken,
			TokenType:    tok.TokenType,
			RefreshToken: tok.RefreshToken,
			Expiry:       time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
		},
	}
	c.refreshToken = tok.RefreshToken
}

// tokenGrant posts to the GoTrue token endpoint for the given grant type.
func (c *Client) tokenGrant(ctx context.Context, grantType string, body map[string]string) (*tokenResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("auth: marshaling grant request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/auth/v1/token?grant_type=%s", c.baseURL, url.QueryEscape(grantType))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("auth: creating grant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey.Value())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrSignInFailed, resp.StatusCode, string(respBody))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("auth: decoding grant response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrSignInFailed)
	}

	return &tok, nil
}
