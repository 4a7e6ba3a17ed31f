package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meetingscribe/workprogress/internal/config"
)

func grantResponse(access, refresh string, expiresIn int) map[string]interface{} {
	return map[string]interface{}{
		"access_token":  access,
		"token_type":    "bearer",
		"expires_in":    expiresIn,
		"refresh_token": refresh,
		"user": map[string]string{
			"id":    "user-1",
			"email": "dev@example.com",
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(config.StoreConfig{
		URL:     srv.URL,
		AnonKey: config.Secret("anon"),
		Timeout: config.Duration(2 * time.Second),
	}, zap.NewNop())
	require.NoError(t, err)
	return c, srv
}

func TestClient_SignIn(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		json.NewEncoder(w).Encode(grantResponse("tok-1", "ref-1", 3600))
	})

	sess, err := c.SignIn(context.Background(), "dev@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "tok-1", sess.Token.AccessToken)
	assert.True(t, sess.Valid())

	got, err := c.Session(context.Background())
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestClient_SessionWithoutSignIn(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected request")
	})

	_, err := c.Session(context.Background())
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestClient_RefreshesExpiredToken(t *testing.T) {
	grants := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		grants++
		switch r.URL.Query().Get("grant_type") {
		case "password":
			// Already expired; forces a refresh on next Session call.
			json.NewEncoder(w).Encode(grantResponse("tok-1", "ref-1", 0))
		case "refresh_token":
			json.NewEncoder(w).Encode(grantResponse("tok-2", "ref-2", 3600))
		default:
			t.Fatalf("unexpected grant type %q", r.URL.Query().Get("grant_type"))
		}
	})

	_, err := c.SignIn(context.Background(), "dev@example.com", "hunter2")
	require.NoError(t, err)

	sess, err := c.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", sess.Token.AccessToken)
	assert.Equal(t, 2, grants)
}

func TestClient_RejectedCredentials(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	})

	_, err := c.SignIn(context.Background(), "dev@example.com", "wrong")
	assert.ErrorIs(t, err, ErrSignInFailed)
}

func TestClient_SignOut(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(grantResponse("tok-1", "ref-1", 3600))
	})

	_, err := c.SignIn(context.Background(), "dev@example.com", "hunter2")
	require.NoError(t, err)

	c.SignOut()
	_, err = c.Session(context.Background())
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestStaticSource(t *testing.T) {
	s := NewStaticSource("user-9", "svc@example.com", "service-token")
	sess, err := s.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-9", sess.UserID)

	_, err = Anonymous{}.Session(context.Background())
	assert.ErrorIs(t, err, ErrAuthRequired)
}
