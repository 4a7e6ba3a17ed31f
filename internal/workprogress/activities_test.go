package workprogress

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

	"github.com/meetingscribe/workprogress/internal/auth"
	"github.com/meetingscribe/workprogress/internal/config"
	"github.com/meetingscribe/workprogress/internal/postgrest"
)

func newTestServiceWithAPI(t *testing.T, apiHandler http.Handler) *Service {
	t.Helper()

	storeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	t.Cleanup(storeSrv.Close)
	apiSrv := httptest.NewServer(apiHandler)
	t.Cleanup(apiSrv.Close)

	source := auth.NewStaticSource(testUserID, "jane@example.com", "api-token")
	store, err := postgrest.NewClient(config.StoreConfig{
		URL: storeSrv.URL, AnonKey: "k", Timeout: config.Duration(time.Second),
	}, source, zap.NewNop())
	require.NoError(t, err)

	api, err := NewAPIClient(config.APIConfig{
		URL:        apiSrv.URL,
		AskTimeout: config.Duration(5 * time.Second),
	}, source, zap.NewNop())
	require.NoError(t, err)

	svc, err := NewService(store, api, source, testCacheConfig(t), zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestLogActivityPostsToAPIRoute(t *testing.T) {
	var gotPath, gotAuth string
	var body map[string]interface{}
	svc := newTestServiceWithAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, http.StatusCreated, ActivityLog{ID: "act1", SessionID: "s1"})
	}))

	got, err := svc.LogActivity(context.Background(), NewActivity{
		SessionID:   "s1",
		Description: "Reviewing PRs",
	})
	require.NoError(t, err)
	assert.Equal(t, "act1", got.ID)
	assert.Equal(t, "POST /api/work-progress/activities", gotPath)
	assert.Equal(t, "Bearer api-token", gotAuth)
	assert.Equal(t, "s1", body["session_id"])
	assert.Equal(t, "Reviewing PRs", body["description"])
}

func TestLogActivityValidatesInput(t *testing.T) {
	svc := newTestServiceWithAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("API must not be reached, got %s %s", r.Method, r.URL.Path)
	}))

	_, err := svc.LogActivity(context.Background(), NewActivity{Description: "no session"})
	require.ErrorContains(t, err, "session id")

	_, err = svc.LogActivity(context.Background(), NewActivity{SessionID: "s1"})
	require.ErrorContains(t, err, "description")
}

func TestLogActivityWithoutAPIClient(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := svc.LogActivity(context.Background(), NewActivity{SessionID: "s1", Description: "x"})
	require.ErrorContains(t, err, "not configured")
}

func TestEndActivityPutsToEndRoute(t *testing.T) {
	var gotPath string
	svc := newTestServiceWithAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		writeJSON(t, w, http.StatusOK, ActivityLog{ID: "act1"})
	}))

	got, err := svc.EndActivity(context.Background(), "act1")
	require.NoError(t, err)
	assert.Equal(t, "act1", got.ID)
	assert.Equal(t, "PUT /api/work-progress/activities/act1/end", gotPath)
}

func TestSessionActivitiesListsViaAPI(t *testing.T) {
	svc := newTestServiceWithAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/work-progress/sessions/s1/activities", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []ActivityLog{{ID: "a1"}, {ID: "a2"}})
	}))

	got := svc.SessionActivities(context.Background(), "s1")
	require.Len(t, got, 2)
}

func TestSessionActivitiesDegradesToEmpty(t *testing.T) {
	svc := newTestServiceWithAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	got := svc.SessionActivities(context.Background(), "s1")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAPIErrorEnvelopeSurfacesMessage(t *testing.T) {
	svc := newTestServiceWithAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "session not found"})
	}))

	_, err := svc.LogActivity(context.Background(), NewActivity{SessionID: "missing", Description: "x"})
	require.ErrorContains(t, err, "session not found")
}
