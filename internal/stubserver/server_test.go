package stubserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meetingscribe/workprogress/internal/aigateway"
	"github.com/meetingscribe/workprogress/internal/auth"
	"github.com/meetingscribe/workprogress/internal/config"
	"github.com/meetingscribe/workprogress/internal/postgrest"
	"github.com/meetingscribe/workprogress/internal/workprogress"
)

func newStub(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := NewServer(zap.NewNop(), nil)
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func newGatewayAgainstStub(t *testing.T, url string) *aigateway.Client {
	t.Helper()
	c, err := aigateway.NewClient(config.APIConfig{
		URL:               url,
		AskTimeout:        config.Duration(2 * time.Second),
		GenerateTimeout:   config.Duration(2 * time.Second),
		RequestsPerMinute: 600,
	}, auth.Anonymous{}, zap.NewNop())
	require.NoError(t, err)
	return c
}

// newServiceForStub wires a data-access service whose API side points at the
// stub. The store side points at an empty handler; these tests only exercise
// the API routes.
func newServiceForStub(t *testing.T, apiURL string) *workprogress.Service {
	t.Helper()

	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	t.Cleanup(store.Close)

	source := auth.NewStaticSource("u1", "u@example.com", "tok")
	storeClient, err := postgrest.NewClient(config.StoreConfig{
		URL: store.URL, AnonKey: "k", Timeout: config.Duration(time.Second),
	}, source, zap.NewNop())
	require.NoError(t, err)

	api, err := workprogress.NewAPIClient(config.APIConfig{
		URL: apiURL, AskTimeout: config.Duration(2 * time.Second),
	}, source, zap.NewNop())
	require.NoError(t, err)

	svc, err := workprogress.NewService(storeClient, api, source, config.CacheConfig{
		TTL:        config.Duration(30 * time.Second),
		MaxEntries: 8,
		MirrorPath: filepath.Join(t.TempDir(), "tasks_data.json"),
	}, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestActivityLifecycleThroughStub(t *testing.T) {
	srv := newStub(t)
	svc := newServiceForStub(t, srv.URL)

	created, err := svc.LogActivity(context.Background(), workprogress.NewActivity{
		SessionID:   "sess-1",
		Description: "Reviewing design doc",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.StartTime)
	assert.Nil(t, created.EndTime)

	ended, err := svc.EndActivity(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, ended.EndTime)

	listed := svc.SessionActivities(context.Background(), "sess-1")
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestActivityValidationErrors(t *testing.T) {
	srv := newStub(t)
	svc := newServiceForStub(t, srv.URL)

	_, err := svc.LogActivity(context.Background(), workprogress.NewActivity{SessionID: "s"})
	require.Error(t, err)

	_, err = svc.EndActivity(context.Background(), "missing-id")
	require.ErrorContains(t, err, "not found")
}

func TestAskAgainstStubUsesRetrievalTier(t *testing.T) {
	srv := newStub(t)
	gw := newGatewayAgainstStub(t, srv.URL)

	got := gw.Ask(context.Background(), "what did I finish today?", aigateway.AskOptions{})
	assert.Equal(t, aigateway.SourceDatabase, got.Source)
	assert.Contains(t, got.Answer, "what did I finish today?")
}

func TestGenerationRoutesAgainstStub(t *testing.T) {
	srv := newStub(t)
	gw := newGatewayAgainstStub(t, srv.URL)

	report, err := gw.GenerateStatusReport(context.Background(), aigateway.ReportRequest{ReportType: "morning"})
	require.NoError(t, err)
	assert.Contains(t, report.Content, "morning")

	pred, err := gw.PredictTaskDuration(context.Background(), aigateway.DurationRequest{TaskTitle: "Fix login bug"})
	require.NoError(t, err)
	assert.Greater(t, pred.EstimatedMinutes, 0)

	exp, err := gw.ExpandTaskDescription(context.Background(), "Migrate database", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, exp.Subtasks)

	risks, err := gw.IdentifyTaskRisks(context.Background(), aigateway.RiskRequest{TaskTitle: "Migrate database"})
	require.NoError(t, err)
	require.NotEmpty(t, risks)
}

func TestDailyInfoRange(t *testing.T) {
	srv := newStub(t)
	gw := newGatewayAgainstStub(t, srv.URL)

	info, err := gw.DailyWorkInfo(context.Background(), &aigateway.DateRange{
		StartDate: "2026-08-01", EndDate: "2026-08-03",
	})
	require.NoError(t, err)
	require.Len(t, info, 3)
	assert.Equal(t, "2026-08-01", info[0].Date)
	assert.Equal(t, "2026-08-03", info[2].Date)
}

func TestMetricsEndpointExposed(t *testing.T) {
	srv := newStub(t)
	gw := newGatewayAgainstStub(t, srv.URL)
	gw.Ask(context.Background(), "ping", aigateway.AskOptions{})

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newStub(t)

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}
