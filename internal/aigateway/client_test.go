package aigateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meetingscribe/workprogress/internal/auth"
	"github.com/meetingscribe/workprogress/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(config.APIConfig{
		URL:               srv.URL,
		AskTimeout:        config.Duration(2 * time.Second),
		GenerateTimeout:   config.Duration(2 * time.Second),
		RequestsPerMinute: 600,
	}, auth.NewStaticSource("u1", "u@example.com", "ai-token"), zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestAskAnswersFromFirstEndpoint(t *testing.T) {
	var paths []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "Bearer ai-token", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "what did I do?", body["query"])
		assert.Equal(t, true, body["include_tasks"])

		json.NewEncoder(w).Encode(map[string]string{"answer": "You completed 3 tasks."})
	}))

	got := c.Ask(context.Background(), "what did I do?", AskOptions{})
	require.NotNil(t, got)
	assert.Equal(t, SourceDatabase, got.Source)
	assert.Equal(t, "You completed 3 tasks.", got.Answer)
	assert.Equal(t, []string{"/api/ai/ask"}, paths)
}

func TestAskTriesSecondRouteOnFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/ai/ask" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		require.Equal(t, "/api/work-progress/ai/ask", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"answer": "from second route"})
	}))

	got := c.Ask(context.Background(), "anything", AskOptions{})
	assert.Equal(t, SourceDatabase, got.Source)
	assert.Equal(t, "from second route", got.Answer)
}

func TestAskBackupHostOnlyInDev(t *testing.T) {
	backup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"answer": "from backup"})
	}))
	t.Cleanup(backup.Close)

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(primary.Close)

	dev, err := NewClient(config.APIConfig{
		URL: primary.URL, BackupURL: backup.URL, Dev: true,
		AskTimeout: config.Duration(time.Second), RequestsPerMinute: 600,
	}, auth.Anonymous{}, zap.NewNop())
	require.NoError(t, err)

	got := dev.Ask(context.Background(), "xyzzy", AskOptions{})
	assert.Equal(t, SourceDatabase, got.Source)
	assert.Equal(t, "from backup", got.Answer)

	prod, err := NewClient(config.APIConfig{
		URL: primary.URL, BackupURL: backup.URL, Dev: false,
		AskTimeout: config.Duration(time.Second), RequestsPerMinute: 600,
	}, auth.Anonymous{}, zap.NewNop())
	require.NoError(t, err)

	got = prod.Ask(context.Background(), "xyzzy", AskOptions{})
	assert.Equal(t, SourceFallback, got.Source, "backup host must not be tried outside dev")
}

func TestAskFallsBackToContextEndpoints(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/ask"):
			w.WriteHeader(http.StatusInternalServerError)
		case strings.HasSuffix(r.URL.Path, "/daily-info"):
			assert.Equal(t, "2026-08-01", r.URL.Query().Get("start_date"))
			json.NewEncoder(w).Encode([]DailyWorkInfo{{Date: "2026-08-01", Summary: "wrote code"}})
		case strings.HasSuffix(r.URL.Path, "/answer-from-context"):
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			info, ok := body["daily_info"].([]interface{})
			require.True(t, ok)
			require.Len(t, info, 1)
			json.NewEncoder(w).Encode(map[string]string{"answer": "contextual answer"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	got := c.Ask(context.Background(), "anything", AskOptions{
		DateRange: &DateRange{StartDate: "2026-08-01", EndDate: "2026-08-07"},
	})
	assert.Equal(t, SourceAI, got.Source)
	assert.Equal(t, "contextual answer", got.Answer)
	assert.Equal(t, "ai-only", got.Workflow)
}

func TestAskCannedFallbackWhenEverythingFails(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	got := c.Ask(context.Background(), "What tasks do I have?", AskOptions{})
	require.NotNil(t, got)
	assert.Equal(t, SourceFallback, got.Source)
	assert.NotEmpty(t, got.Answer)
	assert.Contains(t, got.Answer, "Task management best practices")
}

func TestCannedAnswerCategories(t *testing.T) {
	cases := []struct {
		query    string
		contains string
	}{
		{"show my task backlog", "Task management best practices"},
		{"what did I accomplish this week", "tracking accomplishments"},
		{"how many hours did I work", "time management strategies"},
		{"draft my status update", "status reports"},
		{"any productivity insights", "productivity insights"},
		{"how is my progress", "progress tracking"},
		{"notes from the team meeting", "Collaboration best practices"},
		{"xyzzy", "explore the Tasks, Accomplishments, and Status Reports tabs"},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got := cannedAnswer(tc.query, nil)
			assert.Contains(t, got, tc.contains)
			assert.Contains(t, got, "in your recent history")
		})
	}
}

func TestCannedAnswerUsesDateRange(t *testing.T) {
	got := cannedAnswer("task list", &DateRange{StartDate: "2026-08-01", EndDate: "2026-08-07"})
	assert.Contains(t, got, "between 2026-08-01 and 2026-08-07")
}

func TestGenerateStatusReport(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ai/generate-report", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "evening", body["report_type"])
		json.NewEncoder(w).Encode(GeneratedReport{Content: "Today went well."})
	}))

	got, err := c.GenerateStatusReport(context.Background(), ReportRequest{ReportType: "evening"})
	require.NoError(t, err)
	assert.Equal(t, "Today went well.", got.Content)
}

func TestGenerateOpsPropagateErrors(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))

	_, err := c.GenerateStatusReport(context.Background(), ReportRequest{ReportType: "morning"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	_, err = c.PredictTaskDuration(context.Background(), DurationRequest{TaskTitle: "x"})
	require.Error(t, err)

	_, err = c.IdentifyTaskRisks(context.Background(), RiskRequest{TaskTitle: "x"})
	require.Error(t, err)
}

func TestGenerateBragSheetDefaults(t *testing.T) {
	var body map[string]interface{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ai/generate-brag-sheet", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(BragSheet{Content: "# Highlights"})
	}))

	got, err := c.GenerateBragSheet(context.Background(), nil, BragSheetOptions{HighlightMetrics: true})
	require.NoError(t, err)
	assert.Equal(t, "# Highlights", got.Content)
	assert.Equal(t, "3 months", body["time_period"])
	assert.Equal(t, "markdown", body["format"])
	assert.Equal(t, "manager", body["target_audience"])
	assert.Equal(t, true, body["highlight_metrics"])
}

func TestExpandTaskDescription(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ai/expand-task", r.URL.Path)
		json.NewEncoder(w).Encode(TaskExpansion{
			Description: "Detailed plan",
			Subtasks:    []string{"step one", "step two"},
		})
	}))

	got, err := c.ExpandTaskDescription(context.Background(), "Migrate database", []string{"backend"})
	require.NoError(t, err)
	assert.Equal(t, "Detailed plan", got.Description)
	assert.Len(t, got.Subtasks, 2)
}

func TestSuggestTaskPriorities(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ai/prioritize-tasks", r.URL.Path)
		json.NewEncoder(w).Encode([]TaskPriority{{TaskID: "t1", Priority: 1, Reasoning: "due soonest"}})
	}))

	got, err := c.SuggestTaskPriorities(context.Background(), []map[string]interface{}{{"id": "t1"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Priority)
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(config.APIConfig{}, auth.Anonymous{}, zap.NewNop())
	require.Error(t, err)
}
