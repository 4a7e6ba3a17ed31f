package stubserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/meetingscribe/workprogress/internal/workprogress"
)

type errorResponse struct {
	Error string `json:"error"`
}

type createActivityRequest struct {
	SessionID    string  `json:"session_id"`
	TaskID       *string `json:"task_id"`
	Description  string  `json:"description"`
	ActivityType string  `json:"activity_type"`
}

func (s *Server) handleCreateActivity(c echo.Context) error {
	var req createActivityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "session_id is required"})
	}
	if req.Description == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "description is required"})
	}

	now := time.Now().UTC()
	activity := &workprogress.ActivityLog{
		ID:           uuid.NewString(),
		SessionID:    req.SessionID,
		TaskID:       req.TaskID,
		Description:  req.Description,
		ActivityType: req.ActivityType,
		StartTime:    &now,
	}

	s.mu.Lock()
	s.activities[activity.ID] = activity
	s.bySession[req.SessionID] = append(s.bySession[req.SessionID], activity.ID)
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, activity)
}

func (s *Server) handleEndActivity(c echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	activity, ok := s.activities[id]
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "activity not found"})
	}
	if activity.EndTime == nil {
		now := time.Now().UTC()
		activity.EndTime = &now
	}
	return c.JSON(http.StatusOK, activity)
}

func (s *Server) handleSessionActivities(c echo.Context) error {
	sessionID := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.bySession[sessionID]
	out := make([]*workprogress.ActivityLog, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.activities[id])
	}
	return c.JSON(http.StatusOK, out)
}

type dailyInfoEntry struct {
	Date     string `json:"date"`
	Summary  string `json:"summary"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleDailyInfo(c echo.Context) error {
	start := c.QueryParam("start_date")
	end := c.QueryParam("end_date")
	if start == "" || end == "" {
		return c.JSON(http.StatusOK, []dailyInfoEntry{})
	}

	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid start_date"})
	}
	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid end_date"})
	}

	s.mu.Lock()
	sessions := len(s.bySession)
	s.mu.Unlock()

	out := []dailyInfoEntry{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, dailyInfoEntry{
			Date:     d.Format("2006-01-02"),
			Summary:  "stubbed daily summary",
			Sessions: sessions,
		})
	}
	return c.JSON(http.StatusOK, out)
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleAsk(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil || req.Query == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "query is required"})
	}
	return c.JSON(http.StatusOK, askResponse{
		Answer: fmt.Sprintf("Stub answer from stored work data for: %s", req.Query),
	})
}

func (s *Server) handleAnswerFromContext(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil || req.Query == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "query is required"})
	}
	return c.JSON(http.StatusOK, askResponse{
		Answer: fmt.Sprintf("Stub answer from daily context for: %s", req.Query),
	})
}

type generateReportRequest struct {
	ReportType string `json:"report_type"`
}

func (s *Server) handleGenerateReport(c echo.Context) error {
	var req generateReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.ReportType == "" {
		req.ReportType = "evening"
	}
	return c.JSON(http.StatusOK, map[string]string{
		"content":    fmt.Sprintf("Stubbed %s report.", req.ReportType),
		"next_steps": "Continue with the highest priority task.",
	})
}

func (s *Server) handleAnalyzeWork(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"insights":        []string{"Most focused work happens before noon."},
		"recommendations": []string{"Schedule deep work in the morning."},
	})
}

type predictDurationRequest struct {
	TaskTitle string `json:"task_title"`
}

func (s *Server) handlePredictDuration(c echo.Context) error {
	var req predictDurationRequest
	if err := c.Bind(&req); err != nil || req.TaskTitle == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "task_title is required"})
	}
	// Longer titles tend to describe bigger tasks; good enough for a stub.
	return c.JSON(http.StatusOK, map[string]interface{}{
		"estimated_minutes": 15 + 5*len(strings.Fields(req.TaskTitle)),
		"confidence":        0.25,
		"reasoning":         "stub estimate derived from title length",
	})
}

type prioritizeRequest struct {
	Tasks []map[string]interface{} `json:"tasks"`
}

func (s *Server) handlePrioritizeTasks(c echo.Context) error {
	var req prioritizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	out := make([]map[string]interface{}, 0, len(req.Tasks))
	for i, task := range req.Tasks {
		id, _ := task["id"].(string)
		out = append(out, map[string]interface{}{
			"task_id":   id,
			"priority":  i + 1,
			"reasoning": "stub ordering preserves input order",
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGenerateBragSheet(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"content": "# Accomplishments\n\n- Stubbed highlight.",
		"format":  "markdown",
	})
}

type expandTaskRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleExpandTask(c echo.Context) error {
	var req expandTaskRequest
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "title is required"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"description":       fmt.Sprintf("Work item covering: %s.", req.Title),
		"subtasks":          []string{"Plan the work", "Do the work", "Verify the result"},
		"estimated_minutes": 30,
	})
}

func (s *Server) handleIdentifyRisks(c echo.Context) error {
	return c.JSON(http.StatusOK, []map[string]string{
		{
			"risk":       "Unclear scope may delay completion",
			"severity":   "medium",
			"mitigation": "Split the task and confirm the acceptance criteria",
		},
	})
}
