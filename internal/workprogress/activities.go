package workprogress

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// NewActivity is the payload for logging an activity against a session.
type NewActivity struct {
	SessionID    string  `json:"session_id"`
	TaskID       *string `json:"task_id,omitempty"`
	Description  string  `json:"description"`
	ActivityType string  `json:"activity_type,omitempty"`
}

// LogActivity records an activity entry through the API server. The session
// id and description are validated here because the server answers a bare 400
// without detail when they are missing.
func (s *Service) LogActivity(ctx context.Context, na NewActivity) (activity *ActivityLog, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "log_activity", start, err) }()

	if s.api == nil {
		err = fmt.Errorf("log activity: API client not configured")
		return nil, err
	}
	if na.SessionID == "" {
		err = fmt.Errorf("log activity: session id is required")
		return nil, err
	}
	if na.Description == "" {
		err = fmt.Errorf("log activity: description is required")
		return nil, err
	}

	var created ActivityLog
	if doErr := s.api.do(ctx, http.MethodPost, "/api/work-progress/activities", na, &created); doErr != nil {
		err = translate("log activity", doErr)
		return nil, err
	}

	s.logger.Debug("activity logged",
		zap.String("activity_id", created.ID), zap.String("session_id", na.SessionID))
	return &created, nil
}

// EndActivity stamps an activity's end time through the API server.
func (s *Service) EndActivity(ctx context.Context, activityID string) (activity *ActivityLog, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "end_activity", start, err) }()

	if s.api == nil {
		err = fmt.Errorf("end activity: API client not configured")
		return nil, err
	}
	if activityID == "" {
		err = fmt.Errorf("end activity: activity id is required")
		return nil, err
	}

	path := "/api/work-progress/activities/" + url.PathEscape(activityID) + "/end"
	var updated ActivityLog
	if doErr := s.api.do(ctx, http.MethodPut, path, nil, &updated); doErr != nil {
		err = translate("end activity", doErr)
		return nil, err
	}
	return &updated, nil
}

// SessionActivities returns the activity log for one session. Read path:
// degrades to an empty slice on any failure, including a missing API client.
func (s *Service) SessionActivities(ctx context.Context, sessionID string) []ActivityLog {
	start := time.Now()
	defer s.observe(ctx, "session_activities", start, nil)

	if s.api == nil || sessionID == "" {
		return []ActivityLog{}
	}

	path := "/api/work-progress/sessions/" + url.PathEscape(sessionID) + "/activities"
	var rows []ActivityLog
	if err := s.api.do(ctx, http.MethodGet, path, nil, &rows); err != nil {
		s.logger.Warn("session activity query failed", zap.Error(err))
		return []ActivityLog{}
	}
	if rows == nil {
		rows = []ActivityLog{}
	}
	return rows
}
