package workprogress

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/meetingscribe/workprogress/internal/postgrest"
)

// StartSession starts a work session for the signed-in user.
//
// Starting is idempotent: the store carries a partial unique index on
// (user_id) where status = 'active', and a unique-violation on insert is the
// signal that a session is already running. In that case the existing active
// session is fetched and returned. Requires an authenticated identity.
func (s *Service) StartSession(ctx context.Context) (session *WorkSession, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "start_session", start, err) }()

	sess, err := s.source.Session(ctx)
	if err != nil {
		return nil, translate("start session", err)
	}

	// Profile prerequisite. A pre-existing profile makes this a no-op; a
	// failure here is logged but not fatal since the insert may still succeed.
	if err := s.EnsureProfile(ctx, sess.UserID); err != nil {
		s.logger.Warn("profile prerequisite check failed before session start",
			zap.String("user_id", sess.UserID), zap.Error(err))
	}

	row := map[string]interface{}{
		"status":     SessionActive,
		"user_id":    sess.UserID,
		"start_time": time.Now().UTC().Format(time.RFC3339),
	}

	var created WorkSession
	insertErr := s.store.From("work_sessions").Single().Insert(ctx, row, &created)
	if insertErr == nil {
		s.logger.Info("work session started",
			zap.String("session_id", created.ID), zap.String("user_id", sess.UserID))
		return &created, nil
	}

	if errors.Is(insertErr, postgrest.ErrUniqueViolation) {
		existing := s.activeSessionFor(ctx, sess.UserID)
		if existing != nil {
			s.logger.Debug("session already active, returning existing",
				zap.String("session_id", existing.ID))
			return existing, nil
		}
		// The conflicting session ended between insert and fetch; retry once.
		retryErr := s.store.From("work_sessions").Single().Insert(ctx, row, &created)
		if retryErr == nil {
			return &created, nil
		}
		insertErr = retryErr
	}

	err = translate("start session", insertErr)
	return nil, err
}

// EndSession marks the session completed and stamps its end time. Ownership
// is not checked here; the store's row-level policy rejects foreign sessions.
func (s *Service) EndSession(ctx context.Context, sessionID string) (session *WorkSession, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "end_session", start, err) }()

	var updated WorkSession
	updateErr := s.store.From("work_sessions").
		Eq("id", sessionID).
		Single().
		Update(ctx, map[string]interface{}{
			"status":   SessionCompleted,
			"end_time": time.Now().UTC().Format(time.RFC3339),
		}, &updated)
	if updateErr != nil {
		err = translate("end session", updateErr)
		return nil, err
	}
	return &updated, nil
}

// ActiveSession returns the most recent active session, or nil when none
// exists. Read path: never fails; a store error degrades to nil.
//
// Older deployments carry an is_active boolean instead of the status enum.
// When the store rejects the status column as undefined, the query is retried
// against the legacy column. Other failures, transport included, do not
// trigger the retry.
func (s *Service) ActiveSession(ctx context.Context) *WorkSession {
	start := time.Now()
	defer s.observe(ctx, "active_session", start, nil)

	var sessions []WorkSession
	err := s.store.From("work_sessions").
		Eq("status", SessionActive).
		Order("start_time", false).
		Limit(1).
		Get(ctx, &sessions)
	if err == nil {
		if len(sessions) == 0 {
			return nil
		}
		return &sessions[0]
	}

	if !errors.Is(err, postgrest.ErrUndefinedColumn) {
		s.logger.Warn("active session query failed", zap.Error(err))
		return nil
	}

	s.logger.Debug("status column undefined, retrying with legacy is_active flag", zap.Error(err))

	sessions = nil
	if err := s.store.From("work_sessions").
		Eq("is_active", true).
		Order("start_time", false).
		Limit(1).
		Get(ctx, &sessions); err != nil {
		s.logger.Warn("both active-session predicates failed", zap.Error(err))
		return nil
	}
	if len(sessions) == 0 {
		return nil
	}
	return &sessions[0]
}

// activeSessionFor fetches the active session for a specific user. Used to
// resolve the unique-violation path in StartSession.
func (s *Service) activeSessionFor(ctx context.Context, userID string) *WorkSession {
	var sessions []WorkSession
	err := s.store.From("work_sessions").
		Eq("user_id", userID).
		Eq("status", SessionActive).
		Limit(1).
		Get(ctx, &sessions)
	if err != nil || len(sessions) == 0 {
		return nil
	}
	return &sessions[0]
}

// SessionsByDateRange returns sessions started within [from, to], newest
// first. Read path: degrades to an empty slice on any failure.
func (s *Service) SessionsByDateRange(ctx context.Context, from, to time.Time) []WorkSession {
	start := time.Now()
	defer s.observe(ctx, "sessions_by_date_range", start, nil)

	var sessions []WorkSession
	err := s.store.From("work_sessions").
		Gte("start_time", from.UTC().Format(time.RFC3339)).
		Lte("start_time", to.UTC().Format(time.RFC3339)).
		Order("start_time", false).
		Get(ctx, &sessions)
	if err != nil {
		s.logger.Warn("session range query failed", zap.Error(err))
		return []WorkSession{}
	}
	if sessions == nil {
		sessions = []WorkSession{}
	}
	return sessions
}
