package workprogress

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetingscribe/workprogress/internal/cache"
)

// Task creation defaults, substituted for missing fields on insert.
const (
	DefaultTaskTitle       = "Untitled Task"
	DefaultTaskDescription = "No description"
	DefaultTaskPriority    = 3
	DefaultTaskEstimate    = 30
)

// Tasks returns tasks matching the filters, sorted by priority ascending then
// due date ascending.
//
// Unless BypassCache is set, a fresh cache entry for the same filter set is
// served without a remote call. On a remote failure the stale cache entry is
// served, then the persisted mirror, then an empty slice. Never fails.
func (s *Service) Tasks(ctx context.Context, filters TaskFilters) []Task {
	start := time.Now()
	defer s.observe(ctx, "tasks", start, nil)

	key := taskCacheKey(filters)

	if !filters.BypassCache {
		if cached, ok := s.tasks.Get(key); ok {
			s.metrics.RecordReadSource(ctx, "tasks", "cache")
			return cloneTasks(cached)
		}
	}

	q := s.store.From("tasks")
	if len(filters.Status) == 1 {
		q = q.Eq("status", filters.Status[0])
	} else if len(filters.Status) > 1 {
		statuses := make([]string, len(filters.Status))
		for i, st := range filters.Status {
			statuses[i] = string(st)
		}
		q = q.In("status", statuses)
	}
	if filters.Priority > 0 {
		q = q.Eq("priority", filters.Priority)
	}
	if filters.DueBefore != nil {
		q = q.Lte("due_date", filters.DueBefore.UTC().Format(time.RFC3339))
	}
	if len(filters.Tags) > 0 {
		q = q.Contains("tags", filters.Tags)
	}
	q = q.Order("priority", true).Order("due_date", true)

	var rows []Task
	if err := q.Get(ctx, &rows); err != nil {
		s.logger.Warn("task query failed, degrading to cache tiers", zap.Error(err))

		if stale, ok := s.tasks.GetStale(key); ok {
			s.metrics.RecordReadSource(ctx, "tasks", "stale_cache")
			return cloneTasks(stale)
		}

		var mirrored []Task
		if mirrorErr := s.mirror.Read(&mirrored); mirrorErr == nil {
			s.metrics.RecordReadSource(ctx, "tasks", "mirror")
			return mirrored
		} else if !errors.Is(mirrorErr, cache.ErrNoMirror) {
			s.logger.Warn("mirror read failed", zap.Error(mirrorErr))
		}

		s.metrics.RecordReadSource(ctx, "tasks", "empty")
		return []Task{}
	}

	if rows == nil {
		rows = []Task{}
	}

	// Cache and caller get separate slices; mutating a returned list must not
	// corrupt later cache hits.
	s.tasks.Set(key, cloneTasks(rows))
	if err := s.mirror.Write(rows); err != nil {
		s.logger.Warn("mirror write failed", zap.Error(err))
	}

	s.metrics.RecordReadSource(ctx, "tasks", "remote")
	return rows
}

func cloneTasks(rows []Task) []Task {
	out := make([]Task, len(rows))
	copy(out, rows)
	return out
}

// CreateTask inserts a task for the signed-in user, substituting defaults for
// missing fields. Requires an authenticated identity. A profile-prerequisite
// failure is logged but does not abort, since a pre-existing profile makes
// that step a no-op. Translated errors propagate; callers compensating for
// ErrUnavailable can keep the UI responsive with PlaceholderTask.
func (s *Service) CreateTask(ctx context.Context, nt NewTask) (task *Task, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "create_task", start, err) }()

	sess, err := s.source.Session(ctx)
	if err != nil {
		return nil, translate("create task", err)
	}

	if err := s.EnsureProfile(ctx, sess.UserID); err != nil {
		s.logger.Warn("profile prerequisite check failed before task creation",
			zap.String("user_id", sess.UserID), zap.Error(err))
	}

	applyTaskDefaults(&nt)

	row := map[string]interface{}{
		"title":             nt.Title,
		"description":       nt.Description,
		"status":            nt.Status,
		"priority":          nt.Priority,
		"estimated_minutes": nt.EstimatedMinutes,
		"due_date":          nt.DueDate,
		"parent_task_id":    nt.ParentTaskID,
		"tags":              nt.Tags,
		"user_id":           sess.UserID,
	}

	var created Task
	if insertErr := s.store.From("tasks").Single().Insert(ctx, row, &created); insertErr != nil {
		err = translate("create task", insertErr)
		return nil, err
	}

	s.tasks.InvalidatePrefix("tasks_")
	s.logger.Info("task created", zap.String("task_id", created.ID), zap.String("title", created.Title))
	return &created, nil
}

// applyTaskDefaults fills missing creation fields.
func applyTaskDefaults(nt *NewTask) {
	if nt.Title == "" {
		nt.Title = DefaultTaskTitle
	}
	if nt.Description == "" {
		nt.Description = DefaultTaskDescription
	}
	if nt.Status == "" {
		nt.Status = TaskNotStarted
	}
	if nt.Priority == 0 {
		nt.Priority = DefaultTaskPriority
	}
	if nt.EstimatedMinutes == 0 {
		nt.EstimatedMinutes = DefaultTaskEstimate
	}
	if nt.Tags == nil {
		nt.Tags = []string{}
	}
}

// PlaceholderTask builds a local stand-in for a task whose remote creation
// failed, so callers can keep their lists responsive and reconcile later.
func PlaceholderTask(userID string, nt NewTask) Task {
	applyTaskDefaults(&nt)
	now := time.Now().UTC()
	return Task{
		ID:               "local-" + uuid.NewString(),
		UserID:           userID,
		Title:            nt.Title,
		Description:      nt.Description,
		Status:           nt.Status,
		Priority:         nt.Priority,
		EstimatedMinutes: nt.EstimatedMinutes,
		DueDate:          nt.DueDate,
		ParentTaskID:     nt.ParentTaskID,
		Tags:             nt.Tags,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// UpdateTask patches arbitrary fields on a task.
func (s *Service) UpdateTask(ctx context.Context, taskID string, updates map[string]interface{}) (task *Task, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "update_task", start, err) }()

	var updated Task
	if updateErr := s.store.From("tasks").Eq("id", taskID).Single().Update(ctx, updates, &updated); updateErr != nil {
		err = translate("update task", updateErr)
		return nil, err
	}

	s.tasks.InvalidatePrefix("tasks_")
	return &updated, nil
}

// CompleteTask marks a task completed and stamps completed_at. Repeating the
// call re-sets the same fields; there are no further side effects.
func (s *Service) CompleteTask(ctx context.Context, taskID string) (*Task, error) {
	return s.UpdateTask(ctx, taskID, map[string]interface{}{
		"status":       TaskCompleted,
		"completed_at": time.Now().UTC().Format(time.RFC3339),
	})
}
