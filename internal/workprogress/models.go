package workprogress

import "time"

// SessionStatus is the lifecycle state of a work session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskBlocked    TaskStatus = "blocked"
	TaskCompleted  TaskStatus = "completed"
	TaskDeferred   TaskStatus = "deferred"
)

// ImpactLevel grades an accomplishment.
type ImpactLevel string

const (
	ImpactLow      ImpactLevel = "low"
	ImpactMedium   ImpactLevel = "medium"
	ImpactHigh     ImpactLevel = "high"
	ImpactCritical ImpactLevel = "critical"
)

// ReportType is the cadence of a status report.
type ReportType string

const (
	ReportMorning ReportType = "morning"
	ReportEvening ReportType = "evening"
	ReportWeekly  ReportType = "weekly"
)

// WorkSession is a tracked block of work time. At most one session per user
// is active at a time; the store's partial unique index enforces it.
type WorkSession struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	Status          SessionStatus `json:"status"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         *time.Time    `json:"end_time,omitempty"`
	DurationMinutes *int          `json:"duration_minutes,omitempty"`
}

// Task is a unit of planned work. Priority 1 is highest, 5 lowest.
type Task struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           TaskStatus `json:"status"`
	Priority         int        `json:"priority"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	ParentTaskID     *string    `json:"parent_task_id,omitempty"`
	Tags             []string   `json:"tags"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Accomplishment is a recorded achievement, optionally linked to a task.
// The task link is a weak back-reference; nothing populates it automatically.
type Accomplishment struct {
	ID                 string      `json:"id"`
	UserID             string      `json:"user_id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	TaskID             *string     `json:"task_id,omitempty"`
	AccomplishmentDate string      `json:"accomplishment_date"`
	ImpactLevel        ImpactLevel `json:"impact_level"`
	Metrics            string      `json:"metrics,omitempty"`
	Tags               []string    `json:"tags"`
	IsFeatured         bool        `json:"is_featured"`
}

// StatusReport is a morning/evening/weekly summary, manual or AI-generated.
type StatusReport struct {
	ID              string     `json:"id"`
	ReportType      ReportType `json:"report_type"`
	ReportDate      string     `json:"report_date"`
	Content         string     `json:"content"`
	TasksCompleted  string     `json:"tasks_completed,omitempty"`
	TasksInProgress string     `json:"tasks_in_progress,omitempty"`
	Blockers        string     `json:"blockers,omitempty"`
	NextSteps       string     `json:"next_steps,omitempty"`
	AIGenerated     bool       `json:"ai_generated"`
	Sent            bool       `json:"sent"`
	SentAt          *time.Time `json:"sent_at,omitempty"`
}

// Profile is the dependent record tasks and sessions reference. It shares
// its ID with the auth identity and must exist before dependent writes.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ActivityLog is a per-session activity entry, managed through the API
// server's routes rather than the store.
type ActivityLog struct {
	ID           string     `json:"id"`
	SessionID    string     `json:"session_id"`
	TaskID       *string    `json:"task_id,omitempty"`
	Description  string     `json:"description"`
	ActivityType string     `json:"activity_type,omitempty"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
}

// TaskFilters narrows Tasks queries. Zero values mean "no filter".
type TaskFilters struct {
	// Status matches any of the given states.
	Status []TaskStatus `json:"status,omitempty"`

	// Priority matches exactly.
	Priority int `json:"priority,omitempty"`

	// DueBefore is an inclusive upper bound on due_date.
	DueBefore *time.Time `json:"due_before,omitempty"`

	// Tags requires the task's tag set to contain all of these.
	Tags []string `json:"tags,omitempty"`

	// BypassCache forces a remote read regardless of cache freshness.
	// Not part of the cache key.
	BypassCache bool `json:"-"`
}

// AccomplishmentFilters narrows Accomplishments queries.
type AccomplishmentFilters struct {
	StartDate   string
	EndDate     string
	ImpactLevel ImpactLevel
	Tags        []string
	Featured    bool
}

// ReportFilters narrows StatusReports queries.
type ReportFilters struct {
	StartDate  string
	EndDate    string
	ReportType ReportType
	Sent       *bool
}

// NewTask is the caller-supplied payload for task creation. Missing fields
// receive defaults on insert.
type NewTask struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Status           TaskStatus `json:"status"`
	Priority         int        `json:"priority"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	DueDate          *time.Time `json:"due_date"`
	ParentTaskID     *string    `json:"parent_task_id"`
	Tags             []string   `json:"tags"`
}

// NewAccomplishment is the payload for accomplishment creation.
type NewAccomplishment struct {
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	TaskID             *string     `json:"task_id"`
	AccomplishmentDate string      `json:"accomplishment_date"`
	ImpactLevel        ImpactLevel `json:"impact_level"`
	Metrics            string      `json:"metrics"`
	Tags               []string    `json:"tags"`
	IsFeatured         bool        `json:"is_featured"`
}

// NewStatusReport is the payload for report creation.
type NewStatusReport struct {
	ReportType      ReportType `json:"report_type"`
	ReportDate      string     `json:"report_date"`
	Content         string     `json:"content"`
	TasksCompleted  string     `json:"tasks_completed"`
	TasksInProgress string     `json:"tasks_in_progress"`
	Blockers        string     `json:"blockers"`
	NextSteps       string     `json:"next_steps"`
	AIGenerated     bool       `json:"ai_generated"`
}

// DailySummary is a per-day rollup of work session time.
type DailySummary struct {
	Date         string  `json:"date"`
	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	Sessions     int     `json:"sessions"`
}

// TaskStats summarizes task throughput over a window.
type TaskStats struct {
	Total              int                `json:"total"`
	ByStatus           map[TaskStatus]int `json:"by_status"`
	CompletionRate     int                `json:"completion_rate"`
	AvgCompletionHours float64            `json:"avg_completion_hours"`
}
