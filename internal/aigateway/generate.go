package aigateway

import (
	"context"
)

// Single-endpoint generation calls. No fallback chain: errors propagate
// unmodified so the caller can surface them.

// ReportRequest is the input for AI status-report generation.
type ReportRequest struct {
	ReportType      string                   `json:"report_type"`
	Tasks           []map[string]interface{} `json:"tasks,omitempty"`
	Accomplishments []map[string]interface{} `json:"accomplishments,omitempty"`
	DateRange       *DateRange               `json:"date_range,omitempty"`
	UserInfo        map[string]interface{}   `json:"user_info,omitempty"`
}

// GeneratedReport is the server's report envelope.
type GeneratedReport struct {
	Content         string `json:"content"`
	TasksCompleted  string `json:"tasks_completed,omitempty"`
	TasksInProgress string `json:"tasks_in_progress,omitempty"`
	Blockers        string `json:"blockers,omitempty"`
	NextSteps       string `json:"next_steps,omitempty"`
}

// GenerateStatusReport produces an AI-written status report from work data.
func (c *Client) GenerateStatusReport(ctx context.Context, req ReportRequest) (*GeneratedReport, error) {
	var out GeneratedReport
	if err := c.post(ctx, c.primaryURL+"/api/ai/generate-report", c.generateTimeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalysisRequest is the input for work-pattern analysis.
type AnalysisRequest struct {
	WorkSessions []map[string]interface{} `json:"work_sessions,omitempty"`
	Tasks        []map[string]interface{} `json:"tasks,omitempty"`
	ActivityLogs []map[string]interface{} `json:"activity_logs,omitempty"`
	DateRange    *DateRange               `json:"date_range,omitempty"`
}

// WorkAnalysis carries pattern insights and recommendations.
type WorkAnalysis struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary,omitempty"`
}

// AnalyzeWorkPatterns extracts insights from sessions, tasks and activity logs.
func (c *Client) AnalyzeWorkPatterns(ctx context.Context, req AnalysisRequest) (*WorkAnalysis, error) {
	var out WorkAnalysis
	if err := c.post(ctx, c.primaryURL+"/api/ai/analyze-work", c.generateTimeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DurationRequest describes a task for duration prediction.
type DurationRequest struct {
	TaskTitle             string                   `json:"task_title"`
	TaskDescription       string                   `json:"task_description,omitempty"`
	TaskTags              []string                 `json:"task_tags,omitempty"`
	SimilarCompletedTasks []map[string]interface{} `json:"similar_completed_tasks,omitempty"`
}

// DurationPrediction is the server's estimate for a task.
type DurationPrediction struct {
	EstimatedMinutes int     `json:"estimated_minutes"`
	Confidence       float64 `json:"confidence,omitempty"`
	Reasoning        string  `json:"reasoning,omitempty"`
}

// PredictTaskDuration estimates how long a task will take.
func (c *Client) PredictTaskDuration(ctx context.Context, req DurationRequest) (*DurationPrediction, error) {
	var out DurationPrediction
	if err := c.post(ctx, c.primaryURL+"/api/ai/predict-duration", c.generateTimeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TaskPriority is one prioritized task with the model's reasoning.
type TaskPriority struct {
	TaskID    string `json:"task_id"`
	Priority  int    `json:"priority"`
	Reasoning string `json:"reasoning,omitempty"`
}

// SuggestTaskPriorities orders tasks by deadline, importance and dependencies.
func (c *Client) SuggestTaskPriorities(ctx context.Context, tasks []map[string]interface{}) ([]TaskPriority, error) {
	var out []TaskPriority
	payload := map[string]interface{}{"tasks": tasks}
	if err := c.post(ctx, c.primaryURL+"/api/ai/prioritize-tasks", c.generateTimeout, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BragSheetOptions shape the generated document.
type BragSheetOptions struct {
	TimePeriod       string `json:"time_period"`
	Format           string `json:"format"`
	TargetAudience   string `json:"target_audience"`
	HighlightMetrics bool   `json:"highlight_metrics"`
}

// BragSheet is the generated accomplishment summary.
type BragSheet struct {
	Content string `json:"content"`
	Format  string `json:"format,omitempty"`
}

// GenerateBragSheet turns accomplishments into a shareable summary. Options
// default to a three-month markdown document aimed at a manager.
func (c *Client) GenerateBragSheet(ctx context.Context, accomplishments []map[string]interface{}, opts BragSheetOptions) (*BragSheet, error) {
	if opts.TimePeriod == "" {
		opts.TimePeriod = "3 months"
	}
	if opts.Format == "" {
		opts.Format = "markdown"
	}
	if opts.TargetAudience == "" {
		opts.TargetAudience = "manager"
	}

	payload := map[string]interface{}{
		"accomplishments":   accomplishments,
		"time_period":       opts.TimePeriod,
		"format":            opts.Format,
		"target_audience":   opts.TargetAudience,
		"highlight_metrics": opts.HighlightMetrics,
	}
	var out BragSheet
	if err := c.post(ctx, c.primaryURL+"/api/ai/generate-brag-sheet", c.generateTimeout, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TaskExpansion is a generated description for a brief title.
type TaskExpansion struct {
	Description      string   `json:"description"`
	Subtasks         []string `json:"subtasks,omitempty"`
	EstimatedMinutes int      `json:"estimated_minutes,omitempty"`
}

// ExpandTaskDescription generates task details from a brief title.
func (c *Client) ExpandTaskDescription(ctx context.Context, title string, tags []string) (*TaskExpansion, error) {
	payload := map[string]interface{}{"title": title, "tags": tags}
	var out TaskExpansion
	if err := c.post(ctx, c.primaryURL+"/api/ai/expand-task", c.generateTimeout, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RiskRequest describes a task for risk identification.
type RiskRequest struct {
	TaskTitle       string   `json:"task_title"`
	TaskDescription string   `json:"task_description,omitempty"`
	TaskTags        []string `json:"task_tags,omitempty"`
	DueDate         string   `json:"due_date,omitempty"`
	Dependencies    []string `json:"dependencies,omitempty"`
}

// TaskRisk is one identified blocker or risk.
type TaskRisk struct {
	Risk       string `json:"risk"`
	Severity   string `json:"severity,omitempty"`
	Mitigation string `json:"mitigation,omitempty"`
}

// IdentifyTaskRisks lists potential blockers for a task.
func (c *Client) IdentifyTaskRisks(ctx context.Context, req RiskRequest) ([]TaskRisk, error) {
	var out []TaskRisk
	if err := c.post(ctx, c.primaryURL+"/api/ai/identify-risks", c.generateTimeout, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
