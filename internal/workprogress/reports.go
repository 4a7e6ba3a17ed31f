package workprogress

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StatusReports returns status reports matching the filters, newest first.
// Read path: degrades to an empty slice on any failure.
func (s *Service) StatusReports(ctx context.Context, filters ReportFilters) []StatusReport {
	start := time.Now()
	defer s.observe(ctx, "status_reports", start, nil)

	q := s.store.From("status_reports")
	if filters.StartDate != "" {
		q = q.Gte("report_date", filters.StartDate)
	}
	if filters.EndDate != "" {
		q = q.Lte("report_date", filters.EndDate)
	}
	if filters.ReportType != "" {
		q = q.Eq("report_type", filters.ReportType)
	}
	if filters.Sent != nil {
		q = q.Eq("sent", *filters.Sent)
	}
	q = q.Order("report_date", false)

	var rows []StatusReport
	if err := q.Get(ctx, &rows); err != nil {
		s.logger.Warn("status report query failed", zap.Error(err))
		return []StatusReport{}
	}
	if rows == nil {
		rows = []StatusReport{}
	}
	return rows
}

// CreateStatusReport saves a report for the signed-in user. The date defaults
// to today and the type to evening.
func (s *Service) CreateStatusReport(ctx context.Context, nr NewStatusReport) (report *StatusReport, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "create_status_report", start, err) }()

	sess, err := s.source.Session(ctx)
	if err != nil {
		return nil, translate("create status report", err)
	}

	if nr.ReportDate == "" {
		nr.ReportDate = time.Now().UTC().Format("2006-01-02")
	}
	if nr.ReportType == "" {
		nr.ReportType = ReportEvening
	}

	row := map[string]interface{}{
		"report_type":       nr.ReportType,
		"report_date":       nr.ReportDate,
		"content":           nr.Content,
		"tasks_completed":   nr.TasksCompleted,
		"tasks_in_progress": nr.TasksInProgress,
		"blockers":          nr.Blockers,
		"next_steps":        nr.NextSteps,
		"ai_generated":      nr.AIGenerated,
		"user_id":           sess.UserID,
	}

	var created StatusReport
	if insertErr := s.store.From("status_reports").Single().Insert(ctx, row, &created); insertErr != nil {
		err = translate("create status report", insertErr)
		return nil, err
	}
	return &created, nil
}

// MarkReportSent stamps a report as delivered. Safe to repeat.
func (s *Service) MarkReportSent(ctx context.Context, reportID string) (report *StatusReport, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "mark_report_sent", start, err) }()

	var updated StatusReport
	updateErr := s.store.From("status_reports").
		Eq("id", reportID).
		Single().
		Update(ctx, map[string]interface{}{
			"sent":    true,
			"sent_at": time.Now().UTC().Format(time.RFC3339),
		}, &updated)
	if updateErr != nil {
		err = translate("mark report sent", updateErr)
		return nil, err
	}
	return &updated, nil
}
