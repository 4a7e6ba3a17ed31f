package workprogress

import (
	"context"
	"sort"
	"time"
)

// WorkHoursByDay rolls session time up per calendar day over the window.
// Sessions still running contribute time up to now. Read path: built on
// SessionsByDateRange, so it degrades to an empty slice rather than failing.
func (s *Service) WorkHoursByDay(ctx context.Context, from, to time.Time) []DailySummary {
	start := time.Now()
	defer s.observe(ctx, "work_hours_by_day", start, nil)

	sessions := s.SessionsByDateRange(ctx, from, to)

	byDay := map[string]*DailySummary{}
	for _, sess := range sessions {
		day := sess.StartTime.UTC().Format("2006-01-02")
		summary, ok := byDay[day]
		if !ok {
			summary = &DailySummary{Date: day}
			byDay[day] = summary
		}

		minutes := 0
		switch {
		case sess.DurationMinutes != nil:
			minutes = *sess.DurationMinutes
		case sess.EndTime != nil:
			minutes = int(sess.EndTime.Sub(sess.StartTime).Minutes())
		default:
			minutes = int(time.Since(sess.StartTime).Minutes())
		}
		if minutes < 0 {
			minutes = 0
		}

		summary.TotalMinutes += minutes
		summary.Sessions++
	}

	days := make([]DailySummary, 0, len(byDay))
	for _, summary := range byDay {
		summary.TotalHours = float64(summary.TotalMinutes) / 60
		days = append(days, *summary)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// TaskStatsSince summarizes task state and throughput for tasks created since
// the given time. Read path: an empty stats value comes back when the query
// degrades.
func (s *Service) TaskStatsSince(ctx context.Context, since time.Time) TaskStats {
	start := time.Now()
	defer s.observe(ctx, "task_stats", start, nil)

	tasks := s.Tasks(ctx, TaskFilters{BypassCache: true})

	stats := TaskStats{ByStatus: map[TaskStatus]int{}}
	var completionHours float64
	var completed int

	for _, t := range tasks {
		if t.CreatedAt.Before(since) {
			continue
		}
		stats.Total++
		stats.ByStatus[t.Status]++

		if t.Status == TaskCompleted {
			completed++
			if t.CompletedAt != nil {
				completionHours += t.CompletedAt.Sub(t.CreatedAt).Hours()
			}
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = completed * 100 / stats.Total
	}
	if completed > 0 {
		stats.AvgCompletionHours = completionHours / float64(completed)
	}
	return stats
}
