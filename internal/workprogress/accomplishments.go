package workprogress

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Accomplishments returns accomplishments matching the filters, newest first.
// Read path: degrades to an empty slice on any failure.
func (s *Service) Accomplishments(ctx context.Context, filters AccomplishmentFilters) []Accomplishment {
	start := time.Now()
	defer s.observe(ctx, "accomplishments", start, nil)

	q := s.store.From("accomplishments")
	if filters.StartDate != "" {
		q = q.Gte("accomplishment_date", filters.StartDate)
	}
	if filters.EndDate != "" {
		q = q.Lte("accomplishment_date", filters.EndDate)
	}
	if filters.ImpactLevel != "" {
		q = q.Eq("impact_level", filters.ImpactLevel)
	}
	if len(filters.Tags) > 0 {
		q = q.Contains("tags", filters.Tags)
	}
	if filters.Featured {
		q = q.Eq("is_featured", true)
	}
	q = q.Order("accomplishment_date", false)

	var rows []Accomplishment
	if err := q.Get(ctx, &rows); err != nil {
		s.logger.Warn("accomplishment query failed", zap.Error(err))
		return []Accomplishment{}
	}
	if rows == nil {
		rows = []Accomplishment{}
	}
	return rows
}

// CreateAccomplishment records an achievement for the signed-in user. The
// date defaults to today and the impact level to medium. Linking to a task is
// the caller's choice; completing a task records nothing here.
func (s *Service) CreateAccomplishment(ctx context.Context, na NewAccomplishment) (acc *Accomplishment, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "create_accomplishment", start, err) }()

	sess, err := s.source.Session(ctx)
	if err != nil {
		return nil, translate("create accomplishment", err)
	}

	if na.AccomplishmentDate == "" {
		na.AccomplishmentDate = time.Now().UTC().Format("2006-01-02")
	}
	if na.ImpactLevel == "" {
		na.ImpactLevel = ImpactMedium
	}
	if na.Tags == nil {
		na.Tags = []string{}
	}

	row := map[string]interface{}{
		"title":               na.Title,
		"description":         na.Description,
		"task_id":             na.TaskID,
		"accomplishment_date": na.AccomplishmentDate,
		"impact_level":        na.ImpactLevel,
		"metrics":             na.Metrics,
		"tags":                na.Tags,
		"is_featured":         na.IsFeatured,
		"user_id":             sess.UserID,
	}

	var created Accomplishment
	if insertErr := s.store.From("accomplishments").Single().Insert(ctx, row, &created); insertErr != nil {
		err = translate("create accomplishment", insertErr)
		return nil, err
	}
	return &created, nil
}
