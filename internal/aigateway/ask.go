package aigateway

import (
	"context"
	"net/url"

	"go.uber.org/zap"
)

// AskOptions refines a question. Zero value includes everything.
type AskOptions struct {
	DateRange *DateRange

	// Exclude flags narrow the retrieval scope; the default is to include all.
	ExcludeTasks           bool
	ExcludeSessions        bool
	ExcludeAccomplishments bool
}

// askResponse is the server's envelope for ask and answer-from-context.
type askResponse struct {
	Answer string `json:"answer"`
}

// Ask answers a natural-language question about work history.
//
// Degradation order:
//  1. retrieval endpoints, answered from stored work data (source "database")
//  2. context endpoints, seeded with best-effort daily work info (source "ai")
//  3. the local canned responder (source "fallback")
//
// Each remote attempt is bounded by the ask timeout. Ask never fails; the
// final tier is deterministic and local.
func (c *Client) Ask(ctx context.Context, query string, opts AskOptions) *Answer {
	payload := map[string]interface{}{
		"query":                   query,
		"date_range":              opts.DateRange,
		"include_tasks":           !opts.ExcludeTasks,
		"include_sessions":        !opts.ExcludeSessions,
		"include_accomplishments": !opts.ExcludeAccomplishments,
	}

	for _, endpoint := range c.endpoints("ask") {
		var resp askResponse
		if err := c.post(ctx, endpoint, c.askTimeout, payload, &resp); err != nil {
			c.logger.Warn("ask endpoint failed", zap.String("endpoint", endpoint), zap.Error(err))
			continue
		}
		if resp.Answer == "" {
			c.logger.Warn("ask endpoint returned empty answer", zap.String("endpoint", endpoint))
			continue
		}
		c.metrics.RecordAsk(ctx, SourceDatabase)
		return &Answer{Answer: resp.Answer, Source: SourceDatabase, Endpoint: endpoint, Workflow: "rag"}
	}

	c.logger.Warn("all retrieval endpoints failed, trying context endpoints")

	// Best effort; an empty context still lets the server answer generically.
	dailyInfo, err := c.DailyWorkInfo(ctx, opts.DateRange)
	if err != nil {
		c.logger.Warn("daily work info unavailable", zap.Error(err))
		dailyInfo = []DailyWorkInfo{}
	}

	contextPayload := map[string]interface{}{
		"query":      query,
		"daily_info": dailyInfo,
		"date_range": opts.DateRange,
	}
	for _, endpoint := range c.endpoints("answer-from-context") {
		var resp askResponse
		if err := c.post(ctx, endpoint, c.askTimeout, contextPayload, &resp); err != nil {
			c.logger.Warn("context endpoint failed", zap.String("endpoint", endpoint), zap.Error(err))
			continue
		}
		if resp.Answer == "" {
			continue
		}
		c.metrics.RecordAsk(ctx, SourceAI)
		return &Answer{Answer: resp.Answer, Source: SourceAI, Endpoint: endpoint, Workflow: "ai-only"}
	}

	c.logger.Warn("all remote endpoints failed, using canned responder", zap.String("query", query))
	c.metrics.RecordAsk(ctx, SourceFallback)
	return &Answer{
		Answer:   cannedAnswer(query, opts.DateRange),
		Source:   SourceFallback,
		Workflow: "enhanced-fallback",
	}
}

// DailyWorkInfo is one day's roll-up of logged work, shaped by the server.
type DailyWorkInfo struct {
	Date     string                 `json:"date"`
	Summary  string                 `json:"summary,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Sessions int                    `json:"sessions,omitempty"`
}

// DailyWorkInfo fetches per-day work summaries for the range.
func (c *Client) DailyWorkInfo(ctx context.Context, dr *DateRange) ([]DailyWorkInfo, error) {
	params := url.Values{}
	if dr != nil {
		if dr.StartDate != "" {
			params.Set("start_date", dr.StartDate)
		}
		if dr.EndDate != "" {
			params.Set("end_date", dr.EndDate)
		}
	}

	var info []DailyWorkInfo
	endpoint := c.primaryURL + "/api/work-progress/daily-info"
	if err := c.get(ctx, endpoint, c.askTimeout, params, &info); err != nil {
		return nil, err
	}
	if info == nil {
		info = []DailyWorkInfo{}
	}
	return info, nil
}
