package aigateway

import (
	"fmt"
	"regexp"
)

// queryCategory pairs a keyword pattern with its advisory text template.
// Patterns are checked in order; the first match wins.
type queryCategory struct {
	name    string
	pattern *regexp.Regexp
	answer  func(query, rangeText string) string
}

var queryCategories = []queryCategory{
	{
		name:    "task",
		pattern: regexp.MustCompile(`(?i)task|todo|priority|backlog`),
		answer: func(query, rangeText string) string {
			return fmt.Sprintf(`I don't have access to your task data right now due to connectivity issues, but regarding %q:

Task management best practices suggest:
• Organize by priority (high/medium/low) and deadline
• Use the Eisenhower matrix, urgent and important tasks first
• Break large tasks into smaller, actionable items
• Set realistic deadlines with buffer time
• Review and reprioritize tasks daily

For your specific tasks %s, check your Tasks tab when the connection is restored. The most effective task management combines good planning with regular review and adjustment.`, query, rangeText)
		},
	},
	{
		name:    "accomplishment",
		pattern: regexp.MustCompile(`(?i)accomplish|complete|finish|achieve`),
		answer: func(query, rangeText string) string {
			return fmt.Sprintf(`I can't access your specific accomplishment data %s due to connectivity issues, but regarding %q:

Best practices for tracking accomplishments:
• Categorize by impact (high/medium/low)
• Include quantifiable metrics when possible (e.g. "increased X by 20%%")
• Connect achievements to business goals
• Note collaborative efforts and your specific contributions
• Maintain an ongoing accomplishment log for future reference

This information is valuable for performance reviews, resume updates, and personal motivation. View your completed work in the Accomplishments tab when the connection is restored.`, rangeText, query)
		},
	},
	{
		name:    "time",
		pattern: regexp.MustCompile(`(?i)time|hour|session|track|pomodoro`),
		answer: func(query, rangeText string) string {
			return fmt.Sprintf(`I can't access your work session data %s due to connectivity issues, but regarding %q:

Effective time management strategies:
• Identify your 2-3 daily peak productivity periods
• Try the Pomodoro technique (25min work/5min break)
• Time-block your calendar for focused work
• Group similar tasks to reduce context switching
• Schedule breaks to prevent burnout
• Track and analyze your productive vs. unproductive time

You can monitor your active work time using the Activity Tracker when connection is restored.`, rangeText, query)
		},
	},
	{
		name:    "report",
		pattern: regexp.MustCompile(`(?i)report|status|update|summary`),
		answer: func(query, rangeText string) string {
			return fmt.Sprintf(`I can't access your report data %s due to connectivity issues, but regarding %q:

Effective status reports should:
• Be concise with bullet points for scanning
• Highlight achievements and completed deliverables
• Address blockers and how they're being handled
• Outline next steps and priorities
• Include timeline updates for key projects
• Avoid unnecessary details but provide links to more information

Try morning reports for planning your day or evening reports to reflect on accomplishments. Generate new reports in the Status Reports tab when connection is restored.`, rangeText, query)
		},
	},
	{
		name:    "insight",
		pattern: regexp.MustCompile(`(?i)insight|pattern|productivity|efficiency|work style`),
		answer: func(query, rangeText string) string {
			return fmt.Sprintf(`I can't access your specific work patterns %s due to connectivity issues, but regarding %q:

Research-backed productivity insights:
• Regular breaks increase overall productivity
• Multitasking reduces effectiveness by up to 40%%
• Most people have only 2-3 truly productive hours per day
• Decision fatigue builds throughout the day
• Environmental factors (noise, lighting, etc.) impact focus
• Sleep quality directly affects cognitive performance

Check the Insights panel for personalized analysis when connection is restored.`, rangeText, query)
		},
	},
	{
		name:    "progress",
		pattern: regexp.MustCompile(`(?i)progress|improve|roadblock|blocker|challenge`),
		answer: func(query, rangeText string) string {
			return fmt.Sprintf(`I can't access your work progress data %s due to connectivity issues, but regarding %q:

Effective progress tracking includes:
• Regular review of completed vs. planned work
• Identifying and documenting blockers early
• Breaking down large goals into measurable milestones
• Celebrating small wins along the way
• Learning from both successes and setbacks
• Adjusting timelines when necessary

The Work & Progress dashboard provides visualization of your productivity trends when connection is restored.`, rangeText, query)
		},
	},
	{
		name:    "collaboration",
		pattern: regexp.MustCompile(`(?i)team|collaborat|meet|colleague|share`),
		answer: func(query, rangeText string) string {
			return fmt.Sprintf(`I can't access your collaboration data %s due to connectivity issues, but regarding %q:

Collaboration best practices:
• Clearly define roles and responsibilities
• Set explicit expectations for deliverables
• Document decisions and action items
• Use shared workspaces for transparency
• Schedule regular check-ins
• Provide constructive feedback

The MeetingScribe platform helps capture and organize collaborative work when connection is restored.`, rangeText, query)
		},
	},
}

// cannedAnswer classifies the query by keyword and returns the advisory text
// for its category. Unmatched queries get the generic notice. Purely local
// and deterministic; the last tier of Ask.
func cannedAnswer(query string, dr *DateRange) string {
	rangeText := "in your recent history"
	if dr != nil && dr.StartDate != "" && dr.EndDate != "" {
		rangeText = fmt.Sprintf("between %s and %s", dr.StartDate, dr.EndDate)
	}

	for _, cat := range queryCategories {
		if cat.pattern.MatchString(query) {
			return cat.answer(query, rangeText)
		}
	}

	return fmt.Sprintf(`I can't access your work data %s due to connectivity issues, but I'd be happy to help with %q when connection is restored.

The Ask AI feature normally provides personalized answers from your:
• Task history and current priorities
• Accomplishments and their impact
• Work sessions and productivity patterns
• Status reports and progress tracking

In the meantime, you can explore the Tasks, Accomplishments, and Status Reports tabs directly for this information. Please try your question again later when the backend connection is working.`, rangeText, query)
}
