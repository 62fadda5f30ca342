// Package summary produces the natural-language paragraph attached to a
// productivity report. The report generator calls whichever Provider it is
// wired with and falls back to the deterministic Template when the provider
// fails, so summaries can never block or fail a report.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

// Provider turns a day's metrics and task outcomes into a short summary.
type Provider interface {
	Summarize(ctx context.Context, metrics models.ProductivityMetrics, tasks []models.TaskSummary) (string, error)
}

// Template is the deterministic provider. It never fails and is the
// fallback for every other provider.
type Template struct{}

// Summarize renders the fixed-form paragraph: completion counts, a tier
// sentence keyed on the productivity score, and an average-delay note when
// tasks started late.
func (Template) Summarize(_ context.Context, metrics models.ProductivityMetrics, tasks []models.TaskSummary) (string, error) {
	completed := 0
	for _, t := range tasks {
		if t.Status == models.TaskStatusCompleted {
			completed++
		}
	}
	total := len(tasks)
	pct := 0.0
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You completed %d out of %d tasks (%.1f%%). ", completed, total, pct)
	switch {
	case metrics.ProductivityScore > 80:
		b.WriteString("Great job! Your productivity was excellent today.")
	case metrics.ProductivityScore > 60:
		b.WriteString("Good work today. You maintained decent productivity.")
	default:
		b.WriteString("There's room for improvement in your task completion and time management.")
	}
	if metrics.AvgDelay > 0 {
		fmt.Fprintf(&b, " On average, you started tasks %.1f minutes late.", metrics.AvgDelay)
	}
	return b.String(), nil
}

// reportPrompt renders the metrics and per-task outcomes for a model call.
func reportPrompt(metrics models.ProductivityMetrics, tasks []models.TaskSummary) string {
	var b strings.Builder
	b.WriteString("Please provide a brief summary (3-5 sentences) of this productivity report:\n\n")
	b.WriteString("Metrics:\n")
	fmt.Fprintf(&b, "- Completion rate: %.1f%%\n", metrics.CompletionRate)
	fmt.Fprintf(&b, "- On-time rate: %.1f%%\n", metrics.OnTimeRate)
	fmt.Fprintf(&b, "- Average delay: %.1f minutes\n", metrics.AvgDelay)
	fmt.Fprintf(&b, "- Productivity score: %.1f/100\n", metrics.ProductivityScore)
	fmt.Fprintf(&b, "- Time efficiency: %.2f\n", metrics.TimeEfficiency)
	b.WriteString("\nTasks:\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "%s\n", taskLine(t))
	}
	b.WriteString("\nFocus on insights about time management, task prioritization, and suggestions for improvement.\n")
	b.WriteString("Be encouraging but honest about areas for improvement.")
	return b.String()
}

func taskLine(t models.TaskSummary) string {
	state := "not completed"
	if t.Status == models.TaskStatusCompleted {
		state = "completed"
	}
	line := fmt.Sprintf("Task '%s' (priority %d): %s", t.Name, t.Priority, state)
	if t.Delay != nil {
		switch {
		case *t.Delay > 0:
			line += fmt.Sprintf(", started %d minutes late", *t.Delay)
		case *t.Delay < 0:
			line += fmt.Sprintf(", started %d minutes early", -*t.Delay)
		default:
			line += ", started on time"
		}
	}
	return line
}
