package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/timeutil"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	breakStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// statusGlyph returns a colored one-character marker for a status.
func statusGlyph(s models.TaskStatus) string {
	switch s {
	case models.TaskStatusCompleted:
		return color.GreenString("✓")
	case models.TaskStatusInProgress:
		return color.YellowString("▶")
	case models.TaskStatusCancelled:
		return color.RedString("✗")
	case models.TaskStatusBreak:
		return color.CyanString("~")
	default:
		return color.HiBlackString("·")
	}
}

// renderTimeline prints a day's scheduled entries as a table, one row
// per entry in start order.
func renderTimeline(date time.Time, zone *time.Location, tasks []*models.Task) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Schedule for "+timeutil.FormatDate(date, time.UTC)) + "\n")

	if len(tasks) == 0 {
		b.WriteString("  (nothing scheduled)\n")
		return b.String()
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-13s %-3s %-30s %8s  %s", "Time", "", "Task", "Length", "Status")) + "\n")
	for _, task := range tasks {
		row := fmt.Sprintf("  %-13s %-3s %-30s %5d min  %s",
			timelineInterval(task, zone),
			statusGlyph(task.Status),
			truncate(task.Name, 30),
			task.Duration,
			task.Status,
		)
		if task.IsBreak() {
			row = breakStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}
	return b.String()
}

func timelineInterval(task *models.Task, zone *time.Location) string {
	if !task.Scheduled() {
		return "--:-- --:--"
	}
	return task.ScheduledStartTime.In(zone).Format(timeutil.ClockLayout) +
		" - " +
		task.ScheduledEndTime.In(zone).Format(timeutil.ClockLayout)
}

// renderReport prints a report's metrics, per-task outcomes, and summary.
func renderReport(rep *models.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Productivity Report - "+timeutil.FormatDate(rep.Date, time.UTC)) + "\n\n")

	m := rep.Metrics
	b.WriteString(headerStyle.Render("Metrics") + "\n")
	b.WriteString(fmt.Sprintf("  Completion rate:    %.1f%%\n", m.CompletionRate))
	b.WriteString(fmt.Sprintf("  On-time rate:       %.1f%%\n", m.OnTimeRate))
	b.WriteString(fmt.Sprintf("  Average delay:      %.1f min\n", m.AvgDelay))
	b.WriteString(fmt.Sprintf("  Time efficiency:    %.2f\n", m.TimeEfficiency))
	b.WriteString(fmt.Sprintf("  Productivity score: %.1f/100\n", m.ProductivityScore))

	if len(rep.Tasks) > 0 {
		b.WriteString("\n" + headerStyle.Render("Tasks") + "\n")
		for _, row := range rep.Tasks {
			delay := ""
			if row.Delay != nil && *row.Delay != 0 {
				delay = fmt.Sprintf("  (%+d min)", *row.Delay)
			}
			b.WriteString(fmt.Sprintf("  %s %s%s\n", statusGlyph(row.Status), truncate(row.Name, 40), delay))
		}
	}

	if rep.AISummary != "" {
		b.WriteString("\n" + headerStyle.Render("Summary") + "\n")
		b.WriteString("  " + rep.AISummary + "\n")
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
