// Package pdf renders a stored productivity report as a PDF document: a
// title, the metrics table, the per-task table and the summary paragraph.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/timeutil"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

const notAvailable = "N/A"

// Render produces the PDF bytes for a report.
func Render(rep *models.Report) ([]byte, error) {
	doc := fpdf.New("P", "mm", "Letter", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	title(doc, fmt.Sprintf("Daily Productivity Report - %s",
		timeutil.FormatDate(rep.Date, time.UTC)))

	heading(doc, "Productivity Metrics")
	metricsTable(doc, rep.Metrics)

	heading(doc, "Task Summary")
	taskTable(doc, rep.Tasks)

	if rep.AISummary != "" {
		heading(doc, "AI Insights")
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, rep.AISummary, "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func title(doc *fpdf.Fpdf, text string) {
	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, text, "", 1, "C", false, 0, "")
	doc.Ln(4)
}

func heading(doc *fpdf.Fpdf, text string) {
	doc.SetFont("Helvetica", "B", 13)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
	doc.Ln(1)
}

func metricsTable(doc *fpdf.Fpdf, m models.ProductivityMetrics) {
	widths := []float64{70, 70}
	headerRow(doc, widths, []string{"Metric", "Value"})

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	doc.SetFillColor(245, 245, 220)
	rows := [][2]string{
		{"Completion Rate", fmt.Sprintf("%.1f%%", m.CompletionRate)},
		{"On-Time Rate", fmt.Sprintf("%.1f%%", m.OnTimeRate)},
		{"Average Delay", fmt.Sprintf("%.1f minutes", m.AvgDelay)},
		{"Productivity Score", fmt.Sprintf("%.1f/100", m.ProductivityScore)},
		{"Time Efficiency", fmt.Sprintf("%.2f", m.TimeEfficiency)},
	}
	for _, r := range rows {
		doc.CellFormat(widths[0], 7, r[0], "1", 0, "L", true, 0, "")
		doc.CellFormat(widths[1], 7, r[1], "1", 1, "L", true, 0, "")
	}
	doc.Ln(6)
}

func taskTable(doc *fpdf.Fpdf, rows []models.TaskSummary) {
	widths := []float64{52, 16, 24, 32, 32, 18}
	headerRow(doc, widths, []string{"Task", "Priority", "Status", "Scheduled", "Actual", "Delay"})

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(0, 0, 0)
	for _, r := range rows {
		delay := notAvailable
		if r.Delay != nil {
			delay = fmt.Sprintf("%d min", *r.Delay)
		}
		cells := []string{
			clip(r.Name, 34),
			fmt.Sprintf("%d", r.Priority),
			string(r.Status),
			interval(r.ScheduledStart, r.ScheduledEnd),
			interval(r.ActualStart, r.ActualEnd),
			delay,
		}
		for i, c := range cells {
			last := 0
			if i == len(cells)-1 {
				last = 1
			}
			doc.CellFormat(widths[i], 7, c, "1", last, "L", false, 0, "")
		}
	}
	doc.Ln(6)
}

func headerRow(doc *fpdf.Fpdf, widths []float64, labels []string) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(128, 128, 128)
	doc.SetTextColor(255, 255, 255)
	for i, l := range labels {
		last := 0
		if i == len(labels)-1 {
			last = 1
		}
		doc.CellFormat(widths[i], 8, l, "1", last, "C", true, 0, "")
	}
}

func interval(start, end *time.Time) string {
	if start == nil || end == nil {
		return notAvailable
	}
	return start.UTC().Format(timeutil.ClockLayout) + " - " + end.UTC().Format(timeutil.ClockLayout)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
