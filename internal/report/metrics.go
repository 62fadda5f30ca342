package report

import (
	"math"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/timeutil"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

// summarize derives the immutable report row from a task's planned and
// actual state. Durations and the delay are whole minutes; delay is
// positive when the task started late.
func summarize(t *models.Task) models.TaskSummary {
	s := models.TaskSummary{
		TaskID:            t.ID,
		Name:              t.Name,
		ScheduledDuration: t.Duration,
		ScheduledStart:    t.ScheduledStartTime,
		ScheduledEnd:      t.ScheduledEndTime,
		ActualStart:       t.ActualStartTime,
		ActualEnd:         t.ActualEndTime,
		Status:            t.Status,
		Priority:          t.Priority,
	}
	if t.ActualStartTime != nil && t.ActualEndTime != nil {
		d := timeutil.MinutesBetween(*t.ActualStartTime, *t.ActualEndTime)
		s.ActualDuration = &d
	}
	if t.ScheduledStartTime != nil && t.ActualStartTime != nil {
		d := timeutil.MinutesBetween(*t.ScheduledStartTime, *t.ActualStartTime)
		s.Delay = &d
	}
	return s
}

// computeMetrics aggregates the day over the non-break rows. An empty
// working set yields all-zero metrics. The score is computed from the
// unrounded components, then everything is rounded for storage: rates,
// delay and score to one decimal, efficiency to two.
func computeMetrics(rows []models.TaskSummary) models.ProductivityMetrics {
	var work []models.TaskSummary
	for _, r := range rows {
		if r.Status != models.TaskStatusBreak {
			work = append(work, r)
		}
	}
	if len(work) == 0 {
		return models.ProductivityMetrics{}
	}

	completed := 0
	onTime := 0
	delaySum := 0
	delayCount := 0
	scheduled := 0
	actual := 0
	for _, r := range work {
		scheduled += r.ScheduledDuration
		if r.ActualDuration != nil {
			actual += *r.ActualDuration
		}
		if r.Status != models.TaskStatusCompleted {
			continue
		}
		completed++
		if r.Delay == nil || *r.Delay <= 0 {
			onTime++
		}
		if r.Delay != nil {
			delaySum += *r.Delay
			delayCount++
		}
	}

	n := float64(len(work))
	completionRate := float64(completed) / n * 100
	onTimeRate := float64(onTime) / n * 100
	avgDelay := 0.0
	if delayCount > 0 {
		avgDelay = float64(delaySum) / float64(delayCount)
	}
	efficiency := 0.0
	if actual > 0 {
		efficiency = float64(scheduled) / float64(actual)
	}
	score := completionRate*0.5 + onTimeRate*0.3 + math.Min(efficiency, 2)/2*100*0.2
	score = math.Max(0, math.Min(100, score))

	return models.ProductivityMetrics{
		CompletionRate:     round1(completionRate),
		OnTimeRate:         round1(onTimeRate),
		AvgDelay:           round1(avgDelay),
		ProductivityScore:  round1(score),
		TotalScheduledTime: scheduled,
		TotalActualTime:    actual,
		TimeEfficiency:     round2(efficiency),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
