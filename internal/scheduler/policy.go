package scheduler

import (
	"sort"
	"time"

	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

// A comparator returns negative when a should precede b, positive when b
// should precede a, and zero on a tie. Policies are chains of comparators
// evaluated left to right.
type comparator func(a, b *models.Task) int

// sortByPolicy orders tasks in place by the named policy. The sort is
// stable, so tasks equal under the whole chain keep their store order
// (created_at ascending).
func sortByPolicy(tasks []*models.Task, policy models.Policy, now time.Time) {
	chain := policyChain(policy, now)
	sort.SliceStable(tasks, func(i, j int) bool {
		for _, cmp := range chain {
			if c := cmp(tasks[i], tasks[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// policyChain maps a policy to its comparator chain. Unknown policies fall
// back to round_robin.
func policyChain(policy models.Policy, now time.Time) []comparator {
	switch policy {
	case models.PolicyFCFS:
		return []comparator{byCreatedAsc}
	case models.PolicySJF:
		return []comparator{byDurationAsc, byPriorityDesc, byCreatedAsc}
	case models.PolicyLJF:
		return []comparator{byDurationDesc, byPriorityDesc, byCreatedAsc}
	case models.PolicyPriority:
		return []comparator{byPriorityDesc, byDeadlineAsc, byCreatedAsc}
	default:
		return []comparator{byScoreDesc(now), byDeadlineAsc, byCreatedAsc}
	}
}

// compositeScore is the round_robin ranking: priority dominates, and a
// deadline inside the next 24 hours adds up to ~10 points of pressure.
func compositeScore(t *models.Task, now time.Time) float64 {
	return float64(t.Priority*10) + deadlinePressure(t.Deadline, now)
}

// deadlinePressure grows from 0 to 10 as a future deadline approaches. A
// missing or already-passed deadline contributes nothing.
func deadlinePressure(deadline *time.Time, now time.Time) float64 {
	if deadline == nil || !deadline.After(now) {
		return 0
	}
	hoursUntil := deadline.Sub(now).Hours()
	pressure := 10 - hoursUntil/2.4
	if pressure < 0 {
		return 0
	}
	return pressure
}

func byScoreDesc(now time.Time) comparator {
	return func(a, b *models.Task) int {
		sa, sb := compositeScore(a, now), compositeScore(b, now)
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		default:
			return 0
		}
	}
}

func byDurationAsc(a, b *models.Task) int  { return a.Duration - b.Duration }
func byDurationDesc(a, b *models.Task) int { return b.Duration - a.Duration }
func byPriorityDesc(a, b *models.Task) int { return b.Priority - a.Priority }

func byCreatedAsc(a, b *models.Task) int {
	switch {
	case a.CreatedAt.Before(b.CreatedAt):
		return -1
	case b.CreatedAt.Before(a.CreatedAt):
		return 1
	default:
		return 0
	}
}

// byDeadlineAsc puts earlier deadlines first; tasks without a deadline sort
// after tasks that have one.
func byDeadlineAsc(a, b *models.Task) int {
	switch {
	case a.Deadline == nil && b.Deadline == nil:
		return 0
	case a.Deadline == nil:
		return 1
	case b.Deadline == nil:
		return -1
	case a.Deadline.Before(*b.Deadline):
		return -1
	case b.Deadline.Before(*a.Deadline):
		return 1
	default:
		return 0
	}
}
