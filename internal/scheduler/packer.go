package scheduler

import (
	"time"

	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

// placement assigns a task its interval inside the working window.
type placement struct {
	task  *models.Task
	start time.Time
	end   time.Time
}

// pack walks the flattened order and places tasks end to end from the
// window start. A task is skipped, keeping its null schedule, when
//
//   - any dependency outside the candidate set is not completed,
//   - any dependency inside the set was itself skipped, or
//   - the remaining window cannot hold its full duration.
//
// Skips do not stop the walk: a later, shorter task may still fit.
func pack(flattened []*models.Task, g *depGraph, wStart, wEnd time.Time, completed map[string]bool) []placement {
	placedAt := make(map[string]bool, len(flattened))
	placements := make([]placement, 0, len(flattened))
	cursor := wStart

	for _, t := range flattened {
		if !admissible(t, g, placedAt, completed) {
			continue
		}
		end := cursor.Add(time.Duration(t.Duration) * time.Minute)
		if end.After(wEnd) {
			continue
		}
		placements = append(placements, placement{task: t, start: cursor, end: end})
		placedAt[t.ID] = true
		cursor = end
	}
	return placements
}

// admissible checks the dependency side of placement. In-set dependencies
// precede their dependents in the flattened order, so "placed already"
// fully captures "will be placed earlier in this generation".
func admissible(t *models.Task, g *depGraph, placed, completed map[string]bool) bool {
	for _, dep := range g.edges[t.ID] {
		if !placed[dep] && !completed[dep] {
			return false
		}
	}
	for _, dep := range g.external[t.ID] {
		if !completed[dep] {
			return false
		}
	}
	return true
}
