package scheduler

import (
	"sort"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/taskerr"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

// depGraph indexes one generation's candidate tasks by id. Edges point from
// a task to the tasks it depends on. Dependencies referencing tasks outside
// the candidate set are kept separately: they never affect ordering, only
// admission at packing time.
type depGraph struct {
	nodes    map[string]*models.Task
	edges    map[string][]string
	external map[string][]string
}

// buildGraph constructs the dependency graph for a candidate set.
func buildGraph(tasks []*models.Task) *depGraph {
	g := &depGraph{
		nodes:    make(map[string]*models.Task, len(tasks)),
		edges:    make(map[string][]string, len(tasks)),
		external: make(map[string][]string),
	}
	for _, t := range tasks {
		g.nodes[t.ID] = t
	}
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if _, inSet := g.nodes[dep]; inSet {
				g.edges[t.ID] = append(g.edges[t.ID], dep)
			} else {
				g.external[t.ID] = append(g.external[t.ID], dep)
			}
		}
	}
	return g
}

// cycleCheck walks the graph depth-first with the usual three colors and
// returns a CycleDetected error naming the first back edge found. The walk
// follows the order slice so the reported edge is deterministic.
func (g *depGraph) cycleCheck(order []*models.Task) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	colors := make(map[string]int, len(g.nodes))

	var from, to string
	var visit func(id string) bool
	visit = func(id string) bool {
		colors[id] = gray
		for _, dep := range g.edges[id] {
			switch colors[dep] {
			case gray:
				from, to = id, dep
				return true
			case white:
				if visit(dep) {
					return true
				}
			}
		}
		colors[id] = black
		return false
	}

	for _, t := range order {
		if colors[t.ID] == white {
			if visit(t.ID) {
				return &taskerr.Error{
					Kind:    taskerr.CycleDetected,
					Message: "dependency cycle: " + from + " -> " + to,
					Edge:    from + " -> " + to,
				}
			}
		}
	}
	return nil
}

// flatten linearizes the candidate set against the dependency edges while
// following the policy's preference order: tasks are visited most-preferred
// first, and each task's unvisited in-set dependencies are emitted before
// the task itself, themselves in preference order. The caller must have run
// cycleCheck first.
func (g *depGraph) flatten(order []*models.Task) []*models.Task {
	rank := make(map[string]int, len(order))
	for i, t := range order {
		rank[t.ID] = i
	}
	visited := make(map[string]bool, len(g.nodes))
	result := make([]*models.Task, 0, len(order))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		deps := append([]string(nil), g.edges[id]...)
		sort.Slice(deps, func(i, j int) bool { return rank[deps[i]] < rank[deps[j]] })
		for _, dep := range deps {
			visit(dep)
		}
		result = append(result, g.nodes[id])
	}

	for _, t := range order {
		visit(t.ID)
	}
	return result
}
