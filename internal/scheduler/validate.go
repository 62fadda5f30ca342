package scheduler

import (
	"strings"

	"github.com/suyash-2004/TaskFlow-PBL-T180/internal/taskerr"
	"github.com/suyash-2004/TaskFlow-PBL-T180/pkg/models"
)

const (
	// MinPriority and MaxPriority bound the accepted priority range.
	MinPriority = 1
	MaxPriority = 5
)

// ValidateTask checks the field and dependency constraints for a task about
// to be written. userTasks is the owner's current task set; the candidate
// replaces its stored version (matched by id) for the dependency checks, so
// updates are validated against the state they would produce.
func ValidateTask(t *models.Task, userTasks []*models.Task) error {
	if strings.TrimSpace(t.Name) == "" {
		return &taskerr.Error{Kind: taskerr.Validation, Message: "task name must not be empty", Field: "name"}
	}
	if t.Duration < 1 {
		return &taskerr.Error{Kind: taskerr.Validation, Message: "duration must be at least 1 minute", Field: "duration"}
	}
	if t.Priority < MinPriority || t.Priority > MaxPriority {
		return &taskerr.Error{Kind: taskerr.Validation, Message: "priority must be between 1 and 5", Field: "priority"}
	}
	if !t.Status.Valid() {
		return &taskerr.Error{Kind: taskerr.Validation, Message: "unknown status " + string(t.Status), Field: "status"}
	}
	if t.IsBreak() && len(t.Dependencies) > 0 {
		return &taskerr.Error{Kind: taskerr.Validation, Message: "breaks cannot have dependencies", Field: "dependencies"}
	}
	if len(t.Dependencies) == 0 {
		return nil
	}

	known := make(map[string]*models.Task, len(userTasks))
	for _, u := range userTasks {
		known[u.ID] = u
	}
	seen := make(map[string]bool, len(t.Dependencies))
	for _, dep := range t.Dependencies {
		if dep == t.ID {
			return &taskerr.Error{Kind: taskerr.Validation, Message: "task cannot depend on itself", Field: "dependencies"}
		}
		if seen[dep] {
			return &taskerr.Error{Kind: taskerr.Validation, Message: "duplicate dependency " + dep, Field: "dependencies"}
		}
		seen[dep] = true
		u, ok := known[dep]
		if !ok || u.UserID != t.UserID {
			return &taskerr.Error{Kind: taskerr.Validation, Message: "dependency " + dep + " does not exist for this user", Field: "dependencies"}
		}
	}

	// Cycle check over the state after the write.
	combined := make([]*models.Task, 0, len(userTasks)+1)
	replaced := false
	for _, u := range userTasks {
		if u.ID == t.ID {
			combined = append(combined, t)
			replaced = true
			continue
		}
		combined = append(combined, u)
	}
	if !replaced {
		combined = append(combined, t)
	}
	return buildGraph(combined).cycleCheck(combined)
}
