package core

import (
	"context"
	"fmt"

	"launchcore/pkg/domain"
)

// NewStageReferenceRule returns the rule requiring every stage reference
// inside a project (the current-stage pointer and each task's stage link) to
// resolve to a stage owned by that same project.
func NewStageReferenceRule() domain.Rule {
	return stageReferenceRule{}
}

type stageReferenceRule struct{}

func (stageReferenceRule) Name() string { return "stage_reference" }

func (stageReferenceRule) Evaluate(_ context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, project := range view.ListProjects() {
		stages := make(map[string]struct{}, len(project.GTMStages))
		for _, stage := range project.GTMStages {
			stages[stage.ID] = struct{}{}
		}
		if ref := project.CurrentGTMStageID; ref != nil {
			if _, ok := stages[*ref]; !ok {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "stage_reference",
					Severity: domain.SeverityBlock,
					Code:     domain.CodeReference,
					Message:  fmt.Sprintf("project %s current stage %s does not exist", project.ID, *ref),
					Entity:   domain.EntityProject,
					EntityID: project.ID,
				})
			}
		}
		for _, task := range project.Tasks {
			if task.GTMStageID == nil {
				continue
			}
			if _, ok := stages[*task.GTMStageID]; !ok {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     "stage_reference",
					Severity: domain.SeverityBlock,
					Code:     domain.CodeReference,
					Message:  fmt.Sprintf("task %s references stage %s outside its project", task.ID, *task.GTMStageID),
					Entity:   domain.EntityTask,
					EntityID: task.ID,
				})
			}
		}
	}
	return res, nil
}
