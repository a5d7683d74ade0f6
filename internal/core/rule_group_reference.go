package core

import (
	"context"
	"fmt"

	"launchcore/pkg/domain"
)

// NewGroupReferenceRule returns the rule requiring every project to
// reference an existing product group.
func NewGroupReferenceRule() domain.Rule {
	return groupReferenceRule{}
}

type groupReferenceRule struct{}

func (groupReferenceRule) Name() string { return "group_reference" }

func (groupReferenceRule) Evaluate(_ context.Context, view domain.TransactionView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, project := range view.ListProjects() {
		if _, ok := view.FindGroup(project.GroupID); ok {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "group_reference",
			Severity: domain.SeverityBlock,
			Code:     domain.CodeReference,
			Message:  fmt.Sprintf("project %s (%s) references unknown group %s", project.Name, project.ID, project.GroupID),
			Entity:   domain.EntityProject,
			EntityID: project.ID,
		})
	}
	return res, nil
}
