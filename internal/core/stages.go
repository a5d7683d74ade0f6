package core

import (
	"context"

	"launchcore/pkg/domain"
)

func stageOrders(stages []GTMStage) []int {
	orders := make([]int, len(stages))
	for i, s := range stages {
		orders[i] = s.Order
	}
	return orders
}

func findStage(p *Project, stageID string) (*GTMStage, error) {
	for i := range p.GTMStages {
		if p.GTMStages[i].ID == stageID {
			return &p.GTMStages[i], nil
		}
	}
	return nil, notFound(domain.EntityGTMStage, stageID)
}

// AddStage appends a go-to-market stage to the project. A zero order places
// the stage at the end of the sequence.
func (s *Service) AddStage(ctx context.Context, projectID string, stage GTMStage) (GTMStage, error) {
	if err := requireName("title", stage.Title); err != nil {
		return GTMStage{}, err
	}
	if err := validateStageStatus(stage.Status); err != nil {
		return GTMStage{}, err
	}
	stage.ID = newID()
	if stage.Status == "" {
		stage.Status = domain.StageStatusNotStarted
	}
	for i := range stage.Checklist {
		if stage.Checklist[i].ID == "" {
			stage.Checklist[i].ID = newID()
		}
	}
	_, err := s.mutateProject(ctx, "stage.create", projectID, "stage added: "+stage.Title, nil, func(p *Project) error {
		stage.Order = applyOrder(stage.Order, stageOrders(p.GTMStages))
		p.GTMStages = append(p.GTMStages, stage)
		return nil
	})
	if err != nil {
		return GTMStage{}, err
	}
	return stage, nil
}

// UpdateStage mutates a stage in place. Status transitions are recorded in
// project history.
func (s *Service) UpdateStage(ctx context.Context, projectID, stageID string, mutator func(*GTMStage) error) (GTMStage, error) {
	var updated GTMStage
	var summary string
	_, err := s.mutateProjectDeferred(ctx, "stage.update", projectID, &summary, func(p *Project) error {
		stage, err := findStage(p, stageID)
		if err != nil {
			return err
		}
		before := stage.Status
		if err := mutator(stage); err != nil {
			return err
		}
		stage.ID = stageID
		if err := validateStageStatus(stage.Status); err != nil {
			return err
		}
		if err := requireName("title", stage.Title); err != nil {
			return err
		}
		summary = "stage updated: " + stage.Title
		if stage.Status != before {
			summary = "stage " + stage.Title + " moved to " + string(stage.Status)
		}
		updated = *stage
		return nil
	})
	if err != nil {
		return GTMStage{}, err
	}
	return updated, nil
}

// DeleteStage removes a stage. The project's current-stage pointer is
// cleared if it pointed here, and tasks linked to the stage are detached
// rather than deleted.
func (s *Service) DeleteStage(ctx context.Context, projectID, stageID string) error {
	_, err := s.mutateProject(ctx, "stage.delete", projectID, "stage removed", nil, func(p *Project) error {
		idx := -1
		for i := range p.GTMStages {
			if p.GTMStages[i].ID == stageID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return notFound(domain.EntityGTMStage, stageID)
		}
		p.GTMStages = append(p.GTMStages[:idx], p.GTMStages[idx+1:]...)
		if p.CurrentGTMStageID != nil && *p.CurrentGTMStageID == stageID {
			p.CurrentGTMStageID = nil
		}
		for i := range p.Tasks {
			if p.Tasks[i].GTMStageID != nil && *p.Tasks[i].GTMStageID == stageID {
				p.Tasks[i].GTMStageID = nil
			}
		}
		return nil
	})
	return err
}

// ReorderStages rewrites stage ordering to follow ids.
func (s *Service) ReorderStages(ctx context.Context, projectID string, ids []string) (Project, error) {
	return s.mutateProject(ctx, "stage.reorder", projectID, "stages reordered", nil, func(p *Project) error {
		return reorderByIDs(p.GTMStages, ids, domain.EntityGTMStage,
			func(st GTMStage) string { return st.ID },
			func(st *GTMStage, order int) { st.Order = order })
	})
}

// GetStage retrieves one stage of a project with derived risk applied.
func (s *Service) GetStage(projectID, stageID string) (GTMStage, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return GTMStage{}, err
	}
	for _, stage := range p.GTMStages {
		if stage.ID == stageID {
			return stage, nil
		}
	}
	return GTMStage{}, notFound(domain.EntityGTMStage, stageID)
}

// ListStages returns the project's stages with derived risk applied.
func (s *Service) ListStages(projectID string) ([]GTMStage, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	return p.GTMStages, nil
}

// AddChecklistItem appends an item to a stage checklist.
func (s *Service) AddChecklistItem(ctx context.Context, projectID, stageID string, item ChecklistItem) (ChecklistItem, error) {
	if err := requireName("title", item.Title); err != nil {
		return ChecklistItem{}, err
	}
	item.ID = newID()
	_, err := s.mutateProject(ctx, "checklist.create", projectID, "checklist item added: "+item.Title, nil, func(p *Project) error {
		stage, err := findStage(p, stageID)
		if err != nil {
			return err
		}
		orders := make([]int, len(stage.Checklist))
		for i, c := range stage.Checklist {
			orders[i] = c.Order
		}
		item.Order = applyOrder(item.Order, orders)
		stage.Checklist = append(stage.Checklist, item)
		return nil
	})
	if err != nil {
		return ChecklistItem{}, err
	}
	return item, nil
}

// UpdateChecklistItem mutates one checklist item.
func (s *Service) UpdateChecklistItem(ctx context.Context, projectID, stageID, itemID string, mutator func(*ChecklistItem) error) (ChecklistItem, error) {
	var updated ChecklistItem
	_, err := s.mutateProject(ctx, "checklist.update", projectID, "checklist item updated", nil, func(p *Project) error {
		stage, err := findStage(p, stageID)
		if err != nil {
			return err
		}
		for i := range stage.Checklist {
			if stage.Checklist[i].ID != itemID {
				continue
			}
			if err := mutator(&stage.Checklist[i]); err != nil {
				return err
			}
			stage.Checklist[i].ID = itemID
			updated = stage.Checklist[i]
			return nil
		}
		return notFound(domain.EntityChecklistItem, itemID)
	})
	if err != nil {
		return ChecklistItem{}, err
	}
	return updated, nil
}

// DeleteChecklistItem removes one checklist item from a stage.
func (s *Service) DeleteChecklistItem(ctx context.Context, projectID, stageID, itemID string) error {
	_, err := s.mutateProject(ctx, "checklist.delete", projectID, "checklist item removed", nil, func(p *Project) error {
		stage, err := findStage(p, stageID)
		if err != nil {
			return err
		}
		for i := range stage.Checklist {
			if stage.Checklist[i].ID == itemID {
				stage.Checklist = append(stage.Checklist[:i], stage.Checklist[i+1:]...)
				return nil
			}
		}
		return notFound(domain.EntityChecklistItem, itemID)
	})
	return err
}
