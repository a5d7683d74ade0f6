package core

import "context"

// CreateProject persists a new project under its product group. The group
// reference is verified by the rules engine before commit.
func (s *Service) CreateProject(ctx context.Context, project Project) (Project, error) {
	if err := requireName("name", project.Name); err != nil {
		return Project{}, err
	}
	if err := validateProjectStatus(project.Status); err != nil {
		return Project{}, err
	}
	if err := validatePriority(project.Priority); err != nil {
		return Project{}, err
	}
	var created Project
	err := s.run(ctx, "project.create", func(tx Transaction) error {
		var err error
		created, err = tx.CreateProject(project)
		if err != nil {
			return err
		}
		created, err = tx.UpdateProject(created.ID, func(p *Project) error {
			s.prependHistory(p, "project created: "+p.Name, nil)
			return nil
		})
		return err
	})
	if err != nil {
		return Project{}, err
	}
	return created, nil
}

// UpdateProject mutates top-level fields of a project using the provided
// mutator and records the change in history.
func (s *Service) UpdateProject(ctx context.Context, id string, mutator func(*Project) error) (Project, error) {
	return s.mutateProject(ctx, "project.update", id, "project updated", nil, func(p *Project) error {
		if err := mutator(p); err != nil {
			return err
		}
		if err := requireName("name", p.Name); err != nil {
			return err
		}
		if err := validateProjectStatus(p.Status); err != nil {
			return err
		}
		return validatePriority(p.Priority)
	})
}

// DeleteProject removes a project. Every owned stage, task, subtask,
// characteristic, file, image, comment and history entry goes with it in
// one atomic unit.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.run(ctx, "project.delete", func(tx Transaction) error {
		return tx.DeleteProject(id)
	})
}

// GetProject retrieves a project by id with derived stage risk applied.
func (s *Service) GetProject(id string) (Project, error) {
	p, ok := s.store.GetProject(id)
	if !ok {
		return Project{}, notFoundProject(id)
	}
	return p, nil
}

// ListProjects returns all projects sorted by creation time.
func (s *Service) ListProjects() []Project { return s.store.ListProjects() }

// ListProjectsByGroup returns the projects belonging to the given group.
func (s *Service) ListProjectsByGroup(groupID string) []Project {
	all := s.store.ListProjects()
	out := make([]Project, 0, len(all))
	for _, p := range all {
		if p.GroupID == groupID {
			out = append(out, p)
		}
	}
	return out
}

// SetCurrentStage points the project at one of its own stages, or clears the
// pointer when stageID is nil.
func (s *Service) SetCurrentStage(ctx context.Context, projectID string, stageID *string) (Project, error) {
	summary := "current stage cleared"
	if stageID != nil {
		summary = "current stage changed"
	}
	return s.mutateProject(ctx, "project.set_current_stage", projectID, summary, nil, func(p *Project) error {
		p.CurrentGTMStageID = stageID
		return nil
	})
}
