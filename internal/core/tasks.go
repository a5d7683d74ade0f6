package core

import (
	"context"

	"launchcore/pkg/domain"
)

func findTask(p *Project, taskID string) (*Task, error) {
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			return &p.Tasks[i], nil
		}
	}
	return nil, notFound(domain.EntityTask, taskID)
}

// AddTask appends a task to the project. Stage links are verified by the
// rules engine before commit.
func (s *Service) AddTask(ctx context.Context, projectID string, task Task) (Task, error) {
	if err := requireName("title", task.Title); err != nil {
		return Task{}, err
	}
	if err := validateTaskStatus(task.Status); err != nil {
		return Task{}, err
	}
	task.ID = newID()
	if task.Status == "" {
		task.Status = domain.TaskStatusTodo
	}
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == "" {
			task.Subtasks[i].ID = newID()
		}
	}
	for i := range task.Comments {
		if task.Comments[i].ID == "" {
			task.Comments[i].ID = newID()
		}
	}
	_, err := s.mutateProject(ctx, "task.create", projectID, "task added: "+task.Title, nil, func(p *Project) error {
		p.Tasks = append(p.Tasks, task)
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return task, nil
}

// UpdateTask mutates a task in place. Status transitions are recorded in
// project history.
func (s *Service) UpdateTask(ctx context.Context, projectID, taskID string, mutator func(*Task) error) (Task, error) {
	var updated Task
	var summary string
	_, err := s.mutateProjectDeferred(ctx, "task.update", projectID, &summary, func(p *Project) error {
		task, err := findTask(p, taskID)
		if err != nil {
			return err
		}
		before := task.Status
		if err := mutator(task); err != nil {
			return err
		}
		task.ID = taskID
		if err := requireName("title", task.Title); err != nil {
			return err
		}
		if err := validateTaskStatus(task.Status); err != nil {
			return err
		}
		summary = "task updated: " + task.Title
		if task.Status != before {
			summary = "task " + task.Title + " moved to " + string(task.Status)
		}
		updated = *task
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return updated, nil
}

// DeleteTask removes a task together with its subtasks and comments.
func (s *Service) DeleteTask(ctx context.Context, projectID, taskID string) error {
	_, err := s.mutateProject(ctx, "task.delete", projectID, "task removed", nil, func(p *Project) error {
		for i := range p.Tasks {
			if p.Tasks[i].ID == taskID {
				p.Tasks = append(p.Tasks[:i], p.Tasks[i+1:]...)
				return nil
			}
		}
		return notFound(domain.EntityTask, taskID)
	})
	return err
}

// GetTask retrieves one task of a project.
func (s *Service) GetTask(projectID, taskID string) (Task, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return Task{}, err
	}
	for _, task := range p.Tasks {
		if task.ID == taskID {
			return task, nil
		}
	}
	return Task{}, notFound(domain.EntityTask, taskID)
}

// ListTasks returns the project's tasks.
func (s *Service) ListTasks(projectID string) ([]Task, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	return p.Tasks, nil
}

// AddSubtask appends a subtask to a task.
func (s *Service) AddSubtask(ctx context.Context, projectID, taskID string, subtask Subtask) (Subtask, error) {
	if err := requireName("title", subtask.Title); err != nil {
		return Subtask{}, err
	}
	subtask.ID = newID()
	_, err := s.mutateProject(ctx, "subtask.create", projectID, "subtask added: "+subtask.Title, nil, func(p *Project) error {
		task, err := findTask(p, taskID)
		if err != nil {
			return err
		}
		orders := make([]int, len(task.Subtasks))
		for i, st := range task.Subtasks {
			orders[i] = st.Order
		}
		subtask.Order = applyOrder(subtask.Order, orders)
		task.Subtasks = append(task.Subtasks, subtask)
		return nil
	})
	if err != nil {
		return Subtask{}, err
	}
	return subtask, nil
}

// UpdateSubtask mutates one subtask.
func (s *Service) UpdateSubtask(ctx context.Context, projectID, taskID, subtaskID string, mutator func(*Subtask) error) (Subtask, error) {
	var updated Subtask
	_, err := s.mutateProject(ctx, "subtask.update", projectID, "subtask updated", nil, func(p *Project) error {
		task, err := findTask(p, taskID)
		if err != nil {
			return err
		}
		for i := range task.Subtasks {
			if task.Subtasks[i].ID != subtaskID {
				continue
			}
			if err := mutator(&task.Subtasks[i]); err != nil {
				return err
			}
			task.Subtasks[i].ID = subtaskID
			updated = task.Subtasks[i]
			return nil
		}
		return notFound(domain.EntitySubtask, subtaskID)
	})
	if err != nil {
		return Subtask{}, err
	}
	return updated, nil
}

// DeleteSubtask removes one subtask from a task.
func (s *Service) DeleteSubtask(ctx context.Context, projectID, taskID, subtaskID string) error {
	_, err := s.mutateProject(ctx, "subtask.delete", projectID, "subtask removed", nil, func(p *Project) error {
		task, err := findTask(p, taskID)
		if err != nil {
			return err
		}
		for i := range task.Subtasks {
			if task.Subtasks[i].ID == subtaskID {
				task.Subtasks = append(task.Subtasks[:i], task.Subtasks[i+1:]...)
				return nil
			}
		}
		return notFound(domain.EntitySubtask, subtaskID)
	})
	return err
}

// ReorderSubtasks rewrites subtask ordering to follow ids.
func (s *Service) ReorderSubtasks(ctx context.Context, projectID, taskID string, ids []string) (Task, error) {
	var updated Task
	_, err := s.mutateProject(ctx, "subtask.reorder", projectID, "subtasks reordered", nil, func(p *Project) error {
		task, err := findTask(p, taskID)
		if err != nil {
			return err
		}
		if err := reorderByIDs(task.Subtasks, ids, domain.EntitySubtask,
			func(st Subtask) string { return st.ID },
			func(st *Subtask, order int) { st.Order = order }); err != nil {
			return err
		}
		updated = *task
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return updated, nil
}

// AddTaskComment prepends a comment to a task, newest first.
func (s *Service) AddTaskComment(ctx context.Context, projectID, taskID string, text string) (Comment, error) {
	if err := requireName("text", text); err != nil {
		return Comment{}, err
	}
	comment := Comment{ID: newID(), Text: text, CreatedAt: s.now()}
	_, err := s.mutateProject(ctx, "task_comment.create", projectID, "comment added to task", nil, func(p *Project) error {
		task, err := findTask(p, taskID)
		if err != nil {
			return err
		}
		task.Comments = append([]Comment{comment}, task.Comments...)
		return nil
	})
	if err != nil {
		return Comment{}, err
	}
	return comment, nil
}

// DeleteTaskComment removes one comment from a task.
func (s *Service) DeleteTaskComment(ctx context.Context, projectID, taskID, commentID string) error {
	_, err := s.mutateProject(ctx, "task_comment.delete", projectID, "task comment removed", nil, func(p *Project) error {
		task, err := findTask(p, taskID)
		if err != nil {
			return err
		}
		for i := range task.Comments {
			if task.Comments[i].ID == commentID {
				task.Comments = append(task.Comments[:i], task.Comments[i+1:]...)
				return nil
			}
		}
		return notFound(domain.EntityComment, commentID)
	})
	return err
}

// ListTaskComments returns a task's comments, newest first.
func (s *Service) ListTaskComments(projectID, taskID string) ([]Comment, error) {
	task, err := s.GetTask(projectID, taskID)
	if err != nil {
		return nil, err
	}
	return task.Comments, nil
}
