package core

import (
	"context"

	"launchcore/pkg/domain"
)

// AddComment prepends a comment to the project, newest first.
func (s *Service) AddComment(ctx context.Context, projectID string, text string) (Comment, error) {
	if err := requireName("text", text); err != nil {
		return Comment{}, err
	}
	comment := Comment{ID: newID(), Text: text, CreatedAt: s.now()}
	_, err := s.mutateProject(ctx, "comment.create", projectID, "comment added", nil, func(p *Project) error {
		p.Comments = append([]Comment{comment}, p.Comments...)
		return nil
	})
	if err != nil {
		return Comment{}, err
	}
	return comment, nil
}

// DeleteComment removes one project comment.
func (s *Service) DeleteComment(ctx context.Context, projectID, commentID string) error {
	_, err := s.mutateProject(ctx, "comment.delete", projectID, "comment removed", nil, func(p *Project) error {
		for i := range p.Comments {
			if p.Comments[i].ID == commentID {
				p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
				return nil
			}
		}
		return notFound(domain.EntityComment, commentID)
	})
	return err
}

// ListComments returns the project's comments, newest first.
func (s *Service) ListComments(projectID string) ([]Comment, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}
