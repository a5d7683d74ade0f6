package core

import (
	"context"

	"launchcore/pkg/domain"
)

// AddHistoryEntry appends a manual history entry to the project, newest
// first. History entries are append-only; there is no update operation.
func (s *Service) AddHistoryEntry(ctx context.Context, projectID, summary string, details *string) (HistoryEntry, error) {
	if err := requireName("summary", summary); err != nil {
		return HistoryEntry{}, err
	}
	entry := HistoryEntry{ID: newID(), OccurredAt: s.now(), Summary: summary, Details: details}
	err := s.run(ctx, "history.create", func(tx Transaction) error {
		_, err := tx.UpdateProject(projectID, func(p *Project) error {
			p.History = append([]HistoryEntry{entry}, p.History...)
			return nil
		})
		return err
	})
	if err != nil {
		return HistoryEntry{}, err
	}
	return entry, nil
}

// DeleteHistoryEntry removes one history entry.
func (s *Service) DeleteHistoryEntry(ctx context.Context, projectID, entryID string) error {
	return s.run(ctx, "history.delete", func(tx Transaction) error {
		_, err := tx.UpdateProject(projectID, func(p *Project) error {
			for i := range p.History {
				if p.History[i].ID == entryID {
					p.History = append(p.History[:i], p.History[i+1:]...)
					return nil
				}
			}
			return notFound(domain.EntityHistory, entryID)
		})
		return err
	})
}

// ListHistory returns the project's history entries, newest first.
func (s *Service) ListHistory(projectID string) ([]HistoryEntry, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	return p.History, nil
}

// GetHistoryEntry retrieves one history entry by id.
func (s *Service) GetHistoryEntry(projectID, entryID string) (HistoryEntry, error) {
	entries, err := s.ListHistory(projectID)
	if err != nil {
		return HistoryEntry{}, err
	}
	for _, entry := range entries {
		if entry.ID == entryID {
			return entry, nil
		}
	}
	return HistoryEntry{}, notFound(domain.EntityHistory, entryID)
}
