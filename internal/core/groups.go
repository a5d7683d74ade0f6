package core

import "context"

// CreateGroup persists a new product group.
func (s *Service) CreateGroup(ctx context.Context, group ProductGroup) (ProductGroup, error) {
	if err := requireName("name", group.Name); err != nil {
		return ProductGroup{}, err
	}
	if err := validateGroupStatus(group.Status); err != nil {
		return ProductGroup{}, err
	}
	var created ProductGroup
	err := s.run(ctx, "group.create", func(tx Transaction) error {
		var err error
		created, err = tx.CreateGroup(group)
		return err
	})
	if err != nil {
		return ProductGroup{}, err
	}
	return created, nil
}

// UpdateGroup mutates a product group using the provided mutator.
func (s *Service) UpdateGroup(ctx context.Context, id string, mutator func(*ProductGroup) error) (ProductGroup, error) {
	var updated ProductGroup
	err := s.run(ctx, "group.update", func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateGroup(id, func(g *ProductGroup) error {
			if err := mutator(g); err != nil {
				return err
			}
			if err := requireName("name", g.Name); err != nil {
				return err
			}
			return validateGroupStatus(g.Status)
		})
		return err
	})
	if err != nil {
		return ProductGroup{}, err
	}
	return updated, nil
}

// DeleteGroup removes a product group. Groups still referenced by projects
// are protected by a conflict guard in the transaction layer.
func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	return s.run(ctx, "group.delete", func(tx Transaction) error {
		return tx.DeleteGroup(id)
	})
}

// GetGroup retrieves a product group by id.
func (s *Service) GetGroup(id string) (ProductGroup, error) {
	g, ok := s.store.GetGroup(id)
	if !ok {
		return ProductGroup{}, notFoundGroup(id)
	}
	return g, nil
}

// ListGroups returns all product groups sorted by creation time.
func (s *Service) ListGroups() []ProductGroup { return s.store.ListGroups() }
