package core

import (
	"context"

	"launchcore/pkg/domain"
)

// CreateGTMTemplate persists a reusable stage blueprint list.
func (s *Service) CreateGTMTemplate(ctx context.Context, template GTMTemplate) (GTMTemplate, error) {
	if err := requireName("name", template.Name); err != nil {
		return GTMTemplate{}, err
	}
	var created GTMTemplate
	err := s.run(ctx, "gtm_template.create", func(tx Transaction) error {
		var err error
		created, err = tx.CreateGTMTemplate(template)
		return err
	})
	if err != nil {
		return GTMTemplate{}, err
	}
	return created, nil
}

// UpdateGTMTemplate mutates a GTM template.
func (s *Service) UpdateGTMTemplate(ctx context.Context, id string, mutator func(*GTMTemplate) error) (GTMTemplate, error) {
	var updated GTMTemplate
	err := s.run(ctx, "gtm_template.update", func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateGTMTemplate(id, func(t *GTMTemplate) error {
			if err := mutator(t); err != nil {
				return err
			}
			return requireName("name", t.Name)
		})
		return err
	})
	if err != nil {
		return GTMTemplate{}, err
	}
	return updated, nil
}

// DeleteGTMTemplate removes a GTM template. Projects keep the stages already
// derived from it; no provenance is retained.
func (s *Service) DeleteGTMTemplate(ctx context.Context, id string) error {
	return s.run(ctx, "gtm_template.delete", func(tx Transaction) error {
		return tx.DeleteGTMTemplate(id)
	})
}

// GetGTMTemplate retrieves a GTM template by id.
func (s *Service) GetGTMTemplate(id string) (GTMTemplate, error) {
	t, ok := s.store.GetGTMTemplate(id)
	if !ok {
		return GTMTemplate{}, notFound(domain.EntityGTMTemplate, id)
	}
	return t, nil
}

// ListGTMTemplates returns all GTM templates sorted by creation time.
func (s *Service) ListGTMTemplates() []GTMTemplate { return s.store.ListGTMTemplates() }

// CreateCharacteristicTemplate persists a reusable characteristic structure.
func (s *Service) CreateCharacteristicTemplate(ctx context.Context, template CharacteristicTemplate) (CharacteristicTemplate, error) {
	if err := requireName("name", template.Name); err != nil {
		return CharacteristicTemplate{}, err
	}
	for _, section := range template.Sections {
		for _, field := range section.Fields {
			if err := validateFieldType(field.FieldType); err != nil {
				return CharacteristicTemplate{}, err
			}
		}
	}
	var created CharacteristicTemplate
	err := s.run(ctx, "char_template.create", func(tx Transaction) error {
		var err error
		created, err = tx.CreateCharacteristicTemplate(template)
		return err
	})
	if err != nil {
		return CharacteristicTemplate{}, err
	}
	return created, nil
}

// UpdateCharacteristicTemplate mutates a characteristic template.
func (s *Service) UpdateCharacteristicTemplate(ctx context.Context, id string, mutator func(*CharacteristicTemplate) error) (CharacteristicTemplate, error) {
	var updated CharacteristicTemplate
	err := s.run(ctx, "char_template.update", func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateCharacteristicTemplate(id, func(t *CharacteristicTemplate) error {
			if err := mutator(t); err != nil {
				return err
			}
			return requireName("name", t.Name)
		})
		return err
	})
	if err != nil {
		return CharacteristicTemplate{}, err
	}
	return updated, nil
}

// DeleteCharacteristicTemplate removes a characteristic template.
func (s *Service) DeleteCharacteristicTemplate(ctx context.Context, id string) error {
	return s.run(ctx, "char_template.delete", func(tx Transaction) error {
		return tx.DeleteCharacteristicTemplate(id)
	})
}

// GetCharacteristicTemplate retrieves a characteristic template by id.
func (s *Service) GetCharacteristicTemplate(id string) (CharacteristicTemplate, error) {
	t, ok := s.store.GetCharacteristicTemplate(id)
	if !ok {
		return CharacteristicTemplate{}, notFound(domain.EntityCharTemplate, id)
	}
	return t, nil
}

// ListCharacteristicTemplates returns all characteristic templates sorted by
// creation time.
func (s *Service) ListCharacteristicTemplates() []CharacteristicTemplate {
	return s.store.ListCharacteristicTemplates()
}
