package core

import (
	"context"

	"launchcore/pkg/domain"
)

func findSection(p *Project, sectionID string) (*CharacteristicSection, error) {
	for i := range p.Characteristics {
		if p.Characteristics[i].ID == sectionID {
			return &p.Characteristics[i], nil
		}
	}
	return nil, notFound(domain.EntitySection, sectionID)
}

// AddSection appends a characteristic section to the project.
func (s *Service) AddSection(ctx context.Context, projectID string, section CharacteristicSection) (CharacteristicSection, error) {
	if err := requireName("title", section.Title); err != nil {
		return CharacteristicSection{}, err
	}
	section.ID = newID()
	for i := range section.Fields {
		if err := validateFieldType(section.Fields[i].FieldType); err != nil {
			return CharacteristicSection{}, err
		}
		if section.Fields[i].ID == "" {
			section.Fields[i].ID = newID()
		}
	}
	_, err := s.mutateProject(ctx, "section.create", projectID, "section added: "+section.Title, nil, func(p *Project) error {
		orders := make([]int, len(p.Characteristics))
		for i, sec := range p.Characteristics {
			orders[i] = sec.Order
		}
		section.Order = applyOrder(section.Order, orders)
		p.Characteristics = append(p.Characteristics, section)
		return nil
	})
	if err != nil {
		return CharacteristicSection{}, err
	}
	return section, nil
}

// UpdateSection mutates one section's own fields (title, order).
func (s *Service) UpdateSection(ctx context.Context, projectID, sectionID string, mutator func(*CharacteristicSection) error) (CharacteristicSection, error) {
	var updated CharacteristicSection
	_, err := s.mutateProject(ctx, "section.update", projectID, "section updated", nil, func(p *Project) error {
		section, err := findSection(p, sectionID)
		if err != nil {
			return err
		}
		if err := mutator(section); err != nil {
			return err
		}
		section.ID = sectionID
		if err := requireName("title", section.Title); err != nil {
			return err
		}
		updated = *section
		return nil
	})
	if err != nil {
		return CharacteristicSection{}, err
	}
	return updated, nil
}

// DeleteSection removes a section together with its fields.
func (s *Service) DeleteSection(ctx context.Context, projectID, sectionID string) error {
	_, err := s.mutateProject(ctx, "section.delete", projectID, "section removed", nil, func(p *Project) error {
		for i := range p.Characteristics {
			if p.Characteristics[i].ID == sectionID {
				p.Characteristics = append(p.Characteristics[:i], p.Characteristics[i+1:]...)
				return nil
			}
		}
		return notFound(domain.EntitySection, sectionID)
	})
	return err
}

// ReorderSections rewrites section ordering to follow ids.
func (s *Service) ReorderSections(ctx context.Context, projectID string, ids []string) (Project, error) {
	return s.mutateProject(ctx, "section.reorder", projectID, "sections reordered", nil, func(p *Project) error {
		return reorderByIDs(p.Characteristics, ids, domain.EntitySection,
			func(sec CharacteristicSection) string { return sec.ID },
			func(sec *CharacteristicSection, order int) { sec.Order = order })
	})
}

// ListSections returns the project's characteristic sections.
func (s *Service) ListSections(projectID string) ([]CharacteristicSection, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	return p.Characteristics, nil
}

// GetSection retrieves one characteristic section.
func (s *Service) GetSection(projectID, sectionID string) (CharacteristicSection, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return CharacteristicSection{}, err
	}
	for _, sec := range p.Characteristics {
		if sec.ID == sectionID {
			return sec, nil
		}
	}
	return CharacteristicSection{}, notFound(domain.EntitySection, sectionID)
}

// AddField appends a characteristic field to a section.
func (s *Service) AddField(ctx context.Context, projectID, sectionID string, field CharacteristicField) (CharacteristicField, error) {
	if err := validateFieldType(field.FieldType); err != nil {
		return CharacteristicField{}, err
	}
	if field.LabelRU == "" && field.LabelEN == "" {
		return CharacteristicField{}, validationErr("label_ru", "at least one label is required")
	}
	field.ID = newID()
	if field.FieldType == "" {
		field.FieldType = domain.FieldTypeText
	}
	_, err := s.mutateProject(ctx, "field.create", projectID, "field added", nil, func(p *Project) error {
		section, err := findSection(p, sectionID)
		if err != nil {
			return err
		}
		orders := make([]int, len(section.Fields))
		for i, f := range section.Fields {
			orders[i] = f.Order
		}
		field.Order = applyOrder(field.Order, orders)
		section.Fields = append(section.Fields, field)
		return nil
	})
	if err != nil {
		return CharacteristicField{}, err
	}
	return field, nil
}

// UpdateField mutates one characteristic field, values included.
func (s *Service) UpdateField(ctx context.Context, projectID, sectionID, fieldID string, mutator func(*CharacteristicField) error) (CharacteristicField, error) {
	var updated CharacteristicField
	_, err := s.mutateProject(ctx, "field.update", projectID, "field updated", nil, func(p *Project) error {
		section, err := findSection(p, sectionID)
		if err != nil {
			return err
		}
		for i := range section.Fields {
			if section.Fields[i].ID != fieldID {
				continue
			}
			if err := mutator(&section.Fields[i]); err != nil {
				return err
			}
			section.Fields[i].ID = fieldID
			if err := validateFieldType(section.Fields[i].FieldType); err != nil {
				return err
			}
			updated = section.Fields[i]
			return nil
		}
		return notFound(domain.EntityField, fieldID)
	})
	if err != nil {
		return CharacteristicField{}, err
	}
	return updated, nil
}

// DeleteField removes one field from a section.
func (s *Service) DeleteField(ctx context.Context, projectID, sectionID, fieldID string) error {
	_, err := s.mutateProject(ctx, "field.delete", projectID, "field removed", nil, func(p *Project) error {
		section, err := findSection(p, sectionID)
		if err != nil {
			return err
		}
		for i := range section.Fields {
			if section.Fields[i].ID == fieldID {
				section.Fields = append(section.Fields[:i], section.Fields[i+1:]...)
				return nil
			}
		}
		return notFound(domain.EntityField, fieldID)
	})
	return err
}

// ReorderFields rewrites field ordering within a section to follow ids.
func (s *Service) ReorderFields(ctx context.Context, projectID, sectionID string, ids []string) (CharacteristicSection, error) {
	var updated CharacteristicSection
	_, err := s.mutateProject(ctx, "field.reorder", projectID, "fields reordered", nil, func(p *Project) error {
		section, err := findSection(p, sectionID)
		if err != nil {
			return err
		}
		if err := reorderByIDs(section.Fields, ids, domain.EntityField,
			func(f CharacteristicField) string { return f.ID },
			func(f *CharacteristicField, order int) { f.Order = order }); err != nil {
			return err
		}
		updated = *section
		return nil
	})
	if err != nil {
		return CharacteristicSection{}, err
	}
	return updated, nil
}
