package core

import (
	"context"

	"launchcore/pkg/domain"
)

// Template application is a destructive structural replace, not a merge: the
// affected owned sequence is rebuilt from the blueprint with fresh
// identifiers and no values, dates, or progress carried over. No provenance
// is retained, so re-applying the same template is just another replace.

// stagesFromBlueprints builds fresh stages from template blueprints.
func stagesFromBlueprints(blueprints []StageBlueprint) []GTMStage {
	stages := make([]GTMStage, 0, len(blueprints))
	for _, bp := range blueprints {
		stage := GTMStage{
			ID:          newID(),
			Title:       bp.Title,
			Description: copyStringPtr(bp.Description),
			Order:       bp.Order,
			Status:      domain.StageStatusNotStarted,
			Checklist:   make([]ChecklistItem, 0, len(bp.Checklist)),
		}
		for _, item := range bp.Checklist {
			stage.Checklist = append(stage.Checklist, ChecklistItem{
				ID:    newID(),
				Title: item.Title,
				Done:  false,
				Order: item.Order,
			})
		}
		stages = append(stages, stage)
	}
	return stages
}

// sectionsFromBlueprints builds fresh sections from template blueprints.
// Every value starts as null.
func sectionsFromBlueprints(blueprints []SectionBlueprint) []CharacteristicSection {
	sections := make([]CharacteristicSection, 0, len(blueprints))
	for _, bp := range blueprints {
		section := CharacteristicSection{
			ID:     newID(),
			Title:  bp.Title,
			Order:  bp.Order,
			Fields: make([]CharacteristicField, 0, len(bp.Fields)),
		}
		for _, f := range bp.Fields {
			section.Fields = append(section.Fields, CharacteristicField{
				ID:        newID(),
				LabelRU:   f.LabelRU,
				LabelEN:   f.LabelEN,
				ValueRU:   nil,
				ValueEN:   nil,
				FieldType: f.FieldType,
				Order:     f.Order,
			})
		}
		sections = append(sections, section)
	}
	return sections
}

// blueprintsFromSections extracts the structure (labels, types, order) of
// live sections, discarding values.
func blueprintsFromSections(sections []CharacteristicSection) []SectionBlueprint {
	blueprints := make([]SectionBlueprint, 0, len(sections))
	for _, section := range sections {
		bp := SectionBlueprint{
			Title:  section.Title,
			Order:  section.Order,
			Fields: make([]FieldBlueprint, 0, len(section.Fields)),
		}
		for _, f := range section.Fields {
			bp.Fields = append(bp.Fields, FieldBlueprint{
				LabelRU:   f.LabelRU,
				LabelEN:   f.LabelEN,
				FieldType: f.FieldType,
				Order:     f.Order,
			})
		}
		blueprints = append(blueprints, bp)
	}
	return blueprints
}

func copyStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ApplyGTMTemplate replaces the project's entire stage list with fresh
// stages derived from the template. The previous stages are discarded; the
// current-stage pointer and task stage links are cleared because the stages
// they referenced no longer exist.
func (s *Service) ApplyGTMTemplate(ctx context.Context, projectID, templateID string) (Project, error) {
	var applied Project
	err := s.run(ctx, "gtm_template.apply", func(tx Transaction) error {
		template, ok := tx.FindGTMTemplate(templateID)
		if !ok {
			return notFound(domain.EntityGTMTemplate, templateID)
		}
		var err error
		applied, err = tx.UpdateProject(projectID, func(p *Project) error {
			p.GTMStages = stagesFromBlueprints(template.Stages)
			p.CurrentGTMStageID = nil
			for i := range p.Tasks {
				p.Tasks[i].GTMStageID = nil
			}
			s.prependHistory(p, "gtm template applied: "+template.Name, nil)
			return nil
		})
		return err
	})
	if err != nil {
		return Project{}, err
	}
	return applied, nil
}

// ApplyCharacteristicsTemplate replaces the project's sections and fields
// with structure cloned from the template. Every value in the result is
// null regardless of any prior value.
func (s *Service) ApplyCharacteristicsTemplate(ctx context.Context, projectID, templateID string) (Project, error) {
	var applied Project
	err := s.run(ctx, "char_template.apply", func(tx Transaction) error {
		template, ok := tx.FindCharacteristicTemplate(templateID)
		if !ok {
			return notFound(domain.EntityCharTemplate, templateID)
		}
		var err error
		applied, err = tx.UpdateProject(projectID, func(p *Project) error {
			p.Characteristics = sectionsFromBlueprints(template.Sections)
			s.prependHistory(p, "characteristics template applied: "+template.Name, nil)
			return nil
		})
		return err
	})
	if err != nil {
		return Project{}, err
	}
	return applied, nil
}

// CopyCharacteristicsStructure replaces the target project's sections and
// fields with the structure of the source project's current sections. The
// source is left unmodified and values never travel: every field in the
// target ends up null.
func (s *Service) CopyCharacteristicsStructure(ctx context.Context, targetProjectID, sourceProjectID string) (Project, error) {
	if targetProjectID == sourceProjectID {
		return Project{}, validationErr("source_project_id", "source and target must differ")
	}
	var applied Project
	err := s.run(ctx, "characteristics.copy_structure", func(tx Transaction) error {
		source, ok := tx.FindProject(sourceProjectID)
		if !ok {
			return notFoundProject(sourceProjectID)
		}
		structure := blueprintsFromSections(source.Characteristics)
		var err error
		applied, err = tx.UpdateProject(targetProjectID, func(p *Project) error {
			p.Characteristics = sectionsFromBlueprints(structure)
			s.prependHistory(p, "characteristics structure copied from: "+source.Name, nil)
			return nil
		})
		return err
	})
	if err != nil {
		return Project{}, err
	}
	return applied, nil
}
