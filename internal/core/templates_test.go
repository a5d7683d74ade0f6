package core

import (
	"context"
	"testing"

	"launchcore/pkg/domain"
)

func seedGTMTemplate(t *testing.T, svc *Service) GTMTemplate {
	t.Helper()
	template, err := svc.CreateGTMTemplate(context.Background(), GTMTemplate{
		Name: "Standard launch",
		Stages: []StageBlueprint{
			{Title: "Concept", Order: 1, Checklist: []domain.ChecklistBlueprint{{Title: "Approve brief", Order: 1}}},
			{Title: "Certification", Order: 2},
		},
	})
	if err != nil {
		t.Fatalf("create gtm template: %v", err)
	}
	return template
}

func seedCharTemplate(t *testing.T, svc *Service) CharacteristicTemplate {
	t.Helper()
	template, err := svc.CreateCharacteristicTemplate(context.Background(), CharacteristicTemplate{
		Name: "Cooling specs",
		Sections: []SectionBlueprint{{
			Title: "Dimensions",
			Order: 1,
			Fields: []FieldBlueprint{
				{LabelRU: "Ширина", LabelEN: "Width", FieldType: domain.FieldTypeNumber, Order: 1},
				{LabelEN: "Color", FieldType: domain.FieldTypeText, Order: 2},
			},
		}},
	})
	if err != nil {
		t.Fatalf("create characteristic template: %v", err)
	}
	return template
}

func TestGTMTemplateCRUD(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	template := seedGTMTemplate(t, svc)
	if template.ID == "" || template.Stages[0].ID == "" || template.Stages[0].Checklist[0].ID == "" {
		t.Fatalf("blueprint ids not minted: %+v", template)
	}

	updated, err := svc.UpdateGTMTemplate(ctx, template.ID, func(tpl *GTMTemplate) error {
		tpl.Name = "Extended launch"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Extended launch" {
		t.Fatalf("name %q", updated.Name)
	}

	if err := svc.DeleteGTMTemplate(ctx, template.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetGTMTemplate(template.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCharacteristicTemplateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateCharacteristicTemplate(ctx, CharacteristicTemplate{Name: ""}); !domain.IsValidation(err) {
		t.Fatalf("blank name: expected validation error, got %v", err)
	}
	_, err := svc.CreateCharacteristicTemplate(ctx, CharacteristicTemplate{
		Name:     "Bad",
		Sections: []SectionBlueprint{{Title: "S", Fields: []FieldBlueprint{{LabelEN: "X", FieldType: "slider"}}}},
	})
	if !domain.IsValidation(err) {
		t.Fatalf("bad field type: expected validation error, got %v", err)
	}
}

func TestApplyGTMTemplateReplacesStages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	p := seedProject(t, svc, g.ID, "Model X")
	template := seedGTMTemplate(t, svc)

	// Give the project an existing timeline with progress and references.
	old, err := svc.AddStage(ctx, p.ID, GTMStage{Title: "Legacy", Status: domain.StageStatusInProgress})
	if err != nil {
		t.Fatalf("add stage: %v", err)
	}
	if _, err := svc.SetCurrentStage(ctx, p.ID, &old.ID); err != nil {
		t.Fatalf("set current: %v", err)
	}
	task, err := svc.AddTask(ctx, p.ID, Task{Title: "Linked", GTMStageID: &old.ID})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}

	applied, err := svc.ApplyGTMTemplate(ctx, p.ID, template.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if len(applied.GTMStages) != 2 {
		t.Fatalf("stage count %d", len(applied.GTMStages))
	}
	for _, stage := range applied.GTMStages {
		if stage.Status != domain.StageStatusNotStarted {
			t.Fatalf("stage %q status %q", stage.Title, stage.Status)
		}
		if stage.ID == template.Stages[0].ID || stage.ID == template.Stages[1].ID {
			t.Fatal("stages must get fresh ids, not blueprint ids")
		}
		for _, item := range stage.Checklist {
			if item.Done {
				t.Fatal("checklist progress must not carry over")
			}
		}
	}
	if applied.CurrentGTMStageID != nil {
		t.Fatal("current stage pointer must be cleared")
	}
	gotTask, _ := svc.GetTask(p.ID, task.ID)
	if gotTask.GTMStageID != nil {
		t.Fatal("task stage links must be detached")
	}
	history, _ := svc.ListHistory(p.ID)
	if history[0].Summary != "gtm template applied: Standard launch" {
		t.Fatalf("history summary %q", history[0].Summary)
	}

	// Applying twice is just another replace with fresh ids.
	again, err := svc.ApplyGTMTemplate(ctx, p.ID, template.ID)
	if err != nil {
		t.Fatalf("reapply: %v", err)
	}
	if again.GTMStages[0].ID == applied.GTMStages[0].ID {
		t.Fatal("reapply must mint fresh ids")
	}

	if _, err := svc.ApplyGTMTemplate(ctx, p.ID, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("unknown template: expected not found, got %v", err)
	}
}

func TestApplyCharacteristicsTemplateNullsValues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	p := seedProject(t, svc, g.ID, "Model X")
	template := seedCharTemplate(t, svc)

	// Existing section with a filled value that must not survive.
	section, err := svc.AddSection(ctx, p.ID, CharacteristicSection{Title: "Old"})
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	field, err := svc.AddField(ctx, p.ID, section.ID, CharacteristicField{LabelEN: "Old field"})
	if err != nil {
		t.Fatalf("add field: %v", err)
	}
	val := domain.StringValue("kept?")
	if _, err := svc.UpdateField(ctx, p.ID, section.ID, field.ID, func(f *CharacteristicField) error {
		f.ValueEN = &val
		return nil
	}); err != nil {
		t.Fatalf("fill value: %v", err)
	}

	applied, err := svc.ApplyCharacteristicsTemplate(ctx, p.ID, template.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(applied.Characteristics) != 1 || applied.Characteristics[0].Title != "Dimensions" {
		t.Fatalf("sections: %+v", applied.Characteristics)
	}
	for _, f := range applied.Characteristics[0].Fields {
		if f.ValueRU != nil || f.ValueEN != nil {
			t.Fatalf("field %q carries a value", f.LabelEN)
		}
		if f.ID == "" {
			t.Fatal("fields must get fresh ids")
		}
	}
}

func TestCopyCharacteristicsStructure(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	source := seedProject(t, svc, g.ID, "Model X")
	target := seedProject(t, svc, g.ID, "Model Y")

	section, err := svc.AddSection(ctx, source.ID, CharacteristicSection{Title: "Dimensions"})
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	field, err := svc.AddField(ctx, source.ID, section.ID, CharacteristicField{LabelEN: "Width", FieldType: domain.FieldTypeNumber})
	if err != nil {
		t.Fatalf("add field: %v", err)
	}
	val := domain.NumberValue(59.5)
	if _, err := svc.UpdateField(ctx, source.ID, section.ID, field.ID, func(f *CharacteristicField) error {
		f.ValueEN = &val
		return nil
	}); err != nil {
		t.Fatalf("fill value: %v", err)
	}

	applied, err := svc.CopyCharacteristicsStructure(ctx, target.ID, source.ID)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if len(applied.Characteristics) != 1 {
		t.Fatalf("sections: %+v", applied.Characteristics)
	}
	copied := applied.Characteristics[0]
	if copied.ID == section.ID {
		t.Fatal("copied section must get a fresh id")
	}
	if copied.Fields[0].LabelEN != "Width" || copied.Fields[0].FieldType != domain.FieldTypeNumber {
		t.Fatalf("structure lost: %+v", copied.Fields[0])
	}
	if copied.Fields[0].ValueEN != nil {
		t.Fatal("values must not travel to the target")
	}

	// The source is untouched, value included.
	srcSection, err := svc.GetSection(source.ID, section.ID)
	if err != nil {
		t.Fatalf("source section: %v", err)
	}
	if srcSection.Fields[0].ValueEN == nil {
		t.Fatal("source value lost")
	}

	if _, err := svc.CopyCharacteristicsStructure(ctx, source.ID, source.ID); !domain.IsValidation(err) {
		t.Fatalf("same project: expected validation error, got %v", err)
	}
	if _, err := svc.CopyCharacteristicsStructure(ctx, target.ID, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("unknown source: expected not found, got %v", err)
	}
}
