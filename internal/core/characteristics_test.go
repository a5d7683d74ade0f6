package core

import (
	"context"
	"testing"

	"launchcore/pkg/domain"
)

func TestSectionLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	p := seedProject(t, svc, g.ID, "Model X")

	section, err := svc.AddSection(ctx, p.ID, CharacteristicSection{Title: "Dimensions"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if section.ID == "" || section.Order != 1 {
		t.Fatalf("defaults: %+v", section)
	}

	updated, err := svc.UpdateSection(ctx, p.ID, section.ID, func(sec *CharacteristicSection) error {
		sec.Title = "Size and weight"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Size and weight" {
		t.Fatalf("title %q", updated.Title)
	}

	if err := svc.DeleteSection(ctx, p.ID, section.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetSection(p.ID, section.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddFieldRequiresLabel(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	p := seedProject(t, svc, g.ID, "Model X")
	section, err := svc.AddSection(ctx, p.ID, CharacteristicSection{Title: "Dimensions"})
	if err != nil {
		t.Fatalf("add section: %v", err)
	}

	if _, err := svc.AddField(ctx, p.ID, section.ID, CharacteristicField{}); !domain.IsValidation(err) {
		t.Fatalf("no labels: expected validation error, got %v", err)
	}
	if _, err := svc.AddField(ctx, p.ID, section.ID, CharacteristicField{LabelEN: "Width", FieldType: "slider"}); !domain.IsValidation(err) {
		t.Fatalf("bad type: expected validation error, got %v", err)
	}

	field, err := svc.AddField(ctx, p.ID, section.ID, CharacteristicField{LabelRU: "Ширина", LabelEN: "Width"})
	if err != nil {
		t.Fatalf("add field: %v", err)
	}
	if field.FieldType != domain.FieldTypeText {
		t.Fatalf("type defaulted to %q", field.FieldType)
	}
	if field.Order != 1 {
		t.Fatalf("order %d", field.Order)
	}
}

func TestUpdateFieldValues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	p := seedProject(t, svc, g.ID, "Model X")
	section, err := svc.AddSection(ctx, p.ID, CharacteristicSection{Title: "Dimensions"})
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	field, err := svc.AddField(ctx, p.ID, section.ID, CharacteristicField{LabelEN: "Width", FieldType: domain.FieldTypeNumber})
	if err != nil {
		t.Fatalf("add field: %v", err)
	}

	ru := domain.NumberValue(59.5)
	en := domain.NumberValue(59.5)
	updated, err := svc.UpdateField(ctx, p.ID, section.ID, field.ID, func(f *CharacteristicField) error {
		f.ValueRU = &ru
		f.ValueEN = &en
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ValueRU == nil {
		t.Fatal("value not applied")
	}
	if n, ok := updated.ValueRU.AsNumber(); !ok || n != 59.5 {
		t.Fatalf("value %v %v", n, ok)
	}

	// Clearing a value back to null is allowed.
	cleared, err := svc.UpdateField(ctx, p.ID, section.ID, field.ID, func(f *CharacteristicField) error {
		f.ValueRU = nil
		return nil
	})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cleared.ValueRU != nil {
		t.Fatal("value not cleared")
	}
}

func TestReorderSectionsAndFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	p := seedProject(t, svc, g.ID, "Model X")

	s1, _ := svc.AddSection(ctx, p.ID, CharacteristicSection{Title: "One"})
	s2, _ := svc.AddSection(ctx, p.ID, CharacteristicSection{Title: "Two"})

	if _, err := svc.ReorderSections(ctx, p.ID, []string{s2.ID, s1.ID}); err != nil {
		t.Fatalf("reorder sections: %v", err)
	}
	sections, _ := svc.ListSections(p.ID)
	orders := map[string]int{}
	for _, sec := range sections {
		orders[sec.Title] = sec.Order
	}
	if orders["Two"] != 1 || orders["One"] != 2 {
		t.Fatalf("section orders: %v", orders)
	}

	f1, _ := svc.AddField(ctx, p.ID, s1.ID, CharacteristicField{LabelEN: "A"})
	f2, _ := svc.AddField(ctx, p.ID, s1.ID, CharacteristicField{LabelEN: "B"})
	reordered, err := svc.ReorderFields(ctx, p.ID, s1.ID, []string{f2.ID, f1.ID})
	if err != nil {
		t.Fatalf("reorder fields: %v", err)
	}
	fieldOrders := map[string]int{}
	for _, f := range reordered.Fields {
		fieldOrders[f.LabelEN] = f.Order
	}
	if fieldOrders["B"] != 1 || fieldOrders["A"] != 2 {
		t.Fatalf("field orders: %v", fieldOrders)
	}

	if _, err := svc.ReorderFields(ctx, p.ID, s1.ID, []string{"ghost"}); !domain.IsNotFound(err) {
		t.Fatalf("unknown id: expected not found, got %v", err)
	}
}

func TestDeleteFieldLeavesSiblings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	g := seedGroup(t, svc, "Refrigerators")
	p := seedProject(t, svc, g.ID, "Model X")
	section, _ := svc.AddSection(ctx, p.ID, CharacteristicSection{Title: "Dimensions"})
	f1, _ := svc.AddField(ctx, p.ID, section.ID, CharacteristicField{LabelEN: "Width"})
	f2, _ := svc.AddField(ctx, p.ID, section.ID, CharacteristicField{LabelEN: "Height"})

	if err := svc.DeleteField(ctx, p.ID, section.ID, f1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := svc.GetSection(p.ID, section.ID)
	if len(got.Fields) != 1 || got.Fields[0].ID != f2.ID {
		t.Fatalf("fields after delete: %+v", got.Fields)
	}
}
