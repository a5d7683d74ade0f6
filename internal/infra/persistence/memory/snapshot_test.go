package memory

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"launchcore/pkg/domain"
)

func TestExportImportRoundTrip(t *testing.T) {
	store := newTestStore(t)
	g := mustCreateGroup(t, store, "Refrigerators")
	p := mustCreateProject(t, store, g.ID, "Model X")

	_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		if _, err := tx.UpdateProject(p.ID, func(cur *Project) error {
			stageID := store.NewID()
			cur.GTMStages = append(cur.GTMStages, GTMStage{ID: stageID, Title: "Launch prep", Order: 1})
			cur.CurrentGTMStageID = &stageID
			cur.Tasks = append(cur.Tasks, Task{ID: store.NewID(), Title: "Ship samples", GTMStageID: &stageID})
			return nil
		}); err != nil {
			return err
		}
		if _, err := tx.CreateGTMTemplate(GTMTemplate{Name: "Standard launch", Stages: []domain.StageBlueprint{{Title: "Prep", Order: 1}}}); err != nil {
			return err
		}
		_, err := tx.CreateCharacteristicTemplate(CharacteristicTemplate{Name: "Cooling specs"})
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	exported := store.ExportState()

	restored := NewStore(nil)
	restored.SetNowFunc(store.nowFn)
	restored.ImportState(exported)

	if !reflect.DeepEqual(restored.ExportState(), exported) {
		t.Fatal("export after import differs from original export")
	}

	// The child index is rebuilt on import.
	err = restored.View(context.Background(), func(view TransactionView) error {
		got, ok := view.FindProject(p.ID)
		if !ok {
			t.Fatal("project missing after import")
		}
		if owner, ok := view.FindProjectByChild(got.GTMStages[0].ID); !ok || owner.ID != p.ID {
			t.Fatal("child index not rebuilt on import")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	store := newTestStore(t)
	g := mustCreateGroup(t, store, "Refrigerators")
	mustCreateProject(t, store, g.ID, "Model X")

	data, err := json.Marshal(store.ExportState())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"groups", "gtm_templates", "characteristic_templates"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("snapshot missing %q", key)
		}
	}

	var groups []map[string]json.RawMessage
	if err := json.Unmarshal(doc["groups"], &groups); err != nil {
		t.Fatalf("groups: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	// Projects nest under their group in the document.
	var projects []json.RawMessage
	if err := json.Unmarshal(groups[0]["projects"], &projects); err != nil {
		t.Fatalf("projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 nested project, got %d", len(projects))
	}
}

func TestImportRepairsDanglingReferences(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	dangling := "missing-stage"
	snap := Snapshot{
		Groups: []GroupSnapshot{{
			ProductGroup: ProductGroup{Base: domain.Base{ID: "g1", CreatedAt: now, UpdatedAt: now}, Name: "Refrigerators"},
			Projects: []Project{{
				Base:              domain.Base{ID: "p1", CreatedAt: now, UpdatedAt: now},
				Name:              "Model X",
				CurrentGTMStageID: &dangling,
				GTMStages:         []GTMStage{{ID: "s1", Title: "Prep"}},
				Tasks: []Task{
					{ID: "t1", Title: "Linked", GTMStageID: &dangling},
					{ID: "t2", Title: "Valid", GTMStageID: strPtr("s1")},
				},
				Images: []ImageAsset{
					{ID: "i1", Filename: "a.png", IsCover: true},
					{ID: "i2", Filename: "b.png", IsCover: true},
				},
			}},
		}},
	}

	store := NewStore(nil)
	store.ImportState(snap)

	p, ok := store.GetProject("p1")
	if !ok {
		t.Fatal("project missing after import")
	}
	if p.CurrentGTMStageID != nil {
		t.Fatal("dangling current stage pointer should be cleared")
	}
	if p.Tasks[0].GTMStageID != nil {
		t.Fatal("dangling task stage link should be cleared")
	}
	if p.Tasks[1].GTMStageID == nil || *p.Tasks[1].GTMStageID != "s1" {
		t.Fatal("valid task stage link must survive")
	}
	if !p.Images[0].IsCover || p.Images[1].IsCover {
		t.Fatal("exactly the first cover image keeps the flag")
	}
	if p.GroupID != "g1" {
		t.Fatal("nested project must inherit its group id")
	}
}

func TestImportNormalizesMissingSequences(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Groups: []GroupSnapshot{{
			ProductGroup: ProductGroup{Base: domain.Base{ID: "g1", CreatedAt: now, UpdatedAt: now}, Name: "Refrigerators"},
			Projects: []Project{{
				Base: domain.Base{ID: "p1", CreatedAt: now, UpdatedAt: now},
				Name: "Model X",
			}},
		}},
	}

	store := NewStore(nil)
	store.ImportState(snap)

	p, _ := store.GetProject("p1")
	if p.Status != domain.ProjectStatusActive {
		t.Fatalf("status defaulted to %q", p.Status)
	}
	for name, slice := range map[string]int{
		"gtm_stages":      len(p.GTMStages),
		"tasks":           len(p.Tasks),
		"characteristics": len(p.Characteristics),
		"files":           len(p.Files),
		"images":          len(p.Images),
		"comments":        len(p.Comments),
		"history":         len(p.History),
	} {
		if slice != 0 {
			t.Fatalf("%s should be empty, got %d", name, slice)
		}
	}
	if p.GTMStages == nil || p.Tasks == nil || p.History == nil {
		t.Fatal("owned sequences must be non-nil after import")
	}
}

func strPtr(s string) *string { return &s }
