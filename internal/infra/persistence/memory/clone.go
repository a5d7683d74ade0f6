package memory

import (
	"sort"
	"time"

	"launchcore/pkg/domain"
)

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneValueMap(m map[string]domain.FieldValue) map[string]domain.FieldValue {
	if m == nil {
		return nil
	}
	out := make(map[string]domain.FieldValue, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneGroup(g ProductGroup) ProductGroup {
	out := g
	out.Description = clonePtr(g.Description)
	out.Brands = append([]string(nil), g.Brands...)
	out.ExtraFields = cloneValueMap(g.ExtraFields)
	return out
}

func cloneChecklist(items []domain.ChecklistItem) []domain.ChecklistItem {
	if items == nil {
		return nil
	}
	return append([]domain.ChecklistItem(nil), items...)
}

func cloneStage(s domain.GTMStage) domain.GTMStage {
	out := s
	out.Description = clonePtr(s.Description)
	out.PlannedStart = clonePtr(s.PlannedStart)
	out.PlannedEnd = clonePtr(s.PlannedEnd)
	out.ActualEnd = clonePtr(s.ActualEnd)
	out.Checklist = cloneChecklist(s.Checklist)
	return out
}

func cloneComments(comments []domain.Comment) []domain.Comment {
	if comments == nil {
		return nil
	}
	return append([]domain.Comment(nil), comments...)
}

func cloneTask(t domain.Task) domain.Task {
	out := t
	out.Description = clonePtr(t.Description)
	out.DueDate = clonePtr(t.DueDate)
	out.GTMStageID = clonePtr(t.GTMStageID)
	if t.Subtasks != nil {
		out.Subtasks = append([]domain.Subtask(nil), t.Subtasks...)
	}
	out.Comments = cloneComments(t.Comments)
	return out
}

func cloneField(f domain.CharacteristicField) domain.CharacteristicField {
	out := f
	out.ValueRU = clonePtr(f.ValueRU)
	out.ValueEN = clonePtr(f.ValueEN)
	return out
}

func cloneSection(s domain.CharacteristicSection) domain.CharacteristicSection {
	out := s
	if s.Fields != nil {
		out.Fields = make([]domain.CharacteristicField, len(s.Fields))
		for i, f := range s.Fields {
			out.Fields[i] = cloneField(f)
		}
	}
	return out
}

func cloneProject(p Project) Project {
	out := p
	out.ShortDescription = clonePtr(p.ShortDescription)
	out.FullDescription = clonePtr(p.FullDescription)
	out.CurrentGTMStageID = clonePtr(p.CurrentGTMStageID)
	out.PlannedLaunch = clonePtr(p.PlannedLaunch)
	out.ActualLaunch = clonePtr(p.ActualLaunch)
	out.Priority = clonePtr(p.Priority)
	out.CustomFields = cloneValueMap(p.CustomFields)
	if p.GTMStages != nil {
		out.GTMStages = make([]domain.GTMStage, len(p.GTMStages))
		for i, s := range p.GTMStages {
			out.GTMStages[i] = cloneStage(s)
		}
	}
	if p.Tasks != nil {
		out.Tasks = make([]domain.Task, len(p.Tasks))
		for i, t := range p.Tasks {
			out.Tasks[i] = cloneTask(t)
		}
	}
	if p.Characteristics != nil {
		out.Characteristics = make([]domain.CharacteristicSection, len(p.Characteristics))
		for i, s := range p.Characteristics {
			out.Characteristics[i] = cloneSection(s)
		}
	}
	if p.Files != nil {
		out.Files = make([]domain.FileAsset, len(p.Files))
		for i, f := range p.Files {
			fc := f
			fc.Description = clonePtr(f.Description)
			fc.Category = clonePtr(f.Category)
			out.Files[i] = fc
		}
	}
	if p.Images != nil {
		out.Images = make([]domain.ImageAsset, len(p.Images))
		for i, img := range p.Images {
			ic := img
			ic.Caption = clonePtr(img.Caption)
			out.Images[i] = ic
		}
	}
	out.Comments = cloneComments(p.Comments)
	if p.History != nil {
		out.History = make([]domain.HistoryEntry, len(p.History))
		for i, h := range p.History {
			hc := h
			hc.Details = clonePtr(h.Details)
			out.History[i] = hc
		}
	}
	return out
}

func cloneGTMTemplate(t GTMTemplate) GTMTemplate {
	out := t
	out.Description = clonePtr(t.Description)
	if t.Stages != nil {
		out.Stages = make([]domain.StageBlueprint, len(t.Stages))
		for i, s := range t.Stages {
			sc := s
			sc.Description = clonePtr(s.Description)
			if s.Checklist != nil {
				sc.Checklist = append([]domain.ChecklistBlueprint(nil), s.Checklist...)
			}
			out.Stages[i] = sc
		}
	}
	return out
}

func cloneCharTemplate(t CharacteristicTemplate) CharacteristicTemplate {
	out := t
	out.Description = clonePtr(t.Description)
	if t.Sections != nil {
		out.Sections = make([]domain.SectionBlueprint, len(t.Sections))
		for i, s := range t.Sections {
			sc := s
			if s.Fields != nil {
				sc.Fields = append([]domain.FieldBlueprint(nil), s.Fields...)
			}
			out.Sections[i] = sc
		}
	}
	return out
}

// decorateProject recomputes the derived stage risk on a project copy for an
// outward-facing read. The stored graph keeps only the manual flag.
func decorateProject(p Project, now time.Time) Project {
	for i := range p.GTMStages {
		p.GTMStages[i].RiskFlag = p.GTMStages[i].AtRisk(now)
	}
	return p
}

// Sorting ---------------------------------------------------------------------

func sortGroups(groups []ProductGroup) {
	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].CreatedAt.Equal(groups[j].CreatedAt) {
			return groups[i].CreatedAt.Before(groups[j].CreatedAt)
		}
		return groups[i].ID < groups[j].ID
	})
}

func sortProjects(projects []Project) {
	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].CreatedAt.Before(projects[j].CreatedAt)
		}
		return projects[i].ID < projects[j].ID
	})
}

func sortGTMTemplates(templates []GTMTemplate) {
	sort.Slice(templates, func(i, j int) bool {
		if !templates[i].CreatedAt.Equal(templates[j].CreatedAt) {
			return templates[i].CreatedAt.Before(templates[j].CreatedAt)
		}
		return templates[i].ID < templates[j].ID
	})
}

func sortCharTemplates(templates []CharacteristicTemplate) {
	sort.Slice(templates, func(i, j int) bool {
		if !templates[i].CreatedAt.Equal(templates[j].CreatedAt) {
			return templates[i].CreatedAt.Before(templates[j].CreatedAt)
		}
		return templates[i].ID < templates[j].ID
	})
}

// Normalization ---------------------------------------------------------------

func normalizeGroup(g *ProductGroup) {
	if g.Status == "" {
		g.Status = domain.GroupStatusActive
	}
	if g.Brands == nil {
		g.Brands = []string{}
	}
}

func normalizeProject(p *Project) {
	if p.Status == "" {
		p.Status = domain.ProjectStatusActive
	}
	if p.GTMStages == nil {
		p.GTMStages = []domain.GTMStage{}
	}
	for i := range p.GTMStages {
		if p.GTMStages[i].Status == "" {
			p.GTMStages[i].Status = domain.StageStatusNotStarted
		}
		if p.GTMStages[i].Checklist == nil {
			p.GTMStages[i].Checklist = []domain.ChecklistItem{}
		}
	}
	if p.Tasks == nil {
		p.Tasks = []domain.Task{}
	}
	for i := range p.Tasks {
		if p.Tasks[i].Status == "" {
			p.Tasks[i].Status = domain.TaskStatusTodo
		}
		if p.Tasks[i].Subtasks == nil {
			p.Tasks[i].Subtasks = []domain.Subtask{}
		}
		if p.Tasks[i].Comments == nil {
			p.Tasks[i].Comments = []domain.Comment{}
		}
	}
	if p.Characteristics == nil {
		p.Characteristics = []domain.CharacteristicSection{}
	}
	for i := range p.Characteristics {
		if p.Characteristics[i].Fields == nil {
			p.Characteristics[i].Fields = []domain.CharacteristicField{}
		}
	}
	if p.Files == nil {
		p.Files = []domain.FileAsset{}
	}
	if p.Images == nil {
		p.Images = []domain.ImageAsset{}
	}
	if p.Comments == nil {
		p.Comments = []domain.Comment{}
	}
	if p.History == nil {
		p.History = []domain.HistoryEntry{}
	}
}

func normalizeGTMTemplate(t *GTMTemplate, newID func() string) {
	if t.Stages == nil {
		t.Stages = []domain.StageBlueprint{}
	}
	for i := range t.Stages {
		if t.Stages[i].ID == "" {
			t.Stages[i].ID = newID()
		}
		if t.Stages[i].Checklist == nil {
			t.Stages[i].Checklist = []domain.ChecklistBlueprint{}
		}
		for j := range t.Stages[i].Checklist {
			if t.Stages[i].Checklist[j].ID == "" {
				t.Stages[i].Checklist[j].ID = newID()
			}
		}
	}
}

func normalizeCharTemplate(t *CharacteristicTemplate, newID func() string) {
	if t.Sections == nil {
		t.Sections = []domain.SectionBlueprint{}
	}
	for i := range t.Sections {
		if t.Sections[i].ID == "" {
			t.Sections[i].ID = newID()
		}
		if t.Sections[i].Fields == nil {
			t.Sections[i].Fields = []domain.FieldBlueprint{}
		}
		for j := range t.Sections[i].Fields {
			if t.Sections[i].Fields[j].ID == "" {
				t.Sections[i].Fields[j].ID = newID()
			}
		}
	}
}
