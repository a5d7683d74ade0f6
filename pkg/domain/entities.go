// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by launchcore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and error values.
const (
	// EntityGroup identifies a product group record.
	EntityGroup EntityType = "product_group"
	// EntityProject identifies a project record.
	EntityProject EntityType = "project"
	// EntityGTMStage identifies a go-to-market stage owned by a project.
	EntityGTMStage EntityType = "gtm_stage"
	// EntityChecklistItem identifies a checklist item owned by a stage.
	EntityChecklistItem EntityType = "checklist_item"
	// EntityGTMTemplate identifies a reusable stage blueprint list.
	EntityGTMTemplate EntityType = "gtm_template"
	// EntityTask identifies a task owned by a project.
	EntityTask EntityType = "task"
	// EntitySubtask identifies a subtask owned by a task.
	EntitySubtask EntityType = "subtask"
	// EntitySection identifies a characteristic section owned by a project.
	EntitySection EntityType = "characteristic_section"
	// EntityField identifies a characteristic field owned by a section.
	EntityField EntityType = "characteristic_field"
	// EntityCharTemplate identifies a reusable characteristic structure.
	EntityCharTemplate EntityType = "characteristic_template"
	// EntityFile identifies a file attachment record.
	EntityFile EntityType = "file"
	// EntityImage identifies an image attachment record.
	EntityImage EntityType = "image"
	// EntityComment identifies a project- or task-scoped comment.
	EntityComment EntityType = "comment"
	// EntityHistory identifies an append-only history entry.
	EntityHistory EntityType = "history_entry"
)

// GroupStatus enumerates product group lifecycle states.
type GroupStatus string

// Canonical group statuses.
const (
	GroupStatusActive   GroupStatus = "active"
	GroupStatusArchived GroupStatus = "archived"
)

// ProjectStatus enumerates project lifecycle states.
type ProjectStatus string

// Canonical project statuses.
const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusClosed   ProjectStatus = "closed"
	ProjectStatusArchived ProjectStatus = "archived"
)

// StageStatus enumerates go-to-market stage workflow states.
type StageStatus string

// Canonical stage statuses. Done and cancelled stages are excluded from risk
// derivation.
const (
	StageStatusNotStarted StageStatus = "not_started"
	StageStatusInProgress StageStatus = "in_progress"
	StageStatusDone       StageStatus = "done"
	StageStatusCancelled  StageStatus = "cancelled"
)

// TaskStatus enumerates task workflow states.
type TaskStatus string

// Canonical task statuses.
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Priority captures the optional project priority level.
type Priority string

// Canonical priority levels.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// FieldType enumerates characteristic field input kinds.
type FieldType string

// Canonical characteristic field types.
const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeOther    FieldType = "other"
)

// Base contains common fields for top-level domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductGroup aggregates projects that share a product family.
type ProductGroup struct {
	Base
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	Status      GroupStatus           `json:"status"`
	Brands      []string              `json:"brands"`
	ExtraFields map[string]FieldValue `json:"extra_fields,omitempty"`
}

// Project is the central record of the tracker. It owns every nested
// sequence embedded below; children never outlive their project.
type Project struct {
	Base
	GroupID           string                  `json:"group_id"`
	Name              string                  `json:"name"`
	Brand             string                  `json:"brand"`
	Market            string                  `json:"market"`
	ShortDescription  *string                 `json:"short_description,omitempty"`
	FullDescription   *string                 `json:"full_description,omitempty"`
	Status            ProjectStatus           `json:"status"`
	CurrentGTMStageID *string                 `json:"current_gtm_stage_id"`
	PlannedLaunch     *time.Time              `json:"planned_launch,omitempty"`
	ActualLaunch      *time.Time              `json:"actual_launch,omitempty"`
	Priority          *Priority               `json:"priority,omitempty"`
	CustomFields      map[string]FieldValue   `json:"custom_fields,omitempty"`
	GTMStages         []GTMStage              `json:"gtm_stages"`
	Tasks             []Task                  `json:"tasks"`
	Characteristics   []CharacteristicSection `json:"characteristics"`
	Files             []FileAsset             `json:"files"`
	Images            []ImageAsset            `json:"images"`
	Comments          []Comment               `json:"comments"`
	History           []HistoryEntry          `json:"history"`
}

// GTMStage is a named phase in a project's go-to-market timeline.
// RiskFlag stores the manually raised flag; the derived value
// (manual OR overdue) is recomputed on every outward-facing read and is
// never written back to the stored graph.
type GTMStage struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  *string         `json:"description,omitempty"`
	Order        int             `json:"order"`
	PlannedStart *time.Time      `json:"planned_start,omitempty"`
	PlannedEnd   *time.Time      `json:"planned_end,omitempty"`
	ActualEnd    *time.Time      `json:"actual_end,omitempty"`
	Status       StageStatus     `json:"status"`
	RiskFlag     bool            `json:"risk_flag"`
	Checklist    []ChecklistItem `json:"checklist"`
}

// AtRisk reports the derived risk state of the stage at the given instant.
func (s GTMStage) AtRisk(now time.Time) bool {
	if s.RiskFlag {
		return true
	}
	if s.Status == StageStatusDone || s.Status == StageStatusCancelled {
		return false
	}
	return s.PlannedEnd != nil && s.PlannedEnd.Before(now)
}

// ChecklistItem is a single check inside a stage checklist.
type ChecklistItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
	Order int    `json:"order"`
}

// ChecklistBlueprint describes a checklist item inside a stage blueprint.
// Blueprints carry structure only, never completion state.
type ChecklistBlueprint struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// StageBlueprint describes one stage of a GTM template: title, description
// and ordering, but no dates, status, or progress.
type StageBlueprint struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description *string              `json:"description,omitempty"`
	Order       int                  `json:"order"`
	Checklist   []ChecklistBlueprint `json:"checklist"`
}

// GTMTemplate is a reusable ordered list of stage blueprints.
type GTMTemplate struct {
	Base
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Stages      []StageBlueprint `json:"stages"`
}

// Task is a unit of work inside a project, optionally linked to a stage of
// the same project.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Important   bool       `json:"important"`
	GTMStageID  *string    `json:"gtm_stage_id"`
	Subtasks    []Subtask  `json:"subtasks"`
	Comments    []Comment  `json:"comments"`
}

// Subtask is a checklist-style child of a task.
type Subtask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
	Order int    `json:"order"`
}

// CharacteristicSection groups bilingual characteristic fields.
type CharacteristicSection struct {
	ID     string                `json:"id"`
	Title  string                `json:"title"`
	Order  int                   `json:"order"`
	Fields []CharacteristicField `json:"fields"`
}

// CharacteristicField holds a bilingual label pair and nullable bilingual
// values constrained to the closed FieldValue union.
type CharacteristicField struct {
	ID        string      `json:"id"`
	LabelRU   string      `json:"label_ru"`
	LabelEN   string      `json:"label_en"`
	ValueRU   *FieldValue `json:"value_ru"`
	ValueEN   *FieldValue `json:"value_en"`
	FieldType FieldType   `json:"field_type"`
	Order     int         `json:"order"`
}

// FieldBlueprint describes one field of a characteristic template: labels,
// type and ordering, never values.
type FieldBlueprint struct {
	ID        string    `json:"id"`
	LabelRU   string    `json:"label_ru"`
	LabelEN   string    `json:"label_en"`
	FieldType FieldType `json:"field_type"`
	Order     int       `json:"order"`
}

// SectionBlueprint describes one section of a characteristic template.
type SectionBlueprint struct {
	ID     string           `json:"id"`
	Title  string           `json:"title"`
	Order  int              `json:"order"`
	Fields []FieldBlueprint `json:"fields"`
}

// CharacteristicTemplate is a reusable characteristic structure.
type CharacteristicTemplate struct {
	Base
	Name        string             `json:"name"`
	Description *string            `json:"description,omitempty"`
	Sections    []SectionBlueprint `json:"sections"`
}

// FileAsset stores metadata and the storage path of an uploaded file.
// The core never holds file bytes.
type FileAsset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Path        string    `json:"path"`
}

// ImageAsset stores metadata and the storage path of an uploaded image.
// At most one image per project carries IsCover.
type ImageAsset struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Caption    *string   `json:"caption,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
	Order      int       `json:"order"`
	IsCover    bool      `json:"is_cover"`
	Path       string    `json:"path"`
}

// Comment is a free-form note attached to a project or a task.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry records one mutation applied to a project. Entries are
// append-only and stored newest first.
type HistoryEntry struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	Summary    string    `json:"summary"`
	Details    *string   `json:"details,omitempty"`
}

// BackupInfo describes one snapshot backup file.
type BackupInfo struct {
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported operations captured for rule
// evaluation.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn records a warning but allows commit.
	SeverityWarn Severity = "warn"
)

// ViolationCode classifies a violation for mapping onto the client error
// taxonomy.
type ViolationCode string

// Violation codes.
const (
	CodeReference  ViolationCode = "reference"
	CodeConflict   ViolationCode = "conflict"
	CodeValidation ViolationCode = "validation"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Code     ViolationCode
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// FirstBlocking returns the first blocking violation, if any.
func (r Result) FirstBlocking() (Violation, bool) {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return v, true
		}
	}
	return Violation{}, false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	if v, ok := e.Result.FirstBlocking(); ok {
		return "transaction blocked by rules: " + v.Message
	}
	return "transaction blocked by rules"
}
