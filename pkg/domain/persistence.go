package domain

import "context"

// Transaction exposes the graph operations that a persistence implementation
// must support within an atomic scope. Projects embed their owned sequences,
// so nested mutations flow through UpdateProject mutators.
type Transaction interface {
	Snapshot() TransactionView
	CreateGroup(ProductGroup) (ProductGroup, error)
	UpdateGroup(id string, mutator func(*ProductGroup) error) (ProductGroup, error)
	DeleteGroup(id string) error
	CreateProject(Project) (Project, error)
	UpdateProject(id string, mutator func(*Project) error) (Project, error)
	DeleteProject(id string) error
	CreateGTMTemplate(GTMTemplate) (GTMTemplate, error)
	UpdateGTMTemplate(id string, mutator func(*GTMTemplate) error) (GTMTemplate, error)
	DeleteGTMTemplate(id string) error
	CreateCharacteristicTemplate(CharacteristicTemplate) (CharacteristicTemplate, error)
	UpdateCharacteristicTemplate(id string, mutator func(*CharacteristicTemplate) error) (CharacteristicTemplate, error)
	DeleteCharacteristicTemplate(id string) error
	FindGroup(id string) (ProductGroup, bool)
	FindProject(id string) (Project, bool)
	FindGTMTemplate(id string) (GTMTemplate, bool)
	FindCharacteristicTemplate(id string) (CharacteristicTemplate, bool)
}

// TransactionView provides read-only access to snapshot data for rules and
// read paths.
type TransactionView interface {
	ListGroups() []ProductGroup
	ListProjects() []Project
	ListGTMTemplates() []GTMTemplate
	ListCharacteristicTemplates() []CharacteristicTemplate
	FindGroup(id string) (ProductGroup, bool)
	FindProject(id string) (Project, bool)
	// FindProjectByChild resolves the owning project of any nested entity id
	// via the child index maintained by the store.
	FindProjectByChild(childID string) (Project, bool)
	FindGTMTemplate(id string) (GTMTemplate, bool)
	FindCharacteristicTemplate(id string) (CharacteristicTemplate, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetGroup(id string) (ProductGroup, bool)
	ListGroups() []ProductGroup
	GetProject(id string) (Project, bool)
	ListProjects() []Project
	GetGTMTemplate(id string) (GTMTemplate, bool)
	ListGTMTemplates() []GTMTemplate
	GetCharacteristicTemplate(id string) (CharacteristicTemplate, bool)
	ListCharacteristicTemplates() []CharacteristicTemplate
}

// BackupStore is implemented by backends that can snapshot the canonical
// document to named backups and restore from them.
type BackupStore interface {
	CreateBackup() (BackupInfo, error)
	ListBackups() ([]BackupInfo, error)
	RestoreBackup(name string) (BackupInfo, error)
}
