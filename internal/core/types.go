// Package core implements the mutation gateway of the tracker: every
// external operation flows through Service, which serializes writes through
// the persistent store, evaluates integrity rules, records history, and maps
// rule violations onto the client error taxonomy.
package core

import "launchcore/pkg/domain"

// Aliases keep method signatures concise while exposing domain types from
// this package.
type (
	// ProductGroup is an alias of domain.ProductGroup.
	ProductGroup = domain.ProductGroup
	// Project is an alias of domain.Project.
	Project = domain.Project
	// GTMStage is an alias of domain.GTMStage.
	GTMStage = domain.GTMStage
	// ChecklistItem is an alias of domain.ChecklistItem.
	ChecklistItem = domain.ChecklistItem
	// GTMTemplate is an alias of domain.GTMTemplate.
	GTMTemplate = domain.GTMTemplate
	// StageBlueprint is an alias of domain.StageBlueprint.
	StageBlueprint = domain.StageBlueprint
	// Task is an alias of domain.Task.
	Task = domain.Task
	// Subtask is an alias of domain.Subtask.
	Subtask = domain.Subtask
	// CharacteristicSection is an alias of domain.CharacteristicSection.
	CharacteristicSection = domain.CharacteristicSection
	// CharacteristicField is an alias of domain.CharacteristicField.
	CharacteristicField = domain.CharacteristicField
	// CharacteristicTemplate is an alias of domain.CharacteristicTemplate.
	CharacteristicTemplate = domain.CharacteristicTemplate
	// SectionBlueprint is an alias of domain.SectionBlueprint.
	SectionBlueprint = domain.SectionBlueprint
	// FieldBlueprint is an alias of domain.FieldBlueprint.
	FieldBlueprint = domain.FieldBlueprint
	// FileAsset is an alias of domain.FileAsset.
	FileAsset = domain.FileAsset
	// ImageAsset is an alias of domain.ImageAsset.
	ImageAsset = domain.ImageAsset
	// Comment is an alias of domain.Comment.
	Comment = domain.Comment
	// HistoryEntry is an alias of domain.HistoryEntry.
	HistoryEntry = domain.HistoryEntry
	// BackupInfo is an alias of domain.BackupInfo.
	BackupInfo = domain.BackupInfo
	// FieldValue is an alias of domain.FieldValue.
	FieldValue = domain.FieldValue
	// Priority is an alias of domain.Priority.
	Priority = domain.Priority
	// Change is an alias of domain.Change.
	Change = domain.Change
	// Result is an alias of domain.Result.
	Result = domain.Result
	// Rule is an alias of domain.Rule.
	Rule = domain.Rule
	// RulesEngine is an alias of domain.RulesEngine.
	RulesEngine = domain.RulesEngine
	// Transaction is an alias of domain.Transaction.
	Transaction = domain.Transaction
	// TransactionView is an alias of domain.TransactionView.
	TransactionView = domain.TransactionView
	// PersistentStore is an alias of domain.PersistentStore.
	PersistentStore = domain.PersistentStore
	// BackupStore is an alias of domain.BackupStore.
	BackupStore = domain.BackupStore
)

// NewRulesEngine constructs an empty rules engine.
func NewRulesEngine() *RulesEngine { return domain.NewRulesEngine() }
