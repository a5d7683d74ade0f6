package core

import (
	"fmt"
	"strings"

	"launchcore/pkg/domain"
)

func validationErr(field, reason string) error {
	return domain.ValidationError{Field: field, Reason: reason}
}

func requireName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return validationErr(field, "must not be empty")
	}
	return nil
}

func validateGroupStatus(status domain.GroupStatus) error {
	switch status {
	case "", domain.GroupStatusActive, domain.GroupStatusArchived:
		return nil
	}
	return validationErr("status", fmt.Sprintf("unknown group status %q", status))
}

func validateProjectStatus(status domain.ProjectStatus) error {
	switch status {
	case "", domain.ProjectStatusActive, domain.ProjectStatusClosed, domain.ProjectStatusArchived:
		return nil
	}
	return validationErr("status", fmt.Sprintf("unknown project status %q", status))
}

func validateStageStatus(status domain.StageStatus) error {
	switch status {
	case "", domain.StageStatusNotStarted, domain.StageStatusInProgress, domain.StageStatusDone, domain.StageStatusCancelled:
		return nil
	}
	return validationErr("status", fmt.Sprintf("unknown stage status %q", status))
}

func validateTaskStatus(status domain.TaskStatus) error {
	switch status {
	case "", domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusDone:
		return nil
	}
	return validationErr("status", fmt.Sprintf("unknown task status %q", status))
}

func validatePriority(p *domain.Priority) error {
	if p == nil {
		return nil
	}
	switch *p {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
		return nil
	}
	return validationErr("priority", fmt.Sprintf("unknown priority %q", *p))
}

func validateFieldType(ft domain.FieldType) error {
	switch ft {
	case "", domain.FieldTypeText, domain.FieldTypeNumber, domain.FieldTypeSelect, domain.FieldTypeCheckbox, domain.FieldTypeOther:
		return nil
	}
	return validationErr("field_type", fmt.Sprintf("unknown field type %q", ft))
}

// nextOrder returns max(existing)+1 so appended children land at the end of
// the display sequence.
func nextOrder(orders []int) int {
	max := 0
	for _, o := range orders {
		if o > max {
			max = o
		}
	}
	return max + 1
}

// applyOrder assigns the next free order when the caller passed zero.
func applyOrder(order int, existing []int) int {
	if order != 0 {
		return order
	}
	return nextOrder(existing)
}

// reorderByIDs rewrites the order field of every element whose id appears in
// ids, following their position in ids (1-based). Unknown ids fail with
// NotFound so the caller can surface the bad identifier.
func reorderByIDs[T any](items []T, ids []string, entity domain.EntityType, idOf func(T) string, setOrder func(*T, int)) error {
	index := make(map[string]int, len(items))
	for i, item := range items {
		index[idOf(item)] = i
	}
	for pos, id := range ids {
		i, ok := index[id]
		if !ok {
			return domain.NotFoundError{Entity: entity, ID: id}
		}
		setOrder(&items[i], pos+1)
	}
	return nil
}
