package service

import (
	"context"

	"github.com/reqboard/reqboard-backend/internal/projects/domain"
	"github.com/reqboard/reqboard-backend/internal/projects/history"
)

// UpdateTasks replaces the tasks of the requirement item with the given id
// inside one category array, rewriting the whole array back. An unmatched
// elementID leaves every item as it was, but the array is still written.
func (s *ProjectService) UpdateTasks(ctx context.Context, projectID, requirementType string, elementID any, tasks []any) error {
	data, err := s.docs.Get(ctx, projectID)
	if err != nil {
		return err
	}

	section, ok := data[requirementType].([]any)
	if !ok {
		return domain.ErrInvalidRequirementType
	}

	updated := make([]any, len(section))
	for i, raw := range section {
		item, isMap := raw.(map[string]any)
		if !isMap || !history.JSONEqual(item["id"], elementID) {
			updated[i] = raw
			continue
		}
		next := make(map[string]any, len(item)+1)
		for k, v := range item {
			next[k] = v
		}
		next["tasks"] = tasks
		updated[i] = next
	}

	if err := s.docs.UpdateField(ctx, projectID, requirementType, updated); err != nil {
		return err
	}
	s.invalidate(ctx, projectID)
	return nil
}

// GetTasks reads the tasks of one requirement item, empty when the item or
// its tasks are absent.
func (s *ProjectService) GetTasks(ctx context.Context, projectID, requirementType string, elementID any) ([]any, error) {
	data, err := s.docs.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	section, ok := data[requirementType].([]any)
	if !ok {
		return nil, domain.ErrInvalidRequirementType
	}

	for _, raw := range section {
		item, isMap := raw.(map[string]any)
		if !isMap || !history.JSONEqual(item["id"], elementID) {
			continue
		}
		if tasks, ok := item["tasks"].([]any); ok {
			return tasks, nil
		}
		return []any{}, nil
	}
	return []any{}, nil
}
