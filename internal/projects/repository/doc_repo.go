package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/reqboard/reqboard-backend/internal/projects/domain"
)

const (
	projectsCollection = "proyectos"
	ratingsDocID       = "ratings"
)

// ProjectDocRepository stores project documents in Firestore, one document
// per project under the "proyectos" collection.
type ProjectDocRepository struct {
	client *firestore.Client
}

// NewProjectDocRepository creates a new project document repository.
func NewProjectDocRepository(client *firestore.Client) *ProjectDocRepository {
	return &ProjectDocRepository{client: client}
}

func (r *ProjectDocRepository) col() *firestore.CollectionRef {
	return r.client.Collection(projectsCollection)
}

// Get loads one document's field map.
func (r *ProjectDocRepository) Get(ctx context.Context, id string) (map[string]any, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return snap.Data(), nil
}

// Create adds a new document with an auto-generated id.
func (r *ProjectDocRepository) Create(ctx context.Context, data map[string]any) (string, error) {
	ref, _, err := r.col().Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("add project: %w", err)
	}
	return ref.ID, nil
}

// Merge writes a field-level partial update; untouched fields survive.
func (r *ProjectDocRepository) Merge(ctx context.Context, id string, data map[string]any) error {
	if _, err := r.col().Doc(id).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("merge project %s: %w", id, err)
	}
	return nil
}

// UpdateField overwrites a single top-level field.
func (r *ProjectDocRepository) UpdateField(ctx context.Context, id, field string, value any) error {
	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{{Path: field, Value: value}})
	if status.Code(err) == codes.NotFound {
		return domain.ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("update %s on project %s: %w", field, id, err)
	}
	return nil
}

// Delete hard-deletes the document. Deleting a missing document is not an
// error at this layer.
func (r *ProjectDocRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.col().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

// ApplyRequirementUpdates commits the whole batch atomically; an update
// referencing a missing document fails every item in the batch.
func (r *ProjectDocRepository) ApplyRequirementUpdates(ctx context.Context, updates []domain.RequirementUpdate) error {
	batch := r.client.Batch()
	for _, u := range updates {
		batch.Update(r.col().Doc(u.ID), []firestore.Update{
			{Path: "descripcion", Value: u.Descripcion},
			{Path: "estatus", Value: u.Estatus},
		})
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("commit requirement batch: %w", err)
	}
	return nil
}

// SetRatings merges the ratings blob into its well-known document.
func (r *ProjectDocRepository) SetRatings(ctx context.Context, ratings any) error {
	_, err := r.col().Doc(ratingsDocID).Set(ctx, map[string]any{"ratings": ratings}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("set ratings: %w", err)
	}
	return nil
}
