package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/reqboard/reqboard-backend/internal/projects/domain"
	"github.com/reqboard/reqboard-backend/internal/projects/history"
)

// DocumentStore is the project document collection.
type DocumentStore interface {
	Get(ctx context.Context, id string) (map[string]any, error)
	Create(ctx context.Context, data map[string]any) (string, error)
	Merge(ctx context.Context, id string, data map[string]any) error
	UpdateField(ctx context.Context, id, field string, value any) error
	Delete(ctx context.Context, id string) error
	ApplyRequirementUpdates(ctx context.Context, updates []domain.RequirementUpdate) error
	SetRatings(ctx context.Context, ratings any) error
}

// LinkStore is the relational user↔project link table plus the team join.
type LinkStore interface {
	ProjectIDs(ctx context.Context, userID int) ([]string, error)
	Link(ctx context.Context, userID int, projectID string) error
	Unlink(ctx context.Context, userID int, projectID string) error
	TeamMembers(ctx context.Context, projectID string) ([]domain.TeamMember, error)
}

// UserStore resolves display names for the modification history.
type UserStore interface {
	DisplayName(ctx context.Context, userID int) (username, lastname string, err error)
}

// BlobStore persists uploaded project images and returns a durable URL.
type BlobStore interface {
	UploadImage(ctx context.Context, projectID, filename, contentType string, data []byte) (string, error)
}

// Cache is an optional read-through cache for project documents.
type Cache interface {
	GetProject(ctx context.Context, id string) (map[string]any, bool)
	SetProject(ctx context.Context, id string, data map[string]any)
	Invalidate(ctx context.Context, id string)
}

// ProjectService handles project-related business logic.
type ProjectService struct {
	docs  DocumentStore
	links LinkStore
	users UserStore
	blobs BlobStore
	cache Cache
	now   func() time.Time
}

// NewProjectService creates a new project service. blobs and cache may be
// nil when the corresponding backend is not configured.
func NewProjectService(docs DocumentStore, links LinkStore, users UserStore, blobs BlobStore, cache Cache) *ProjectService {
	return &ProjectService{
		docs:  docs,
		links: links,
		users: users,
		blobs: blobs,
		cache: cache,
		now:   time.Now,
	}
}

// ListProjects resolves the user's linked project ids, then fetches each
// document individually. A user with no links gets an empty slice.
// Documents whose link outlived the document are skipped.
func (s *ProjectService) ListProjects(ctx context.Context, userID int) ([]domain.Project, error) {
	ids, err := s.links.ProjectIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Project, 0, len(ids))
	for _, id := range ids {
		data, err := s.docs.Get(ctx, id)
		if errors.Is(err, domain.ErrProjectNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, domain.FromDocument(id, data))
	}
	return out, nil
}

// GetProject returns the fixed-shape projection of one project.
func (s *ProjectService) GetProject(ctx context.Context, id string) (domain.Project, error) {
	if s.cache != nil {
		if data, ok := s.cache.GetProject(ctx, id); ok {
			return domain.FromDocument(id, data), nil
		}
	}

	data, err := s.docs.Get(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	if s.cache != nil {
		s.cache.SetProject(ctx, id, data)
	}
	return domain.FromDocument(id, data), nil
}

// CreateProject stores the given fields as a new document and returns the
// generated id.
func (s *ProjectService) CreateProject(ctx context.Context, fields map[string]any) (string, error) {
	return s.docs.Create(ctx, fields)
}

// UpdateProject merges a partial update into the project document and
// records an audit entry when anything actually changed. The returned
// Modification may carry an empty change set.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, updates map[string]any, actor domain.Actor) (history.Modification, error) {
	current, err := s.docs.Get(ctx, id)
	if err != nil {
		return history.Modification{}, err
	}

	// Best effort: a failed name lookup must not fail the update, the
	// entry is just recorded with empty name fields.
	userName, userLastname, err := s.users.DisplayName(ctx, actor.UserID)
	if err != nil {
		log.Printf("[warn] operation=update_project message=display name lookup failed user_id=%d error=%v", actor.UserID, err)
		userName, userLastname = "", ""
	}

	mod := history.NewModification(actor.UserID, userName, userLastname, s.now())
	mod.Changes = history.Diff(current, updates)

	if len(mod.Changes) > 0 {
		prev, _ := current["modificationHistory"].([]any)
		hist := make([]any, 0, len(prev)+1)
		hist = append(hist, prev...)
		hist = append(hist, mod)
		updates["modificationHistory"] = hist
	}

	if err := s.docs.Merge(ctx, id, updates); err != nil {
		return history.Modification{}, err
	}
	s.invalidate(ctx, id)
	return mod, nil
}

// DeleteProject removes the document. No existence check, matching the
// permissive delete semantics of the HTTP surface.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	if err := s.docs.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// LinkUser inserts one (user, project) row. Duplicates are permitted at
// this layer; uniqueness, if any, comes from the schema.
func (s *ProjectService) LinkUser(ctx context.Context, userID int, projectID string) error {
	return s.links.Link(ctx, userID, projectID)
}

// UnlinkUser removes the (user, project) rows.
func (s *ProjectService) UnlinkUser(ctx context.Context, userID int, projectID string) error {
	return s.links.Unlink(ctx, userID, projectID)
}

// TeamMembers lists the users linked to a project, empty when none.
func (s *ProjectService) TeamMembers(ctx context.Context, projectID string) ([]domain.TeamMember, error) {
	return s.links.TeamMembers(ctx, projectID)
}

// UpdateRequirements applies a batch of description/status edits. The
// store commits them atomically; one bad id fails the whole batch.
func (s *ProjectService) UpdateRequirements(ctx context.Context, updates []domain.RequirementUpdate) error {
	if err := s.docs.ApplyRequirementUpdates(ctx, updates); err != nil {
		return err
	}
	for _, u := range updates {
		s.invalidate(ctx, u.ID)
	}
	return nil
}

// UpdateRatings merges the ratings blob into its well-known document.
func (s *ProjectService) UpdateRatings(ctx context.Context, ratings any) error {
	return s.docs.SetRatings(ctx, ratings)
}

// AttachImage uploads the image bytes and persists the resulting URL on
// the project. A previously attached image is not cleaned up.
func (s *ProjectService) AttachImage(ctx context.Context, projectID, filename, contentType string, data []byte) (string, error) {
	if s.blobs == nil {
		return "", errors.New("blob store not configured")
	}
	url, err := s.blobs.UploadImage(ctx, projectID, filename, contentType, data)
	if err != nil {
		return "", err
	}
	if err := s.docs.UpdateField(ctx, projectID, "imageUrl", url); err != nil {
		return "", err
	}
	s.invalidate(ctx, projectID)
	return url, nil
}

func (s *ProjectService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
}
