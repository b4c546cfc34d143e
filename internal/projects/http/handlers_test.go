package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqboard/reqboard-backend/internal/auth"
	"github.com/reqboard/reqboard-backend/internal/projects/domain"
	"github.com/reqboard/reqboard-backend/internal/projects/service"
)

type stubDocs struct {
	docs    map[string]map[string]any
	merged  map[string]map[string]any
	fields  map[string]map[string]any
	deleted []string
	batch   []domain.RequirementUpdate
	ratings any
}

func newStubDocs() *stubDocs {
	return &stubDocs{
		docs:   map[string]map[string]any{},
		merged: map[string]map[string]any{},
		fields: map[string]map[string]any{},
	}
}

func (s *stubDocs) Get(_ context.Context, id string) (map[string]any, error) {
	data, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return data, nil
}

func (s *stubDocs) Create(_ context.Context, data map[string]any) (string, error) {
	s.docs["new-id"] = data
	return "new-id", nil
}

func (s *stubDocs) Merge(_ context.Context, id string, data map[string]any) error {
	s.merged[id] = data
	return nil
}

func (s *stubDocs) UpdateField(_ context.Context, id, field string, value any) error {
	if s.fields[id] == nil {
		s.fields[id] = map[string]any{}
	}
	s.fields[id][field] = value
	return nil
}

func (s *stubDocs) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubDocs) ApplyRequirementUpdates(_ context.Context, updates []domain.RequirementUpdate) error {
	s.batch = updates
	return nil
}

func (s *stubDocs) SetRatings(_ context.Context, ratings any) error {
	s.ratings = ratings
	return nil
}

type stubLinks struct {
	ids     map[int][]string
	members map[string][]domain.TeamMember
	links   []linkPair
}

type linkPair struct {
	userID    int
	projectID string
}

func (s *stubLinks) ProjectIDs(_ context.Context, userID int) ([]string, error) {
	return s.ids[userID], nil
}

func (s *stubLinks) Link(_ context.Context, userID int, projectID string) error {
	s.links = append(s.links, linkPair{userID, projectID})
	return nil
}

func (s *stubLinks) Unlink(_ context.Context, userID int, projectID string) error {
	return nil
}

func (s *stubLinks) TeamMembers(_ context.Context, projectID string) ([]domain.TeamMember, error) {
	return s.members[projectID], nil
}

type stubUsers struct{}

func (stubUsers) DisplayName(context.Context, int) (string, string, error) {
	return "ana", "garcia", nil
}

type stubBlobs struct{}

func (stubBlobs) UploadImage(_ context.Context, _, _, _ string, _ []byte) (string, error) {
	return "https://storage.example/signed", nil
}

func newTestRouter(docs *stubDocs, links *stubLinks) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(auth.WithUser())
	svc := service.NewProjectService(docs, links, stubUsers{}, stubBlobs{}, nil)
	Register(r.Group("/api/v1/projects"), svc)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestListProjectsEndpoint(t *testing.T) {
	docs := newStubDocs()
	docs.docs["p1"] = map[string]any{"nombreProyecto": "uno"}
	links := &stubLinks{ids: map[int][]string{5: {"p1"}}}
	r := newTestRouter(docs, links)

	t.Run("missing userId is a 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/projects", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unlinked user gets an empty array", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/projects?userId=99", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("linked projects come back with ids", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/projects?userId=5", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var out []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out, 1)
		assert.Equal(t, "p1", out[0]["id"])
	})
}

func TestCreateProjectEndpoint(t *testing.T) {
	docs := newStubDocs()
	r := newTestRouter(docs, &stubLinks{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/projects", map[string]any{
		"nombreProyecto": "uno",
		"descripcion":    "desc",
		"estatus":        "activo",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	out := decode(t, w)
	assert.Equal(t, true, out["project_added"])
	assert.Equal(t, "new-id", out["id"])
	assert.Equal(t, "desc", out["descripcion"])
	assert.Equal(t, "activo", out["estatus"])
}

func TestUpdateProjectEndpoint(t *testing.T) {
	t.Run("requires the acting user", func(t *testing.T) {
		docs := newStubDocs()
		docs.docs["p1"] = map[string]any{}
		r := newTestRouter(docs, &stubLinks{})

		w := doJSON(t, r, http.MethodPut, "/api/v1/projects/p1", map[string]any{"estatus": "x"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, docs.merged)
	})

	t.Run("unknown project is a 404 with no write", func(t *testing.T) {
		docs := newStubDocs()
		r := newTestRouter(docs, &stubLinks{})

		w := doJSON(t, r, http.MethodPut, "/api/v1/projects/nope", map[string]any{"estatus": "x"},
			map[string]string{"X-User-Id": "7"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, docs.merged)
	})

	t.Run("answers with the computed modification", func(t *testing.T) {
		docs := newStubDocs()
		docs.docs["p1"] = map[string]any{
			"EP": []any{map[string]any{"id": float64(1), "desc": "a"}},
		}
		r := newTestRouter(docs, &stubLinks{})

		body := map[string]any{
			"EP": []any{
				map[string]any{"id": 1, "desc": "b"},
				map[string]any{"id": 2, "desc": "new"},
			},
		}
		w := doJSON(t, r, http.MethodPut, "/api/v1/projects/p1", body,
			map[string]string{"X-User-Id": "7"})
		require.Equal(t, http.StatusOK, w.Code)

		out := decode(t, w)
		assert.Equal(t, true, out["project_updated"])
		assert.Equal(t, "p1", out["id"])

		mod := out["modification"].(map[string]any)
		assert.Equal(t, float64(7), mod["userId"])
		assert.Equal(t, "ana", mod["userName"])
		assert.Equal(t, "garcia", mod["userLastname"])

		items := mod["changes"].(map[string]any)["EP"].([]any)
		require.Len(t, items, 2)
		first := items[0].(map[string]any)
		assert.Equal(t, float64(1), first["id"])
		desc := first["changes"].(map[string]any)["desc"].(map[string]any)
		assert.Equal(t, "a", desc["oldValue"])
		assert.Equal(t, "b", desc["newValue"])
		second := items[1].(map[string]any)
		assert.Contains(t, second["changes"].(map[string]any), "nuevo")
	})
}

func TestDeleteProjectEndpoint(t *testing.T) {
	docs := newStubDocs()
	r := newTestRouter(docs, &stubLinks{})

	w := doJSON(t, r, http.MethodDelete, "/api/v1/projects/p1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["project_deleted"])
	assert.Equal(t, []string{"p1"}, docs.deleted)
}

func TestLinkEndpoints(t *testing.T) {
	docs := newStubDocs()
	links := &stubLinks{}
	r := newTestRouter(docs, links)

	t.Run("missing fields are a 400 without touching the store", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/link", map[string]any{"userId": 5}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, r, http.MethodPost, "/api/v1/projects/link", map[string]any{"projectId": "p1"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, links.links)
	})

	t.Run("valid pair links", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/link",
			map[string]any{"userId": 5, "projectId": "p1"}, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []linkPair{{5, "p1"}}, links.links)
	})

	t.Run("unlink validates the same way", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/unlink", map[string]any{}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, r, http.MethodPost, "/api/v1/projects/unlink",
			map[string]any{"userId": 5, "projectId": "p1"}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTeamEndpoint(t *testing.T) {
	docs := newStubDocs()
	links := &stubLinks{members: map[string][]domain.TeamMember{
		"p1": {{UserID: 5, Username: "ana", Lastname: "garcia", Email: "ana@example.com", Role: "admin"}},
	}}
	r := newTestRouter(docs, links)

	t.Run("returns joined members", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/projects/p1/team", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		out := decode(t, w)
		assert.Equal(t, true, out["success"])
		assert.Len(t, out["teamMembers"], 1)
	})

	t.Run("no members is an empty list", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/projects/p2/team", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode(t, w)["teamMembers"])
	})
}

func TestRequirementsAndRatingsEndpoints(t *testing.T) {
	docs := newStubDocs()
	r := newTestRouter(docs, &stubLinks{})

	w := doJSON(t, r, http.MethodPut, "/api/v1/projects/p1/requirements", map[string]any{
		"requirements": []map[string]any{{"id": "p1", "descripcion": "d", "estatus": "e"}},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, docs.batch, 1)
	assert.Equal(t, "p1", docs.batch[0].ID)

	w = doJSON(t, r, http.MethodPut, "/api/v1/projects/ratings", map[string]any{
		"ratings": map[string]any{"p1": 5},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, docs.ratings)
}

func TestTasksEndpoints(t *testing.T) {
	docs := newStubDocs()
	docs.docs["p1"] = map[string]any{
		"HU": []any{map[string]any{"id": "h1", "desc": "a"}},
	}
	r := newTestRouter(docs, &stubLinks{})

	t.Run("invalid requirementType is a 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/v1/projects/p1/tasks", map[string]any{
			"requirementType": "nope", "elementId": "h1", "tasks": []any{},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing project is a 404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/v1/projects/gone/tasks", map[string]any{
			"requirementType": "HU", "elementId": "h1", "tasks": []any{},
		}, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unmatched element still succeeds", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/v1/projects/p1/tasks", map[string]any{
			"requirementType": "HU", "elementId": "missing", "tasks": []any{},
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, docs.docs["p1"]["HU"], docs.fields["p1"]["HU"])
	})

	t.Run("replaces and reads tasks", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/v1/projects/p1/tasks", map[string]any{
			"requirementType": "HU",
			"elementId":       "h1",
			"tasks":           []any{map[string]any{"name": "t1"}},
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		// reads see the rewritten array
		docs.docs["p1"]["HU"] = docs.fields["p1"]["HU"]
		w = doJSON(t, r, http.MethodGet, "/api/v1/projects/p1/tasks?requirementType=HU&elementId=h1", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		tasks := decode(t, w)["tasks"].([]any)
		require.Len(t, tasks, 1)
	})

	t.Run("missing query params are a 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/projects/p1/tasks", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUploadImageEndpoint(t *testing.T) {
	docs := newStubDocs()
	docs.docs["p1"] = map[string]any{}
	r := newTestRouter(docs, &stubLinks{})

	t.Run("missing file is a 400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/projects/p1/image", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stores the image and persists the url", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "logo.png")
		require.NoError(t, err)
		_, err = part.Write([]byte{0x89, 'P', 'N', 'G'})
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/p1/image", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		out := decode(t, w)
		assert.Equal(t, true, out["success"])
		assert.Equal(t, "https://storage.example/signed", out["imageUrl"])
		assert.Equal(t, "https://storage.example/signed", docs.fields["p1"]["imageUrl"])
	})
}
