package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ramate-io/roadline-go/internal/githubsource"
	"github.com/ramate-io/roadline-go/internal/notify"
	"github.com/ramate-io/roadline-go/internal/storage"
	"github.com/ramate-io/roadline-go/pkg/api/dto"
	"github.com/ramate-io/roadline-go/pkg/api/handlers"
)

// fakeDocumentRepository is an in-memory stand-in for storage.DocumentRepository.
type fakeDocumentRepository struct {
	docs map[string]*storage.Document
}

func newFakeDocumentRepository() *fakeDocumentRepository {
	return &fakeDocumentRepository{docs: make(map[string]*storage.Document)}
}

func (f *fakeDocumentRepository) Upsert(_ context.Context, doc *storage.Document) error {
	f.docs[doc.SourceKey] = doc
	return nil
}

func (f *fakeDocumentRepository) Get(_ context.Context, sourceKey string) (*storage.Document, error) {
	doc, ok := f.docs[sourceKey]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocumentRepository) List(_ context.Context, _ storage.DocumentFilters) ([]*storage.Document, error) {
	docs := make([]*storage.Document, 0, len(f.docs))
	for _, d := range f.docs {
		docs = append(docs, d)
	}
	return docs, nil
}

func (f *fakeDocumentRepository) Delete(_ context.Context, sourceKey string) error {
	delete(f.docs, sourceKey)
	return nil
}

func newTestRouter(repo storage.DocumentRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := handlers.NewRoadlineHandler(repo, githubsource.NewClient(), githubsource.NewETagCache(nil), notify.NoOpPublisher{}, nil)

	api := router.Group("/api/v1")
	api.POST("/roadlines", h.Build)
	api.GET("/documents", h.ListDocuments)
	api.GET("/documents/*sourceKey", h.GetDocument)
	api.DELETE("/documents/*sourceKey", h.DeleteDocument)

	return router
}

const sampleMarkdown = `### T0: Kickoff

- **Contents:**
    - **[T0.1](#t01-kickoff)**: Align on scope

### T1: Build

- **Depends-on:** [T0](#t0-kickoff)
- **Starts:** T0 + 1 week
- **Ends:** 2 weeks
`

func TestRoadlineHandlerBuildReturnsGeometryForValidMarkdown(t *testing.T) {
	router := newTestRouter(newFakeDocumentRepository())

	body, _ := json.Marshal(dto.BuildRequest{Content: sampleMarkdown, Format: "markdown"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/roadlines", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.RoadlineResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TaskCount)
	assert.Len(t, resp.TaskRectangles, 2)
	assert.Len(t, resp.Connections, 1)
}

func TestRoadlineHandlerBuildRejectsMalformedContent(t *testing.T) {
	router := newTestRouter(newFakeDocumentRepository())

	body, _ := json.Marshal(dto.BuildRequest{Content: "not a roadmap", Format: "markdown"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/roadlines", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoadlineHandlerGetDocumentReturns404ForUnknownKey(t *testing.T) {
	router := newTestRouter(newFakeDocumentRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/owner/repo/ROADMAP.md@main", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoadlineHandlerGetDocumentReturnsCachedTasks(t *testing.T) {
	repo := newFakeDocumentRepository()
	sourceKey := "owner/repo/ROADMAP.md@main"
	assert.NoError(t, repo.Upsert(context.Background(), &storage.Document{
		SourceKey: sourceKey,
		Content:   sampleMarkdown,
		TaskCount: 2,
	}))

	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+sourceKey, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.DocumentResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, sourceKey, resp.SourceKey)
	assert.Len(t, resp.Tasks, 2)
}
