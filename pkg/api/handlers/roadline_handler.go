package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ramate-io/roadline-go/internal/githubsource"
	"github.com/ramate-io/roadline-go/internal/markdown"
	"github.com/ramate-io/roadline-go/internal/notify"
	"github.com/ramate-io/roadline-go/internal/rebuild"
	"github.com/ramate-io/roadline-go/internal/roadline"
	"github.com/ramate-io/roadline-go/internal/roadmap"
	"github.com/ramate-io/roadline-go/internal/storage"
	"github.com/ramate-io/roadline-go/pkg/api/dto"
	"github.com/ramate-io/roadline-go/pkg/api/middleware"
	"github.com/ramate-io/roadline-go/pkg/models"
)

// defaultRebuildSchedule is the cron expression a newly fetched source is
// registered with when the request names no schedule of its own.
const defaultRebuildSchedule = "0 0 * * * *"

// RoadlineHandler handles roadmap-to-layout HTTP requests: building a
// roadline directly from posted content, fetching one from GitHub and
// caching the source document, and reading back cached documents.
type RoadlineHandler struct {
	documents storage.DocumentRepository
	ghClient  *githubsource.Client
	ghCache   *githubsource.ETagCache
	publisher notify.Publisher
	scheduler *rebuild.Scheduler
}

// NewRoadlineHandler creates a new roadline handler. scheduler may be nil,
// in which case fetched sources are not registered for periodic rebuild.
func NewRoadlineHandler(documents storage.DocumentRepository, ghClient *githubsource.Client, ghCache *githubsource.ETagCache, publisher notify.Publisher, scheduler *rebuild.Scheduler) *RoadlineHandler {
	return &RoadlineHandler{
		documents: documents,
		ghClient:  ghClient,
		ghCache:   ghCache,
		publisher: publisher,
		scheduler: scheduler,
	}
}

func parseTasks(format, content string) ([]models.Task, error) {
	switch format {
	case "yaml":
		return roadmap.NewParser().ParseYAML([]byte(content))
	case "json":
		return roadmap.NewParser().ParseJSON([]byte(content))
	default:
		return markdown.NewParser().ParseTasks(content)
	}
}

func buildRoadline(tasks []models.Task, rootDate *time.Time) (*roadline.Roadline, error) {
	builder := roadline.NewBuilder()
	if rootDate != nil {
		builder = builder.WithRootDate(*rootDate)
	}
	if err := builder.AddTasks(tasks); err != nil {
		return nil, err
	}
	return builder.Build()
}

func toRoadlineResponse(r *roadline.Roadline) dto.RoadlineResponse {
	rects := r.TaskRectangles()
	rectDTOs := make([]dto.TaskRectangleDTO, len(rects))
	for i, rect := range rects {
		rectDTOs[i] = dto.ToTaskRectangleDTO(rect)
	}

	curves := r.Connections()
	curveDTOs := make([]dto.ConnectionDTO, len(curves))
	for i, curve := range curves {
		curveDTOs[i] = dto.ToConnectionDTO(curve)
	}

	maxX, maxY := r.VisualBounds()

	return dto.RoadlineResponse{
		TaskCount:      len(rectDTOs),
		TaskRectangles: rectDTOs,
		Connections:    curveDTOs,
		VisualBoundsX:  uint16(maxX),
		VisualBoundsY:  uint16(maxY),
		GridUnit:       uint16(r.GridUnit()),
	}
}

// Build handles POST /api/v1/roadlines: lay out posted roadmap content
// without persisting anything.
func (h *RoadlineHandler) Build(c *gin.Context) {
	var req dto.BuildRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}

	tasks, err := parseTasks(req.Format, req.Content)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "PARSE_FAILED", err.Error())
		return
	}

	r, err := buildRoadline(tasks, req.RootDate)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "BUILD_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, toRoadlineResponse(r))
}

// Fetch handles POST /api/v1/roadlines/fetch: fetches a roadmap document
// from GitHub, lays it out, caches the document, and publishes a rebuild
// event.
func (h *RoadlineHandler) Fetch(c *gin.Context) {
	var req dto.FetchRequest
	if !middleware.BindAndValidate(c, &req) {
		return
	}

	url, _, err := githubsource.ParseURL(req.SourceURL)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "INVALID_URL", err.Error())
		return
	}

	client := h.ghClient
	if req.Token != "" {
		client = client.WithToken(req.Token)
	}

	ctx := c.Request.Context()
	sourceKey := url.String()

	cachedETag, _ := h.ghCache.Get(ctx, url)
	result, err := client.FetchWithETag(ctx, url, cachedETag)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadGateway, "FETCH_FAILED", err.Error())
		return
	}

	if result.NotModified {
		existing, err := h.documents.Get(ctx, sourceKey)
		if err != nil {
			middleware.AbortWithError(c, http.StatusInternalServerError, "LOOKUP_FAILED", err.Error())
			return
		}
		tasks, err := parseTasks(req.Format, existing.Content)
		if err != nil {
			middleware.AbortWithError(c, http.StatusInternalServerError, "PARSE_FAILED", err.Error())
			return
		}
		r, err := buildRoadline(tasks, req.RootDate)
		if err != nil {
			middleware.AbortWithError(c, http.StatusInternalServerError, "BUILD_FAILED", err.Error())
			return
		}
		c.JSON(http.StatusOK, toRoadlineResponse(r))
		return
	}

	tasks, err := parseTasks(req.Format, result.Content)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "PARSE_FAILED", err.Error())
		return
	}

	r, err := buildRoadline(tasks, req.RootDate)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "BUILD_FAILED", err.Error())
		return
	}

	_ = h.ghCache.Set(ctx, url, result.ETag)

	now := time.Now().UTC()
	doc := &storage.Document{
		SourceKey: sourceKey,
		Content:   result.Content,
		ETag:      result.ETag,
		TaskCount: len(tasks),
		FetchedAt: now,
		RebuiltAt: now,
	}
	if err := h.documents.Upsert(ctx, doc); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "CACHE_FAILED", err.Error())
		return
	}

	_ = h.publisher.Publish(notify.Event{
		SourceURL: sourceKey,
		TaskCount: len(tasks),
		RebuiltAt: now.Format(time.RFC3339),
	})

	if h.scheduler != nil && !h.scheduler.IsRegistered(sourceKey) {
		schedule := req.Schedule
		if schedule == "" {
			schedule = defaultRebuildSchedule
		}
		_ = h.scheduler.AddSource(sourceKey, schedule)
	}

	c.JSON(http.StatusOK, toRoadlineResponse(r))
}

// ListDocuments handles GET /api/v1/documents.
func (h *RoadlineHandler) ListDocuments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filters := storage.DocumentFilters{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	docs, err := h.documents.List(c.Request.Context(), filters)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "LIST_FAILED", err.Error())
		return
	}

	responses := make([]dto.DocumentResponse, len(docs))
	for i, d := range docs {
		responses[i] = dto.ToDocumentResponse(d)
	}

	c.JSON(http.StatusOK, dto.DocumentListResponse{
		Documents:  responses,
		Pagination: dto.NewPaginationMeta(page, pageSize, int64(len(responses))),
	})
}

// sourceKeyParam recovers a source key from a gin wildcard path parameter,
// which gin leaves with its leading slash intact.
func sourceKeyParam(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("sourceKey"), "/")
}

// GetDocument handles GET /api/v1/documents/*sourceKey: returns the cached
// document's metadata, plus its parsed tasks.
func (h *RoadlineHandler) GetDocument(c *gin.Context) {
	format := c.DefaultQuery("format", "markdown")

	doc, err := h.documents.Get(c.Request.Context(), sourceKeyParam(c))
	if err != nil {
		middleware.AbortWithError(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found")
		return
	}

	response := dto.ToDocumentResponse(doc)
	if tasks, err := parseTasks(format, doc.Content); err == nil {
		taskDTOs := make([]dto.TaskDTO, len(tasks))
		for i, t := range tasks {
			taskDTOs[i] = dto.ToTaskDTO(t)
		}
		response.Tasks = taskDTOs
	}

	c.JSON(http.StatusOK, response)
}

// DeleteDocument handles DELETE /api/v1/documents/*sourceKey.
func (h *RoadlineHandler) DeleteDocument(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), sourceKeyParam(c)); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "DELETE_FAILED", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// RebuildDocument handles POST /api/v1/documents/rebuild?source_key=...:
// re-lays out a cached document's stored content without re-fetching it.
func (h *RoadlineHandler) RebuildDocument(c *gin.Context) {
	format := c.DefaultQuery("format", "markdown")

	sourceKey := c.Query("source_key")
	if sourceKey == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "MISSING_SOURCE_KEY", "source_key query parameter is required")
		return
	}

	doc, err := h.documents.Get(c.Request.Context(), sourceKey)
	if err != nil {
		middleware.AbortWithError(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found")
		return
	}

	tasks, err := parseTasks(format, doc.Content)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "PARSE_FAILED", err.Error())
		return
	}

	r, err := buildRoadline(tasks, nil)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "BUILD_FAILED", err.Error())
		return
	}

	doc.RebuiltAt = time.Now().UTC()
	if err := h.documents.Upsert(c.Request.Context(), doc); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "CACHE_FAILED", err.Error())
		return
	}

	c.JSON(http.StatusOK, toRoadlineResponse(r))
}

// TaskStatus handles GET /api/v1/tasks/:id/status?source_key=...: a single
// task's derived status, as of now or an as_of RFC 3339 timestamp, looked
// up against a previously cached document.
func (h *RoadlineHandler) TaskStatus(c *gin.Context) {
	format := c.DefaultQuery("format", "markdown")

	taskIDParam := c.Param("id")
	taskID, err := strconv.ParseUint(taskIDParam, 10, 8)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "INVALID_TASK_ID", "task id must be an unsigned 8-bit integer")
		return
	}

	sourceKey := c.Query("source_key")
	if sourceKey == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, "MISSING_SOURCE_KEY", "source_key query parameter is required")
		return
	}

	asOf := time.Now().UTC()
	if asOfParam := c.Query("as_of"); asOfParam != "" {
		parsed, err := time.Parse(time.RFC3339, asOfParam)
		if err != nil {
			middleware.AbortWithError(c, http.StatusBadRequest, "INVALID_AS_OF", "as_of must be RFC 3339")
			return
		}
		asOf = parsed
	}

	doc, err := h.documents.Get(c.Request.Context(), sourceKey)
	if err != nil {
		middleware.AbortWithError(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found")
		return
	}

	tasks, err := parseTasks(format, doc.Content)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "PARSE_FAILED", err.Error())
		return
	}

	r, err := buildRoadline(tasks, nil)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "BUILD_FAILED", err.Error())
		return
	}

	st, err := r.TaskStatus(models.TaskId(taskID), asOf)
	if err != nil {
		middleware.AbortWithError(c, http.StatusNotFound, "TASK_NOT_FOUND", err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.TaskStatusResponse{
		TaskID: uint8(taskID),
		Status: st.String(),
	})
}
