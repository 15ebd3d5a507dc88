package dto

import (
	"time"

	"github.com/ramate-io/roadline-go/internal/roadline/reified"
	"github.com/ramate-io/roadline-go/internal/storage"
	"github.com/ramate-io/roadline-go/pkg/models"
)

// BuildRequest carries a roadmap document to parse and lay out directly,
// without persisting it.
type BuildRequest struct {
	Content  string     `json:"content" validate:"required"`
	Format   string     `json:"format" validate:"omitempty,oneof=markdown yaml json"`
	RootDate *time.Time `json:"root_date,omitempty"`
}

// FetchRequest asks the server to fetch a roadmap document from GitHub,
// lay it out, and cache the result.
type FetchRequest struct {
	SourceURL string     `json:"source_url" validate:"required"`
	Format    string     `json:"format" validate:"omitempty,oneof=markdown yaml json"`
	Token     string     `json:"token,omitempty"`
	RootDate  *time.Time `json:"root_date,omitempty"`
	// Schedule overrides the cron expression the source is registered
	// for periodic rebuild under; empty leaves the handler's default in
	// place.
	Schedule string `json:"schedule,omitempty" validate:"omitempty,cron"`
}

// PointDTO is a single (x, y) coordinate in reified layout units.
type PointDTO struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

// TaskRectangleDTO is a task's render rectangle.
type TaskRectangleDTO struct {
	TaskID uint8  `json:"task_id"`
	X0     uint16 `json:"x0"`
	Y0     uint16 `json:"y0"`
	X1     uint16 `json:"x1"`
	Y1     uint16 `json:"y1"`
}

// ConnectionDTO is a dependency's Bézier joint geometry.
type ConnectionDTO struct {
	From  uint8    `json:"from"`
	To    uint8    `json:"to"`
	Start PointDTO `json:"start"`
	C1    PointDTO `json:"c1"`
	C2    PointDTO `json:"c2"`
	End   PointDTO `json:"end"`
}

// RoadlineResponse is the full resolved geometry of a built roadline.
type RoadlineResponse struct {
	TaskCount     int                `json:"task_count"`
	TaskRectangles []TaskRectangleDTO `json:"task_rectangles"`
	Connections   []ConnectionDTO    `json:"connections"`
	VisualBoundsX uint16             `json:"visual_bounds_x"`
	VisualBoundsY uint16             `json:"visual_bounds_y"`
	GridUnit      uint16             `json:"grid_unit"`
}

// ToTaskRectangleDTO converts a reified.TaskRectangle.
func ToTaskRectangleDTO(r reified.TaskRectangle) TaskRectangleDTO {
	return TaskRectangleDTO{
		TaskID: uint8(r.TaskID),
		X0:     uint16(r.X0),
		Y0:     uint16(r.Y0),
		X1:     uint16(r.X1),
		Y1:     uint16(r.Y1),
	}
}

// ToConnectionDTO converts a reified.BezierCurve.
func ToConnectionDTO(c reified.BezierCurve) ConnectionDTO {
	return ConnectionDTO{
		From:  uint8(c.DependencyID.From),
		To:    uint8(c.DependencyID.To),
		Start: PointDTO{X: uint16(c.Joint.Start.X), Y: uint16(c.Joint.Start.Y)},
		C1:    PointDTO{X: uint16(c.Joint.C1.X), Y: uint16(c.Joint.C1.Y)},
		C2:    PointDTO{X: uint16(c.Joint.C2.X), Y: uint16(c.Joint.C2.Y)},
		End:   PointDTO{X: uint16(c.Joint.End.X), Y: uint16(c.Joint.End.Y)},
	}
}

// TaskDTO is a single roadmap task in request/response bodies.
type TaskDTO struct {
	ID        uint8    `json:"id"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary,omitempty"`
	Subtasks  []string `json:"subtasks,omitempty"`
	DependsOn []uint8  `json:"depends_on,omitempty"`
}

// ToTaskDTO converts a models.Task to a TaskDTO.
func ToTaskDTO(t models.Task) TaskDTO {
	deps := make([]uint8, 0, len(t.Dependencies))
	for id := range t.Dependencies {
		deps = append(deps, uint8(id))
	}

	subtasks := make([]string, len(t.Subtasks))
	for i, s := range t.Subtasks {
		subtasks[i] = s.Subtask.Title.Text
	}

	return TaskDTO{
		ID:        uint8(t.ID),
		Title:     t.Title.Text,
		Summary:   t.Summary.Text,
		Subtasks:  subtasks,
		DependsOn: deps,
	}
}

// TaskStatusResponse reports a single task's derived status as of a point
// in time.
type TaskStatusResponse struct {
	TaskID uint8  `json:"task_id"`
	Status string `json:"status"`
}

// DocumentResponse describes a cached roadmap source document.
type DocumentResponse struct {
	SourceKey string    `json:"source_key"`
	ETag      string    `json:"etag,omitempty"`
	TaskCount int       `json:"task_count"`
	FetchedAt time.Time `json:"fetched_at"`
	RebuiltAt time.Time `json:"rebuilt_at"`
	Tasks     []TaskDTO `json:"tasks,omitempty"`
}

// DocumentListResponse is a paginated list of cached documents.
type DocumentListResponse struct {
	Documents  []DocumentResponse `json:"documents"`
	Pagination PaginationMeta     `json:"pagination"`
}

// ToDocumentResponse converts a storage.Document to a DocumentResponse.
func ToDocumentResponse(d *storage.Document) DocumentResponse {
	return DocumentResponse{
		SourceKey: d.SourceKey,
		ETag:      d.ETag,
		TaskCount: d.TaskCount,
		FetchedAt: d.FetchedAt,
		RebuiltAt: d.RebuiltAt,
	}
}
