package roadline

import (
	"fmt"
	"time"

	"github.com/ramate-io/roadline-go/internal/roadline/graph"
	"github.com/ramate-io/roadline-go/internal/roadline/gridalgebra"
	"github.com/ramate-io/roadline-go/internal/roadline/rangealgebra"
	"github.com/ramate-io/roadline-go/internal/roadline/reified"
	"github.com/ramate-io/roadline-go/pkg/models"
)

// BuilderError wraps any error raised while adding a task or while running
// the RangeAlgebra/GridAlgebra/Reified pipeline, so callers have a single
// error type to match on regardless of which stage failed.
type BuilderError struct {
	Message string
	Cause   error
}

func (e *BuilderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("roadline: %s: %s", e.Message, e.Cause)
	}
	return fmt.Sprintf("roadline: %s", e.Message)
}

func (e *BuilderError) Unwrap() error {
	return e.Cause
}

func newBuilderError(message string, cause error) *BuilderError {
	return &BuilderError{Message: message, Cause: cause}
}

// Builder is a consuming, fluent constructor for a Roadline: tasks are
// added and configuration set, then Build runs the full pipeline once.
type Builder struct {
	graph    *graph.Graph
	rootDate time.Time
	padding  reified.ReifiedUnit
	trim     reified.Trim
}

// NewBuilder creates an empty Builder, defaulting padding and trim to the
// pipeline's standard values and root date to the start of the Unix epoch,
// so a Build with no WithRootDate call is reproducible across runs.
func NewBuilder() *Builder {
	return &Builder{
		graph:    graph.New(),
		rootDate: time.Unix(0, 0).UTC(),
		padding:  reified.DefaultPadding,
		trim:     reified.DefaultTrim,
	}
}

// AddTask adds a single task to the builder's graph. It fails if a task
// with the same id has already been added.
func (b *Builder) AddTask(task models.Task) error {
	if b.graph.ContainsTask(task.ID) {
		return newBuilderError(fmt.Sprintf("task %d already added", task.ID), nil)
	}
	b.graph.AddTask(task)
	return nil
}

// AddTasks adds every task in tasks, stopping at the first failure.
func (b *Builder) AddTasks(tasks []models.Task) error {
	for _, t := range tasks {
		if err := b.AddTask(t); err != nil {
			return err
		}
	}
	return nil
}

// WithRootDate sets the date root tasks' offsets are measured from.
func (b *Builder) WithRootDate(rootDate time.Time) *Builder {
	b.rootDate = rootDate
	return b
}

// WithPadding sets the inter-lane gap applied during reification.
func (b *Builder) WithPadding(padding reified.ReifiedUnit) *Builder {
	b.padding = padding
	return b
}

// WithTrim sets the stretch-tail trim applied during reification.
func (b *Builder) WithTrim(trim reified.Trim) *Builder {
	b.trim = trim
	return b
}

// Build consumes the builder and runs RangeAlgebra → GridAlgebra → Reified,
// wrapping any pipeline error as a *BuilderError carrying the stage's
// message.
func (b *Builder) Build() (*Roadline, error) {
	ra, err := rangealgebra.New(b.graph).Compute(b.rootDate)
	if err != nil {
		return nil, newBuilderError("range algebra computation failed", err)
	}

	ga, err := gridalgebra.New(ra).Compute()
	if err != nil {
		return nil, newBuilderError("grid algebra computation failed", err)
	}

	rf, err := reified.New(ga, b.padding, b.trim).Compute()
	if err != nil {
		return nil, newBuilderError("reification failed", err)
	}

	return &Roadline{reified: rf}, nil
}

// MustBuild builds the Roadline and panics if there's an error. Intended
// for tests and fixtures, not production call sites.
func (b *Builder) MustBuild() *Roadline {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}
