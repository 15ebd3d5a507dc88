package rangealgebra

import (
	"testing"
	"time"

	"github.com/ramate-io/roadline-go/internal/roadline/graph"
	"github.com/ramate-io/roadline-go/pkg/models"
)

func mustParse(t *testing.T, expr string) time.Duration {
	t.Helper()
	d, err := models.ParseDuration(expr)
	if err != nil {
		t.Fatalf("ParseDuration(%q): %v", expr, err)
	}
	return d
}

func rootTask(t *testing.T, id models.TaskId, offset string, duration string) models.Task {
	return models.NewTask(
		id,
		models.Title{Text: "root"},
		nil,
		nil,
		models.Summary{},
		models.Range{
			Start: models.Start{Target: models.TargetDate{PointOfReference: id, Offset: mustParse(t, offset)}},
			End:   models.End{Duration: mustParse(t, duration)},
		},
	)
}

func dependentTask(t *testing.T, id models.TaskId, reference models.TaskId, offset string, duration string, deps ...models.TaskId) models.Task {
	depSet := make(map[models.TaskId]struct{}, len(deps))
	for _, d := range deps {
		depSet[d] = struct{}{}
	}
	return models.NewTask(
		id,
		models.Title{Text: "dependent"},
		depSet,
		nil,
		models.Summary{},
		models.Range{
			Start: models.Start{Target: models.TargetDate{PointOfReference: reference, Offset: mustParse(t, offset)}},
			End:   models.End{Duration: mustParse(t, duration)},
		},
	)
}

func TestComputeEmptyGraph(t *testing.T) {
	g := graph.New()
	ra, err := New(g).Compute(time.Now())
	if err != nil {
		t.Fatalf("expected empty graph to compute without error, got %v", err)
	}
	if ra.TaskCount() != 0 {
		t.Fatalf("expected no spans, got %d", ra.TaskCount())
	}
}

func TestSimpleValidGraph(t *testing.T) {
	g := graph.New()
	g.AddTask(rootTask(t, 1, "0 seconds", "1 day"))
	g.AddTask(dependentTask(t, 2, 1, "0 seconds", "1 day", 1))

	root := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ra, err := New(g).Compute(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	span1, ok := ra.Span(1)
	if !ok {
		t.Fatal("expected a span for task 1")
	}
	if !span1.Start.Equal(root) {
		t.Fatalf("expected task 1 to start at root date, got %v", span1.Start)
	}

	span2, ok := ra.Span(2)
	if !ok {
		t.Fatal("expected a span for task 2")
	}
	if !span2.Start.Equal(span1.End) {
		t.Fatalf("expected task 2 to start when task 1 ends (%v), got %v", span1.End, span2.Start)
	}
}

func TestComplexValidGraph(t *testing.T) {
	g := graph.New()
	g.AddTask(rootTask(t, 1, "0 seconds", "1 day"))
	g.AddTask(dependentTask(t, 2, 1, "0 seconds", "1 day", 1))
	g.AddTask(dependentTask(t, 3, 1, "0 seconds", "1 day", 1))
	g.AddTask(dependentTask(t, 4, 2, "0 seconds", "1 day", 2, 3))

	root := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ra, err := New(g).Compute(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ra.TaskCount() != 4 {
		t.Fatalf("expected 4 spans, got %d", ra.TaskCount())
	}

	span2, _ := ra.Span(2)
	span3, _ := ra.Span(3)
	span4, _ := ra.Span(4)
	if span4.Start.Before(span2.End) || span4.Start.Before(span3.End) {
		t.Fatalf("expected task 4 to start after both its dependencies end: span2=%v span3=%v span4=%v", span2, span3, span4)
	}
}

func TestSimpleInvalidGraphTooEarlyForDependency(t *testing.T) {
	g := graph.New()
	g.AddTask(rootTask(t, 1, "0 seconds", "1 day"))
	g.AddTask(dependentTask(t, 2, 1, "0 seconds", "1 day", 1))
	// Task 3 starts alongside task 1 (not after task 2 ends) yet declares a
	// dependency on task 2 — must fail.
	g.AddTask(dependentTask(t, 3, 1, "0 seconds", "1 day", 2))

	_, err := New(g).Compute(time.Now())
	if err == nil {
		t.Fatal("expected an error")
	}

	outer, ok := err.(*Error)
	if !ok || outer.Kind != Multiple {
		t.Fatalf("expected an outer Multiple error, got %#v", err)
	}
	if len(outer.Errors) != 1 {
		t.Fatalf("expected exactly one per-task error block, got %d", len(outer.Errors))
	}

	inner, ok := outer.Errors[0].(*Error)
	if !ok || inner.Kind != Multiple {
		t.Fatalf("expected the per-task block to itself be a Multiple, got %#v", outer.Errors[0])
	}
	if len(inner.Errors) != 1 {
		t.Fatalf("expected one dependency violation, got %d", len(inner.Errors))
	}

	violation, ok := inner.Errors[0].(*Error)
	if !ok || violation.Kind != TooEarlyForDependency {
		t.Fatalf("expected TooEarlyForDependency, got %#v", inner.Errors[0])
	}
	if violation.TaskID != 3 || violation.DependencyID != 2 {
		t.Fatalf("expected task_id=3 dependency_id=2, got task_id=%d dependency_id=%d", violation.TaskID, violation.DependencyID)
	}
}

func TestSelfLoopGraphHasCycles(t *testing.T) {
	g := graph.New()
	g.AddTask(dependentTask(t, 1, 1, "0 seconds", "1 day", 1))

	_, err := New(g).Compute(time.Now())
	if err == nil {
		t.Fatal("expected an error")
	}
	e, ok := err.(*Error)
	if !ok || e.Kind != GraphHasCycles {
		t.Fatalf("expected GraphHasCycles, got %#v", err)
	}
}

func TestOnlyRootTasksCanSelfReference(t *testing.T) {
	g := graph.New()
	g.AddTask(rootTask(t, 1, "0 seconds", "1 day"))
	// Task 2 declares a dependency (so it is not a root) but points its
	// start anchor at itself.
	g.AddTask(dependentTask(t, 2, 2, "0 seconds", "1 day", 1))

	_, err := New(g).Compute(time.Now())
	if err == nil {
		t.Fatal("expected an error")
	}
	outer := err.(*Error)
	if outer.Kind != Multiple || len(outer.Errors) != 1 {
		t.Fatalf("expected a single-entry Multiple, got %#v", err)
	}
	inner := outer.Errors[0].(*Error)
	if inner.Kind != OnlyRootTasksCanSelfReference {
		t.Fatalf("expected OnlyRootTasksCanSelfReference, got %#v", inner)
	}
}

func TestNoRootTasks(t *testing.T) {
	g := graph.New()
	// Every task declares a dependency, so no task qualifies as a root. The
	// dependencies (1 on 3, 2 on 1, 3 on 2) also form a cycle, and Compute
	// checks for cycles first, so either error is accepted.
	g.AddTask(dependentTask(t, 1, 2, "0 seconds", "1 day", 3))
	g.AddTask(dependentTask(t, 2, 1, "0 seconds", "1 day", 1))
	g.AddTask(dependentTask(t, 3, 2, "0 seconds", "1 day", 2))

	_, err := New(g).Compute(time.Now())
	if err == nil {
		t.Fatal("expected an error")
	}
	if e, ok := err.(*Error); !ok || (e.Kind != NoRootTasks && e.Kind != GraphHasCycles) {
		t.Fatalf("expected NoRootTasks or GraphHasCycles, got %#v", err)
	}
}

func TestMultipleDependencyErrorsAreAllCollected(t *testing.T) {
	g := graph.New()
	g.AddTask(rootTask(t, 1, "0 seconds", "1 day"))
	g.AddTask(dependentTask(t, 2, 1, "0 seconds", "1 day", 1))
	g.AddTask(dependentTask(t, 3, 1, "0 seconds", "1 day", 1))
	// Task 4 depends on both 2 and 3 but starts alongside task 1.
	g.AddTask(dependentTask(t, 4, 1, "0 seconds", "1 day", 2, 3))

	_, err := New(g).Compute(time.Now())
	if err == nil {
		t.Fatal("expected an error")
	}
	outer := err.(*Error)
	if outer.Kind != Multiple || len(outer.Errors) != 1 {
		t.Fatalf("expected a single per-task error block, got %#v", err)
	}
	inner := outer.Errors[0].(*Error)
	if inner.Kind != Multiple || len(inner.Errors) != 2 {
		t.Fatalf("expected 2 dependency violations for task 4, got %#v", inner)
	}
}

func TestInvalidReferenceToUnknownTask(t *testing.T) {
	g := graph.New()
	g.AddTask(rootTask(t, 1, "0 seconds", "1 day"))
	// Task 2 declares a dependency on 1 (so it is non-root) but anchors its
	// start to a task id that does not exist in the graph.
	g.AddTask(dependentTask(t, 2, 99, "0 seconds", "1 day", 1))

	_, err := New(g).Compute(time.Now())
	if err == nil {
		t.Fatal("expected an error")
	}
	outer := err.(*Error)
	if outer.Kind != Multiple || len(outer.Errors) != 1 {
		t.Fatalf("expected a single per-task error block, got %#v", err)
	}
	inner := outer.Errors[0].(*Error)
	if inner.Kind != InvalidReference {
		t.Fatalf("expected InvalidReference, got %#v", inner)
	}
}
