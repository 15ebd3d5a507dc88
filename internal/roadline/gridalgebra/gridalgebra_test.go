package gridalgebra

import (
	"testing"
	"time"

	"github.com/ramate-io/roadline-go/internal/roadline/graph"
	"github.com/ramate-io/roadline-go/internal/roadline/rangealgebra"
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

func root(t *testing.T, id models.TaskId, offset, duration string) models.Task {
	return models.NewTask(id, models.Title{}, nil, nil, models.Summary{}, models.Range{
		Start: models.Start{Target: models.TargetDate{PointOfReference: id, Offset: mustParse(t, offset)}},
		End:   models.End{Duration: mustParse(t, duration)},
	})
}

func TestCanonicalFromAverageSeconds(t *testing.T) {
	cases := []struct {
		avg  int64
		want StretchUnit
	}{
		{avg: 0, want: Day},
		{avg: Day.Seconds(), want: Day},
		{avg: Week.Seconds(), want: Day},
		{avg: Month.Seconds(), want: BiWeek},
		{avg: Year.Seconds(), want: BiQuarter},
	}
	for _, c := range cases {
		got := CanonicalFromAverageSeconds(c.avg)
		if got != c.want {
			t.Errorf("CanonicalFromAverageSeconds(%d) = %s, want %s", c.avg, got, c.want)
		}
	}
}

func TestComputeEmptyGridAlgebra(t *testing.T) {
	g := graph.New()
	ra, err := rangealgebra.New(g).Compute(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ga, err := New(ra).Compute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ga.Cells()) != 0 {
		t.Fatalf("expected no cells, got %d", len(ga.Cells()))
	}
}

func TestOverlappingRootsGetDistinctLanes(t *testing.T) {
	g := graph.New()
	for i := models.TaskId(1); i <= 5; i++ {
		g.AddTask(root(t, i, "0 seconds", "1 day"))
	}

	rootDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ra, err := rangealgebra.New(g).Compute(rootDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ga, err := New(ra).Compute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lanes := make(map[LaneId]bool)
	for _, c := range ga.Cells() {
		lanes[c.Lane] = true
	}
	if len(lanes) != 5 {
		t.Fatalf("expected 5 distinct lanes for 5 overlapping tasks, got %d", len(lanes))
	}
}

func TestSequentialTasksShareALane(t *testing.T) {
	g := graph.New()
	g.AddTask(root(t, 1, "0 seconds", "1 day"))
	deps := map[models.TaskId]struct{}{1: {}}
	task2 := models.NewTask(2, models.Title{}, deps, nil, models.Summary{}, models.Range{
		Start: models.Start{Target: models.TargetDate{PointOfReference: 1, Offset: mustParse(t, "0 seconds")}},
		End:   models.End{Duration: mustParse(t, "1 day")},
	})
	g.AddTask(task2)

	rootDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ra, err := rangealgebra.New(g).Compute(rootDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ga, err := New(ra).Compute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c1, _ := ga.Cell(1)
	c2, _ := ga.Cell(2)
	if c1.Lane != c2.Lane {
		t.Fatalf("expected sequential non-overlapping tasks to share a lane, got %d and %d", c1.Lane, c2.Lane)
	}
	if c1.Stretch.Range.Overlaps(c2.Stretch.Range) {
		t.Fatalf("expected non-overlapping column ranges, got %v and %v", c1.Stretch.Range, c2.Stretch.Range)
	}
}
