package status

import (
	"testing"
	"time"

	"github.com/ramate-io/roadline-go/internal/roadline/rangealgebra"
)

func TestOfClassifiesByTime(t *testing.T) {
	span := rangealgebra.Span{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		name string
		asOf time.Time
		want Status
	}{
		{"before", span.Start.Add(-time.Hour), NotStarted},
		{"during", span.Start.Add(time.Hour), InProgress},
		{"after", span.End.Add(time.Hour), Completed},
	}
	for _, c := range cases {
		if got := Of(span, c.asOf, time.Time{}); got != c.want {
			t.Errorf("%s: Of() = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestOfReportsMissedWhenDependentStartedBeforeCompletion(t *testing.T) {
	span := rangealgebra.Span{
		Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	dependentStart := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	got := Of(span, span.End.Add(time.Hour), dependentStart)
	if got != Missed {
		t.Fatalf("expected Missed, got %s", got)
	}
}
