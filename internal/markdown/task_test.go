package markdown

import (
	"testing"
	"time"

	"github.com/ramate-io/roadline-go/pkg/models"
)

func TestParseTaskHeader(t *testing.T) {
	id, title, err := parseTaskHeader("### T3: Build the thing")
	if err != nil {
		t.Fatalf("parseTaskHeader() error = %v", err)
	}
	if id != 3 {
		t.Errorf("id = %d, want 3", id)
	}
	if title.Text != "Build the thing" {
		t.Errorf("title = %q", title.Text)
	}
}

func TestParseTaskHeaderRejectsMissingColon(t *testing.T) {
	_, _, err := parseTaskHeader("### T3 Build the thing")
	if err == nil {
		t.Fatal("expected error for header without a colon")
	}
}

func TestParseMarkdownDuration(t *testing.T) {
	cases := []struct {
		expr string
		want time.Duration
	}{
		{"1 day", 24 * time.Hour},
		{"2 days", 48 * time.Hour},
		{"1 week", 7 * 24 * time.Hour},
		{"3 months", 90 * 24 * time.Hour},
	}
	for _, c := range cases {
		got, err := parseMarkdownDuration(c.expr)
		if err != nil {
			t.Errorf("parseMarkdownDuration(%q) error = %v", c.expr, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseMarkdownDuration(%q) = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestParseMarkdownDurationRejectsUnknownUnit(t *testing.T) {
	if _, err := parseMarkdownDuration("1 fortnight"); err == nil {
		t.Fatal("expected error for unsupported duration unit")
	}
}

func TestCreateTaskRangeDefaultsWhenFieldsAbsent(t *testing.T) {
	rng, err := createTaskRange(taskMetadata{})
	if err != nil {
		t.Fatalf("createTaskRange() error = %v", err)
	}
	if rng.Start.Target.PointOfReference != 0 || rng.Start.Target.Offset != 0 {
		t.Errorf("start = %+v, want zero offset from task 0", rng.Start)
	}
	if rng.End.Duration != defaultEndDuration {
		t.Errorf("end duration = %v, want %v", rng.End.Duration, defaultEndDuration)
	}
}

func TestCreateTaskRangeFromRelativeStartAndDuration(t *testing.T) {
	rng, err := createTaskRange(taskMetadata{
		starts: "T1 + 2 weeks", hasStarts: true,
		ends: "1 month", hasEnds: true,
	})
	if err != nil {
		t.Fatalf("createTaskRange() error = %v", err)
	}
	if rng.Start.Target.PointOfReference != 1 {
		t.Errorf("point of reference = %d, want 1", rng.Start.Target.PointOfReference)
	}
	if rng.Start.Target.Offset != 14*24*time.Hour {
		t.Errorf("offset = %v, want 14 days", rng.Start.Target.Offset)
	}
	if rng.End.Duration != 30*24*time.Hour {
		t.Errorf("end duration = %v, want 30 days", rng.End.Duration)
	}
}

func TestParseSubtasksExtractsContentsBlock(t *testing.T) {
	content := []string{
		"- **Starts:** T1 + 0 days",
		"- **Contents:**",
		"    - **[T1.1](#t11-design)**: Design the schema",
		"    - **[T1.2](#t12-implement)**: Implement it",
		"- **Ends:** 1 week",
	}
	subtasks, err := parseSubtasks(content)
	if err != nil {
		t.Fatalf("parseSubtasks() error = %v", err)
	}
	if len(subtasks) != 2 {
		t.Fatalf("len(subtasks) = %d, want 2", len(subtasks))
	}
	if subtasks[0].Subtask.Title.Text != "T1.1" || subtasks[0].Position != 0 {
		t.Errorf("subtasks[0] = %+v", subtasks[0])
	}
	if subtasks[1].Subtask.Title.Text != "T1.2" || subtasks[1].Position != 1 {
		t.Errorf("subtasks[1] = %+v", subtasks[1])
	}
}

func TestCreateSummaryAppendsSubtaskCount(t *testing.T) {
	title := models.Title{Text: "Ship it"}
	summary := createSummary(title, []models.EmbeddedSubtask{{}, {}})
	if summary.Text != "Ship it (2 subtasks)" {
		t.Errorf("summary = %q", summary.Text)
	}

	bare := createSummary(title, nil)
	if bare.Text != "Ship it" {
		t.Errorf("summary (no subtasks) = %q", bare.Text)
	}
}
