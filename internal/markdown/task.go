package markdown

import (
	"strconv"
	"strings"
	"time"

	"github.com/ramate-io/roadline-go/pkg/models"
)

const defaultEndDuration = 30 * 24 * time.Hour

// parseTaskHeader parses a "### T1: Task Title" header into a task id and
// title.
func parseTaskHeader(header string) (models.TaskId, models.Title, error) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "### T") {
		return 0, models.Title{}, newError(InvalidTaskID, header)
	}

	content := header[len("### "):]
	colon := strings.Index(content, ":")
	if colon < 0 {
		return 0, models.Title{}, newError(InvalidTaskTitle, header)
	}

	id, err := parseTaskIDToken(strings.TrimSpace(content[:colon]))
	if err != nil {
		return 0, models.Title{}, err
	}

	title := models.Title{Text: strings.TrimSpace(content[colon+1:])}
	return id, title, nil
}

// parseTaskIDToken parses a bare "T<n>" token into a TaskId.
func parseTaskIDToken(token string) (models.TaskId, error) {
	if !strings.HasPrefix(token, "T") {
		return 0, newError(InvalidTaskID, token)
	}
	n, err := strconv.ParseUint(token[1:], 10, 8)
	if err != nil {
		return 0, newError(InvalidTaskID, token)
	}
	return models.TaskId(n), nil
}

// taskMetadata holds the raw field values pulled from a task section before
// they are resolved into a models.Range.
type taskMetadata struct {
	starts        string
	hasStarts     bool
	ends          string
	hasEnds       bool
	dependsOn     string
	hasDependsOn  bool
}

func parseTaskMetadata(content []string) taskMetadata {
	var m taskMetadata
	for _, raw := range content {
		line := strings.TrimSpace(raw)
		field, value, ok := parseFieldLine(line)
		if !ok {
			continue
		}
		switch field {
		case "Starts":
			m.starts, m.hasStarts = value, true
		case "Ends":
			m.ends, m.hasEnds = value, true
		case "Depends-on":
			m.dependsOn, m.hasDependsOn = value, true
		}
	}
	return m
}

// parseSubtasks extracts the embedded subtask list from a task's "- **
// Contents:**" block.
func parseSubtasks(content []string) ([]models.EmbeddedSubtask, error) {
	var subtasks []models.EmbeddedSubtask
	inContents := false
	position := 0

	for _, raw := range content {
		line := strings.TrimSpace(raw)

		if line == "- **Contents:**" {
			inContents = true
			continue
		}
		if !inContents {
			continue
		}
		if strings.HasPrefix(line, "- **[") {
			subtask, err := parseSubtaskLine(line)
			if err != nil {
				return nil, err
			}
			subtasks = append(subtasks, models.EmbeddedSubtask{Position: position, Subtask: subtask})
			position++
			continue
		}
		break
	}

	return subtasks, nil
}

// parseSubtaskLine parses "- **[T1.1](#t11-title)**: Description".
func parseSubtaskLine(line string) (models.Subtask, error) {
	linkStart := strings.Index(line, "[")
	linkEnd := strings.Index(line, "]")
	if linkStart < 0 || linkEnd < 0 || linkEnd < linkStart {
		return models.Subtask{}, newError(InvalidSubtaskID, line)
	}
	linkText := line[linkStart+1 : linkEnd]
	return models.Subtask{Title: models.Title{Text: linkText}}, nil
}

// createTaskRange resolves a task's Starts/Ends metadata into a
// models.Range. "Starts" follows "T<n> + <duration>"; a bare absolute date
// or an absent field anchors the task to task 0 with a zero offset. "Ends"
// accepts a plain duration ("1 month"), the legacy "T<n> + <duration>"
// form (only the duration is kept, matching the original parser's
// backward-compatibility shim), or an absolute date (defaulted to 30 days
// until resolved by the caller).
func createTaskRange(m taskMetadata) (models.Range, error) {
	start, err := parseStart(m)
	if err != nil {
		return models.Range{}, err
	}
	end, err := parseEnd(m)
	if err != nil {
		return models.Range{}, err
	}
	return models.Range{Start: start, End: end}, nil
}

func parseStart(m taskMetadata) (models.Start, error) {
	if !m.hasStarts {
		return models.Start{Target: models.TargetDate{PointOfReference: 0, Offset: 0}}, nil
	}

	expr := strings.TrimSpace(m.starts)
	if strings.HasPrefix(expr, "T") {
		ref, duration, err := parseTaskPlusDuration(expr)
		if err != nil {
			return models.Start{}, err
		}
		return models.Start{Target: models.TargetDate{PointOfReference: ref, Offset: duration}}, nil
	}

	// Absolute start dates are accepted but, absent a resolved document
	// epoch, anchor to task 0 with a zero offset.
	if _, err := time.Parse("2006-01-02", expr); err != nil {
		return models.Start{}, newError(InvalidDateExpression, expr)
	}
	return models.Start{Target: models.TargetDate{PointOfReference: 0, Offset: 0}}, nil
}

func parseEnd(m taskMetadata) (models.End, error) {
	if !m.hasEnds {
		return models.End{Duration: defaultEndDuration}, nil
	}

	expr := strings.TrimSpace(m.ends)
	if strings.HasPrefix(expr, "T") && strings.Contains(expr, " + ") {
		_, duration, err := parseTaskPlusDuration(expr)
		if err != nil {
			return models.End{}, err
		}
		return models.End{Duration: duration}, nil
	}
	if hasAlpha(expr) && !strings.Contains(expr, "-") {
		duration, err := parseMarkdownDuration(expr)
		if err != nil {
			return models.End{}, err
		}
		return models.End{Duration: duration}, nil
	}
	if strings.Contains(expr, "-") {
		if _, err := time.Parse("2006-01-02", expr); err != nil {
			return models.End{}, newError(InvalidDateExpression, expr)
		}
		return models.End{Duration: defaultEndDuration}, nil
	}
	return models.End{}, newError(InvalidDateExpression, expr)
}

func hasAlpha(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// parseTaskPlusDuration parses "T1 + 1 month" into its reference task id
// and duration.
func parseTaskPlusDuration(expr string) (models.TaskId, time.Duration, error) {
	parts := strings.SplitN(expr, " + ", 2)
	if len(parts) != 2 {
		return 0, 0, newError(InvalidDateExpression, expr)
	}
	ref, err := parseTaskIDToken(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, newError(InvalidDateExpression, expr)
	}
	duration, err := parseMarkdownDuration(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return ref, duration, nil
}

// parseMarkdownDuration parses "<n> month(s)|week(s)|day(s)" — the
// document grammar's duration vocabulary, a subset of
// models.ParseDuration's (no bare seconds or years).
func parseMarkdownDuration(expr string) (time.Duration, error) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	fields := strings.Fields(expr)
	if len(fields) != 2 {
		return 0, newError(InvalidDurationExpression, expr)
	}
	unit := strings.TrimSuffix(fields[1], "s")
	switch unit {
	case "month", "week", "day":
		return models.ParseDuration(fields[0] + " " + unit)
	default:
		return 0, newError(InvalidDurationExpression, expr)
	}
}

// createSummary derives a task's Summary from its title and subtasks.
func createSummary(title models.Title, subtasks []models.EmbeddedSubtask) models.Summary {
	text := title.Text
	if len(subtasks) > 0 {
		text += " (" + strconv.Itoa(len(subtasks)) + " subtasks)"
	}
	return models.Summary{Text: text}
}
