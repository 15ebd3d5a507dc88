package markdown

import "strings"

// TaskSection is a single "### T<n>: Title" block and the raw lines that
// follow it, up to the next task header or the end of the document.
type TaskSection struct {
	Header     string
	Content    []string
	LineNumber int
}

// extractTaskSections splits a document into one TaskSection per task
// header.
func extractTaskSections(content string) ([]TaskSection, error) {
	var sections []TaskSection
	var current *TaskSection

	for lineNum, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "### T") && strings.Contains(line, ":") {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &TaskSection{Header: line, LineNumber: lineNum + 1}
			continue
		}
		if current != nil {
			current.Content = append(current.Content, line)
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}

	if len(sections) == 0 {
		return nil, newError(NoTasksFound, "")
	}
	return sections, nil
}

// parseFieldLine parses a "- **Field:** Value" metadata line.
func parseFieldLine(line string) (field, value string, ok bool) {
	if !strings.HasPrefix(line, "- **") || !strings.Contains(line, ":**") {
		return "", "", false
	}
	rest := line[4:]
	end := strings.Index(rest, ":**")
	if end < 0 {
		return "", "", false
	}
	field = rest[:end]
	valueStart := end + len(":**")
	if valueStart < len(rest) {
		value = strings.TrimSpace(rest[valueStart:])
	}
	return field, value, true
}
