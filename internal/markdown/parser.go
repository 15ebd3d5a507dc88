package markdown

import (
	"fmt"

	"github.com/ramate-io/roadline-go/pkg/models"
)

// Parser turns a roadmap markdown document into a set of tasks. Tasks are
// parsed in two passes: first every task's id, title, range, and subtasks
// are resolved independently, then each task's "Depends-on" references are
// checked against the now-complete set of known ids.
type Parser struct{}

// NewParser constructs a Parser. It holds no state; it exists as a type so
// callers read "markdown.NewParser().ParseTasks(doc)" rather than a bare
// package function.
func NewParser() *Parser {
	return &Parser{}
}

type parsedTask struct {
	id        models.TaskId
	title     models.Title
	subtasks  []models.EmbeddedSubtask
	rng       models.Range
	dependsOn []models.TaskId
}

// ParseTasks parses a full roadmap document into tasks.
func (p *Parser) ParseTasks(content string) ([]models.Task, error) {
	sections, err := extractTaskSections(content)
	if err != nil {
		return nil, err
	}

	parsed := make([]parsedTask, 0, len(sections))
	known := make(map[models.TaskId]struct{}, len(sections))

	for _, section := range sections {
		pt, err := parseTaskSection(section)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, pt)
		known[pt.id] = struct{}{}
	}

	tasks := make([]models.Task, 0, len(parsed))
	for _, pt := range parsed {
		deps := make(map[models.TaskId]struct{}, len(pt.dependsOn))
		for _, dep := range pt.dependsOn {
			if _, ok := known[dep]; !ok {
				return nil, newError(InvalidDependencyReference, fmt.Sprintf("T%d", dep))
			}
			deps[dep] = struct{}{}
		}

		summary := createSummary(pt.title, pt.subtasks)
		tasks = append(tasks, models.NewTask(pt.id, pt.title, deps, pt.subtasks, summary, pt.rng))
	}

	return tasks, nil
}

func parseTaskSection(section TaskSection) (parsedTask, error) {
	id, title, err := parseTaskHeader(section.Header)
	if err != nil {
		return parsedTask{}, err
	}

	metadata := parseTaskMetadata(section.Content)

	rng, err := createTaskRange(metadata)
	if err != nil {
		return parsedTask{}, err
	}

	subtasks, err := parseSubtasks(section.Content)
	if err != nil {
		return parsedTask{}, err
	}

	var dependsOn []models.TaskId
	if metadata.hasDependsOn {
		dependsOn, err = parseDependencyValue(metadata.dependsOn)
		if err != nil {
			return parsedTask{}, err
		}
	}

	return parsedTask{
		id:        id,
		title:     title,
		subtasks:  subtasks,
		rng:       rng,
		dependsOn: dependsOn,
	}, nil
}
