// Package roadmap parses structured (YAML or JSON) roadmap definitions,
// the machine-authored counterpart to internal/markdown's human-authored
// grammar. Both packages produce the same []models.Task.
package roadmap

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/ramate-io/roadline-go/pkg/models"
)

// Parser parses roadmap definition files into tasks.
type Parser struct{}

// NewParser constructs a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// roadmapFile is the on-disk shape of a structured roadmap document.
type roadmapFile struct {
	Tasks []taskFile `json:"tasks" yaml:"tasks"`
}

// taskFile is the on-disk shape of a single task.
type taskFile struct {
	ID        int        `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	StartsAt  *startFile `json:"starts_at,omitempty" yaml:"starts_at,omitempty"`
	EndsIn    string     `json:"ends_in" yaml:"ends_in"`
	DependsOn []int      `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Subtasks  []string   `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
}

// startFile is a relative start anchor: an offset past another task's
// end (or past the root date, for a root task).
type startFile struct {
	AfterTask int    `json:"after_task" yaml:"after_task"`
	Offset    string `json:"offset" yaml:"offset"`
}

// ParseYAMLFile reads and parses a roadmap definition file in YAML form.
func (p *Parser) ParseYAMLFile(path string) ([]models.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roadmap: read file: %w", err)
	}
	return p.ParseYAML(data)
}

// ParseYAML parses a roadmap definition from YAML bytes.
func (p *Parser) ParseYAML(data []byte) ([]models.Task, error) {
	var rf roadmapFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("roadmap: unmarshal YAML: %w", err)
	}
	return p.convertTasks(rf.Tasks)
}

// ParseJSONFile reads and parses a roadmap definition file in JSON form.
func (p *Parser) ParseJSONFile(path string) ([]models.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roadmap: read file: %w", err)
	}
	return p.ParseJSON(data)
}

// ParseJSON parses a roadmap definition from JSON bytes.
func (p *Parser) ParseJSON(data []byte) ([]models.Task, error) {
	var rf roadmapFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("roadmap: unmarshal JSON: %w", err)
	}
	return p.convertTasks(rf.Tasks)
}

func (p *Parser) convertTasks(files []taskFile) ([]models.Task, error) {
	tasks := make([]models.Task, 0, len(files))
	for _, tf := range files {
		task, err := p.convertTask(&tf)
		if err != nil {
			return nil, fmt.Errorf("roadmap: task %d: %w", tf.ID, err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

func (p *Parser) convertTask(tf *taskFile) (*models.Task, error) {
	if tf.ID < 0 || tf.ID > 255 {
		return nil, fmt.Errorf("task id %d out of range [0,255]", tf.ID)
	}
	id := models.TaskId(tf.ID)

	start, err := convertStart(id, tf.StartsAt)
	if err != nil {
		return nil, err
	}

	endDuration, err := parseDurationField(tf.EndsIn, "ends_in")
	if err != nil {
		return nil, err
	}

	deps := make(map[models.TaskId]struct{}, len(tf.DependsOn))
	for _, d := range tf.DependsOn {
		if d < 0 || d > 255 {
			return nil, fmt.Errorf("depends_on id %d out of range [0,255]", d)
		}
		deps[models.TaskId(d)] = struct{}{}
	}

	subtasks := make([]models.EmbeddedSubtask, 0, len(tf.Subtasks))
	for i, title := range tf.Subtasks {
		subtasks = append(subtasks, models.EmbeddedSubtask{
			Position: i,
			Subtask:  models.Subtask{Title: models.Title{Text: title}},
		})
	}

	title := models.Title{Text: tf.Title}
	summary := deriveSummary(title, subtasks)

	task := models.NewTask(id, title, deps, subtasks, summary, models.Range{
		Start: start,
		End:   models.End{Duration: endDuration},
	})
	return &task, nil
}

func convertStart(id models.TaskId, sf *startFile) (models.Start, error) {
	if sf == nil {
		return models.Start{Target: models.TargetDate{PointOfReference: id, Offset: 0}}, nil
	}
	if sf.AfterTask < 0 || sf.AfterTask > 255 {
		return models.Start{}, fmt.Errorf("starts_at.after_task %d out of range [0,255]", sf.AfterTask)
	}
	offset, err := parseDurationField(sf.Offset, "starts_at.offset")
	if err != nil {
		return models.Start{}, err
	}
	return models.Start{Target: models.TargetDate{
		PointOfReference: models.TaskId(sf.AfterTask),
		Offset:           offset,
	}}, nil
}

func parseDurationField(value, field string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := models.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", field, err)
	}
	return d, nil
}

func deriveSummary(title models.Title, subtasks []models.EmbeddedSubtask) models.Summary {
	if len(subtasks) == 0 {
		return models.Summary{Text: title.Text}
	}
	return models.Summary{Text: fmt.Sprintf("%s (%d subtasks)", title.Text, len(subtasks))}
}
