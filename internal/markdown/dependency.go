package markdown

import (
	"strings"

	"github.com/ramate-io/roadline-go/pkg/models"
)

const emptyDependencySet = `$\emptyset$`

// parseDependencyValue parses a "Depends-on" field value: either the
// empty-set marker or a comma-separated list of "[T1](#t1-title)"
// references.
func parseDependencyValue(value string) ([]models.TaskId, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == emptyDependencySet {
		return nil, nil
	}

	var ids []models.TaskId
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := parseDependencyReference(token)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseDependencyReference parses a single "[T1](#t1-title)" reference.
func parseDependencyReference(token string) (models.TaskId, error) {
	open := strings.Index(token, "[")
	shut := strings.Index(token, "]")
	if open < 0 || shut < 0 || shut < open {
		return 0, newError(InvalidDependencyReference, token)
	}
	id, err := parseTaskIDToken(strings.TrimSpace(token[open+1 : shut]))
	if err != nil {
		return 0, newError(InvalidDependencyReference, token)
	}
	return id, nil
}

// isDependencyLine reports whether a line is a "Depends-on" metadata line.
func isDependencyLine(line string) bool {
	field, _, ok := parseFieldLine(strings.TrimSpace(line))
	return ok && field == "Depends-on"
}
