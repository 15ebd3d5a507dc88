package githubsource

import "github.com/ramate-io/roadline-go/pkg/models"

// MetadataCollector records, for each parsed task, the GitHub anchor
// fragment its header line resolves to — so a rendered task card can link
// straight back to its source section.
type MetadataCollector struct {
	fragments map[models.TaskId]string
}

// NewMetadataCollector constructs an empty MetadataCollector.
func NewMetadataCollector() *MetadataCollector {
	return &MetadataCollector{fragments: make(map[models.TaskId]string)}
}

// RecordTask sanitizes headerLine into a fragment and associates it with
// taskID.
func (c *MetadataCollector) RecordTask(taskID models.TaskId, headerLine string) error {
	fragment, err := SanitizeHeaderToFragment(headerLine)
	if err != nil {
		return err
	}
	c.fragments[taskID] = fragment
	return nil
}

// Fragment returns the fragment recorded for taskID, if any.
func (c *MetadataCollector) Fragment(taskID models.TaskId) (string, bool) {
	f, ok := c.fragments[taskID]
	return f, ok
}

// Fragments returns a copy of every recorded task-to-fragment mapping.
func (c *MetadataCollector) Fragments() map[models.TaskId]string {
	out := make(map[models.TaskId]string, len(c.fragments))
	for id, fragment := range c.fragments {
		out[id] = fragment
	}
	return out
}
