// Package notify fans a roadmap rebuild event out to whichever transports
// are configured — Redis pub/sub for same-cluster cache invalidation, NATS
// for broader service-to-service fan-out.
package notify

// Event is published whenever a roadmap document is re-fetched and
// successfully rebuilt into a Roadline.
type Event struct {
	SourceURL string `json:"source_url"`
	TaskCount int    `json:"task_count"`
	RebuiltAt string `json:"rebuilt_at"` // RFC3339; a string so the event stays plain-JSON-serializable across transports
}

// Publisher publishes rebuild events to some transport.
type Publisher interface {
	Publish(event Event) error
}

// NoOpPublisher discards every event. Useful as a default Publisher so
// callers never need a nil check.
type NoOpPublisher struct{}

// Publish does nothing.
func (NoOpPublisher) Publish(Event) error { return nil }

// MultiPublisher publishes to every wrapped Publisher, continuing past
// the failure of any one so a single dead transport doesn't block the
// others.
type MultiPublisher struct {
	publishers []Publisher
}

// NewMultiPublisher constructs a MultiPublisher fanning out to publishers.
func NewMultiPublisher(publishers ...Publisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

// Publish sends event to every wrapped publisher.
func (p *MultiPublisher) Publish(event Event) error {
	for _, publisher := range p.publishers {
		if err := publisher.Publish(event); err != nil {
			continue
		}
	}
	return nil
}
