package notify

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// RebuildSubject is the NATS subject rebuild events are published on.
const RebuildSubject = "roadline.rebuilt"

// NatsPublisher publishes rebuild events to a NATS subject.
type NatsPublisher struct {
	conn *nats.Conn
}

// NewNatsPublisher constructs a NatsPublisher.
func NewNatsPublisher(conn *nats.Conn) *NatsPublisher {
	return &NatsPublisher{conn: conn}
}

// Publish publishes event to RebuildSubject.
func (p *NatsPublisher) Publish(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify: marshal event: %w", err)
	}
	if err := p.conn.Publish(RebuildSubject, data); err != nil {
		return fmt.Errorf("notify: publish to nats: %w", err)
	}
	return nil
}

// Subscribe invokes handler for every rebuild event received on
// RebuildSubject until unsubscribed.
func (p *NatsPublisher) Subscribe(handler func(Event) error) (*nats.Subscription, error) {
	return p.conn.Subscribe(RebuildSubject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return
		}
		_ = handler(event)
	})
}
