package notify

import (
	"errors"
	"testing"
)

type mockPublisher struct {
	events *[]Event
	fail   bool
}

func (m *mockPublisher) Publish(event Event) error {
	if m.fail {
		return errors.New("mock publisher failure")
	}
	*m.events = append(*m.events, event)
	return nil
}

func TestNoOpPublisherNeverErrors(t *testing.T) {
	if err := (NoOpPublisher{}).Publish(Event{SourceURL: "x"}); err != nil {
		t.Errorf("NoOpPublisher.Publish() error = %v, want nil", err)
	}
}

func TestMultiPublisherFansOutToAllTargets(t *testing.T) {
	var a, b []Event
	multi := NewMultiPublisher(&mockPublisher{events: &a}, &mockPublisher{events: &b})

	event := Event{SourceURL: "owner/repo/path.md", TaskCount: 3, RebuiltAt: "2026-07-30T00:00:00Z"}
	if err := multi.Publish(event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(a) != 1 || a[0] != event {
		t.Errorf("publisher a received %+v, want [%+v]", a, event)
	}
	if len(b) != 1 || b[0] != event {
		t.Errorf("publisher b received %+v, want [%+v]", b, event)
	}
}

func TestMultiPublisherContinuesPastAFailingTarget(t *testing.T) {
	var ok []Event
	multi := NewMultiPublisher(&mockPublisher{fail: true}, &mockPublisher{events: &ok})

	event := Event{SourceURL: "owner/repo/path.md"}
	if err := multi.Publish(event); err != nil {
		t.Fatalf("Publish() error = %v, want nil (per-publisher failures are swallowed)", err)
	}
	if len(ok) != 1 {
		t.Errorf("surviving publisher received %d events, want 1", len(ok))
	}
}
