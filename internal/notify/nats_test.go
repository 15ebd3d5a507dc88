package notify

import (
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

func newTestNatsConn(t *testing.T) *nats.Conn {
	t.Helper()

	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}

	conn, err := nats.Connect(url, nats.Timeout(2*time.Second))
	if err != nil {
		t.Skipf("nats not reachable at %s: %v. Set NATS_URL to run this test", url, err)
	}
	return conn
}

func TestNatsPublisherPublishAndSubscribe(t *testing.T) {
	conn := newTestNatsConn(t)
	defer conn.Close()

	publisher := NewNatsPublisher(conn)
	received := make(chan Event, 1)

	sub, err := publisher.Subscribe(func(e Event) error {
		received <- e
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer sub.Unsubscribe()

	event := Event{SourceURL: "owner/repo/path.md", TaskCount: 5, RebuiltAt: "2026-07-30T00:00:00Z"}
	if err := publisher.Publish(event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-received:
		if got != event {
			t.Errorf("received %+v, want %+v", got, event)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}
