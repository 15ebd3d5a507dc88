package rebuild

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/ramate-io/roadline-go/internal/dlq"
)

// NATS subjects used to distribute rebuild work across worker processes.
const (
	JobPendingSubject      = "rebuild.pending"
	JobResultsSubject      = "rebuild.results"
	WorkerHeartbeatSubject = "rebuild.workers.heartbeat"
)

// JobMessage is a single rebuild job placed on the queue by an Enqueuer.
type JobMessage struct {
	SourceKey  string    `json:"source_key"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// ResultMessage reports the outcome of one rebuild job.
type ResultMessage struct {
	SourceKey    string    `json:"source_key"`
	WorkerID     string    `json:"worker_id"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Hostname     string    `json:"hostname"`
}

// WorkerHeartbeat lets operators see which workers are alive and how busy.
type WorkerHeartbeat struct {
	WorkerID   string    `json:"worker_id"`
	Hostname   string    `json:"hostname"`
	ActiveJobs int       `json:"active_jobs"`
	Timestamp  time.Time `json:"timestamp"`
}

// Enqueuer publishes rebuild jobs onto the NATS queue that DistributedWorker
// instances consume from. A cron-driven process holds the Enqueuer side;
// one or more worker processes hold the DistributedWorker side.
type Enqueuer struct {
	js nats.JetStreamContext
}

// NewEnqueuer wraps an existing NATS connection in JetStream.
func NewEnqueuer(nc *nats.Conn) (*Enqueuer, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("rebuild: failed to create JetStream context: %w", err)
	}
	return &Enqueuer{js: js}, nil
}

// Enqueue places a rebuild job for sourceKey on the pending queue.
func (e *Enqueuer) Enqueue(sourceKey string) error {
	data, err := json.Marshal(JobMessage{SourceKey: sourceKey, EnqueuedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("rebuild: failed to marshal job: %w", err)
	}
	if _, err := e.js.Publish(JobPendingSubject, data); err != nil {
		return fmt.Errorf("rebuild: failed to publish job: %w", err)
	}
	return nil
}

// DistributedWorker pulls rebuild jobs off the shared NATS queue and runs
// each through a RebuildFunc, so fetch-and-rebuild work can be scaled out
// across multiple processes instead of running inline wherever a job is
// scheduled.
type DistributedWorker struct {
	id       string
	hostname string
	nc       *nats.Conn
	js       nats.JetStreamContext
	rebuild  RebuildFunc

	jobSub          *nats.Subscription
	activeJobs      int
	mu              sync.RWMutex
	running         bool
	wg              sync.WaitGroup
	shutdownTimeout time.Duration
	dlqManager      *dlq.Manager
}

// WithDLQ records failed jobs to manager so an operator can inspect and
// replay sources that repeatedly fail to rebuild.
func (w *DistributedWorker) WithDLQ(manager *dlq.Manager) *DistributedWorker {
	w.dlqManager = manager
	return w
}

// NewDistributedWorker connects to NATS and prepares a worker that will
// execute rebuild with whatever job it pulls off the queue.
func NewDistributedWorker(natsURL string, rebuild RebuildFunc, shutdownTimeout time.Duration) (*DistributedWorker, error) {
	hostname, _ := os.Hostname()
	id := fmt.Sprintf("%s-%s", hostname, uuid.New().String()[:8])

	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("rebuild: failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("rebuild: failed to create JetStream context: %w", err)
	}

	return &DistributedWorker{
		id:              id,
		hostname:        hostname,
		nc:              nc,
		js:              js,
		rebuild:         rebuild,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

// Start subscribes to the pending-job queue and begins sending heartbeats.
func (w *DistributedWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("rebuild: worker already running")
	}
	w.running = true

	var err error
	w.jobSub, err = w.js.QueueSubscribe(
		JobPendingSubject,
		"rebuild-workers",
		w.handleJob,
		nats.Durable("rebuild-workers"),
		nats.ManualAck(),
		nats.AckWait(5*time.Minute),
	)
	if err != nil {
		w.running = false
		return fmt.Errorf("rebuild: failed to subscribe to jobs: %w", err)
	}

	w.wg.Add(1)
	go w.sendHeartbeats(ctx)

	log.Printf("rebuild worker %s started on %s", w.id, w.hostname)
	return nil
}

// Stop unsubscribes and waits for in-flight jobs to drain, up to
// shutdownTimeout, before closing the NATS connection.
func (w *DistributedWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	if w.jobSub != nil {
		w.jobSub.Unsubscribe()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("rebuild worker stopped gracefully")
	case <-time.After(w.shutdownTimeout):
		log.Println("rebuild: worker shutdown timeout reached")
	case <-ctx.Done():
	}

	w.nc.Close()
	log.Printf("rebuild worker %s stopped", w.id)
	return nil
}

func (w *DistributedWorker) handleJob(msg *nats.Msg) {
	w.wg.Add(1)
	defer w.wg.Done()

	var job JobMessage
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		log.Printf("rebuild: failed to unmarshal job: %v", err)
		msg.Nak()
		return
	}

	w.mu.Lock()
	w.activeJobs++
	w.mu.Unlock()

	start := time.Now()
	err := w.rebuild(job.SourceKey)
	end := time.Now()

	w.mu.Lock()
	w.activeJobs--
	w.mu.Unlock()

	result := ResultMessage{
		SourceKey: job.SourceKey,
		WorkerID:  w.id,
		Success:   err == nil,
		StartTime: start,
		EndTime:   end,
		Hostname:  w.hostname,
	}
	if err != nil {
		result.ErrorMessage = err.Error()
		log.Printf("rebuild worker %s: job %s failed: %v", w.id, job.SourceKey, err)

		if w.dlqManager != nil {
			if dlqErr := w.dlqManager.AddFailedRebuild(context.Background(), job.SourceKey, 1, err); dlqErr != nil && dlqErr != dlq.ErrAlreadyExists {
				log.Printf("rebuild: failed to record dead-lettered job for %s: %v", job.SourceKey, dlqErr)
			}
		}
	}

	if pubErr := w.publishResult(result); pubErr != nil {
		log.Printf("rebuild: failed to publish result: %v", pubErr)
		msg.Nak()
		return
	}

	msg.Ack()
	log.Printf("rebuild worker %s completed job %s (success=%v)", w.id, job.SourceKey, result.Success)
}

func (w *DistributedWorker) publishResult(result ResultMessage) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("rebuild: failed to marshal result: %w", err)
	}
	_, err = w.js.Publish(JobResultsSubject, data)
	return err
}

func (w *DistributedWorker) sendHeartbeats(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.mu.RLock()
			if !w.running {
				w.mu.RUnlock()
				return
			}
			active := w.activeJobs
			w.mu.RUnlock()

			data, err := json.Marshal(WorkerHeartbeat{
				WorkerID:   w.id,
				Hostname:   w.hostname,
				ActiveJobs: active,
				Timestamp:  time.Now(),
			})
			if err != nil {
				continue
			}
			if err := w.nc.Publish(WorkerHeartbeatSubject, data); err != nil {
				log.Printf("rebuild: failed to publish heartbeat: %v", err)
			}
		}
	}
}

// GetID returns the worker's generated identity.
func (w *DistributedWorker) GetID() string {
	return w.id
}

// GetActiveJobs returns the number of jobs currently being processed.
func (w *DistributedWorker) GetActiveJobs() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeJobs
}
