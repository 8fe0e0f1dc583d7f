package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"l2lsales/internal/infra"
	"l2lsales/internal/middleware"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAudit = "jobs:audit"

	JobTypeAudit = "audit"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues jobs into Redis lists through a circuit breaker.
// The worker pool dequeues them via BRPOP. A nil *Dispatcher drops every
// event, which is how the service runs without redis.
type Dispatcher struct {
	rdb *redis.Client
	cb  *infra.CircuitBreaker
}

func NewDispatcher(rdb *redis.Client, cb *infra.CircuitBreaker) *Dispatcher {
	if rdb == nil {
		return nil
	}
	if cb == nil {
		cb = infra.NewCircuitBreaker(infra.DefaultCBConfig("dispatcher"))
	}
	return &Dispatcher{rdb: rdb, cb: cb}
}

// Publish enqueues an audit event, filling request id and actor from ctx.
func (d *Dispatcher) Publish(ctx context.Context, ev Event) error {
	if d == nil {
		return nil
	}
	if ev.RequestID == "" {
		ev.RequestID = middleware.RequestIDFrom(ctx)
	}
	if ev.Actor == "" {
		ev.Actor = middleware.ActorFrom(ctx)
	}
	return d.enqueue(ctx, QueueAudit, JobTypeAudit, ev)
}

// BreakerState reports the dispatcher breaker for the health endpoint.
func (d *Dispatcher) BreakerState() string {
	if d == nil {
		return "disabled"
	}
	return d.cb.State().String()
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.cb.Execute(func() error {
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		return d.rdb.LPush(pushCtx, queue, encoded).Err()
	})
}

// JobHandler processes one job payload.
type JobHandler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// WorkerHandlers holds all job handlers, wired at the composition root.
type WorkerHandlers struct {
	Audit JobHandler
}

// StartWorkerPool launches numWorkers goroutines consuming the job queues.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	if rdb == nil {
		log.Info().Msg("worker pool disabled: redis not configured")
		return
	}
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueAudit).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("brpop failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		parkRaw(ctx, rdb, queue, raw, "malformed job: "+err.Error())
		return
	}

	var h JobHandler
	switch job.Type {
	case JobTypeAudit:
		h = handlers.Audit
	}
	if h == nil {
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("no handler for job type")
		parkJob(ctx, rdb, queue, job, "no handler", 0)
		return
	}

	attempts, err := withRetry(ctx, maxJobAttempts, func(int) error {
		return h.Process(ctx, job.Payload)
	})
	if err != nil {
		parkJob(ctx, rdb, queue, job, err.Error(), attempts)
	}
}
