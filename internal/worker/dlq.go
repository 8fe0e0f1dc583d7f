package worker

// Jobs that exhausted their attempts are parked in dlq:<queue>, newest at the
// head. Operators list and replay them with cmd/dlq.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

func dlqKey(queue string) string { return DLQPrefix + queue }

// DeadLetter is a failed job plus why it failed. Raw holds the original bytes
// when the job itself could not be decoded; such entries are never replayed.
type DeadLetter struct {
	Queue    string    `json:"queue"`
	Job      Job       `json:"job"`
	Raw      string    `json:"raw,omitempty"`
	Reason   string    `json:"reason"`
	Attempts int       `json:"attempts"`
	FailedAt time.Time `json:"failed_at"`
}

// Replayable reports whether the entry carries a decodable job.
func (d DeadLetter) Replayable() bool { return d.Raw == "" && d.Job.Type != "" }

func parkJob(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string, attempts int) {
	park(ctx, rdb, DeadLetter{Queue: queue, Job: job, Reason: reason, Attempts: attempts})
}

func parkRaw(ctx context.Context, rdb *redis.Client, queue, raw, reason string) {
	park(ctx, rdb, DeadLetter{Queue: queue, Raw: raw, Reason: reason})
}

func park(ctx context.Context, rdb *redis.Client, d DeadLetter) {
	d.FailedAt = time.Now().UTC()
	data, err := json.Marshal(d)
	if err != nil {
		log.Error().Err(err).Str("queue", d.Queue).Msg("dlq: failed to marshal entry")
		return
	}
	if err := rdb.LPush(context.WithoutCancel(ctx), dlqKey(d.Queue), data).Err(); err != nil {
		log.Error().Err(err).Str("queue", d.Queue).Msg("dlq: failed to push")
		return
	}
	log.Warn().
		Str("queue", d.Queue).
		Str("job_type", d.Job.Type).
		Str("reason", d.Reason).
		Int("attempts", d.Attempts).
		Msg("dlq: job parked")
}

// DLQLength returns the number of parked entries, reported by /health.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, dlqKey(queue)).Result()
}

// PeekDLQ returns up to n parked entries, oldest first, without removing them.
func PeekDLQ(ctx context.Context, rdb *redis.Client, queue string, n int64) ([]DeadLetter, error) {
	raws, err := oldest(ctx, rdb, queue, n)
	if err != nil {
		return nil, err
	}
	out := make([]DeadLetter, 0, len(raws))
	for _, raw := range raws {
		d, err := decodeDeadLetter(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// replayScript re-queues a parked job only if this caller removed it from the
// DLQ, so concurrent replays cannot enqueue the same entry twice.
// KEYS[1] dlq, KEYS[2] queue; ARGV[1] parked entry, ARGV[2] job.
var replayScript = redis.NewScript(`
if redis.call("LREM", KEYS[1], 1, ARGV[1]) == 1 then
  redis.call("LPUSH", KEYS[2], ARGV[2])
  return 1
end
return 0
`)

// ReplayDLQ moves up to n replayable entries, oldest first, back onto their
// queue. Entries already claimed by another replay are skipped.
func ReplayDLQ(ctx context.Context, rdb *redis.Client, queue string, n int64) (int, error) {
	raws, err := oldest(ctx, rdb, queue, n)
	if err != nil {
		return 0, err
	}
	replayed := 0
	for _, raw := range raws {
		d, err := decodeDeadLetter(raw)
		if err != nil || !d.Replayable() {
			log.Warn().Str("queue", queue).Msg("dlq: skipping entry that cannot be replayed")
			continue
		}
		encoded, err := json.Marshal(d.Job)
		if err != nil {
			return replayed, err
		}
		moved, err := replayScript.Run(ctx, rdb, []string{dlqKey(queue), queue}, raw, encoded).Int()
		if err != nil {
			return replayed, err
		}
		replayed += moved
	}
	return replayed, nil
}

// oldest reads the tail of the list and flips it so index 0 is the oldest entry.
func oldest(ctx context.Context, rdb *redis.Client, queue string, n int64) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	raws, err := rdb.LRange(ctx, dlqKey(queue), -n, -1).Result()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(raws)-1; i < j; i, j = i+1, j-1 {
		raws[i], raws[j] = raws[j], raws[i]
	}
	return raws, nil
}

func decodeDeadLetter(raw string) (DeadLetter, error) {
	var d DeadLetter
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return DeadLetter{}, fmt.Errorf("dlq entry: %w", err)
	}
	return d, nil
}
