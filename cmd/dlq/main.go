// cmd/dlq: lists or replays parked audit jobs.
// Usage: go run ./cmd/dlq -list 20
//        go run ./cmd/dlq -replay 100
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"l2lsales/internal/config"
	"l2lsales/internal/infra"
	"l2lsales/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	list := flag.Int64("list", 0, "print up to N parked entries, oldest first")
	replay := flag.Int64("replay", 0, "move up to N parked entries back onto the queue")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil || rdb == nil {
		log.Fatal().Err(err).Msg("redis is required")
	}
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := worker.DLQLength(ctx, rdb, worker.QueueAudit)
	if err != nil {
		log.Fatal().Err(err).Msg("dlq length")
	}
	log.Info().Int64("parked", n).Str("queue", worker.QueueAudit).Msg("dead letter queue")

	if *list > 0 {
		entries, err := worker.PeekDLQ(ctx, rdb, worker.QueueAudit, *list)
		if err != nil {
			log.Fatal().Err(err).Msg("dlq peek")
		}
		for _, e := range entries {
			log.Info().
				Time("failed_at", e.FailedAt).
				Str("job_type", e.Job.Type).
				Int("attempts", e.Attempts).
				Bool("replayable", e.Replayable()).
				Str("reason", e.Reason).
				RawJSON("payload", orEmpty(e.Job.Payload)).
				Msg("parked")
		}
	}

	if *replay > 0 {
		moved, err := worker.ReplayDLQ(ctx, rdb, worker.QueueAudit, *replay)
		if err != nil {
			log.Fatal().Err(err).Int("replayed", moved).Msg("dlq replay")
		}
		log.Info().Int("replayed", moved).Msg("dlq replay done")
	}
}

func orEmpty(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}
	return raw
}
