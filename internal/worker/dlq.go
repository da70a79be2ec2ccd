package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Parked jobs live in one Redis list per source queue, newest first.
const (
	DLQPrefix = "dlq:"

	// dlqCap bounds each parked list; older entries are trimmed.
	dlqCap = 1000
)

func dlqKey(queue string) string { return DLQPrefix + queue }

// ParkedJob is a job that exhausted its attempts or could not be decoded.
type ParkedJob struct {
	Queue    string    `json:"queue"`
	Job      Job       `json:"job"`
	Reason   string    `json:"reason"`
	ParkedAt time.Time `json:"parkedAt"`
}

// park moves a failed job out of circulation. Errors are logged only: losing
// an alert is preferable to blocking the worker on a broken Redis.
func park(ctx context.Context, rdb *redis.Client, queue string, job Job, reason error) {
	entry := ParkedJob{Queue: queue, Job: job, Reason: reason.Error(), ParkedAt: time.Now().UTC()}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: encode entry")
		return
	}

	key := dlqKey(queue)
	_, err = rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, key, data)
		p.LTrim(ctx, key, 0, dlqCap-1)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: push failed")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Int("attempts", job.Attempts).
		Str("reason", entry.Reason).
		Msg("dlq: job parked")
}

// DLQLength reports the parked backlog; surfaced by the health endpoint.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, dlqKey(queue)).Result()
}
