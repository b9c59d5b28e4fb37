package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alceillini1999/Zaad.POS/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxAttempts = 5

// CleanupWorker retries delivery-row deletes that failed after the sale row
// was already appended (the "duplicate over lost revenue" failure mode).
type CleanupWorker struct {
	repo repository.DeliveryRepository
}

func NewCleanupWorker(repo repository.DeliveryRepository) *CleanupWorker {
	return &CleanupWorker{repo: repo}
}

// Handle deletes the delivery row identified by the payload. Returns nil when
// the row is already gone — someone else cleaned it up, which is fine.
func (w *CleanupWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var p CleanupPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	rowIndex, err := w.repo.FindRow(ctx, p.OrderNo, p.CreatedAt)
	if err != nil {
		return err
	}
	if rowIndex < 0 {
		return nil
	}
	return w.repo.DeleteRow(ctx, rowIndex)
}

// WorkerHandlers wires job types to their handlers; built in the composition
// root so handlers get full infrastructure access.
type WorkerHandlers struct {
	Cleanup *CleanupWorker
}

// StartWorkerPool launches numWorkers goroutines consuming the queue.
// Each goroutine blocks on BRPop — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
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
			// Blocking pop — waits up to 5s then loops to check ctx.
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueDeliveryCleanup).Result()
			if err != nil {
				continue // timeout or context cancelled
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
		return
	}

	var err error
	switch job.Type {
	case "delivery_cleanup":
		err = handlers.Cleanup.Handle(ctx, job.Payload)
	default:
		log.Error().Str("type", job.Type).Msg("unknown job type")
		return
	}
	if err == nil {
		return
	}

	job.Attempts++
	log.Warn().Str("type", job.Type).Int("attempts", job.Attempts).Err(err).Msg("job failed")
	if job.Attempts >= maxAttempts {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	encoded, mErr := json.Marshal(job)
	if mErr != nil {
		log.Error().Err(mErr).Msg("failed to re-enqueue job")
		return
	}
	if pushErr := rdb.LPush(ctx, queue, encoded).Err(); pushErr != nil {
		log.Error().Err(pushErr).Msg("failed to re-enqueue job")
	}
}
