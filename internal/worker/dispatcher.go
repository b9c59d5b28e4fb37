// Package worker runs the async retry queue. The only job type today is the
// delivery-row cleanup: when a paid delivery's sale row was appended but the
// delivery-row delete failed, the delete is retried here instead of leaving
// the duplicate forever. Jobs live in a Redis list consumed via BRPop.
package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const QueueDeliveryCleanup = "jobs:delivery_cleanup"

// Job is the generic envelope for queued tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// CleanupPayload identifies a delivery row by content, not by index — row
// indexes shift when earlier rows are deleted, so the worker re-locates the
// row before deleting.
type CleanupPayload struct {
	OrderNo   string `json:"order_no"`
	CreatedAt string `json:"created_at"`
}

// Dispatcher enqueues jobs into Redis lists.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueDeliveryCleanup schedules a retry of a failed delivery-row delete.
func (d *Dispatcher) EnqueueDeliveryCleanup(ctx context.Context, p CleanupPayload) error {
	return d.enqueue(ctx, QueueDeliveryCleanup, Job{Type: "delivery_cleanup"}, p)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue string, job Job, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job.Payload = data
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
