package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sentinel-iam/sentinel/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAuthEvent is the task type for recording authentication events.
	TaskTypeAuthEvent = "auth:event"
)

// AuthEventPayload describes an authentication event to audit.
type AuthEventPayload struct {
	Event   string    `json:"event"`
	ActorID int64     `json:"actor_id"`
	Email   string    `json:"email"`
	At      time.Time `json:"at"`
}

// NewAuthEventTask constructs an Asynq task.
func NewAuthEventTask(payload AuthEventPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuthEvent, data), nil
}

// NewAuthEventHandler returns an Asynq handler that persists auth events
// to the audit log.
func NewAuthEventHandler(audit *shared.AuditLogger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuthEventPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("decode auth event: %w: %w", err, asynq.SkipRetry)
		}
		return audit.Record(ctx, shared.AuditLog{
			ActorID: payload.ActorID,
			Action:  payload.Event,
			Email:   payload.Email,
			At:      payload.At,
		})
	}
}

// Enqueuer submits auth events to the queue. It satisfies auth.EventSink.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer constructs an Enqueuer around an Asynq client.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// Record enqueues an auth event for the worker to persist. A nil Enqueuer
// drops events silently so handlers can run without a queue in tests.
func (e *Enqueuer) Record(ctx context.Context, action string, actorID int64, email string) error {
	if e == nil || e.client == nil {
		return nil
	}
	task, err := NewAuthEventTask(AuthEventPayload{
		Event:   action,
		ActorID: actorID,
		Email:   email,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases client resources.
func (e *Enqueuer) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	return e.client.Close()
}
