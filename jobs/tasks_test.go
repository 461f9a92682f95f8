package jobs

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/sentinel-iam/sentinel/testing"
)

func TestNewAuthEventTask(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	task, err := NewAuthEventTask(AuthEventPayload{
		Event:   "user.signed_in",
		ActorID: 7,
		Email:   "alice@example.com",
		At:      at,
	})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeAuthEvent, task.Type())

	var decoded AuthEventPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, "user.signed_in", decoded.Event)
	assert.Equal(t, int64(7), decoded.ActorID)
	assert.True(t, at.Equal(decoded.At))
}

func TestNilEnqueuerDropsEvents(t *testing.T) {
	var e *Enqueuer
	assert.NoError(t, e.Record(context.Background(), "user.signed_in", 1, "alice@example.com"))
	assert.NoError(t, e.Close())

	empty := &Enqueuer{}
	assert.NoError(t, empty.Record(context.Background(), "user.signed_in", 1, "alice@example.com"))
}
