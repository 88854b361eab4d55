package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"creativestudio/internal/jobs"
)

const taskField = "task"

var ErrInvalidMessage = errors.New("queue: invalid message")

// StreamDispatcher publishes background tasks onto a Redis stream.
type StreamDispatcher struct {
	client *redis.Client
	stream string
}

func NewStreamDispatcher(client *redis.Client, stream string) *StreamDispatcher {
	return &StreamDispatcher{client: client, stream: stream}
}

func (d *StreamDispatcher) Dispatch(ctx context.Context, task jobs.Task) error {
	values, err := encodeTask(task)
	if err != nil {
		return err
	}
	if _, err := d.client.XAdd(ctx, &redis.XAddArgs{
		Stream: d.stream,
		Values: values,
	}).Result(); err != nil {
		return fmt.Errorf("queue: xadd %s: %w", d.stream, err)
	}
	return nil
}

func encodeTask(task jobs.Task) (map[string]any, error) {
	raw, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("queue: encode task: %w", err)
	}
	return map[string]any{taskField: string(raw)}, nil
}

func decodeTask(msg redis.XMessage) (jobs.Task, error) {
	var task jobs.Task
	raw, ok := msg.Values[taskField].(string)
	if !ok || raw == "" {
		return task, fmt.Errorf("%w: %s has no task field", ErrInvalidMessage, msg.ID)
	}
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		return task, fmt.Errorf("%w: %s: %v", ErrInvalidMessage, msg.ID, err)
	}
	if task.JobID == "" {
		return task, fmt.Errorf("%w: %s has no job id", ErrInvalidMessage, msg.ID)
	}
	return task, nil
}

var _ jobs.Dispatcher = (*StreamDispatcher)(nil)
