package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type fakeConfig struct {
	redisURL    string
	tlsInsecure bool
	queue       string
	concurrency int
}

func (c fakeConfig) GetRedisURL() string       { return c.redisURL }
func (c fakeConfig) GetRedisTLSInsecure() bool { return c.tlsInsecure }
func (c fakeConfig) GetAsynqQueueName() string { return c.queue }
func (c fakeConfig) GetAsynqConcurrency() int  { return c.concurrency }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(fakeConfig{}); err == nil {
		t.Fatal("expected an error without REDIS_URL")
	}
}

func TestScheduleTokenRegenerationEnqueues(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(fakeConfig{redisURL: "redis://" + srv.Addr(), queue: "vmr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if err := client.ScheduleTokenRegeneration(context.Background(), "admin"); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("vmr")
	if err != nil {
		t.Fatalf("listing pending tasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected one pending task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskTokenRegeneration {
		t.Fatalf("expected task type %s, got %s", TaskTokenRegeneration, tasks[0].Type)
	}

	payload, err := ParseTokenRegenerationPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("payload did not parse: %v", err)
	}
	if payload.RequestedBy != "admin" {
		t.Fatalf("expected requestedBy admin, got %q", payload.RequestedBy)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	if err := client.ScheduleTokenRegeneration(context.Background(), "admin"); err != nil {
		t.Fatalf("nil client must be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("nil close must be a no-op, got %v", err)
	}
}
