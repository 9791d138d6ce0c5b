package queue

import (
	"testing"

	"github.com/Umair-Web/BTOBPortal/internal/config"
)

func TestDisabledClientRejectsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueProductImageCleanup(ProductImageCleanupPayload{ProductID: 1}); err == nil {
		t.Fatalf("disabled client should report enqueue failure so callers can fall back")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestProductImageCleanupTaskPayload(t *testing.T) {
	task, err := NewProductImageCleanupTask(ProductImageCleanupPayload{
		ProductID: 12,
		URLs:      []string{"/uploads/product/a.png", "/uploads/product/b.png"},
	})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskProductImageCleanup {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseProductImageCleanupPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.ProductID != 12 || len(payload.URLs) != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
