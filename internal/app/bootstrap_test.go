package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeService struct {
	name     string
	startErr error
	block    bool
	stopped  int32
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *fakeService) Stop(ctx context.Context) error {
	atomic.AddInt32(&s.stopped, 1)
	return nil
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	failing := &fakeService{name: "http", startErr: errors.New("address in use")}
	blocking := &fakeService{name: "worker", block: true}
	runner := NewRunner(failing, blocking)

	err := runner.Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "address in use" {
		t.Fatalf("want start error got %v", err)
	}
	if atomic.LoadInt32(&failing.stopped) != 1 || atomic.LoadInt32(&blocking.stopped) != 1 {
		t.Fatalf("every service should be stopped")
	}
}

func TestRunnerTreatsCancelAsCleanExit(t *testing.T) {
	svc := &fakeService{name: "http", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewRunner(svc).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancelled run should exit cleanly, got %v", err)
	}
}

func TestRunnerClosesResourcesAfterStop(t *testing.T) {
	svc := &fakeService{name: "http", startErr: errors.New("boom")}
	runner := NewRunner(svc)
	closed := 0
	runner.OnClose(func() error {
		if atomic.LoadInt32(&svc.stopped) != 1 {
			t.Fatalf("resources must be closed after services stop")
		}
		closed++
		return errors.New("already closed")
	})
	runner.OnClose(nil)

	if err := runner.Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("start error should be returned")
	}
	if closed != 1 {
		t.Fatalf("closer should run once, got %d", closed)
	}
}

func TestBuildRunnerRejectsNilConfig(t *testing.T) {
	if _, err := BuildRunner(nil, ModeAll); err == nil {
		t.Fatalf("nil config should fail")
	}
	opts := normalizeOptions(Options{})
	if opts.Mode != ModeAll || opts.ShutdownTimeout != 10*time.Second || opts.Logger == nil {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}
