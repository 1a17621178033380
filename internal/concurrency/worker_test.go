package concurrency

import (
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig(id int) WorkerConfig {
	return WorkerConfig{ID: id, CPU: -1, Logger: log.New(io.Discard, "", 0)}
}

func waitSignals(t *testing.T, w *Worker, want int64) {
	t.Helper()
	var got int64
	deadline := time.Now().Add(2 * time.Second)
	for got < want && time.Now().Before(deadline) {
		got += w.DrainCompletions()
		time.Sleep(time.Millisecond)
	}
	if got != want {
		t.Fatalf("Expected %d completion signals, got %d", want, got)
	}
}

func TestWorker_RunsJobsInOrderAndSignals(t *testing.T) {
	w := StartWorker(testConfig(0))
	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 50; i++ {
		i := i
		if err := w.Send(JobDirective(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	waitSignals(t, w, 50)

	if err := w.Send(StopDirective()); err != nil {
		t.Fatalf("Send stop: %v", err)
	}
	if err := w.Join(); err != nil {
		t.Fatalf("Expected clean join, got %v", err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("Expected job %d at position %d, got %d", i, i, v)
		}
	}
}

func TestWorker_StopSendsNoSignal(t *testing.T) {
	w := StartWorker(testConfig(0))
	_ = w.Send(StopDirective())
	if err := w.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if n := w.DrainCompletions(); n != 0 {
		t.Errorf("Expected no completion for Stop, got %d", n)
	}
	if err := w.Send(JobDirective(func() {})); !errors.Is(err, ErrMailboxClosed) {
		t.Errorf("Expected ErrMailboxClosed after exit, got %v", err)
	}
}

func TestWorker_ClosedInboxIsImplicitStop(t *testing.T) {
	w := StartWorker(testConfig(0))
	var ran atomic.Int32
	_ = w.Send(JobDirective(func() { ran.Add(1) }))
	w.CloseInbox()
	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Worker did not exit after inbox was closed")
	}
	if err := w.Join(); err != nil {
		t.Errorf("Expected clean join, got %v", err)
	}
	if ran.Load() != 1 {
		t.Errorf("Expected queued job to run before exit, ran %d", ran.Load())
	}
}

func TestWorker_PanicSurfacesOnJoin(t *testing.T) {
	var exitErr atomic.Value
	cfg := testConfig(3)
	cfg.OnExit = func(id int, err error) {
		if err != nil {
			exitErr.Store(err)
		}
	}
	w := StartWorker(cfg)
	block := make(chan struct{})
	_ = w.Send(JobDirective(func() {
		<-block
		panic("boom")
	}))
	_ = w.Send(JobDirective(func() { t.Error("job queued behind a panic must not run") }))
	close(block)

	err := w.Join()
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *PanicError, got %v", err)
	}
	if pe.Value != "boom" {
		t.Errorf("Expected panic value boom, got %v", pe.Value)
	}
	if pe.Stack == "" {
		t.Error("Expected a stack trace")
	}
	if exitErr.Load() == nil {
		t.Error("Expected OnExit to observe the panic")
	}
	if n := w.DrainCompletions(); n != 0 {
		t.Errorf("Expected no completion for a panicked job, got %d", n)
	}
	if err := w.Send(JobDirective(func() {})); !errors.Is(err, ErrMailboxClosed) {
		t.Errorf("Expected ErrMailboxClosed after panic, got %v", err)
	}
}

func TestWorker_OnJobDoneHook(t *testing.T) {
	var calls atomic.Int32
	cfg := testConfig(1)
	cfg.OnJobDone = func(id int, elapsed time.Duration) {
		if id != 1 {
			t.Errorf("Expected worker id 1, got %d", id)
		}
		calls.Add(1)
	}
	w := StartWorker(cfg)
	_ = w.Send(JobDirective(func() {}))
	_ = w.Send(JobDirective(func() {}))
	_ = w.Send(StopDirective())
	if err := w.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 hook calls, got %d", calls.Load())
	}
}
