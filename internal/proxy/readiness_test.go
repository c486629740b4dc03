package proxy

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestReadinessGate_StartsClosed(t *testing.T) {
	gate := NewReadinessGate(zerolog.New(io.Discard))
	if gate.IsReady() {
		t.Error("gate must start closed")
	}
}

func TestReadinessGate_MarkReadyIsMonotonic(t *testing.T) {
	gate := NewReadinessGate(zerolog.New(io.Discard))

	gate.MarkReady()
	if !gate.IsReady() {
		t.Fatal("gate should be open after MarkReady")
	}

	// Nothing can close it again; repeated calls keep it open.
	gate.MarkReady()
	if !gate.IsReady() {
		t.Error("gate must stay open")
	}
}

// The ready log line must be emitted exactly once even when the
// notification is delivered concurrently.
func TestReadinessGate_LogsReadyOnce(t *testing.T) {
	var buf bytes.Buffer
	gate := NewReadinessGate(zerolog.New(&buf))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gate.MarkReady()
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "proxy is ready"); got != 1 {
		t.Errorf("ready logged %d times, want exactly 1", got)
	}
}

func TestReadinessGate_WatchEager(t *testing.T) {
	gate := NewReadinessGate(zerolog.New(io.Discard))

	ready := make(chan struct{})
	close(ready)

	gate.Watch(ready)

	// Already-closed channel opens the gate before Watch returns.
	if !gate.IsReady() {
		t.Error("gate should open eagerly for an already-ready client")
	}
}

func TestReadinessGate_WatchReactive(t *testing.T) {
	gate := NewReadinessGate(zerolog.New(io.Discard))

	ready := make(chan struct{})
	gate.Watch(ready)

	if gate.IsReady() {
		t.Fatal("gate must stay closed until the client signals")
	}

	close(ready)

	deadline := time.Now().Add(2 * time.Second)
	for !gate.IsReady() {
		if time.Now().After(deadline) {
			t.Fatal("gate did not open after ready signal")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
