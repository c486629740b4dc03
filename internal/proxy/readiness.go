package proxy

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/guscost-opensea/unleash-proxy/internal/telemetry"
)

// ReadinessGate is the proxy's readiness latch. It starts closed and opens
// exactly once; nothing can un-ready it afterwards. A single writer (the
// client's ready notification) flips it while every request handler reads
// it.
type ReadinessGate struct {
	ready  atomic.Bool
	once   sync.Once
	logger zerolog.Logger
}

// NewReadinessGate creates a closed gate.
func NewReadinessGate(logger zerolog.Logger) *ReadinessGate {
	return &ReadinessGate{logger: logger}
}

// IsReady reports whether the gate is open.
func (g *ReadinessGate) IsReady() bool {
	return g.ready.Load()
}

// MarkReady opens the gate. Safe under concurrent delivery; the "proxy is
// ready" log line is emitted exactly once no matter how often it is called.
func (g *ReadinessGate) MarkReady() {
	g.once.Do(func() {
		g.ready.Store(true)
		telemetry.ProxyReady.Set(1)
		g.logger.Info().Msg("proxy is ready")
	})
}

// Watch wires the gate to a client's one-shot ready channel. If the channel
// is already closed the gate opens eagerly before Watch returns; otherwise
// a goroutine opens it on notification.
func (g *ReadinessGate) Watch(ready <-chan struct{}) {
	select {
	case <-ready:
		g.MarkReady()
		return
	default:
	}

	go func() {
		<-ready
		g.MarkReady()
	}()
}
