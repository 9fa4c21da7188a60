package workflow

import (
	"context"
	"sync"
)

// ReadyGate lets a concurrent observer block until manifests have been
// discovered and validated. It latches on the first signal; later signals
// are no-ops, so one gate serves repeated watcher-triggered runs.
type ReadyGate struct {
	once sync.Once
	ch   chan struct{}
}

// NewReadyGate builds an unsignalled gate.
func NewReadyGate() *ReadyGate {
	return &ReadyGate{ch: make(chan struct{})}
}

// Signal opens the gate. Safe to call any number of times.
func (g *ReadyGate) Signal() {
	g.once.Do(func() { close(g.ch) })
}

// Wait blocks until the gate opens or the context is cancelled.
func (g *ReadyGate) Wait(ctx context.Context) error {
	select {
	case <-g.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Handler adapts the gate for dispatcher registration on EventManifestsReady.
func (g *ReadyGate) Handler() Handler {
	return func(Payload) error {
		g.Signal()
		return nil
	}
}
