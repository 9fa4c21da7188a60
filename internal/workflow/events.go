package workflow

import (
	"fmt"
	"log/slog"
	"sync"

	"hornetflow/internal/logging"
)

// Event identifies a workflow lifecycle stage.
type Event string

const (
	// EventStarted fires after input validation, before provisioning.
	EventStarted Event = "workflow_started"
	// EventRepositoryReady fires once a local repository path exists.
	EventRepositoryReady Event = "repository_ready"
	// EventManifestsReady fires after discovery and schema validation.
	EventManifestsReady Event = "manifests_ready"
	// EventCompleted fires on every exit path, success or failure.
	EventCompleted Event = "workflow_completed"
)

// Payload carries event-specific context to handlers.
type Payload map[string]any

// Handler receives one event occurrence. A handler error is logged and
// never interrupts the run.
type Handler func(Payload) error

// Dispatcher delivers workflow events to registered handlers synchronously,
// in registration order. Handler failures and panics are contained so that
// observers can never break the workflow they observe.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Event][]Handler
	logger   *slog.Logger
}

// NewDispatcher builds an empty dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Event][]Handler),
		logger:   logging.WithComponent(logger, "events"),
	}
}

// Register appends a handler for the given event. The same handler may be
// registered more than once and will fire once per registration.
func (d *Dispatcher) Register(event Event, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
}

// Trigger invokes every handler registered for the event, in order. Each
// handler runs to completion before the next starts.
func (d *Dispatcher) Trigger(event Event, payload Payload) {
	d.mu.RLock()
	handlers := d.handlers[event]
	d.mu.RUnlock()

	d.logger.Debug("event", logging.String(logging.FieldEvent, string(event)), logging.Int("handlers", len(handlers)))
	for _, handler := range handlers {
		d.invoke(event, handler, payload)
	}
}

func (d *Dispatcher) invoke(event Event, handler Handler, payload Payload) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked",
				logging.String(logging.FieldEvent, string(event)),
				logging.Error(fmt.Errorf("%v", r)))
		}
	}()
	if err := handler(payload); err != nil {
		d.logger.Error("event handler failed",
			logging.String(logging.FieldEvent, string(event)),
			logging.Error(err))
	}
}
