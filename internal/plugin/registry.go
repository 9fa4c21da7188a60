package plugin

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"hornetflow/internal/services"
)

// DefaultName is the backend used when a run does not name one.
const DefaultName = "debug"

var (
	registryMu sync.RWMutex
	factories  = make(map[string]func() Backend)
)

// Register makes a backend constructor available under name. Registration
// normally happens from init functions; re-registering a name replaces the
// previous constructor.
func Register(name string, factory func() Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// New instantiates the named backend. An empty name selects the default.
func New(name string) (Backend, error) {
	if name == "" {
		name = DefaultName
	}
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "plugin", "lookup",
			fmt.Sprintf("backend %q not registered; available: %s", name, strings.Join(Names(), ", ")), nil)
	}
	return factory(), nil
}

// Names lists the registered backend names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
