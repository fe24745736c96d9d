package marketdata

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
)

// ErrUnknownSource is returned for a source name nobody registered
var ErrUnknownSource = errors.New("unknown price source")

// Registry maps --source / "source" names to price sources
type Registry struct {
	sources map[string]contracts.PriceSource
}

// NewRegistry creates a registry holding srcs, keyed by Name()
func NewRegistry(srcs ...contracts.PriceSource) *Registry {
	r := &Registry{sources: make(map[string]contracts.PriceSource, len(srcs))}
	for _, s := range srcs {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a source
func (r *Registry) Register(src contracts.PriceSource) {
	r.sources[src.Name()] = src
}

// Get returns the source registered under name
func (r *Registry) Get(name string) (contracts.PriceSource, error) {
	src, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownSource, name, r.Names())
	}
	return src, nil
}

// Names returns the registered source names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for n := range r.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
