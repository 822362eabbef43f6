package catalog

import (
	"context"
	"sync"

	"github.com/agentic-research/canopy/api"
)

// Swappable is a schema.Registry whose catalog can be replaced while the
// server is running.
type Swappable struct {
	mu      sync.RWMutex
	current *Catalog
}

func NewSwappable(initial *Catalog) *Swappable {
	return &Swappable{current: initial}
}

// Swap replaces the current catalog. Callers already holding controls from
// the old catalog keep them.
func (s *Swappable) Swap(next *Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
}

// Current returns the catalog in use.
func (s *Swappable) Current() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Types delegates to the current catalog.
func (s *Swappable) Types(ctx context.Context) (map[string]api.WidgetType, error) {
	return s.Current().Types(ctx)
}

// Controls delegates to the current catalog.
func (s *Swappable) Controls(ctx context.Context, widgetType string) ([]api.Control, error) {
	return s.Current().Controls(ctx, widgetType)
}
