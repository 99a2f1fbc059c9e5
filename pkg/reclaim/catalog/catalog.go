package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/randalmurphal/reclaim/pkg/reclaim"
)

// Sentinel errors for catalog operations.
var (
	// ErrUnnamed indicates a binding without a name.
	ErrUnnamed = errors.New("binding name is required")

	// ErrDuplicate indicates a name is already taken.
	ErrDuplicate = errors.New("binding already added")

	// ErrUnknownKind indicates no binding exists for a name.
	ErrUnknownKind = errors.New("unknown kind")
)

// Catalog is a thread-safe set of bindings indexed by name.
type Catalog struct {
	mu       sync.RWMutex
	bindings map[string]reclaim.Binding
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		bindings: make(map[string]reclaim.Binding),
	}
}

// Add stores a binding under its name. Names must be unique, and both
// capabilities must be set.
func (c *Catalog) Add(b reclaim.Binding) error {
	if b.Name == "" {
		return ErrUnnamed
	}
	if b.Construct == nil || b.Destroy == nil {
		return fmt.Errorf("%s: %w", b.Name, reclaim.ErrNilCapability)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.bindings[b.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicate, b.Name)
	}
	c.bindings[b.Name] = b
	return nil
}

// MustAdd adds a binding, panicking on error.
func (c *Catalog) MustAdd(b reclaim.Binding) {
	if err := c.Add(b); err != nil {
		panic(err)
	}
}

// Get returns the binding for a name and whether it exists.
func (c *Catalog) Get(name string) (reclaim.Binding, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bindings[name]
	return b, ok
}

// Has reports whether a binding exists for name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Names returns all binding names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.bindings))
	for name := range c.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bindings)
}

// Range calls fn for each binding in name order until fn returns false.
func (c *Catalog) Range(fn func(name string, b reclaim.Binding) bool) {
	c.mu.RLock()
	snapshot := make([]reclaim.Binding, 0, len(c.bindings))
	for _, b := range c.bindings {
		snapshot = append(snapshot, b)
	}
	c.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Name < snapshot[j].Name
	})
	for _, b := range snapshot {
		if !fn(b.Name, b) {
			return
		}
	}
}

// Register looks up the binding for kind and registers input through it.
func Register(r *reclaim.Registry, c *Catalog, kind string, input any) (any, error) {
	b, ok := c.Get(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return r.RegisterBinding(b, input)
}
