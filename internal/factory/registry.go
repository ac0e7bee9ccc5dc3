package factory

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/tokenforge/internal/token"
)

// TemplateEntry binds a template identifier to implementation code. Deployed
// instances are unaffected by later edits: they capture their implementation
// by value at deployment, never by reference to this table.
type TemplateEntry struct {
	ID             string         `json:"id"`
	Implementation common.Address `json:"implementation"`
	Active         bool           `json:"active"`
}

// Registry is the owner-controlled template table. Authorization is enforced
// by the factory entry points; the registry itself only guards entry
// well-formedness.
type Registry struct {
	entries map[string]TemplateEntry
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]TemplateEntry)}
}

// Add registers (or overwrites) id with implementation code from codes and
// marks it active. There is no separate update operation.
func (r *Registry) Add(id string, impl common.Address, codes *token.CodeStore) error {
	if id == "" {
		return fmt.Errorf("%w: empty template id", ErrInvalidConfiguration)
	}
	if impl == (common.Address{}) {
		return fmt.Errorf("%w: implementation is the zero address", ErrInvalidConfiguration)
	}
	if !codes.HasCode(impl) {
		return fmt.Errorf("%w: no code at implementation %s", ErrInvalidConfiguration, impl.Hex())
	}
	if _, exists := r.entries[id]; !exists {
		r.order = append(r.order, id)
	}
	r.entries[id] = TemplateEntry{ID: id, Implementation: impl, Active: true}
	return nil
}

// Remove clears the mapping for id entirely, so stale lookups resolve to the
// zero address rather than the removed implementation.
func (r *Registry) Remove(id string) error {
	if _, ok := r.entries[id]; !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	delete(r.entries, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return nil
}

// Get returns the implementation address for id, or the zero address when id
// is unknown. Callers distinguish "not found" by address equality, not by
// error.
func (r *Registry) Get(id string) common.Address {
	return r.entries[id].Implementation
}

// IsActive reports whether id has an active entry.
func (r *Registry) IsActive(id string) bool {
	return r.entries[id].Active
}

// All returns the registered template identifiers in registration order.
func (r *Registry) All() []string {
	return slices.Clone(r.order)
}

// Entries returns every entry, in registration order.
func (r *Registry) Entries() []TemplateEntry {
	out := make([]TemplateEntry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}
