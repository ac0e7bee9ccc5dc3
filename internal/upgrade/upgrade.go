// Package upgrade replaces the orchestrator's logic while preserving its
// persistent state. Data (factory.State) and behavior (factory.Factory bound
// to it) are kept separate; an upgrade swaps the behavior handle and never
// touches the state or any already-deployed instance.
package upgrade

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Mohsinsiddi/tokenforge/internal/events"
	"github.com/Mohsinsiddi/tokenforge/internal/factory"
)

var (
	ErrNotOwner      = errors.New("caller is not the owner")
	ErrInvalidLogic  = errors.New("invalid orchestrator logic")
	ErrBadState      = errors.New("orchestrator state failed validation")
	ErrNoSuchVersion = errors.New("no such logic version")
)

// Version is one deployed revision of orchestrator logic.
type Version struct {
	Number   uint64
	CodeHash common.Hash
	Logic    *factory.Factory
}

// Controller governs which logic revision interprets the persistent state.
type Controller struct {
	state   *factory.State
	sink    events.Sink
	current *Version
	history []*Version
}

// NewController binds version 1 of the logic to state.
func NewController(state *factory.State, sink events.Sink) *Controller {
	v1 := &Version{
		Number:   1,
		CodeHash: logicCodeHash(1),
		Logic:    factory.New(state, sink),
	}
	return &Controller{
		state:   state,
		sink:    sink,
		current: v1,
		history: []*Version{v1},
	}
}

// Current returns the live orchestrator handle.
func (c *Controller) Current() *factory.Factory { return c.current.Logic }

// CurrentVersion returns the live revision.
func (c *Controller) CurrentVersion() *Version { return c.current }

// Upgrade deploys the next logic revision and atomically repoints the
// orchestrator to it. Owner only. The persistent state — owner, fee ledger,
// template registry, counters, instances — carries over untouched.
func (c *Controller) Upgrade(caller common.Address) (*Version, error) {
	if caller != c.state.Owner {
		return nil, ErrNotOwner
	}
	if err := c.validateState(); err != nil {
		return nil, err
	}

	next := &Version{
		Number:   c.current.Number + 1,
		CodeHash: logicCodeHash(c.current.Number + 1),
		Logic:    factory.New(c.state, c.sink),
	}
	if err := validateLogic(next); err != nil {
		return nil, err
	}

	return c.swap(next)
}

// Rollback repoints the orchestrator at a previously deployed revision. Same
// procedure as an upgrade, against known code.
func (c *Controller) Rollback(caller common.Address, number uint64) (*Version, error) {
	if caller != c.state.Owner {
		return nil, ErrNotOwner
	}
	if err := c.validateState(); err != nil {
		return nil, err
	}

	for _, v := range c.history {
		if v.Number == number {
			if err := validateLogic(v); err != nil {
				return nil, err
			}
			return c.swap(v)
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrNoSuchVersion, number)
}

// History returns every revision ever deployed, oldest first.
func (c *Controller) History() []*Version {
	out := make([]*Version, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Controller) swap(next *Version) (*Version, error) {
	prev := c.current
	c.current = next

	// Post-upgrade validation: the new logic must interpret the exact same
	// persistent state the previous one did.
	if next.Logic.State() != c.state {
		c.current = prev
		return nil, fmt.Errorf("%w: state not preserved across upgrade", ErrBadState)
	}
	if !containsVersion(c.history, next.Number) {
		c.history = append(c.history, next)
	}
	return next, nil
}

func (c *Controller) validateState() error {
	if c.state == nil || c.state.Owner == (common.Address{}) {
		return fmt.Errorf("%w: owner not set", ErrBadState)
	}
	if c.current == nil || c.current.Logic == nil {
		return fmt.Errorf("%w: no live logic", ErrInvalidLogic)
	}
	return nil
}

func validateLogic(v *Version) error {
	if v == nil || v.Logic == nil {
		return fmt.Errorf("%w: nil logic", ErrInvalidLogic)
	}
	if v.CodeHash == (common.Hash{}) {
		return fmt.Errorf("%w: no code", ErrInvalidLogic)
	}
	return nil
}

func containsVersion(history []*Version, number uint64) bool {
	for _, v := range history {
		if v.Number == number {
			return true
		}
	}
	return false
}

func logicCodeHash(number uint64) common.Hash {
	return crypto.Keccak256Hash([]byte(fmt.Sprintf("tokenforge/orchestrator/v%d", number)))
}
