// Package factory is the deployment orchestrator: it validates token
// configurations, resolves templates, derives deterministic instance
// addresses, collects the service fee, and keeps the append-only bookkeeping
// (symbol set, creator index, counters). Each entry point is atomic: it either
// fully applies or leaves the aggregate untouched.
package factory

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Mohsinsiddi/tokenforge/internal/derive"
	"github.com/Mohsinsiddi/tokenforge/internal/events"
	"github.com/Mohsinsiddi/tokenforge/internal/token"
)

// Deployment cost model: a flat base plus a fixed increment per enabled
// feature. Monotone in the feature set.
const (
	costBase       = 120_000
	costPerFeature = 25_000
)

// Factory is the orchestrator logic bound to a persistent State.
type Factory struct {
	state *State
	sink  events.Sink
}

// Receipt reports one successful deployment.
type Receipt struct {
	Address    common.Address
	ConfigHash common.Hash
	TemplateID string
	FeePaid    *uint256.Int
	Refund     *uint256.Int
}

// New binds orchestrator logic to state, emitting notifications into sink.
func New(state *State, sink events.Sink) *Factory {
	if sink == nil {
		sink = events.Discard{}
	}
	return &Factory{state: state, sink: sink}
}

// State exposes the persistent aggregate, e.g. to the upgrade controller.
func (f *Factory) State() *State { return f.state }

// ── deployment entry points ───────────────────────────────────────────────────

// CreateToken deploys a new instance, auto-selecting the smallest template
// whose capabilities match the requested feature flags.
func (f *Factory) CreateToken(caller common.Address, cfg Config, payment *uint256.Int) (*Receipt, error) {
	return f.create(caller, cfg, SelectTemplate(cfg.Features()), payment, false)
}

// CreateTokenWithTemplate deploys against an explicitly chosen template. The
// template's capability set must cover every requested feature flag; nothing
// is silently downgraded.
func (f *Factory) CreateTokenWithTemplate(caller common.Address, cfg Config, templateID string, payment *uint256.Int) (*Receipt, error) {
	return f.create(caller, cfg, templateID, payment, true)
}

// create runs the deployment pipeline. Steps 1-4 are pure checks; no state is
// mutated until every one of them has passed.
func (f *Factory) create(caller common.Address, cfg Config, templateID string, payment *uint256.Int, explicit bool) (*Receipt, error) {
	// 1. Validate configuration.
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	// 2. Symbol uniqueness, global across every instance ever created.
	if f.state.Symbols[cfg.Symbol] {
		return nil, fmt.Errorf("%w: %s", ErrSymbolExists, cfg.Symbol)
	}

	// 3. Resolve the template to implementation code.
	impl, err := f.resolve(templateID)
	if err != nil {
		return nil, err
	}
	if explicit && !impl.Capabilities.Superset(cfg.Features()) {
		return nil, fmt.Errorf("%w: template %q does not support features %s",
			ErrInvalidConfiguration, templateID, cfg.Features())
	}

	// 4. Payment covers the current fee.
	if err := f.state.Fees.checkPayment(payment); err != nil {
		return nil, err
	}

	// 5. Derive the address and place the initialized instance there. The
	// deployment address is the same pure function callers use to predict it.
	configHash := cfg.Hash()
	addr := derive.InstanceAddress(f.state.Address, caller, configHash, impl.Address)
	if _, taken := f.state.Instances[addr]; taken {
		return nil, fmt.Errorf("%w: instance already deployed at %s", ErrInvalidConfiguration, addr.Hex())
	}

	maxSupply := cfg.MaxSupply
	if maxSupply == nil {
		maxSupply = uint256.NewInt(0)
	}
	inst := token.New(impl)
	if err := inst.Initialize(cfg.Name, cfg.Symbol, cfg.Decimals, cfg.TotalSupply,
		cfg.InitialOwner, cfg.Features(), maxSupply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	f.state.Instances[addr] = inst

	// 6. Collect the fee at its current value and refund the excess.
	fee, refund := f.state.Fees.collect(caller, payment)

	// 7. Bookkeeping: all append-only.
	f.state.Symbols[cfg.Symbol] = true
	f.state.CreatorIndex[caller] = append(f.state.CreatorIndex[caller], addr)
	f.state.TokensCreated++

	// 8. Notify. The deployment is already committed; a failing sink must not
	// roll it back.
	_ = f.sink.Emit(events.KindTokenCreated, map[string]string{
		"address":    addr.Hex(),
		"creator":    caller.Hex(),
		"name":       cfg.Name,
		"symbol":     cfg.Symbol,
		"supply":     cfg.TotalSupply.Dec(),
		"decimals":   fmt.Sprintf("%d", cfg.Decimals),
		"configHash": configHash.Hex(),
	})

	return &Receipt{
		Address:    addr,
		ConfigHash: configHash,
		TemplateID: templateID,
		FeePaid:    fee,
		Refund:     refund,
	}, nil
}

func (f *Factory) resolve(templateID string) (token.Implementation, error) {
	addr := f.state.Templates.Get(templateID)
	if addr == (common.Address{}) || !f.state.Templates.IsActive(templateID) {
		return token.Implementation{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}
	impl, ok := f.state.Codes.Get(addr)
	if !ok {
		return token.Implementation{}, fmt.Errorf("%w: no code for template %s", ErrTemplateNotFound, templateID)
	}
	return impl, nil
}

// ── template administration ───────────────────────────────────────────────────

// DeployImplementation places new delegate code with the given capabilities.
// Owner only; the result can then be registered as a template.
func (f *Factory) DeployImplementation(caller common.Address, caps token.Features) (token.Implementation, error) {
	if caller != f.state.Owner {
		return token.Implementation{}, ErrNotOwner
	}
	return f.state.Codes.Deploy(caps), nil
}

// AddTemplate registers (or overwrites) a template. Owner only.
func (f *Factory) AddTemplate(caller common.Address, id string, impl common.Address) error {
	if caller != f.state.Owner {
		return ErrNotOwner
	}
	if err := f.state.Templates.Add(id, impl, f.state.Codes); err != nil {
		return err
	}
	_ = f.sink.Emit(events.KindTemplateUpdated, map[string]string{
		"id":             id,
		"implementation": impl.Hex(),
	})
	return nil
}

// RemoveTemplate clears a template entry. Owner only. Instances already
// deployed from it keep working; only future deployments are affected.
func (f *Factory) RemoveTemplate(caller common.Address, id string) error {
	if caller != f.state.Owner {
		return ErrNotOwner
	}
	if err := f.state.Templates.Remove(id); err != nil {
		return err
	}
	_ = f.sink.Emit(events.KindTemplateUpdated, map[string]string{
		"id":             id,
		"implementation": (common.Address{}).Hex(),
	})
	return nil
}

// GetTemplate returns the implementation address for id, zero when unknown.
func (f *Factory) GetTemplate(id string) common.Address { return f.state.Templates.Get(id) }

// IsTemplateActive reports whether id has an active entry.
func (f *Factory) IsTemplateActive(id string) bool { return f.state.Templates.IsActive(id) }

// GetAllTemplates returns the registered template identifiers.
func (f *Factory) GetAllTemplates() []string { return f.state.Templates.All() }

// TemplateEntries returns full template entries for display.
func (f *Factory) TemplateEntries() []TemplateEntry { return f.state.Templates.Entries() }

// ── fee administration ────────────────────────────────────────────────────────

// SetServiceFee updates the fee charged per deployment. Owner only, bounded
// by MaxServiceFee.
func (f *Factory) SetServiceFee(caller common.Address, fee *uint256.Int) error {
	if caller != f.state.Owner {
		return ErrNotOwner
	}
	if err := f.state.Fees.SetFee(fee); err != nil {
		return err
	}
	_ = f.sink.Emit(events.KindFeeUpdated, map[string]string{
		"fee":       fee.Dec(),
		"recipient": f.state.Fees.Recipient().Hex(),
	})
	return nil
}

// SetFeeRecipient updates where collected fees go. Owner only.
func (f *Factory) SetFeeRecipient(caller common.Address, recipient common.Address) error {
	if caller != f.state.Owner {
		return ErrNotOwner
	}
	if err := f.state.Fees.SetRecipient(recipient); err != nil {
		return err
	}
	_ = f.sink.Emit(events.KindFeeUpdated, map[string]string{
		"fee":       f.state.Fees.Fee().Dec(),
		"recipient": recipient.Hex(),
	})
	return nil
}

// GetServiceFee returns the current per-deployment fee.
func (f *Factory) GetServiceFee() *uint256.Int { return f.state.Fees.Fee() }

// GetFeeRecipient returns the current fee recipient.
func (f *Factory) GetFeeRecipient() common.Address { return f.state.Fees.Recipient() }

// NativeBalance returns the native balance credited to addr by fee
// collection and refunds.
func (f *Factory) NativeBalance(addr common.Address) *uint256.Int {
	return f.state.Fees.Balance(addr)
}

// ── queries ───────────────────────────────────────────────────────────────────

// GetToken returns the deployed instance at addr.
func (f *Factory) GetToken(addr common.Address) (*token.Token, bool) {
	t, ok := f.state.Instances[addr]
	return t, ok
}

// GetTokensByCreator returns every instance addr has deployed, in creation
// order.
func (f *Factory) GetTokensByCreator(addr common.Address) []common.Address {
	idx := f.state.CreatorIndex[addr]
	out := make([]common.Address, len(idx))
	copy(out, idx)
	return out
}

// IsTokenDeployed reports whether symbol was ever used by this factory.
func (f *Factory) IsTokenDeployed(symbol string) bool { return f.state.Symbols[symbol] }

// GetTotalTokensCreated returns the number of successful deployments.
func (f *Factory) GetTotalTokensCreated() uint64 { return f.state.TokensCreated }

// GetTotalFeesCollected returns the sum of fees ever collected.
func (f *Factory) GetTotalFeesCollected() *uint256.Int { return f.state.Fees.TotalCollected() }

// PredictAddress computes the deployment address for (creator, cfg) with
// auto-selection, without deploying. Pure: repeatable any number of times and
// unaffected by other deployments.
func (f *Factory) PredictAddress(creator common.Address, cfg Config) (common.Address, error) {
	return f.PredictAddressWithTemplate(creator, cfg, SelectTemplate(cfg.Features()))
}

// PredictAddressWithTemplate predicts against an explicit template.
func (f *Factory) PredictAddressWithTemplate(creator common.Address, cfg Config, templateID string) (common.Address, error) {
	if err := validateConfig(cfg); err != nil {
		return common.Address{}, err
	}
	impl, err := f.resolve(templateID)
	if err != nil {
		return common.Address{}, err
	}
	return derive.InstanceAddress(f.state.Address, creator, cfg.Hash(), impl.Address), nil
}

// CalculateDeploymentCost estimates the work units for deploying cfg and
// returns the current service fee alongside.
func (f *Factory) CalculateDeploymentCost(cfg Config) (uint64, *uint256.Int) {
	work := uint64(costBase)
	for _, on := range []bool{cfg.Mintable, cfg.Burnable, cfg.Pausable, cfg.Capped} {
		if on {
			work += costPerFeature
		}
	}
	return work, f.state.Fees.Fee()
}
