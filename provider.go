package nprovide

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var idCounter int32

// Provider is something that produces a value when called.  Every
// provider can be overridden by other providers: while overridden, Call
// is passed through, arguments unchanged, to the most recent overriding
// provider.
//
// Overriding is meant to happen while an application is being set up.
// The override methods are not safe to use concurrently with Call.
type Provider interface {
	// Call returns the provided value.  Arguments of type Kwargs are
	// named arguments; all others are positional.
	Call(args ...any) (any, error)

	// Override appends overriding to the override chain.
	Override(overriding Provider) error

	// ResetLastOverriding removes the most recent override.
	ResetLastOverriding() error

	// ResetOverride removes all overrides.
	ResetOverride()

	IsOverridden() bool

	// LastOverriding returns the provider that Call currently
	// passes through to.
	LastOverriding() (Provider, error)

	// OverriddenBy returns a copy of the override chain, oldest first.
	OverriddenBy() []Provider

	// Delegate returns a provider that provides this provider.
	Delegate() *Delegate

	// ID is unique for each provider created in this process.
	ID() int32

	String() string

	core() *base
}

// base holds the override chain and catalog ownership that every
// provider has.
type base struct {
	id    int32
	self  Provider
	chain []Provider

	// set when the provider is declared in a catalog
	owner    *Catalog
	bindName string
}

func (b *base) initBase(self Provider) {
	b.id = atomic.AddInt32(&idCounter, 1)
	b.self = self
}

func (b *base) core() *base { return b }

func (b *base) ID() int32 { return b.id }

// overrideValidator is implemented by providers that restrict what may
// override them.
type overrideValidator interface {
	validateOverride(overriding Provider) error
}

func (b *base) Override(overriding Provider) error {
	if isNilProvider(overriding) {
		return errors.Wrapf(ErrInvalidProvider, "%s cannot be overridden with nil", b.self)
	}
	if overriding == b.self {
		return errors.Wrapf(ErrInvalidProvider, "%s cannot be overridden with itself", b.self)
	}
	if overrides(overriding, b.self) {
		return errors.Wrapf(ErrInvalidProvider, "%s cannot be overridden with %s, which calls it back", b.self, overriding)
	}
	if v, ok := b.self.(overrideValidator); ok {
		if err := v.validateOverride(overriding); err != nil {
			return err
		}
	}
	b.chain = append(b.chain, overriding)
	log().Debug("provider overridden",
		providerField(b.self),
		zap.Stringer("overriding", overriding),
		zap.Int("depth", len(b.chain)))
	return nil
}

// forwarder is implemented by providers whose own strategy calls
// another provider.
type forwarder interface {
	forwardsTo() Provider
}

// overrides reports whether calling p can reach target: through p's
// override chain, the chains of its overriding providers, or a
// provider it forwards to.  Earlier chain entries count because resets
// expose them again.
func overrides(p Provider, target Provider) bool {
	seen := make(map[Provider]bool)
	stack := []Provider{p}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		next := n.core().chain
		if f, ok := n.(forwarder); ok {
			next = append(next[:len(next):len(next)], f.forwardsTo())
		}
		for _, o := range next {
			if o == target {
				return true
			}
			if !seen[o] {
				seen[o] = true
				stack = append(stack, o)
			}
		}
	}
	return false
}

func (b *base) ResetLastOverriding() error {
	if len(b.chain) == 0 {
		return errors.Wrapf(ErrNotOverridden, "%s", b.self)
	}
	b.chain[len(b.chain)-1] = nil
	b.chain = b.chain[:len(b.chain)-1]
	log().Debug("last override reset", providerField(b.self), zap.Int("depth", len(b.chain)))
	return nil
}

func (b *base) ResetOverride() {
	if len(b.chain) == 0 {
		return
	}
	b.chain = nil
	log().Debug("overrides reset", providerField(b.self))
}

func (b *base) IsOverridden() bool { return len(b.chain) > 0 }

func (b *base) LastOverriding() (Provider, error) {
	if len(b.chain) == 0 {
		return nil, errors.Wrapf(ErrNotOverridden, "%s", b.self)
	}
	return b.chain[len(b.chain)-1], nil
}

func (b *base) OverriddenBy() []Provider {
	if len(b.chain) == 0 {
		return nil
	}
	c := make([]Provider, len(b.chain))
	copy(c, b.chain)
	return c
}

func (b *base) Delegate() *Delegate {
	return newDelegate(b.self)
}

// call is the common Call implementation: pass through to the last
// overriding provider or run the provider's own strategy.
func (b *base) call(args []any, provide func(Arguments) (any, error)) (any, error) {
	if n := len(b.chain); n > 0 {
		return b.chain[n-1].Call(args...)
	}
	return provide(splitArgs(args))
}

func (b *base) describe(kind string, provides string) string {
	return fmt.Sprintf("<nprovide.%s(%s) #%d>", kind, provides, b.id)
}

func isNilProvider(p Provider) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// IsProvider reports whether v is a (non-nil) Provider.
func IsProvider(v any) bool {
	p, ok := v.(Provider)
	return ok && !isNilProvider(p)
}

// EnsureIsProvider returns v as a Provider or fails with
// ErrInvalidProvider.
func EnsureIsProvider(v any) (Provider, error) {
	if !IsProvider(v) {
		return nil, errors.Wrapf(ErrInvalidProvider, "expected a provider, got %s", describeValue(v))
	}
	return v.(Provider), nil
}

// Delegate provides another provider.  It is the way to inject a
// provider itself rather than the value it provides.
type Delegate struct {
	base
	delegated Provider
}

var _ Provider = &Delegate{}

// NewDelegate creates a Delegate of delegated, which must be a provider.
func NewDelegate(delegated any) (*Delegate, error) {
	p, err := EnsureIsProvider(delegated)
	if err != nil {
		return nil, err
	}
	return newDelegate(p), nil
}

func newDelegate(p Provider) *Delegate {
	d := &Delegate{delegated: p}
	d.initBase(d)
	return d
}

// Call returns the delegated provider.
func (d *Delegate) Call(args ...any) (any, error) {
	return d.call(args, func(Arguments) (any, error) {
		return d.delegated, nil
	})
}

// Delegated is the provider that is provided.
func (d *Delegate) Delegated() Provider { return d.delegated }

func (d *Delegate) String() string { return d.describe("Delegate", d.delegated.String()) }

// Custom is a provider with a caller supplied providing strategy.
type Custom struct {
	base
	name     string
	strategy func(Arguments) (any, error)
}

var _ Provider = &Custom{}

// NewCustom creates a provider that runs strategy each time it is
// called and not overridden.
func NewCustom(name string, strategy func(args Arguments) (any, error)) (*Custom, error) {
	if strategy == nil {
		return nil, errors.Wrapf(ErrInvalidArgument, "custom provider %q requires a strategy", name)
	}
	c := &Custom{name: name, strategy: strategy}
	c.initBase(c)
	return c, nil
}

func (c *Custom) Call(args ...any) (any, error) {
	return c.call(args, c.strategy)
}

func (c *Custom) String() string { return c.describe("Custom", c.name) }
