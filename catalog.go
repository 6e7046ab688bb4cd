package nprovide

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Binding names a provider in a catalog.
type Binding struct {
	Name     string
	Provider Provider
}

func Bind(name string, p Provider) Binding {
	return Binding{Name: name, Provider: p}
}

// Catalog is a named collection of providers.  A provider belongs to
// the catalog that binds it first; it can be seen in other catalogs
// only by inheritance through Declare.
//
// A catalog can be overridden by another catalog: each provider of the
// other catalog overrides the same-named provider of this one.
type Catalog struct {
	name      string
	declared  bool
	parent    *Catalog
	providers map[string]Provider
	names     []string
	own       map[string]bool
	bound     map[Provider]string
	overrides []catalogOverride
}

// catalogOverride remembers which of our providers an override of the
// catalog actually overrode.
type catalogOverride struct {
	by      *Catalog
	applied []Provider
}

func newCatalog(name string, declared bool, parent *Catalog) *Catalog {
	return &Catalog{
		name:      name,
		declared:  declared,
		parent:    parent,
		providers: make(map[string]Provider),
		own:       make(map[string]bool),
		bound:     make(map[Provider]string),
	}
}

// NewCatalog creates a catalog that more providers can be bound to
// later with BindProvider.
func NewCatalog(name string, bindings ...Binding) (*Catalog, error) {
	c := newCatalog(name, false, nil)
	if err := c.bindAll(bindings); err != nil {
		return nil, err
	}
	return c, nil
}

// Declare creates a catalog whose providers are its own bindings plus
// the providers of parent.  Own bindings hide same-named providers of
// the parent.  Inherited providers are shared with the parent, not
// copied.  A declared catalog cannot be changed after it is created.
func Declare(name string, parent *Catalog, bindings ...Binding) (*Catalog, error) {
	c := newCatalog(name, true, parent)
	if err := c.bindAll(bindings); err != nil {
		return nil, err
	}
	if parent == nil {
		return c, nil
	}
	// Parent providers all have an owner, so bindAll has rejected them.
	for _, n := range parent.names {
		if !c.own[n] {
			c.add(n, parent.providers[n])
		}
	}
	return c, nil
}

// MustDeclare is Declare for package level declarations.  It panics on
// error.
func MustDeclare(name string, parent *Catalog, bindings ...Binding) *Catalog {
	c, err := Declare(name, parent, bindings...)
	if err != nil {
		panic(err)
	}
	return c
}

// BindProvider adds a provider to a catalog created with NewCatalog.
func (c *Catalog) BindProvider(name string, p Provider) error {
	if c.declared {
		return errors.Wrapf(ErrInvalidArgument, "%s is declared and cannot bind %q", c, name)
	}
	return c.bindAll([]Binding{{Name: name, Provider: p}})
}

// bindAll checks every binding before binding any of them.
func (c *Catalog) bindAll(bindings []Binding) error {
	names := make(map[string]bool, len(bindings))
	providers := make(map[Provider]string, len(bindings))
	for _, b := range bindings {
		if isNilProvider(b.Provider) {
			return errors.Wrapf(ErrInvalidProvider, "%s: %q is not a provider", c, b.Name)
		}
		if b.Name == "" {
			return errors.Wrapf(ErrInvalidArgument, "%s: %s has no name", c, b.Provider)
		}
		if names[b.Name] || c.providers[b.Name] != nil {
			return errors.Wrapf(ErrDuplicateBinding, "%s already has a provider named %q", c, b.Name)
		}
		if other, ok := providers[b.Provider]; ok {
			return errors.Wrapf(ErrDuplicateBinding, "%s: %s is bound as %q and %q", c, b.Provider, other, b.Name)
		}
		if other, ok := c.bound[b.Provider]; ok {
			return errors.Wrapf(ErrDuplicateBinding, "%s: %s is bound as %q and %q", c, b.Provider, other, b.Name)
		}
		if owner := b.Provider.core().owner; owner != nil && owner != c {
			return errors.Wrapf(ErrDuplicateBinding, "%s is already bound as %q in %s",
				b.Provider, b.Provider.core().bindName, owner)
		}
		names[b.Name] = true
		providers[b.Provider] = b.Name
	}
	for _, b := range bindings {
		core := b.Provider.core()
		core.owner = c
		core.bindName = b.Name
		c.own[b.Name] = true
		c.add(b.Name, b.Provider)
	}
	return nil
}

func (c *Catalog) add(name string, p Provider) {
	c.providers[name] = p
	c.names = append(c.names, name)
	c.bound[p] = name
}

func (c *Catalog) Name() string { return c.name }

// Parent is the catalog passed to Declare, if any.
func (c *Catalog) Parent() *Catalog { return c.parent }

func (c *Catalog) IsDeclared() bool { return c.declared }

// Get fails with ErrUndefinedProvider if there is no provider named
// name.
func (c *Catalog) Get(name string) (Provider, error) {
	p, ok := c.providers[name]
	if !ok {
		return nil, errors.Wrapf(ErrUndefinedProvider, "%s has no provider named %q", c, name)
	}
	return p, nil
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.providers[name]
	return ok
}

// Providers returns every provider by name, inherited ones included.
func (c *Catalog) Providers() map[string]Provider {
	return c.filter(func(string) bool { return true })
}

// OwnProviders returns the providers bound in this catalog.
func (c *Catalog) OwnProviders() map[string]Provider {
	return c.filter(func(n string) bool { return c.own[n] })
}

// InheritedProviders returns the providers that come from the parent.
func (c *Catalog) InheritedProviders() map[string]Provider {
	return c.filter(func(n string) bool { return !c.own[n] })
}

func (c *Catalog) filter(keep func(string) bool) map[string]Provider {
	m := make(map[string]Provider, len(c.providers))
	for n, p := range c.providers {
		if keep(n) {
			m[n] = p
		}
	}
	return m
}

// Names returns provider names in the order they were bound: own
// bindings first, then inherited ones.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// BindName returns the name of p in this catalog.
func (c *Catalog) BindName(p Provider) (string, bool) {
	if isNilProvider(p) {
		return "", false
	}
	n, ok := c.bound[p]
	return n, ok
}

// IsProviderBound reports whether p can be found in this catalog,
// including by inheritance.
func (c *Catalog) IsProviderBound(p Provider) bool {
	_, ok := c.BindName(p)
	return ok
}

// OwnerOf returns the catalog that bound p, nil if p is not bound.
func OwnerOf(p Provider) *Catalog {
	if isNilProvider(p) {
		return nil
	}
	return p.core().owner
}

// Filter returns the providers of c that are a P.  A concrete P
// matches that type only: Filter[*Factory] leaves out DelegatedFactory
// providers.  Use an interface such as FactoryProvider or
// StaticProvider to select a family.
//
//	factories := Filter[FactoryProvider](catalog)
func Filter[P Provider](c *Catalog) map[string]P {
	m := make(map[string]P)
	for n, p := range c.providers {
		if pp, ok := p.(P); ok {
			m[n] = pp
		}
	}
	return m
}

// Override overrides each provider of c with the same-named provider
// of other.  Every provider name of other must exist in c; when one
// does not, nothing is overridden.  Providers that are shared by both
// catalogs, as inherited providers are, are left alone.
func (c *Catalog) Override(other *Catalog) error {
	if other == nil {
		return errors.Wrapf(ErrInvalidArgument, "%s cannot be overridden with nil", c)
	}
	if other == c {
		return errors.Wrapf(ErrInvalidArgument, "%s cannot be overridden with itself", c)
	}
	for _, n := range other.names {
		if !c.Has(n) {
			return errors.Wrapf(ErrUndefinedProvider, "%s has no provider named %q to override from %s", c, n, other)
		}
	}
	var applied []Provider
	for _, n := range other.names {
		ours, theirs := c.providers[n], other.providers[n]
		if ours == theirs {
			continue
		}
		if err := ours.Override(theirs); err != nil {
			err = errors.Wrapf(err, "%s overriding %q", c, n)
			for i := len(applied) - 1; i >= 0; i-- {
				err = multierr.Append(err, applied[i].ResetLastOverriding())
			}
			return err
		}
		applied = append(applied, ours)
	}
	c.overrides = append(c.overrides, catalogOverride{by: other, applied: applied})
	log().Debug("catalog overridden",
		zap.String("catalog", c.name),
		zap.String("overriding", other.name),
		zap.Int("providers", len(applied)),
		zap.Int("depth", len(c.overrides)))
	return nil
}

func (c *Catalog) IsOverridden() bool { return len(c.overrides) > 0 }

// OverriddenBy returns the catalogs that have overridden c, oldest
// first.
func (c *Catalog) OverriddenBy() []*Catalog {
	if len(c.overrides) == 0 {
		return nil
	}
	by := make([]*Catalog, len(c.overrides))
	for i, o := range c.overrides {
		by[i] = o.by
	}
	return by
}

func (c *Catalog) LastOverriding() (*Catalog, error) {
	if len(c.overrides) == 0 {
		return nil, errors.Wrapf(ErrNotOverridden, "%s", c)
	}
	return c.overrides[len(c.overrides)-1].by, nil
}

// ResetLastOverriding undoes the most recent Override.
func (c *Catalog) ResetLastOverriding() error {
	if len(c.overrides) == 0 {
		return errors.Wrapf(ErrNotOverridden, "%s", c)
	}
	last := c.overrides[len(c.overrides)-1]
	c.overrides = c.overrides[:len(c.overrides)-1]
	var err error
	for i := len(last.applied) - 1; i >= 0; i-- {
		err = multierr.Append(err, last.applied[i].ResetLastOverriding())
	}
	log().Debug("catalog last override reset",
		zap.String("catalog", c.name),
		zap.String("overriding", last.by.name),
		zap.Int("depth", len(c.overrides)))
	if err != nil {
		return errors.Wrapf(err, "%s", c)
	}
	return nil
}

// ResetOverride removes every override of every provider of c,
// including overrides that were not made through c.
func (c *Catalog) ResetOverride() {
	for _, n := range c.names {
		c.providers[n].ResetOverride()
	}
	c.overrides = nil
	log().Debug("catalog overrides reset", zap.String("catalog", c.name))
}

func (c *Catalog) String() string {
	if c.declared {
		return "DeclaredCatalog(" + c.name + ")"
	}
	return "Catalog(" + c.name + ")"
}
