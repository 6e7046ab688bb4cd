package nprovide

import (
	"strings"

	"github.com/pkg/errors"
)

// Bundle is a subset of the providers of one catalog, under the names
// they have in that catalog.
type Bundle struct {
	catalog   *Catalog
	providers map[string]Provider
	names     []string
}

// Bundle groups providers of c.  Each must be bound in c (inherited
// providers count) and may appear only once.
func (c *Catalog) Bundle(providers ...Provider) (*Bundle, error) {
	b := &Bundle{
		catalog:   c,
		providers: make(map[string]Provider, len(providers)),
	}
	for _, p := range providers {
		if isNilProvider(p) {
			return nil, errors.Wrapf(ErrInvalidProvider, "bundle of %s cannot hold nil", c)
		}
		name, ok := c.bound[p]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidProvider, "%s is not bound in %s", p, c)
		}
		if _, ok := b.providers[name]; ok {
			return nil, errors.Wrapf(ErrDuplicateBinding, "bundle of %s already has %q", c, name)
		}
		b.providers[name] = p
		b.names = append(b.names, name)
	}
	return b, nil
}

// IsBundleOwner reports whether b was made from c.
func (c *Catalog) IsBundleOwner(b *Bundle) bool {
	return b != nil && b.catalog == c
}

// Get fails with ErrUndefinedProvider when name is not in the bundle,
// even if the catalog has it.
func (b *Bundle) Get(name string) (Provider, error) {
	p, ok := b.providers[name]
	if !ok {
		return nil, errors.Wrapf(ErrUndefinedProvider, "%s has no provider named %q", b, name)
	}
	return p, nil
}

func (b *Bundle) Has(name string) bool {
	_, ok := b.providers[name]
	return ok
}

func (b *Bundle) Providers() map[string]Provider {
	m := make(map[string]Provider, len(b.providers))
	for n, p := range b.providers {
		m[n] = p
	}
	return m
}

// Names are in the order the providers were given.
func (b *Bundle) Names() []string { return append([]string(nil), b.names...) }

func (b *Bundle) Catalog() *Catalog { return b.catalog }

func (b *Bundle) String() string {
	return "Bundle(" + b.catalog.name + ": " + strings.Join(b.names, ", ") + ")"
}
