package nprovide

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Path names a value nested in a Config, one map key per element.
type Path []string

func (p Path) String() string { return strings.Join(p, ".") }

// Config provides a configuration mapping, or a value nested inside
// it when called with a Path.
//
//	cfg := NewConfig(map[string]any{"db": map[string]any{"host": "localhost"}})
//	host := cfg.Child("db", "host")
type Config struct {
	base
	value map[string]any
}

var _ Provider = &Config{}

func NewConfig(value map[string]any) *Config {
	if value == nil {
		value = make(map[string]any)
	}
	c := &Config{value: value}
	c.initBase(c)
	return c
}

// Call with no arguments returns the whole mapping.  Call with a Path
// returns the value at that path.
func (c *Config) Call(args ...any) (any, error) {
	return c.call(args, c.provide)
}

func (c *Config) provide(args Arguments) (any, error) {
	if len(args.Named) > 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "%s does not take named arguments", c)
	}
	switch len(args.Positional) {
	case 0:
		return c.value, nil
	case 1:
		switch p := args.Positional[0].(type) {
		case Path:
			return c.lookup(p)
		case []string:
			return c.lookup(Path(p))
		}
	}
	return nil, errors.Wrapf(ErrInvalidArgument, "%s takes at most one Path argument", c)
}

// Lookup is Call with a Path.
func (c *Config) Lookup(path Path) (any, error) {
	return c.Call(path)
}

func (c *Config) lookup(path Path) (any, error) {
	var current any = c.value
	for _, key := range path {
		v, ok := mapIndex(current, key)
		if !ok {
			return nil, errors.Wrapf(ErrUndefinedConfigKey, "%s", path)
		}
		current = v
	}
	return current, nil
}

// mapIndex looks up key in m, which may be any map with string keys.
func mapIndex(m any, key string) (any, bool) {
	if sm, ok := m.(map[string]any); ok {
		v, ok := sm[key]
		return v, ok
	}
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

// Child returns a provider of the value at names.  The value is looked
// up when the child is called, not when it is created.
func (c *Config) Child(names ...string) *ChildConfig {
	return newChildConfig(c, append(Path(nil), names...))
}

// UpdateFrom copies the top level keys of m into the configuration,
// replacing existing values.
func (c *Config) UpdateFrom(m map[string]any) {
	for k, v := range m {
		c.value[k] = v
	}
}

func (c *Config) String() string { return c.describe("Config", "") }

// ChildConfig provides the value at a path of a Config.
type ChildConfig struct {
	base
	root *Config
	path Path
}

var _ Provider = &ChildConfig{}

func newChildConfig(root *Config, path Path) *ChildConfig {
	cc := &ChildConfig{root: root, path: path}
	cc.initBase(cc)
	return cc
}

func (cc *ChildConfig) Call(args ...any) (any, error) {
	return cc.call(args, func(Arguments) (any, error) {
		return cc.root.Call(cc.path)
	})
}

func (cc *ChildConfig) forwardsTo() Provider { return cc.root }

// Child extends the path.
func (cc *ChildConfig) Child(names ...string) *ChildConfig {
	path := make(Path, 0, len(cc.path)+len(names))
	path = append(path, cc.path...)
	return newChildConfig(cc.root, append(path, names...))
}

func (cc *ChildConfig) Path() Path { return append(Path(nil), cc.path...) }

func (cc *ChildConfig) Root() *Config { return cc.root }

func (cc *ChildConfig) String() string { return cc.describe("ChildConfig", cc.path.String()) }
