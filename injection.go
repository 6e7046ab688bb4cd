package nprovide

import (
	"fmt"

	"github.com/pkg/errors"
)

// InjectionKind decides which phase of construction consumes an
// Injection.
type InjectionKind int

const (
	PositionalKind InjectionKind = iota // positional
	NamedKind                           // named
	AttributeKind                       // attribute
	MethodKind                          // method
)

func (k InjectionKind) String() string {
	switch k {
	case PositionalKind:
		return "positional"
	case NamedKind:
		return "named"
	case AttributeKind:
		return "attribute"
	case MethodKind:
		return "method"
	default:
		return fmt.Sprintf("InjectionKind(%d)", int(k))
	}
}

// Injection pairs an injectable with where it goes.  The injectable is
// either a plain value, which is used as-is, or a Provider, which is
// called each time the injection is resolved.
type Injection struct {
	kind       InjectionKind
	name       string
	injectable any
}

// Arg is a positional argument injection.
func Arg(injectable any) Injection {
	return Injection{kind: PositionalKind, injectable: injectable}
}

// KwArg is a named argument injection.
func KwArg(name string, injectable any) Injection {
	return Injection{kind: NamedKind, name: name, injectable: injectable}
}

// Attribute is injected by setting a struct field of the constructed
// instance after construction.
func Attribute(name string, injectable any) Injection {
	return Injection{kind: AttributeKind, name: name, injectable: injectable}
}

// Method is injected by calling a method of the constructed instance,
// with the injectable's value as the only argument, after attributes
// are set.
func Method(name string, injectable any) Injection {
	return Injection{kind: MethodKind, name: name, injectable: injectable}
}

func (i Injection) Kind() InjectionKind { return i.kind }

// Name is empty for positional injections.
func (i Injection) Name() string { return i.name }

func (i Injection) Injectable() any { return i.injectable }

// Value resolves the injection.  There is no caching: providers are
// called every time.  Delegated providers are returned without being
// called.
func (i Injection) Value() (any, error) {
	p, ok := i.injectable.(Provider)
	if !ok || isNilProvider(p) {
		return i.injectable, nil
	}
	if IsDelegated(p) {
		return p, nil
	}
	v, err := p.Call()
	if err != nil {
		if i.name != "" {
			return nil, errors.Wrapf(err, "%s injection %q", i.kind, i.name)
		}
		return nil, errors.Wrapf(err, "%s injection", i.kind)
	}
	return v, nil
}

func (i Injection) String() string {
	if i.kind == PositionalKind {
		return fmt.Sprintf("%s(%s)", i.kind, describeValue(i.injectable))
	}
	return fmt.Sprintf("%s(%s=%s)", i.kind, i.name, describeValue(i.injectable))
}

// passedAsProvider is implemented by providers that injections pass
// along instead of calling.
type passedAsProvider interface {
	isDelegated() bool
}

// IsDelegated reports whether injections pass p along as a provider
// rather than calling it.
func IsDelegated(p Provider) bool {
	d, ok := p.(passedAsProvider)
	return ok && d.isDelegated()
}

// injections groups injections by kind, in declaration order.
type injections struct {
	args       []Injection
	kwargs     []Injection
	attributes []Injection
	methods    []Injection
}

// parseInjections sorts the simplified injection syntax: Injection
// values by kind, Kwargs into named injections, options into opts,
// anything else into positional injections.
func parseInjections(items []any, opts *options) (injections, error) {
	var inj injections
	for _, item := range items {
		switch v := item.(type) {
		case Injection:
			inj.add(v)
		case Kwargs:
			for _, k := range v.sortedKeys() {
				inj.add(KwArg(k, v[k]))
			}
		case Option:
			if opts == nil {
				return inj, errors.Wrap(ErrInvalidArgument, "options are not accepted here")
			}
			v(opts)
		default:
			inj.add(Arg(item))
		}
	}
	return inj, nil
}

func (inj *injections) add(i Injection) {
	switch i.kind {
	case PositionalKind:
		inj.args = append(inj.args, i)
	case NamedKind:
		inj.kwargs = append(inj.kwargs, i)
	case AttributeKind:
		inj.attributes = append(inj.attributes, i)
	case MethodKind:
		inj.methods = append(inj.methods, i)
	}
}

func (inj injections) all() []Injection {
	all := make([]Injection, 0, len(inj.args)+len(inj.kwargs)+len(inj.attributes)+len(inj.methods))
	all = append(all, inj.args...)
	all = append(all, inj.kwargs...)
	all = append(all, inj.attributes...)
	return append(all, inj.methods...)
}

// arguments resolves positional and named injections and merges the
// caller's arguments: caller positional values follow the injected
// ones, caller named values replace injected ones.
func (inj injections) arguments(call Arguments) (Arguments, error) {
	var a Arguments
	if n := len(inj.args) + len(call.Positional); n > 0 {
		a.Positional = make([]any, 0, n)
	}
	for _, i := range inj.args {
		v, err := i.Value()
		if err != nil {
			return a, err
		}
		a.Positional = append(a.Positional, v)
	}
	a.Positional = append(a.Positional, call.Positional...)
	if n := len(inj.kwargs) + len(call.Named); n > 0 {
		a.Named = make(Kwargs, n)
	}
	for _, i := range inj.kwargs {
		if _, ok := call.Named[i.name]; ok {
			continue
		}
		v, err := i.Value()
		if err != nil {
			return a, err
		}
		a.Named[i.name] = v
	}
	for k, v := range call.Named {
		a.Named[k] = v
	}
	return a, nil
}
