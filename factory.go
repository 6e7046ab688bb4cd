package nprovide

import (
	"reflect"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

type options struct {
	providedType reflect.Type
	lock         *ReentrantLock
}

// Option adjusts a Factory or Singleton.  Options are passed in the
// injection list.
type Option func(*options)

// ProvidedType declares the type a Factory (or Singleton) provides.  The
// function's result must be assignable to t.  Providers that override
// it and declare what they provide must provide something assignable to
// t as well.
func ProvidedType(t reflect.Type) Option {
	return func(o *options) {
		o.providedType = t
	}
}

// typed is implemented by providers that know the type they provide.
type typed interface {
	providedResultType() reflect.Type
}

// Factory calls a function each time it is called and returns the
// result.  Injections are resolved on every call.  After the function
// returns, attribute injections are set on the result and then method
// injections are called on it.
type Factory struct {
	base
	provides     any
	iv           *invoker
	inj          injections
	providedType reflect.Type
}

var _ Provider = &Factory{}

// NewFactory creates a factory provider.  provides must be a function
// that returns a value and optionally an error.  The injections can be
// Injection values, Kwargs, the ProvidedType option, or plain values
// which are taken as positional injections.
//
//	f, err := NewFactory(NewExample, "i1", Kwargs{"arg2": other})
func NewFactory(provides any, injections ...any) (*Factory, error) {
	f := &Factory{}
	var opts options
	if err := f.setup(provides, injections, &opts); err != nil {
		return nil, err
	}
	if opts.lock != nil {
		return nil, errors.Wrap(ErrInvalidArgument, "WithLock only applies to singletons")
	}
	f.initBase(f)
	return f, nil
}

func (f *Factory) setup(provides any, items []any, opts *options) error {
	iv, err := newInvoker(provides)
	if err != nil {
		return err
	}
	if !iv.hasValue {
		return errors.Wrapf(ErrInvalidArgument, "%s does not return a value", iv.name)
	}
	inj, err := parseInjections(items, opts)
	if err != nil {
		return err
	}
	if opts.providedType != nil && !iv.resultType().AssignableTo(opts.providedType) {
		return errors.Wrapf(ErrTypeMismatch, "%s returns %s which is not %s", iv.name,
			reflectutils.TypeName(iv.resultType()), reflectutils.TypeName(opts.providedType))
	}
	f.provides = provides
	f.iv = iv
	f.inj = inj
	f.providedType = opts.providedType
	return nil
}

func (f *Factory) Call(args ...any) (any, error) {
	return f.call(args, f.provide)
}

func (f *Factory) provide(args Arguments) (any, error) {
	v, err := f.construct(args)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", f.self)
	}
	return v, nil
}

func (f *Factory) construct(args Arguments) (any, error) {
	a, err := f.inj.arguments(args)
	if err != nil {
		return nil, err
	}
	instance, err := f.iv.invoke(a)
	if err != nil {
		return nil, err
	}
	for _, i := range f.inj.attributes {
		v, err := i.Value()
		if err != nil {
			return nil, err
		}
		if err := setAttribute(instance, i.name, v); err != nil {
			return nil, err
		}
	}
	for _, i := range f.inj.methods {
		v, err := i.Value()
		if err != nil {
			return nil, err
		}
		if err := callMethod(instance, i.name, v); err != nil {
			return nil, errors.Wrapf(err, "method %q", i.name)
		}
	}
	return instance, nil
}

func (f *Factory) providedResultType() reflect.Type {
	if f.providedType != nil {
		return f.providedType
	}
	return f.iv.resultType()
}

func (f *Factory) validateOverride(overriding Provider) error {
	if f.providedType == nil {
		return nil
	}
	t, ok := overriding.(typed)
	if !ok {
		return nil
	}
	ot := t.providedResultType()
	if ot == nil || ot.AssignableTo(f.providedType) {
		return nil
	}
	return errors.Wrapf(ErrTypeMismatch, "%s provides %s and cannot override %s which provides %s",
		overriding, reflectutils.TypeName(ot), f.self, reflectutils.TypeName(f.providedType))
}

// Provides returns the function that the factory calls.
func (f *Factory) Provides() any { return f.provides }

// Injections returns all injections: positional, named, attribute,
// then method.
func (f *Factory) Injections() []Injection { return f.inj.all() }

// AddArgs appends positional injections.  An Injection of another
// kind, such as a KwArg, is added as that kind.
func (f *Factory) AddArgs(args ...any) *Factory {
	for _, a := range args {
		if i, ok := a.(Injection); ok {
			f.inj.add(i)
			continue
		}
		f.inj.add(Arg(a))
	}
	return f
}

// AddKwargs adds named injections.
func (f *Factory) AddKwargs(kwargs Kwargs) *Factory {
	for _, k := range kwargs.sortedKeys() {
		f.inj.add(KwArg(k, kwargs[k]))
	}
	return f
}

// AddAttributes adds attribute injections, in name order.
func (f *Factory) AddAttributes(attributes map[string]any) *Factory {
	for _, k := range Kwargs(attributes).sortedKeys() {
		f.inj.add(Attribute(k, attributes[k]))
	}
	return f
}

// AddMethods adds method injections, in name order.
func (f *Factory) AddMethods(methods map[string]any) *Factory {
	for _, k := range Kwargs(methods).sortedKeys() {
		f.inj.add(Method(k, methods[k]))
	}
	return f
}

func (f *Factory) String() string { return f.describe("Factory", f.iv.name) }

// FactoryProvider is implemented by Factory and by the providers built
// on it, such as DelegatedFactory.
type FactoryProvider interface {
	Provider
	Provides() any
	Injections() []Injection
	asFactory() *Factory
}

var (
	_ FactoryProvider = &Factory{}
	_ FactoryProvider = &DelegatedFactory{}
)

func (f *Factory) asFactory() *Factory { return f }

// DelegatedFactory is a Factory that is injected as a provider rather
// than called when it is used as an injection.
type DelegatedFactory struct {
	Factory
}

var _ Provider = &DelegatedFactory{}

func NewDelegatedFactory(provides any, injections ...any) (*DelegatedFactory, error) {
	d := &DelegatedFactory{}
	var opts options
	if err := d.setup(provides, injections, &opts); err != nil {
		return nil, err
	}
	if opts.lock != nil {
		return nil, errors.Wrap(ErrInvalidArgument, "WithLock only applies to singletons")
	}
	d.initBase(d)
	return d, nil
}

func (d *DelegatedFactory) isDelegated() bool { return true }

func (d *DelegatedFactory) String() string { return d.describe("DelegatedFactory", d.iv.name) }
