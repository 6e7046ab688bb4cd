package nprovide

import (
	"reflect"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

// static providers return the value they were created with.
type static struct {
	base
	value any
}

// StaticProvider is implemented by Class, Object, Function and Value.
type StaticProvider interface {
	Provider
	staticValue() any
}

func (s *static) staticValue() any { return s.value }

func (s *static) provide(Arguments) (any, error) { return s.value, nil }

func (s *static) providedResultType() reflect.Type {
	if s.value == nil {
		return nil
	}
	return reflect.TypeOf(s.value)
}

// Class provides a type.
type Class struct{ static }

var _ Provider = &Class{}

func NewClass(t reflect.Type) (*Class, error) {
	if t == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "class provider requires a type")
	}
	c := &Class{static{value: t}}
	c.initBase(c)
	return c, nil
}

// ClassOf is NewClass for T.
func ClassOf[T any]() *Class {
	c, _ := NewClass(reflect.TypeOf((*T)(nil)).Elem())
	return c
}

func (c *Class) Call(args ...any) (any, error) { return c.call(args, c.provide) }

// Type is the provided type, ignoring overrides.
func (c *Class) Type() reflect.Type { return c.value.(reflect.Type) }

func (c *Class) String() string { return c.describe("Class", reflectutils.TypeName(c.Type())) }

// Object provides a value that is shared by every caller.
type Object struct{ static }

var _ Provider = &Object{}

func NewObject(v any) *Object {
	o := &Object{static{value: v}}
	o.initBase(o)
	return o
}

func (o *Object) Call(args ...any) (any, error) { return o.call(args, o.provide) }

func (o *Object) String() string { return o.describe("Object", describeValue(o.value)) }

// Function provides a function without calling it.
type Function struct{ static }

var _ Provider = &Function{}

func NewFunction(fn any) (*Function, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, errors.Wrapf(ErrInvalidArgument, "function provider requires a function, got %s", describeValue(fn))
	}
	f := &Function{static{value: fn}}
	f.initBase(f)
	return f, nil
}

func (f *Function) Call(args ...any) (any, error) { return f.call(args, f.provide) }

func (f *Function) String() string { return f.describe("Function", describeValue(f.value)) }

// Value provides a plain value.
type Value struct{ static }

var _ Provider = &Value{}

func NewValue(v any) *Value {
	p := &Value{static{value: v}}
	p.initBase(p)
	return p
}

func (p *Value) Call(args ...any) (any, error) { return p.call(args, p.provide) }

func (p *Value) String() string { return p.describe("Value", describeValue(p.value)) }
