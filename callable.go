package nprovide

import (
	"reflect"

	"github.com/pkg/errors"
)

// Callable calls a function with its injections and the caller's
// arguments and returns the result.  Unlike Factory, the function need
// not return a value: a function returning only an error provides nil.
type Callable struct {
	base
	provides any
	iv       *invoker
	inj      injections
}

var _ Provider = &Callable{}

// NewCallable accepts positional and named injections only.
func NewCallable(fn any, injections ...any) (*Callable, error) {
	iv, err := newInvoker(fn)
	if err != nil {
		return nil, err
	}
	inj, err := parseInjections(injections, nil)
	if err != nil {
		return nil, err
	}
	if len(inj.attributes) > 0 || len(inj.methods) > 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "%s: callables take only positional and named injections", iv.name)
	}
	c := &Callable{provides: fn, iv: iv, inj: inj}
	c.initBase(c)
	return c, nil
}

func (c *Callable) Call(args ...any) (any, error) {
	return c.call(args, c.provide)
}

func (c *Callable) provide(args Arguments) (any, error) {
	a, err := c.inj.arguments(args)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", c)
	}
	v, err := c.iv.invoke(a)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", c)
	}
	return v, nil
}

func (c *Callable) Provides() any { return c.provides }

func (c *Callable) Injections() []Injection { return c.inj.all() }

func (c *Callable) providedResultType() reflect.Type { return c.iv.resultType() }

func (c *Callable) String() string { return c.describe("Callable", c.iv.name) }
