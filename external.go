package nprovide

import (
	"reflect"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

// ExternalDependency is a placeholder for something that must be
// provided from outside the catalog that declares it.  It has no value
// of its own: until it is overridden, calling it fails with
// ErrDependencyNotDefined.  Values provided by the overriding provider
// are checked against the declared type.
type ExternalDependency struct {
	base
	instanceOf reflect.Type
}

var _ Provider = &ExternalDependency{}

func NewExternalDependency(instanceOf reflect.Type) (*ExternalDependency, error) {
	if instanceOf == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "external dependency requires a type")
	}
	e := &ExternalDependency{instanceOf: instanceOf}
	e.initBase(e)
	return e, nil
}

// ExternalDependencyOf declares an external dependency on T.
//
//	db := ExternalDependencyOf[*sql.DB]()
func ExternalDependencyOf[T any]() *ExternalDependency {
	e, _ := NewExternalDependency(reflect.TypeOf((*T)(nil)).Elem())
	return e
}

func (e *ExternalDependency) Call(args ...any) (any, error) {
	p, err := e.LastOverriding()
	if err != nil {
		return nil, errors.Wrapf(ErrDependencyNotDefined, "%s", e)
	}
	v, err := p.Call(args...)
	if err != nil {
		return nil, err
	}
	if v == nil {
		if nilable(e.instanceOf) {
			return nil, nil
		}
		return nil, errors.Wrapf(ErrTypeMismatch, "%s received nil, which is not %s",
			e, reflectutils.TypeName(e.instanceOf))
	}
	if t := reflect.TypeOf(v); !t.AssignableTo(e.instanceOf) {
		return nil, errors.Wrapf(ErrTypeMismatch, "%s received %s, which is not %s",
			e, reflectutils.TypeName(t), reflectutils.TypeName(e.instanceOf))
	}
	return v, nil
}

// ProvidedBy is Override.
func (e *ExternalDependency) ProvidedBy(p Provider) error {
	return e.Override(p)
}

// InstanceOf is the declared type.
func (e *ExternalDependency) InstanceOf() reflect.Type { return e.instanceOf }

func (e *ExternalDependency) providedResultType() reflect.Type { return e.instanceOf }

func (e *ExternalDependency) String() string {
	return e.describe("ExternalDependency", reflectutils.TypeName(e.instanceOf))
}
