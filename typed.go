package nprovide

import (
	"reflect"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

// Get calls p and returns its value as a T.
//
//	p, _ := catalog.Get("db")
//	db, err := nprovide.Get[*sql.DB](p)
func Get[T any](p Provider, args ...any) (T, error) {
	var zero T
	if isNilProvider(p) {
		return zero, errors.Wrap(ErrInvalidProvider, "nil provider")
	}
	v, err := p.Call(args...)
	if err != nil {
		return zero, err
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	want := reflect.TypeOf((*T)(nil)).Elem()
	if v == nil {
		if nilable(want) {
			return zero, nil
		}
		return zero, errors.Wrapf(ErrTypeMismatch, "%s provided nil, not %s", p, reflectutils.TypeName(want))
	}
	return zero, errors.Wrapf(ErrTypeMismatch, "%s provided %s, not %s",
		p, reflectutils.TypeName(reflect.TypeOf(v)), reflectutils.TypeName(want))
}

// MustGet is Get that panics on error.
func MustGet[T any](p Provider, args ...any) T {
	v, err := Get[T](p, args...)
	if err != nil {
		panic(err)
	}
	return v
}
