package nprovide

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

type namedSlot int

const (
	noNamedSlot namedSlot = iota
	kwargsSlot
	paramObjectSlot
)

// invoker calls a function with reflection, matching Arguments to its
// parameters.
type invoker struct {
	fn       reflect.Value
	name     string
	fixed    int // parameters filled from positional values
	variadic bool
	named    namedSlot
	params   *paramObject
	hasValue bool // first result is the provided value
	hasError bool // last result is an error
}

// paramObject describes a parameter struct that embeds In
type paramObject struct {
	t       reflect.Type
	pointer bool
	fields  []paramField
	byName  map[string]int
}

type paramField struct {
	name  string
	index []int
	t     reflect.Type
}

func newInvoker(fn any) (*invoker, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, errors.Wrapf(ErrInvalidArgument, "expected a function, got %s", describeValue(fn))
	}
	t := v.Type()
	iv := &invoker{
		fn:       v,
		name:     funcName(v),
		variadic: t.IsVariadic(),
		fixed:    t.NumIn(),
	}
	if iv.variadic {
		iv.fixed--
	} else if iv.fixed > 0 {
		last := t.In(iv.fixed - 1)
		switch {
		case last == kwargsType:
			iv.named = kwargsSlot
			iv.fixed--
		case isParamObject(last):
			iv.named = paramObjectSlot
			iv.params = newParamObject(last)
			iv.fixed--
		}
	}
	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) == errorType {
			iv.hasError = true
		} else {
			iv.hasValue = true
		}
	case 2:
		if t.Out(1) != errorType {
			return nil, errors.Wrapf(ErrInvalidArgument, "%s: the second result must be an error", iv.name)
		}
		iv.hasValue = true
		iv.hasError = true
	default:
		return nil, errors.Wrapf(ErrInvalidArgument, "%s: functions may return at most a value and an error", iv.name)
	}
	return iv, nil
}

// resultType is the type of the provided value, nil if the function
// returns no value.
func (iv *invoker) resultType() reflect.Type {
	if !iv.hasValue {
		return nil
	}
	return iv.fn.Type().Out(0)
}

func (iv *invoker) invoke(args Arguments) (any, error) {
	in, err := iv.arguments(args)
	if err != nil {
		return nil, err
	}
	out := iv.fn.Call(in)
	if iv.hasError {
		if e := out[len(out)-1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
	}
	if !iv.hasValue {
		return nil, nil
	}
	return out[0].Interface(), nil
}

func (iv *invoker) arguments(args Arguments) ([]reflect.Value, error) {
	t := iv.fn.Type()
	pos := args.Positional
	if len(pos) < iv.fixed {
		return nil, errors.Wrapf(ErrInvalidArgument, "%s expects %d positional arguments, got %d",
			iv.name, iv.fixed, len(pos))
	}
	in := make([]reflect.Value, 0, t.NumIn()+len(pos))
	for i := 0; i < iv.fixed; i++ {
		v, err := valueFor(pos[i], t.In(i))
		if err != nil {
			return nil, errors.Wrapf(err, "%s argument %d", iv.name, i+1)
		}
		in = append(in, v)
	}
	extra := pos[iv.fixed:]

	switch iv.named {
	case kwargsSlot:
		if len(extra) > 0 {
			return nil, iv.tooMany(len(pos))
		}
		kw := make(Kwargs, len(args.Named))
		for k, v := range args.Named {
			kw[k] = v
		}
		in = append(in, reflect.ValueOf(kw))
		return in, nil
	case paramObjectSlot:
		v, err := iv.params.fill(extra, args.Named)
		if err != nil {
			return nil, errors.Wrap(err, iv.name)
		}
		return append(in, v), nil
	}

	if len(args.Named) > 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "%s does not take named arguments, got %s",
			iv.name, strings.Join(args.Named.sortedKeys(), ", "))
	}
	if len(extra) > 0 {
		if !iv.variadic {
			return nil, iv.tooMany(len(pos))
		}
		et := t.In(t.NumIn() - 1).Elem()
		for i, e := range extra {
			v, err := valueFor(e, et)
			if err != nil {
				return nil, errors.Wrapf(err, "%s argument %d", iv.name, iv.fixed+i+1)
			}
			in = append(in, v)
		}
	}
	return in, nil
}

func (iv *invoker) tooMany(got int) error {
	return errors.Wrapf(ErrInvalidArgument, "%s takes %d positional arguments, got %d", iv.name, iv.fixed, got)
}

func isParamObject(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == inType {
			return true
		}
	}
	return false
}

func newParamObject(t reflect.Type) *paramObject {
	po := &paramObject{
		t:      t,
		byName: make(map[string]int),
	}
	if t.Kind() == reflect.Ptr {
		po.pointer = true
		po.t = t.Elem()
	}
	reflectutils.WalkStructElements(po.t, func(f reflect.StructField) bool {
		if f.Type == inType {
			return false
		}
		if f.Anonymous {
			return true
		}
		if f.PkgPath != "" {
			return false
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup(tagName); ok {
			if tag == "-" {
				return false
			}
			if tag != "" {
				name = tag
			}
		}
		po.byName[name] = len(po.fields)
		po.fields = append(po.fields, paramField{name: name, index: f.Index, t: f.Type})
		return false
	})
	return po
}

func (po *paramObject) fill(positional []any, named Kwargs) (reflect.Value, error) {
	if len(positional) > len(po.fields) {
		return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "%s has %d fields, got %d positional values",
			reflectutils.TypeName(po.t), len(po.fields), len(positional))
	}
	ptr := reflect.New(po.t)
	s := ptr.Elem()
	set := func(f paramField, value any) error {
		v, err := valueFor(value, f.t)
		if err != nil {
			return errors.Wrapf(err, "field %s", f.name)
		}
		s.FieldByIndex(f.index).Set(v)
		return nil
	}
	for i, value := range positional {
		if err := set(po.fields[i], value); err != nil {
			return reflect.Value{}, err
		}
	}
	for _, name := range named.sortedKeys() {
		i, ok := po.byName[name]
		if !ok {
			return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "%s has no field for named argument %q",
				reflectutils.TypeName(po.t), name)
		}
		if err := set(po.fields[i], named[name]); err != nil {
			return reflect.Value{}, err
		}
	}
	if po.pointer {
		return ptr, nil
	}
	return s, nil
}

// valueFor converts value into something assignable to t.
func valueFor(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		if nilable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "nil cannot be used as %s", reflectutils.TypeName(t))
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "%s is not assignable to %s",
			reflectutils.TypeName(v.Type()), reflectutils.TypeName(t))
	}
	return v, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// setAttribute assigns value to the exported field name (or the field
// tagged with that name) of the struct that instance points to.
func setAttribute(instance any, name string, value any) error {
	s, err := settableStruct(instance)
	if err != nil {
		return errors.Wrapf(err, "cannot set attribute %q", name)
	}
	var target *reflect.StructField
	reflectutils.WalkStructElements(s.Type(), func(f reflect.StructField) bool {
		if target != nil || f.PkgPath != "" {
			return false
		}
		if f.Tag.Get(tagName) == name || (f.Name == name && f.Tag.Get(tagName) == "") {
			f := f
			target = &f
			return false
		}
		return f.Anonymous
	})
	if target == nil {
		return errors.Wrapf(ErrInvalidArgument, "%s has no attribute %q", describeValue(instance), name)
	}
	field, err := s.FieldByIndexErr(target.Index)
	if err != nil {
		return errors.Wrapf(ErrInvalidArgument, "attribute %q: %s", name, err)
	}
	v, err := valueFor(value, field.Type())
	if err != nil {
		return errors.Wrapf(err, "attribute %q", name)
	}
	field.Set(v)
	return nil
}

func settableStruct(instance any) (reflect.Value, error) {
	v := reflect.ValueOf(instance)
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, errors.Wrap(ErrInvalidArgument, "instance is nil")
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "%s is not a struct", describeValue(instance))
	}
	if !v.CanSet() {
		return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "%s is not a pointer", describeValue(instance))
	}
	return v, nil
}

// callMethod invokes the method name of instance with value as its
// only argument.
func callMethod(instance any, name string, value any) error {
	m := reflect.ValueOf(instance).MethodByName(name)
	if !m.IsValid() {
		return errors.Wrapf(ErrInvalidArgument, "%s has no method %q", describeValue(instance), name)
	}
	mt := m.Type()
	if mt.NumIn() != 1 {
		return errors.Wrapf(ErrInvalidArgument, "method %q must take exactly one argument", name)
	}
	argType := mt.In(0)
	if mt.IsVariadic() {
		argType = argType.Elem()
	}
	v, err := valueFor(value, argType)
	if err != nil {
		return errors.Wrapf(err, "method %q", name)
	}
	out := m.Call([]reflect.Value{v})
	if n := len(out); n > 0 && mt.Out(n-1) == errorType && !out[n-1].IsNil() {
		return out[n-1].Interface().(error)
	}
	return nil
}

func funcName(v reflect.Value) string {
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		name := f.Name()
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	return reflectutils.TypeName(v.Type())
}

func describeValue(v any) string {
	if v == nil {
		return "nil"
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return "nil " + reflectutils.TypeName(rv.Type())
	}
	switch x := v.(type) {
	case reflect.Type:
		return reflectutils.TypeName(x)
	case fmt.Stringer:
		return x.String()
	}
	if rv.Kind() == reflect.Func {
		if rv.IsNil() {
			return "nil " + reflectutils.TypeName(rv.Type())
		}
		return funcName(rv)
	}
	return fmt.Sprintf("%s(%v)", reflectutils.TypeName(rv.Type()), v)
}
