package nprovide

import (
	"reflect"
	"sort"
)

// Kwargs holds named arguments.  When passed to Call, or as an
// injection to NewFactory, NewSingleton, or NewCallable, its entries are
// named rather than positional.
type Kwargs map[string]any

// Arguments are the positional and named values a provider is called
// with.
type Arguments struct {
	Positional []any
	Named      Kwargs
}

// In marks a parameter object.  A function whose last parameter is a
// struct (or pointer to a struct) that embeds In receives its named
// arguments as fields of that struct.  Fields are matched by the
// `nprovide` struct tag or, without a tag, by field name.  Positional
// values that are left over after the regular parameters are filled
// fill the fields in order.
//
//	type ExampleParams struct {
//		nprovide.In
//		Arg1 string `nprovide:"arg1"`
//		Arg2 string `nprovide:"arg2"`
//	}
//
//	func NewExample(p ExampleParams) *Example { ... }
type In struct{}

var (
	inType     = reflect.TypeOf(In{})
	kwargsType = reflect.TypeOf(Kwargs{})
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

const tagName = "nprovide"

func splitArgs(args []any) Arguments {
	var a Arguments
	for _, arg := range args {
		if kw, ok := arg.(Kwargs); ok {
			if a.Named == nil {
				a.Named = make(Kwargs, len(kw))
			}
			for k, v := range kw {
				a.Named[k] = v
			}
			continue
		}
		a.Positional = append(a.Positional, arg)
	}
	return a
}

func (kw Kwargs) sortedKeys() []string {
	keys := make([]string, 0, len(kw))
	for k := range kw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
