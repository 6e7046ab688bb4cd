package nprovide

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stringType = reflect.TypeOf("")

type exampleParams struct {
	In
	Arg1 string `nprovide:"arg1"`
	Arg2 string `nprovide:"arg2"`
	Skip string `nprovide:"-"`
	Plain int
}

type embeddedParams struct {
	In
	exampleParams
	Extra string
}

func TestInvokerSignatures(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		fn       any
		hasValue bool
		hasError bool
		named    namedSlot
		fixed    int
		err      bool
	}{
		{name: "value", fn: func(int) string { return "" }, hasValue: true, fixed: 1},
		{name: "value and error", fn: func() (string, error) { return "", nil }, hasValue: true, hasError: true},
		{name: "error only", fn: func() error { return nil }, hasError: true},
		{name: "nothing", fn: func(string) {}, fixed: 1},
		{name: "kwargs", fn: func(int, Kwargs) int { return 0 }, hasValue: true, named: kwargsSlot, fixed: 1},
		{name: "param object", fn: func(exampleParams) int { return 0 }, hasValue: true, named: paramObjectSlot},
		{name: "param pointer", fn: func(string, *exampleParams) int { return 0 }, hasValue: true, named: paramObjectSlot, fixed: 1},
		{name: "variadic", fn: func(string, ...int) int { return 0 }, hasValue: true, fixed: 1},
		{name: "not a function", fn: 7, err: true},
		{name: "nil", fn: nil, err: true},
		{name: "nil function", fn: (func())(nil), err: true},
		{name: "second not error", fn: func() (int, int) { return 0, 0 }, err: true},
		{name: "three results", fn: func() (int, int, error) { return 0, 0, nil }, err: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			iv, err := newInvoker(tc.fn)
			if tc.err {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.hasValue, iv.hasValue, "hasValue")
			assert.Equal(t, tc.hasError, iv.hasError, "hasError")
			assert.Equal(t, tc.named, iv.named, "named")
			assert.Equal(t, tc.fixed, iv.fixed, "fixed")
		})
	}
}

func TestInvokeArguments(t *testing.T) {
	t.Parallel()
	join := func(a, b string) string { return a + b }
	variadic := func(a string, rest ...string) string {
		for _, r := range rest {
			a += r
		}
		return a
	}
	kwargs := func(a string, kw Kwargs) string {
		return a + kw["x"].(string)
	}
	params := func(p exampleParams) string {
		return p.Arg1 + "/" + p.Arg2 + "/" + p.Skip
	}
	pointerParams := func(a string, p *exampleParams) string {
		return a + "/" + p.Arg1 + "/" + p.Arg2
	}
	embedded := func(p embeddedParams) string {
		return p.Arg1 + "/" + p.Extra
	}
	failing := func() (string, error) {
		return "", errors.New("failed")
	}
	nilable := func(p *int, m map[string]int) string {
		if p == nil && m == nil {
			return "nils"
		}
		return "values"
	}

	cases := []struct {
		name    string
		fn      any
		args    Arguments
		want    any
		errText string
	}{
		{name: "positional", fn: join, args: Arguments{Positional: []any{"a", "b"}}, want: "ab"},
		{name: "too few", fn: join, args: Arguments{Positional: []any{"a"}}, errText: "expects 2 positional arguments, got 1"},
		{name: "too many", fn: join, args: Arguments{Positional: []any{"a", "b", "c"}}, errText: "takes 2 positional arguments, got 3"},
		{name: "wrong type", fn: join, args: Arguments{Positional: []any{"a", 2}}, errText: "int is not assignable to string"},
		{name: "unexpected named", fn: join, args: Arguments{Positional: []any{"a", "b"}, Named: Kwargs{"z": 1, "y": 2}}, errText: "does not take named arguments, got y, z"},
		{name: "variadic", fn: variadic, args: Arguments{Positional: []any{"a", "b", "c"}}, want: "abc"},
		{name: "variadic empty", fn: variadic, args: Arguments{Positional: []any{"a"}}, want: "a"},
		{name: "variadic wrong type", fn: variadic, args: Arguments{Positional: []any{"a", 1}}, errText: "argument 2"},
		{name: "kwargs", fn: kwargs, args: Arguments{Positional: []any{"a"}, Named: Kwargs{"x": "b"}}, want: "ab"},
		{name: "kwargs too many", fn: kwargs, args: Arguments{Positional: []any{"a", "b"}}, errText: "takes 1 positional arguments, got 2"},
		{name: "params named", fn: params, args: Arguments{Named: Kwargs{"arg1": "x", "arg2": "y"}}, want: "x/y/"},
		{name: "params positional", fn: params, args: Arguments{Positional: []any{"x", "y"}}, want: "x/y/"},
		{name: "params named wins", fn: params, args: Arguments{Positional: []any{"x", "y"}, Named: Kwargs{"arg1": "z"}}, want: "z/y/"},
		{name: "params skipped field", fn: params, args: Arguments{Named: Kwargs{"Skip": "s"}}, errText: `has no field for named argument "Skip"`},
		{name: "params untagged", fn: params, args: Arguments{Named: Kwargs{"Plain": "s"}}, errText: "field Plain"},
		{name: "params too many", fn: params, args: Arguments{Positional: []any{"a", "b", 3, 4}}, errText: "has 3 fields, got 4 positional values"},
		{name: "params pointer", fn: pointerParams, args: Arguments{Positional: []any{"a", "b"}, Named: Kwargs{"arg2": "c"}}, want: "a/b/c"},
		{name: "embedded params", fn: embedded, args: Arguments{Named: Kwargs{"arg1": "x", "Extra": "e"}}, want: "x/e"},
		{name: "error result", fn: failing, errText: "failed"},
		{name: "nil for nilable", fn: nilable, args: Arguments{Positional: []any{nil, nil}}, want: "nils"},
		{name: "nil for string", fn: join, args: Arguments{Positional: []any{nil, "b"}}, errText: "nil cannot be used as string"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			iv, err := newInvoker(tc.fn)
			require.NoError(t, err)
			got, err := iv.invoke(tc.args)
			if tc.errText != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errText)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInvokeErrorKind(t *testing.T) {
	t.Parallel()
	iv, err := newInvoker(func(a string) string { return a })
	require.NoError(t, err)
	_, err = iv.invoke(Arguments{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	sentinel := errors.New("sentinel")
	iv, err = newInvoker(func() error { return sentinel })
	require.NoError(t, err)
	v, err := iv.invoke(Arguments{})
	assert.Nil(t, v)
	assert.ErrorIs(t, err, sentinel)
}

type attrTarget struct {
	Name    string
	Tagged  int `nprovide:"tagged"`
	private string
	Inner
	calls []string
}

type Inner struct {
	Depth int
}

func (t *attrTarget) SetPrivate(s string) { t.private = s }

func (t *attrTarget) Record(s string) error {
	if s == "" {
		return errors.New("empty")
	}
	t.calls = append(t.calls, s)
	return nil
}

func (t *attrTarget) TwoArgs(a, b string) {}

func TestSetAttribute(t *testing.T) {
	t.Parallel()
	tg := &attrTarget{}
	require.NoError(t, setAttribute(tg, "Name", "n"))
	require.NoError(t, setAttribute(tg, "tagged", 3))
	require.NoError(t, setAttribute(tg, "Depth", 2))
	assert.Equal(t, "n", tg.Name)
	assert.Equal(t, 3, tg.Tagged)
	assert.Equal(t, 2, tg.Depth)

	assert.ErrorIs(t, setAttribute(tg, "Tagged", 3), ErrInvalidArgument, "tagged fields are only found by tag")
	assert.ErrorIs(t, setAttribute(tg, "private", "x"), ErrInvalidArgument)
	assert.ErrorIs(t, setAttribute(tg, "Missing", "x"), ErrInvalidArgument)
	assert.ErrorIs(t, setAttribute(tg, "Name", 3), ErrInvalidArgument)
	assert.ErrorIs(t, setAttribute(attrTarget{}, "Name", "n"), ErrInvalidArgument)
	assert.ErrorIs(t, setAttribute("x", "Name", "n"), ErrInvalidArgument)
	var nilTarget *attrTarget
	assert.ErrorIs(t, setAttribute(nilTarget, "Name", "n"), ErrInvalidArgument)
}

func TestCallMethod(t *testing.T) {
	t.Parallel()
	tg := &attrTarget{}
	require.NoError(t, callMethod(tg, "SetPrivate", "p"))
	assert.Equal(t, "p", tg.private)
	require.NoError(t, callMethod(tg, "Record", "r"))
	assert.Equal(t, []string{"r"}, tg.calls)
	assert.EqualError(t, callMethod(tg, "Record", ""), "empty")
	assert.ErrorIs(t, callMethod(tg, "Missing", "x"), ErrInvalidArgument)
	assert.ErrorIs(t, callMethod(tg, "TwoArgs", "x"), ErrInvalidArgument)
	assert.ErrorIs(t, callMethod(tg, "SetPrivate", 1), ErrInvalidArgument)
}

func TestDescribeValue(t *testing.T) {
	t.Parallel()
	var nilTarget *attrTarget
	assert.Equal(t, "nil", describeValue(nil))
	assert.Contains(t, describeValue(nilTarget), "nil *")
	assert.Equal(t, "string", describeValue(stringType))
	assert.Equal(t, "string(s)", describeValue("s"))
	assert.Equal(t, "nprovide.TestDescribeValue", describeValue(TestDescribeValue))
	assert.Equal(t, "positional(string(x))", describeValue(Arg("x")))
}
