package nprovide_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muir/nprovide"
)

type Greeter struct {
	Greeting string
	Name     string
	Suffix   string `nprovide:"suffix"`
}

func (g *Greeter) Greet() string {
	return g.Greeting + ", " + g.Name + g.Suffix
}

type greeterParams struct {
	nprovide.In
	Greeting string `nprovide:"greeting"`
	Name     string `nprovide:"name"`
}

func NewGreeter(p greeterParams) *Greeter {
	return &Greeter{Greeting: p.Greeting, Name: p.Name}
}

func ExampleNewFactory() {
	f, err := nprovide.NewFactory(NewGreeter,
		"Hello",
		nprovide.Kwargs{"name": "world"},
		nprovide.Attribute("suffix", "!"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(nprovide.MustGet[*Greeter](f).Greet())
	fmt.Println(nprovide.MustGet[*Greeter](f, nprovide.Kwargs{"name": "gopher"}).Greet())
	// Output: Hello, world!
	// Hello, gopher!
}

func ExampleNewSingleton() {
	s, _ := nprovide.NewSingleton(NewGreeter, "Hi", "there")
	first := nprovide.MustGet[*Greeter](s)
	second := nprovide.MustGet[*Greeter](s)
	fmt.Println(first == second)
	s.Reset()
	fmt.Println(first == nprovide.MustGet[*Greeter](s))
	// Output: true
	// false
}

func ExampleConfig_Child() {
	config := nprovide.NewConfig(nil)
	name := config.Child("greeter", "name")
	greeter, _ := nprovide.NewFactory(NewGreeter, "Hello", nprovide.KwArg("name", name))

	_, err := greeter.Call()
	fmt.Println(errors.Is(err, nprovide.ErrUndefinedConfigKey))

	config.UpdateFrom(map[string]any{
		"greeter": map[string]any{"name": "config"},
	})
	fmt.Println(nprovide.MustGet[*Greeter](greeter).Greet())
	// Output: true
	// Hello, config
}

func ExampleExternalDependency() {
	name := nprovide.ExternalDependencyOf[string]()
	_, err := name.Call()
	fmt.Println(errors.Is(err, nprovide.ErrDependencyNotDefined))

	_ = name.ProvidedBy(nprovide.NewValue("external"))
	fmt.Println(nprovide.MustGet[string](name))

	_ = name.ProvidedBy(nprovide.NewValue(7))
	_, err = name.Call()
	fmt.Println(errors.Is(err, nprovide.ErrTypeMismatch))
	// Output: true
	// external
	// true
}

func ExampleDeclare() {
	core := nprovide.MustDeclare("core", nil,
		nprovide.Bind("greeting", nprovide.NewValue("Hello")),
		nprovide.Bind("name", nprovide.NewValue("core")))
	greeting, _ := core.Get("greeting")
	name, _ := core.Get("name")
	greeter, _ := nprovide.NewFactory(NewGreeter, greeting, name)
	services := nprovide.MustDeclare("services", core,
		nprovide.Bind("greeter", greeter))

	fmt.Println(strings.Join(services.Names(), " "))

	test := nprovide.MustDeclare("test", nil,
		nprovide.Bind("name", nprovide.NewValue("test")))
	if err := services.Override(test); err != nil {
		fmt.Println(err)
		return
	}
	g, _ := services.Get("greeter")
	fmt.Println(nprovide.MustGet[*Greeter](g).Greet())

	_ = services.ResetLastOverriding()
	fmt.Println(nprovide.MustGet[*Greeter](g).Greet())
	// Output: greeter greeting name
	// Hello, test
	// Hello, core
}

func ExampleCatalog_Bundle() {
	c, _ := nprovide.NewCatalog("app",
		nprovide.Bind("db", nprovide.NewObject("db handle")),
		nprovide.Bind("cache", nprovide.NewObject("cache handle")))
	db, _ := c.Get("db")
	b, _ := c.Bundle(db)
	fmt.Println(b)
	_, err := b.Get("cache")
	fmt.Println(errors.Is(err, nprovide.ErrUndefinedProvider))
	// Output: Bundle(app: db)
	// true
}

func ExampleFilter() {
	c, _ := nprovide.NewCatalog("app",
		nprovide.Bind("a", nprovide.NewValue(1)),
		nprovide.Bind("b", nprovide.NewObject(2)),
		nprovide.Bind("c", nprovide.NewValue(3)))
	values := nprovide.Filter[*nprovide.Value](c)
	fmt.Println(len(values), values["a"] != nil, values["b"] != nil)
	// Output: 2 true false
}

func ExampleProvider_Override() {
	p := nprovide.NewValue("real")
	_ = p.Override(nprovide.NewValue("mock"))
	fmt.Println(nprovide.MustGet[string](p))
	_ = p.ResetLastOverriding()
	fmt.Println(nprovide.MustGet[string](p))
	fmt.Println(errors.Is(p.Override(p), nprovide.ErrInvalidProvider))
	// Output: mock
	// real
	// true
}
