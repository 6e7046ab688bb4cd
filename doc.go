// Obligatory // comment

/*

Package nprovide is a dependency injection toolkit built from providers.
A provider is an object that produces a value when it is called.  Providers
are composed by using providers as the injections of other providers, and
grouped by name into catalogs.  Nothing is resolved ahead of time: every
call resolves its injections again.

Providers

There are several kinds of provider:

	Factory             calls a function every time it is called
	Singleton           calls a function once and then returns the same value
	Callable            calls a function that need not return anything
	Object, Value       return the value they were created with
	Class, Function     return the type or function they were created with
	Config, ChildConfig return configuration, or a value nested in it
	ExternalDependency  returns whatever overrides it, if it is the right type
	Delegate            returns another provider
	Custom              runs a function that is given the call arguments

For example:

	type Service struct {
		DB     *sql.DB
		Logger *zap.Logger
	}

	func NewService(db *sql.DB) *Service { return &Service{DB: db} }

	config := nprovide.NewConfig(map[string]any{"dsn": "postgres://..."})
	db, _ := nprovide.NewSingleton(sql.Open, "postgres", config.Child("dsn"))
	service, _ := nprovide.NewFactory(NewService, db,
		nprovide.Attribute("Logger", zap.NewExample()))

	s, err := nprovide.Get[*Service](service)

Injections

The values that a provider passes to its function are injections.  An
injection that is a provider is called to get the value; anything else is
used as-is.  There are four kinds:

	Arg(v)              a positional argument
	KwArg(name, v)      a named argument
	Attribute(name, v)  a struct field that is set after construction
	Method(name, v)     a method that is called after construction

Plain values in an injection list are positional.  Kwargs maps in an
injection list are named.

Named arguments

Go functions do not have named parameters.  A function receives named
arguments through its last parameter, which can be Kwargs or a struct that
embeds In:

	type ExampleParams struct {
		nprovide.In
		Arg1 string `nprovide:"arg1"`
		Arg2 string `nprovide:"arg2"`
	}

	func NewExample(p ExampleParams) *Example { ... }

	f, _ := nprovide.NewFactory(NewExample, "x", nprovide.Kwargs{"arg2": "y"})
	e, _ := f.Call(nprovide.Kwargs{"arg1": "z"})

Positional values that are left over after the function's regular
parameters are filled fill the struct's fields in order.  Named values are
matched by tag, or field name if there is no tag, and replace positional
ones.

The arguments passed to Call are combined with the injections: positional
arguments are appended to the positional injections, named arguments
replace named injections with the same name.

Overriding

Any provider can be overridden by another provider.  While it is
overridden, calling it calls the most recent overriding provider with the
same arguments instead.  Overrides stack: ResetLastOverriding returns to the
previous one and ResetOverride to the provider itself.

	db.Override(nprovide.NewObject(testDB))
	defer db.ResetOverride()

An override that would let a provider end up calling itself, such as
b.Override(a) after a.Override(b), is rejected with ErrInvalidProvider.

Overriding is meant for program setup and tests.  It is not safe to
override a provider while it is being called from another goroutine.

Catalogs

A Catalog names providers.  A catalog made with Declare also has the
providers of its parent catalog, shared rather than copied.  Overriding a
catalog with another catalog overrides each provider with the provider of
the same name in the other catalog:

	core := nprovide.MustDeclare("core", nil,
		nprovide.Bind("config", config),
		nprovide.Bind("db", db))
	services := nprovide.MustDeclare("services", core,
		nprovide.Bind("service", service))

	test := nprovide.MustDeclare("test", nil,
		nprovide.Bind("db", nprovide.NewObject(testDB)))
	_ = services.Override(test)

A Bundle is a subset of a catalog's providers.

Logging

Override changes and singleton creation are logged at debug level to the
logger given to SetLogger.  By default nothing is logged.

Errors

Errors can be identified with errors.Is using the Err* values of this
package.

*/
package nprovide
