package nprovide

import (
	"github.com/pkg/errors"
)

// The error kinds below are returned wrapped with a description of
// what failed.  Use errors.Is to tell them apart:
//
//	if errors.Is(err, nprovide.ErrUndefinedProvider) { ... }
var (
	// ErrInvalidArgument is returned when something that must be
	// callable is not, or when arguments cannot be matched to the
	// parameters of a function.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidProvider is returned when a provider is required but
	// something else was given, when a provider would override itself,
	// and when a bundle is given a provider that its catalog does not
	// hold.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrTypeMismatch is returned when a provided value does not satisfy
	// a declared type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNotOverridden is returned by LastOverriding and
	// ResetLastOverriding when there is nothing to return or reset.
	ErrNotOverridden = errors.New("not overridden")

	// ErrUndefinedProvider is returned when a name lookup in a catalog
	// or bundle fails.
	ErrUndefinedProvider = errors.New("undefined provider")

	// ErrDuplicateBinding is returned when a name or a provider instance
	// is bound twice.
	ErrDuplicateBinding = errors.New("duplicate binding")

	// ErrUndefinedConfigKey is returned when a configuration path does
	// not exist.
	ErrUndefinedConfigKey = errors.New("undefined config key")

	// ErrDependencyNotDefined is returned when an ExternalDependency is
	// called before something provides it.
	ErrDependencyNotDefined = errors.New("dependency is not defined")
)
