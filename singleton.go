package nprovide

import (
	"reflect"

	"github.com/pkg/errors"
)

// WithLock makes a Singleton guard its construction with l instead of
// DefaultLock.
func WithLock(l *ReentrantLock) Option {
	return func(o *options) {
		o.lock = l
	}
}

// Singleton constructs its instance the way a Factory does the first
// time it is called.  Later calls return the same instance and ignore
// their arguments until Reset is called.
//
// Construction holds a ReentrantLock so concurrent first calls create
// only one instance.  A singleton whose construction calls other
// singletons that share the lock does not deadlock.
type Singleton struct {
	base
	factory  Factory
	lock     *ReentrantLock
	instance any
	created  bool
}

var _ Provider = &Singleton{}

// NewSingleton takes the same arguments as NewFactory plus the WithLock
// option.
func NewSingleton(provides any, injections ...any) (*Singleton, error) {
	s := &Singleton{}
	var opts options
	if err := s.factory.setup(provides, injections, &opts); err != nil {
		return nil, err
	}
	s.lock = opts.lock
	if s.lock == nil {
		s.lock = DefaultLock
	}
	s.initBase(s)
	s.factory.self = s
	return s, nil
}

func (s *Singleton) Call(args ...any) (any, error) {
	return s.call(args, s.provide)
}

func (s *Singleton) provide(args Arguments) (any, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.created {
		return s.instance, nil
	}
	v, err := s.factory.construct(args)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", s)
	}
	s.instance = v
	s.created = true
	log().Debug("singleton instance created", providerField(s))
	return v, nil
}

// Reset drops the instance so that the next call constructs a new one.
func (s *Singleton) Reset() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.created {
		return
	}
	s.instance = nil
	s.created = false
	log().Debug("singleton reset", providerField(s))
}

// Instance returns the instance if it has been constructed.
func (s *Singleton) Instance() (any, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.instance, s.created
}

func (s *Singleton) Provides() any { return s.factory.provides }

func (s *Singleton) Injections() []Injection { return s.factory.Injections() }

func (s *Singleton) providedResultType() reflect.Type { return s.factory.providedResultType() }

func (s *Singleton) validateOverride(overriding Provider) error {
	return s.factory.validateOverride(overriding)
}

func (s *Singleton) String() string { return s.describe("Singleton", s.factory.iv.name) }
