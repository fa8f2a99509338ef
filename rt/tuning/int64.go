package tuning

import (
	"fmt"
	"sync/atomic"
)

type int64Config struct {
	hasMin bool
	min    int64

	onChange []func(int64)
}

// Int64Option configures an Int64Var at registration time.
type Int64Option func(*int64Config)

// WithMinInt64 sets a minimum constraint (inclusive).
func WithMinInt64(min int64) Int64Option {
	return func(c *int64Config) {
		c.hasMin = true
		c.min = min
	}
}

// WithOnChangeInt64 appends an onChange callback.
//
// Callbacks run synchronously inside Set after the value is applied, even if
// the new value equals the current one. Panics are recovered and swallowed.
func WithOnChangeInt64(fn func(newValue int64)) Int64Option {
	return func(c *int64Config) {
		if fn != nil {
			c.onChange = append(c.onChange, fn)
		}
	}
}

// Int64 registers an int64 variable and returns its handle.
func (t *Tuning) Int64(key string, defaultValue int64, opts ...Int64Option) (*Int64Var, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil Tuning", ErrInvalidConfig)
	}
	var cfg int64Config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validateInt64Value(key, defaultValue, cfg); err != nil {
		return nil, fmt.Errorf("%w: default value: %v", ErrInvalidConfig, err)
	}

	v := &Int64Var{
		t:        t,
		k:        key,
		hasMin:   cfg.hasMin,
		min:      cfg.min,
		onChange: cfg.onChange,
	}
	v.cur.Store(defaultValue)

	if err := t.register(key, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Int64Var is a runtime-tunable int64 parameter.
type Int64Var struct {
	t *Tuning
	k string

	hasMin bool
	min    int64

	cur atomic.Int64

	onChange []func(int64)
}

func (v *Int64Var) key() string { return v.k }

func (v *Int64Var) Key() string { return v.k }

// Get returns the current effective value.
//
// It is lock-free, allocation-free and non-blocking.
func (v *Int64Var) Get() int64 { return v.cur.Load() }

func (v *Int64Var) Set(newValue int64) error {
	if v.t == nil {
		return fmt.Errorf("%w: nil tuning", ErrInvalidConfig)
	}
	if err := validateInt64Value(v.k, newValue, int64Config{hasMin: v.hasMin, min: v.min}); err != nil {
		return err
	}
	if err := v.t.lockWrite(); err != nil {
		return err
	}
	defer v.t.unlockWrite()

	v.cur.Store(newValue)
	for _, cb := range v.onChange {
		safeCallInt64(cb, newValue)
	}
	return nil
}

func validateInt64Value(key string, v int64, cfg int64Config) error {
	if cfg.hasMin && v < cfg.min {
		return fmt.Errorf("%w: %q must be >= %d, got %d", ErrInvalidValue, key, cfg.min, v)
	}
	return nil
}

func safeCallInt64(fn func(int64), v int64) {
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn(v)
}
