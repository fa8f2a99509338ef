package tuning

import (
	"fmt"
	"sync/atomic"
	"time"
)

type durationConfig struct {
	hasMin bool
	min    time.Duration

	onChange []func(time.Duration)
}

// DurationOption configures a DurationVar at registration time.
type DurationOption func(*durationConfig)

// WithMinDuration sets a minimum constraint (inclusive).
func WithMinDuration(min time.Duration) DurationOption {
	return func(c *durationConfig) {
		c.hasMin = true
		c.min = min
	}
}

// WithOnChangeDuration appends an onChange callback.
//
// Callbacks run synchronously inside Set after the value is applied, even if
// the new value equals the current one. Panics are recovered and swallowed.
func WithOnChangeDuration(fn func(newValue time.Duration)) DurationOption {
	return func(c *durationConfig) {
		if fn != nil {
			c.onChange = append(c.onChange, fn)
		}
	}
}

// Duration registers a time.Duration variable and returns its handle.
func (t *Tuning) Duration(key string, defaultValue time.Duration, opts ...DurationOption) (*DurationVar, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil Tuning", ErrInvalidConfig)
	}
	var cfg durationConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validateDurationValue(key, defaultValue, cfg); err != nil {
		return nil, fmt.Errorf("%w: default value: %v", ErrInvalidConfig, err)
	}

	v := &DurationVar{
		t:        t,
		k:        key,
		hasMin:   cfg.hasMin,
		min:      cfg.min,
		onChange: cfg.onChange,
	}
	v.curNanos.Store(defaultValue.Nanoseconds())

	if err := t.register(key, v); err != nil {
		return nil, err
	}
	return v, nil
}

// DurationVar is a runtime-tunable time.Duration parameter.
type DurationVar struct {
	t *Tuning
	k string

	hasMin bool
	min    time.Duration

	curNanos atomic.Int64

	onChange []func(time.Duration)
}

func (v *DurationVar) key() string { return v.k }

func (v *DurationVar) Key() string { return v.k }

// Get returns the current effective value.
//
// It is lock-free, allocation-free and non-blocking.
func (v *DurationVar) Get() time.Duration { return time.Duration(v.curNanos.Load()) }

func (v *DurationVar) Set(newValue time.Duration) error {
	if v.t == nil {
		return fmt.Errorf("%w: nil tuning", ErrInvalidConfig)
	}
	if err := validateDurationValue(v.k, newValue, durationConfig{hasMin: v.hasMin, min: v.min}); err != nil {
		return err
	}
	if err := v.t.lockWrite(); err != nil {
		return err
	}
	defer v.t.unlockWrite()

	v.curNanos.Store(newValue.Nanoseconds())
	for _, cb := range v.onChange {
		safeCallDuration(cb, newValue)
	}
	return nil
}

func validateDurationValue(key string, v time.Duration, cfg durationConfig) error {
	if cfg.hasMin && v < cfg.min {
		return fmt.Errorf("%w: %q must be >= %s, got %s", ErrInvalidValue, key, cfg.min, v)
	}
	return nil
}

func safeCallDuration(fn func(time.Duration), v time.Duration) {
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn(v)
}
