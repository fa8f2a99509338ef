package tuning

import (
	"fmt"
	"sync/atomic"
)

type stringConfig struct {
	onChange []func(string)
}

// StringOption configures a StringVar at registration time.
type StringOption func(*stringConfig)

// WithOnChangeString appends an onChange callback.
//
// Callbacks run synchronously inside Set after the value is applied, even if
// the new value equals the current one. Panics are recovered and swallowed.
func WithOnChangeString(fn func(newValue string)) StringOption {
	return func(c *stringConfig) {
		if fn != nil {
			c.onChange = append(c.onChange, fn)
		}
	}
}

// String registers a string variable and returns its handle.
func (t *Tuning) String(key string, defaultValue string, opts ...StringOption) (*StringVar, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil Tuning", ErrInvalidConfig)
	}
	var cfg stringConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	v := &StringVar{t: t, k: key, onChange: cfg.onChange}
	v.curPtr.Store(ptrToString(defaultValue))

	if err := t.register(key, v); err != nil {
		return nil, err
	}
	return v, nil
}

// StringVar is a runtime-tunable string parameter.
type StringVar struct {
	t *Tuning
	k string

	curPtr atomic.Pointer[string]

	onChange []func(string)
}

func (v *StringVar) key() string { return v.k }

func (v *StringVar) Key() string { return v.k }

// Get returns the current effective value.
//
// It is lock-free, allocation-free and non-blocking.
func (v *StringVar) Get() string {
	p := v.curPtr.Load()
	if p == nil {
		return ""
	}
	return *p
}

func (v *StringVar) Set(newValue string) error {
	if v.t == nil {
		return fmt.Errorf("%w: nil tuning", ErrInvalidConfig)
	}
	if err := v.t.lockWrite(); err != nil {
		return err
	}
	defer v.t.unlockWrite()

	v.curPtr.Store(ptrToString(newValue))
	for _, cb := range v.onChange {
		safeCallString(cb, newValue)
	}
	return nil
}

func ptrToString(s string) *string {
	p := new(string)
	*p = s
	return p
}

func safeCallString(fn func(string), v string) {
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn(v)
}
