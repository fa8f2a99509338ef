package tuning

import (
	"fmt"
	"sync/atomic"
)

type enumConfig struct {
	allowed []string
	// normalize, if set, is applied to the default and every Set input before
	// validation. Used by tuningslog to accept case-insensitive level names.
	normalize func(string) (string, bool)

	onChange []func(string)
}

// EnumOption configures an EnumVar at registration time.
type EnumOption func(*enumConfig)

// WithEnumAllowed sets the allowed values for an enum.
//
// allowed must be non-empty and must not contain duplicates.
func WithEnumAllowed(allowed ...string) EnumOption {
	return func(c *enumConfig) {
		if len(allowed) == 0 {
			return
		}
		c.allowed = append([]string(nil), allowed...)
	}
}

// WithEnumNormalize sets an optional normalizer applied to the default value
// and every Set input. If normalize returns ok=false, the value is rejected.
func WithEnumNormalize(normalize func(string) (string, bool)) EnumOption {
	return func(c *enumConfig) { c.normalize = normalize }
}

// WithOnChangeEnum appends an onChange callback.
//
// Callbacks run synchronously inside Set after the value is applied, even if
// the new value equals the current one. Panics are recovered and swallowed.
func WithOnChangeEnum(fn func(newValue string)) EnumOption {
	return func(c *enumConfig) {
		if fn != nil {
			c.onChange = append(c.onChange, fn)
		}
	}
}

// Enum registers a string enum variable and returns its handle.
func (t *Tuning) Enum(key string, defaultValue string, opts ...EnumOption) (*EnumVar, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil Tuning", ErrInvalidConfig)
	}
	var cfg enumConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(cfg.allowed) == 0 {
		return nil, fmt.Errorf("%w: %q enum allowed list is required", ErrInvalidConfig, key)
	}

	if cfg.normalize != nil {
		nv, ok := cfg.normalize(defaultValue)
		if !ok {
			return nil, fmt.Errorf("%w: %q default enum value rejected by normalizer: %q", ErrInvalidConfig, key, defaultValue)
		}
		defaultValue = nv
	}

	index := make(map[string]uint32, len(cfg.allowed))
	for i, s := range cfg.allowed {
		if _, ok := index[s]; ok {
			return nil, fmt.Errorf("%w: %q enum allowed contains duplicate %q", ErrInvalidConfig, key, s)
		}
		index[s] = uint32(i)
	}
	defIdx, ok := index[defaultValue]
	if !ok {
		return nil, fmt.Errorf("%w: %q default enum value %q not in allowed list", ErrInvalidConfig, key, defaultValue)
	}

	v := &EnumVar{
		t:         t,
		k:         key,
		allowed:   append([]string(nil), cfg.allowed...),
		index:     index,
		normalize: cfg.normalize,
		onChange:  cfg.onChange,
	}
	v.curIdx.Store(defIdx)

	if err := t.register(key, v); err != nil {
		return nil, err
	}
	return v, nil
}

// EnumVar is a runtime-tunable string enum parameter.
type EnumVar struct {
	t *Tuning
	k string

	allowed []string
	index   map[string]uint32

	normalize func(string) (string, bool)

	curIdx atomic.Uint32

	onChange []func(string)
}

func (v *EnumVar) key() string { return v.k }

func (v *EnumVar) Key() string { return v.k }

// Get returns the current effective value.
//
// It is lock-free, allocation-free and non-blocking.
func (v *EnumVar) Get() string {
	i := v.curIdx.Load()
	if int(i) >= len(v.allowed) {
		return ""
	}
	return v.allowed[i]
}

func (v *EnumVar) Set(newValue string) error {
	if v.t == nil {
		return fmt.Errorf("%w: nil tuning", ErrInvalidConfig)
	}
	idx, err := v.parseValue(newValue)
	if err != nil {
		return err
	}

	if err := v.t.lockWrite(); err != nil {
		return err
	}
	defer v.t.unlockWrite()

	v.curIdx.Store(idx)
	val := v.allowed[idx]
	for _, cb := range v.onChange {
		safeCallEnum(cb, val)
	}
	return nil
}

func (v *EnumVar) parseValue(s string) (uint32, error) {
	if v.normalize != nil {
		ns, ok := v.normalize(s)
		if !ok {
			return 0, fmt.Errorf("%w: %q enum value rejected by normalizer: %q", ErrInvalidValue, v.k, s)
		}
		s = ns
	}
	idx, ok := v.index[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q enum value %q not in allowed list", ErrInvalidValue, v.k, s)
	}
	return idx, nil
}

func safeCallEnum(fn func(string), v string) {
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn(v)
}
