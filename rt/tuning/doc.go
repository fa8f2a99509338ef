// Package tuning provides the small set of runtime-tunable parameter kinds
// config.Config is built on: StringVar, EnumVar, Int64Var and DurationVar.
//
// It is standard-library flavored and deliberately narrow: this is the
// adapted slice a single process-wide Config actually needs, not a general
// ops/admin registry. There is no key-string lookup, no snapshot/export
// surface and no bool/float64 kinds — restmachine's six config keys never
// exercised them.
//
// # Callback semantics (onChange)
//
// A variable may register onChange callbacks via its WithOnChange* option.
// Set applies the new value first, then invokes callbacks serially in
// registration order. A callback panic is recovered and swallowed; the Set
// itself still succeeds. Callbacks must be fast and non-blocking: all writes
// on a Tuning instance are serialized through a single write gate, so a slow
// callback stalls every other Set.
//
// # Re-entrant writes
//
// onChange callbacks must not call back into Set. Doing so is a programming
// error; Tuning detects it on a best-effort basis and returns
// ErrReentrantWrite rather than deadlocking.
//
// # Key rules
//
// Keys must be non-empty and may only contain [A-Za-z0-9._-]; '/' and
// whitespace are rejected explicitly. Keys are case-sensitive.
package tuning
