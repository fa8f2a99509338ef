// Package decision implements the HTTP/1.1 webmachine-style decision graph
// (§4.2): given a *rctx.Context and a Controller, it walks roughly forty
// named decision nodes (B13 down to P11) to negotiate content type,
// language, charset and encoding, evaluate authorization and precondition
// headers, dispatch to the controller for reads/writes/creates/deletes, and
// leave the context's response accumulator (status, headers, body) fully
// populated for the emitter.
//
// The graph is table-driven rather than the mutually recursive functions of
// the system it was modeled on: each node is a small function returning the
// next node id, trampolined from a bounded loop (see run.go). The per-method
// callback lookup (Adapt) uses static interface assertions, never
// reflection: a Controller implements whichever optional single-method
// interfaces it needs, and Adapt supplies the default from the table in §6
// for everything else.
package decision
