// Package rctx holds the per-request state threaded through the proxy front
// door, the decision engine, and the response emitter.
//
// A *Context is single-owner: it is created once per request by the proxy
// front door, mutated in decision-graph order by the decision engine, and
// handed to the emitter for the final write. It must never be shared across
// requests or mutated concurrently.
package rctx
