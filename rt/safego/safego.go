// Package safego runs a callback with panic isolation, the way both the
// decision engine's controller callbacks (decision/invoke.go) and the
// emitter's user-supplied writer bodies (emitter/emitter.go) need: a panic
// in caller-supplied code must not take the whole request down, and must
// still be observable.
//
// It only depends on the standard library. Unlike a full task-supervision
// package, it has no goroutine spawning, no error-return channel and no
// finalizer chain: restmachine always runs the callback synchronously and
// only cares about panics, never about a returned error.
package safego

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

// PanicHandler is called when the wrapped function panics.
//
// Implementations must be fast and must not panic. If a PanicHandler
// panics, Run swallows the secondary panic and reports it to stderr as a
// fallback.
type PanicHandler func(ctx context.Context, info PanicInfo)

// PanicInfo describes a recovered panic.
type PanicInfo struct {
	Name  string
	Value any
	Stack []byte
}

type config struct {
	name    string
	onPanic PanicHandler
}

// Option configures a single Run call.
type Option func(*config)

// WithName sets a human-friendly name for the call, included in PanicInfo
// and in the default stderr report.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithPanicHandler sets the panic handler. If not set, panics are reported
// to stderr by default.
//
// Panics in the handler are contained: they are recovered and reported to
// stderr.
func WithPanicHandler(h PanicHandler) Option {
	return func(c *config) { c.onPanic = h }
}

// Run executes fn synchronously, recovering any panic it raises.
//
// If ctx is nil, it is treated as context.Background().
func Run(ctx context.Context, fn func(context.Context), opts ...Option) {
	if ctx == nil {
		ctx = context.Background()
	}

	var c config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		info := PanicInfo{Name: c.name, Value: p, Stack: debug.Stack()}
		if c.onPanic != nil {
			callPanicHandlerNoPanic(ctx, c.onPanic, info)
		} else {
			reportPanicToStderr(info)
		}
	}()

	fn(ctx)
}

func callPanicHandlerNoPanic(ctx context.Context, h PanicHandler, info PanicInfo) {
	defer func() {
		if p := recover(); p != nil {
			reportPanicToStderr(PanicInfo{
				Name:  info.Name,
				Value: fmt.Sprintf("safego: panic handler panicked: %v", p),
				Stack: debug.Stack(),
			})
		}
	}()
	h(ctx, info)
}

var stderrMu sync.Mutex

func reportPanicToStderr(info PanicInfo) {
	stderrMu.Lock()
	defer stderrMu.Unlock()
	fmt.Fprintf(os.Stderr, "safego: panic")
	if info.Name != "" {
		fmt.Fprintf(os.Stderr, " name=%q", info.Name)
	}
	fmt.Fprintf(os.Stderr, " value=%v\n", info.Value)
	if len(info.Stack) > 0 {
		os.Stderr.Write(info.Stack)
		if info.Stack[len(info.Stack)-1] != '\n' {
			os.Stderr.Write([]byte{'\n'})
		}
	}
}
