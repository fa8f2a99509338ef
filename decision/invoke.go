package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/evan-idocoding/restmachine/rctx"
	"github.com/evan-idocoding/restmachine/rt/safego"
)

// callProtected runs fn synchronously with the same panic-isolation idiom
// the rest of this codebase uses for background work (§4.3 "Controller
// Adapter"): a panicking controller callback is recovered and turned into
// an error instead of crashing the request's goroutine.
func callProtected(ctx context.Context, name string, fn func() error) error {
	var result error
	safego.Run(ctx, func(context.Context) {
		result = fn()
	}, safego.WithName(name), safego.WithPanicHandler(func(_ context.Context, info safego.PanicInfo) {
		result = fmt.Errorf("decision: controller panic in %s: %v", name, info.Value)
	}))
	return result
}

func protectBool(ctx *rctx.Context, name string, fn func() (bool, error)) (bool, error) {
	var v bool
	err := callProtected(ctx.Std, name, func() error {
		var e error
		v, e = fn()
		return e
	})
	return v, err
}

func protectBoolStr(ctx *rctx.Context, name string, fn func() (bool, string, error)) (bool, string, error) {
	var v bool
	var s string
	err := callProtected(ctx.Std, name, func() error {
		var e error
		v, s, e = fn()
		return e
	})
	return v, s, err
}

func protectStrings(ctx *rctx.Context, name string, fn func() ([]string, error)) ([]string, error) {
	var v []string
	err := callProtected(ctx.Std, name, func() error {
		var e error
		v, e = fn()
		return e
	})
	return v, err
}

func protectString(ctx *rctx.Context, name string, fn func() (string, error)) (string, error) {
	var v string
	err := callProtected(ctx.Std, name, func() error {
		var e error
		v, e = fn()
		return e
	})
	return v, err
}

func protectTime(ctx *rctx.Context, name string, fn func() (time.Time, bool, error)) (time.Time, bool, error) {
	var v time.Time
	var set bool
	err := callProtected(ctx.Std, name, func() error {
		var e error
		v, set, e = fn()
		return e
	})
	return v, set, err
}

func protectETag(ctx *rctx.Context, name string, fn func() (string, bool, error)) (string, bool, error) {
	var v string
	var set bool
	err := callProtected(ctx.Std, name, func() error {
		var e error
		v, set, e = fn()
		return e
	})
	return v, set, err
}

func protectCTP(ctx *rctx.Context, name string, fn func() ([]ContentTypeHandler, error)) ([]ContentTypeHandler, error) {
	var v []ContentTypeHandler
	err := callProtected(ctx.Std, name, func() error {
		var e error
		v, e = fn()
		return e
	})
	return v, err
}

func protectCTA(ctx *rctx.Context, name string, fn func() ([]AcceptHandler, error)) ([]AcceptHandler, error) {
	var v []AcceptHandler
	err := callProtected(ctx.Std, name, func() error {
		var e error
		v, e = fn()
		return e
	})
	return v, err
}

func protectPostResult(ctx *rctx.Context, name string, fn func() (PostResult, error)) (PostResult, error) {
	var v PostResult
	err := callProtected(ctx.Std, name, func() error {
		var e error
		v, e = fn()
		return e
	})
	return v, err
}

func protectOptions(ctx *rctx.Context, name string, fn func() (map[string]string, error)) (map[string]string, error) {
	var v map[string]string
	err := callProtected(ctx.Std, name, func() error {
		var e error
		v, e = fn()
		return e
	})
	return v, err
}
