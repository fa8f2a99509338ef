package decision

import (
	"github.com/evan-idocoding/restmachine/rctx"
)

// run is the per-request mutable state the trampoline threads between node
// functions; it is private to this package, unlike *rctx.Context which is
// shared with the emitter.
type run struct {
	ctx *rctx.Context
	a   *Adapter

	exists           bool
	existsKnown      bool
	selectedRender   func(ctx *rctx.Context) (*rctx.Body, error)
	postIsCreatePath bool
}

// node is a single step of the decision graph: it inspects/mutates r and
// returns the id of the next node, or "" if it has already set a terminal
// status on r.ctx.
type node func(r *run) (next string, err error)

func halt(code int) error { return Halt{Code: code} }

func terminal(r *run, code int) (string, error) {
	r.ctx.Status = code
	return "", nil
}
