package restmachine

import (
	"github.com/evan-idocoding/restmachine/config"
	"github.com/evan-idocoding/restmachine/decision"
	"github.com/evan-idocoding/restmachine/rctx"
)

// Engine wires the proxy front door, the decision engine and the response
// emitter around one *config.Config (§4 "Pipeline").
type Engine struct {
	cfg *config.Config
}

// New builds an Engine from an already-validated Config.
func New(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the Engine's configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// run executes the full pipeline against an already-populated *rctx.Context:
// the decision graph, then finish_request, leaving ctx.Status/RespHeader/
// RespBody ready for the emitter. It does not touch the transport.
func (e *Engine) run(ctx *rctx.Context, c decision.Controller) {
	adapter := decision.Adapt(c)
	decision.Run(ctx, adapter)
}
