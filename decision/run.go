package decision

import (
	"fmt"

	"github.com/evan-idocoding/restmachine/rangeio"
	"github.com/evan-idocoding/restmachine/rctx"
)

// maxVisits bounds the trampoline well above any real path through the
// graph (§4.2 "Termination": "total decisions per request are bounded by a
// small constant (≤ 50 node visits)"); it exists purely as a safety net
// against a future node wiring bug introducing a cycle.
const maxVisits = 64

// Run drives ctx through the decision graph starting at the service
// availability check (B13), using adapter for every controller callback. It
// always returns with ctx.Status set; finish_request has already run.
func Run(ctx *rctx.Context, adapter *Adapter) {
	r := &run{ctx: ctx, a: adapter}

	id := "B13"
	var runErr error
	for i := 0; i < maxVisits; i++ {
		fn, ok := nodeTable[id]
		if !ok {
			runErr = fmt.Errorf("decision: unknown node %q", id)
			break
		}
		next, err := fn(r)
		if err != nil {
			if h, ok := AsHalt(err); ok {
				ctx.Status = h.Code
			} else {
				runErr = err
			}
			break
		}
		if next == "" {
			break
		}
		id = next
	}

	parseRange(r)
	finishRequest(r, runErr)
	composeVary(r)
}

// parseRange implements the Range-header half of §3's "range-ok is read
// exactly once, before Range header parsing": by the time the trampoline
// above has finished, every node that could call ctx.SetRangeOK has already
// run, so range-ok is settled. A false value, or the absence/malformedness
// of the header, leaves ctx.Range nil and the emitter serves a full body.
func parseRange(r *run) {
	if !r.ctx.RangeOK {
		return
	}
	header := r.ctx.Header.Get("Range")
	if header == "" {
		return
	}
	spec, ok := rangeio.Parse(header)
	if !ok {
		return
	}
	r.ctx.Range = &spec
}

// composeVary implements §8 invariant 3: Vary is emitted iff at least two
// dimensions among {Accept, Accept-Language, Accept-Charset,
// Accept-Encoding} were actually consulted, unioned with the controller's
// own variances() list.
func composeVary(r *run) {
	dims := make([]string, 0, 4)
	for _, d := range []rctx.NegotiationDimension{
		rctx.DimAccept, rctx.DimAcceptLanguage, rctx.DimAcceptCharset, rctx.DimAcceptEncoding,
	} {
		if r.ctx.Variances[d] {
			dims = append(dims, string(d))
		}
	}
	extra, err := protectStrings(r.ctx, "variances", r.a.variances)
	if err == nil {
		dims = append(dims, extra...)
	}
	if len(dims) >= 2 {
		r.ctx.RespHeader.Set("Vary", joinComma(dims))
	}
}

func joinComma(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

func finishRequest(r *run, runErr error) {
	if runErr != nil {
		r.ctx.Status = 500
	}
	ok, err := protectBool(r.ctx, "finish_request", r.a.finishRequest)
	if err != nil {
		r.ctx.Status = 500
		return
	}
	if !ok && r.ctx.Status < 400 {
		r.ctx.Status = 500
	}
}
