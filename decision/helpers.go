package decision

import (
	"net/http"
	"strings"
	"time"

	"github.com/evan-idocoding/restmachine/rctx"
)

// nowFunc is a seam for tests; production code always uses time.Now.
var nowFunc = time.Now

func parseHTTPDate(s string) (time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	t, err := http.ParseTime(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func quoteETag(tag string) string {
	if strings.HasPrefix(tag, `"`) || strings.HasPrefix(tag, `W/"`) {
		return tag
	}
	return `"` + tag + `"`
}

// ensureETag calls generate_etag at most once per request, caching the
// quoted form in the context (§4.2 "ETag / Last-Modified").
func ensureETag(r *run) (string, error) {
	if cached, ok := r.ctx.ETag(); ok {
		return cached, nil
	}
	tag, set, err := protectETag(r.ctx, "generate_etag", r.a.generateETag)
	if err != nil {
		return "", err
	}
	if !set {
		r.ctx.CacheETag("")
		return "", nil
	}
	quoted := quoteETag(tag)
	r.ctx.CacheETag(quoted)
	return quoted, nil
}

func ensureLastModified(r *run) (time.Time, bool, error) {
	if t, isSet, cached := r.ctx.LastModified(); cached {
		return t, isSet, nil
	}
	t, set, err := protectTime(r.ctx, "last_modified", r.a.lastModified)
	if err != nil {
		return time.Time{}, false, err
	}
	r.ctx.CacheLastModified(t)
	if !set {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// etagMatchesAny implements If-Match/If-None-Match comparison: "*" matches
// iff the resource exists; a strong compare rejects weak ("W/") tags.
func etagMatchesAny(header, etag string, strong bool, exists bool) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return exists
	}
	for _, part := range strings.Split(header, ",") {
		if etagEqual(strings.TrimSpace(part), etag, strong) {
			return true
		}
	}
	return false
}

func etagEqual(candidate, etag string, strong bool) bool {
	if etag == "" {
		return false
	}
	candWeak := strings.HasPrefix(candidate, "W/")
	etagWeak := strings.HasPrefix(etag, "W/")
	if strong && (candWeak || etagWeak) {
		return false
	}
	return strings.TrimPrefix(candidate, "W/") == strings.TrimPrefix(etag, "W/")
}

// applyCachingHeaders sets ETag / Last-Modified / Expires on the response
// accumulator if the controller supplied them, without overwriting a value
// a callback already set explicitly.
func applyCachingHeaders(r *run) {
	if etag, _ := r.ctx.ETag(); etag != "" && r.ctx.RespHeader.Get("ETag") == "" {
		r.ctx.RespHeader.Set("ETag", etag)
	}
	if lm, isSet, _ := r.ctx.LastModified(); isSet && r.ctx.RespHeader.Get("Last-Modified") == "" {
		r.ctx.RespHeader.Set("Last-Modified", lm.UTC().Format(http.TimeFormat))
	}
	if exp, set, err := protectTime(r.ctx, "expires", r.a.expires); err == nil && set {
		if r.ctx.RespHeader.Get("Expires") == "" {
			r.ctx.RespHeader.Set("Expires", exp.UTC().Format(http.TimeFormat))
		}
	}
}

// callRender invokes the render function selected by content negotiation
// (C3), isolated from panics the same way every other controller callback
// is (§4.3).
func callRender(r *run) (*rctx.Body, error) {
	var body *rctx.Body
	err := callProtected(r.ctx.Std, "render", func() error {
		var e error
		body, e = r.selectedRender(r.ctx)
		return e
	})
	return body, err
}

// acceptBody dispatches the request entity to the content_types_accepted
// handler matching the request's Content-Type, if any is registered.
func acceptBody(r *run) error {
	accepted, err := protectCTA(r.ctx, "content_types_accepted", r.a.contentTypesAccepted)
	if err != nil {
		return err
	}
	if len(accepted) == 0 {
		return nil
	}
	reqType, _, _ := strings.Cut(r.ctx.Header.Get("Content-Type"), ";")
	reqType = strings.TrimSpace(strings.ToLower(reqType))
	for _, h := range accepted {
		if strings.EqualFold(h.ContentType, reqType) {
			return callProtected(r.ctx.Std, "content_types_accepted", func() error {
				_, e := h.Accept(r.ctx)
				return e
			})
		}
	}
	return nil
}

// joinBaseAndPath builds the Location header value for a newly created
// resource from the controller's base_uri/create_path callbacks.
func joinBaseAndPath(base, path, rawPath string) string {
	if strings.Contains(path, "://") {
		return path
	}
	root := base
	if root == "" {
		root = rawPath
	}
	return strings.TrimRight(root, "/") + "/" + strings.TrimLeft(path, "/")
}
