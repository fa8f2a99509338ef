package decision

import (
	"net/textproto"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/evan-idocoding/restmachine/rctx"
)

// --- B: service / request well-formedness ---

func nodeB13(r *run) (string, error) {
	ok, err := protectBool(r.ctx, "service_available", r.a.serviceAvailable)
	if err != nil {
		return "", err
	}
	if !ok {
		return terminal(r, 503)
	}
	return "B12", nil
}

func nodeB12(r *run) (string, error) {
	known, err := protectStrings(r.ctx, "known_methods", r.a.knownMethods)
	if err != nil {
		return "", err
	}
	if !containsFold(known, r.ctx.Method) {
		return terminal(r, 501)
	}
	return "B11", nil
}

func nodeB11(r *run) (string, error) {
	tooLong, err := protectBool(r.ctx, "uri_too_long", r.a.uriTooLong)
	if err != nil {
		return "", err
	}
	if tooLong {
		return terminal(r, 414)
	}
	return "B10", nil
}

func nodeB10(r *run) (string, error) {
	allowed, err := protectStrings(r.ctx, "allowed_methods", r.a.allowedMethods)
	if err != nil {
		return "", err
	}
	if !containsFold(allowed, r.ctx.Method) {
		r.ctx.RespHeader.Set("Allow", strings.Join(allowed, ", "))
		return terminal(r, 405)
	}
	return "B9", nil
}

func nodeB9(r *run) (string, error) {
	malformed, err := protectBool(r.ctx, "malformed_request", r.a.malformedRequest)
	if err != nil {
		return "", err
	}
	if malformed {
		return terminal(r, 400)
	}
	if r.ctx.Host != "" && !httpguts.ValidHostHeader(r.ctx.Host) {
		return terminal(r, 400)
	}
	for name, values := range r.ctx.Header {
		if !httpguts.ValidHeaderFieldName(textproto.TrimString(name)) {
			return terminal(r, 400)
		}
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				return terminal(r, 400)
			}
		}
	}
	return "B8", nil
}

func nodeB8(r *run) (string, error) {
	required, err := protectBool(r.ctx, "auth_required", r.a.authRequired)
	if err != nil {
		return "", err
	}
	if !required {
		return "B7", nil
	}
	ok, challenge, err := protectBoolStr(r.ctx, "is_authorized", r.a.isAuthorized)
	if err != nil {
		return "", err
	}
	if !ok {
		if challenge != "" {
			r.ctx.RespHeader.Set("WWW-Authenticate", challenge)
		}
		return terminal(r, 401)
	}
	return "B7", nil
}

func nodeB7(r *run) (string, error) {
	forbidden, err := protectBool(r.ctx, "forbidden", r.a.forbidden)
	if err != nil {
		return "", err
	}
	if forbidden {
		return terminal(r, 403)
	}
	return "B6", nil
}

func nodeB6(r *run) (string, error) {
	ok, err := protectBool(r.ctx, "valid_content_headers", r.a.validContentHeaders)
	if err != nil {
		return "", err
	}
	if !ok {
		return terminal(r, 501)
	}
	return "B5", nil
}

func nodeB5(r *run) (string, error) {
	ok, err := protectBool(r.ctx, "known_content_type", r.a.knownContentType)
	if err != nil {
		return "", err
	}
	if !ok {
		return terminal(r, 415)
	}
	return "B4", nil
}

func nodeB4(r *run) (string, error) {
	ok, err := protectBool(r.ctx, "valid_entity_length", r.a.validEntityLength)
	if err != nil {
		return "", err
	}
	if !ok {
		return terminal(r, 413)
	}
	return "B3", nil
}

func nodeB3(r *run) (string, error) {
	if r.ctx.Method != "OPTIONS" {
		return "C3", nil
	}
	opts, err := protectOptions(r.ctx, "options", r.a.options)
	if err != nil {
		return "", err
	}
	for k, v := range opts {
		r.ctx.RespHeader.Set(k, v)
	}
	return terminal(r, 200)
}

// --- C/D/E/F: content negotiation ---

func nodeC3(r *run) (string, error) {
	provided, err := protectCTP(r.ctx, "content_types_provided", r.a.contentTypesProvided)
	if err != nil {
		return "", err
	}
	accept := r.ctx.Header.Get("Accept")
	if accept != "" {
		r.ctx.Consult(rctx.DimAccept)
	}
	pick, ok := selectContentType(accept, provided)
	if !ok {
		return terminal(r, 406)
	}
	r.ctx.ContentType = pick.ContentType
	r.selectedRender = pick.Render
	return "D4", nil
}

func nodeD4(r *run) (string, error) {
	header := r.ctx.Header.Get("Accept-Language")
	if header == "" {
		return "E5", nil
	}
	r.ctx.Consult(rctx.DimAcceptLanguage)
	candidates := acceptLanguageCandidates(header)
	for _, tag := range candidates {
		ok, err := protectBool(r.ctx, "language_available", func() (bool, error) {
			return r.a.languageAvailable(r.ctx, tag)
		})
		if err != nil {
			return "", err
		}
		if ok {
			r.ctx.Language = tag
			return "E5", nil
		}
	}
	if len(candidates) == 0 {
		return "E5", nil
	}
	return terminal(r, 406)
}

func nodeE5(r *run) (string, error) {
	provided, err := protectStrings(r.ctx, "charsets_provided", r.a.charsetsProvided)
	if err != nil {
		return "", err
	}
	if len(provided) == 1 && provided[0] == rctx.NoCharset {
		return "F6", nil
	}
	header := r.ctx.Header.Get("Accept-Charset")
	if header != "" {
		r.ctx.Consult(rctx.DimAcceptCharset)
	}
	chosen, ok := selectCharset(header, provided)
	if !ok {
		return terminal(r, 406)
	}
	r.ctx.Charset = chosen
	return "F6", nil
}

func nodeF6(r *run) (string, error) {
	provided, err := protectStrings(r.ctx, "content_encodings_provided", r.a.contentEncodingsProvided)
	if err != nil {
		return "", err
	}
	header := r.ctx.Header.Get("Accept-Encoding")
	if header != "" {
		r.ctx.Consult(rctx.DimAcceptEncoding)
	}
	chosen, ok := selectEncoding(header, provided)
	if !ok {
		return terminal(r, 406)
	}
	r.ctx.ContentEncoding = chosen
	return "G7", nil
}

// --- G/H: existence and If-Match / If-Unmodified-Since ---

func nodeG7(r *run) (string, error) {
	exists, err := protectBool(r.ctx, "resource_exists", r.a.resourceExists)
	if err != nil {
		return "", err
	}
	r.exists = exists
	r.existsKnown = true
	if exists {
		return "G8", nil
	}
	return "H7", nil
}

func nodeG8(r *run) (string, error) {
	if r.ctx.Header.Get("If-Match") == "" {
		return "H10", nil
	}
	return "G9", nil
}

func nodeG9(r *run) (string, error) {
	if strings.TrimSpace(r.ctx.Header.Get("If-Match")) == "*" {
		return "H10", nil
	}
	return "G11", nil
}

func nodeG11(r *run) (string, error) {
	etag, err := ensureETag(r)
	if err != nil {
		return "", err
	}
	if etagMatchesAny(r.ctx.Header.Get("If-Match"), etag, true, true) {
		return "H10", nil
	}
	return terminal(r, 412)
}

func nodeH7(r *run) (string, error) {
	if strings.TrimSpace(r.ctx.Header.Get("If-Match")) == "*" {
		return terminal(r, 412)
	}
	return "I7", nil
}

func nodeH10(r *run) (string, error) {
	if r.ctx.Header.Get("If-Unmodified-Since") == "" {
		return "I12", nil
	}
	return "H11", nil
}

func nodeH11(r *run) (string, error) {
	if _, ok := parseHTTPDate(r.ctx.Header.Get("If-Unmodified-Since")); !ok {
		return "I12", nil
	}
	return "H12", nil
}

func nodeH12(r *run) (string, error) {
	want, _ := parseHTTPDate(r.ctx.Header.Get("If-Unmodified-Since"))
	lm, set, err := ensureLastModified(r)
	if err != nil {
		return "", err
	}
	if set && lm.After(want) {
		return terminal(r, 412)
	}
	return "I12", nil
}

// --- I/K/L: redirects, If-None-Match, If-Modified-Since ---

func nodeI7(r *run) (string, error) {
	if r.ctx.Method == "PUT" {
		return "I4", nil
	}
	return "K7", nil
}

func nodeI4(r *run) (string, error) {
	moved, loc, err := protectBoolStr(r.ctx, "moved_permanently", r.a.movedPermanently)
	if err != nil {
		return "", err
	}
	if moved {
		if loc != "" {
			r.ctx.RespHeader.Set("Location", loc)
		}
		return terminal(r, 301)
	}
	return "P3", nil
}

func nodeK7(r *run) (string, error) {
	prev, err := protectBool(r.ctx, "previously_existed", r.a.previouslyExisted)
	if err != nil {
		return "", err
	}
	if prev {
		return "K5", nil
	}
	return "L7", nil
}

func nodeK5(r *run) (string, error) {
	moved, loc, err := protectBoolStr(r.ctx, "moved_permanently", r.a.movedPermanently)
	if err != nil {
		return "", err
	}
	if moved {
		if loc != "" {
			r.ctx.RespHeader.Set("Location", loc)
		}
		return terminal(r, 301)
	}
	return "L5", nil
}

func nodeL5(r *run) (string, error) {
	moved, loc, err := protectBoolStr(r.ctx, "moved_temporarily", r.a.movedTemporarily)
	if err != nil {
		return "", err
	}
	if moved {
		if loc != "" {
			r.ctx.RespHeader.Set("Location", loc)
		}
		return terminal(r, 307)
	}
	return "M5", nil
}

func nodeL7(r *run) (string, error) {
	if r.ctx.Method == "POST" {
		return "M7", nil
	}
	return terminal(r, 404)
}

func nodeM7(r *run) (string, error) {
	ok, err := protectBool(r.ctx, "allow_missing_post", r.a.allowMissingPost)
	if err != nil {
		return "", err
	}
	if !ok {
		return terminal(r, 404)
	}
	return "N11", nil
}

func nodeM5(r *run) (string, error) {
	if r.ctx.Method == "POST" {
		return "N5", nil
	}
	return terminal(r, 410)
}

func nodeN5(r *run) (string, error) {
	ok, err := protectBool(r.ctx, "allow_missing_post", r.a.allowMissingPost)
	if err != nil {
		return "", err
	}
	if !ok {
		return terminal(r, 410)
	}
	return "N11", nil
}

func nodeI12(r *run) (string, error) {
	if r.ctx.Header.Get("If-None-Match") == "" {
		return "L13", nil
	}
	return "I13", nil
}

func nodeI13(r *run) (string, error) {
	etag, err := ensureETag(r)
	if err != nil {
		return "", err
	}
	matched := etagMatchesAny(r.ctx.Header.Get("If-None-Match"), etag, false, r.exists)
	if !matched {
		return "L13", nil
	}
	if r.ctx.Method == "GET" || r.ctx.Method == "HEAD" {
		applyCachingHeaders(r)
		return terminal(r, 304)
	}
	return terminal(r, 412)
}

func nodeL13(r *run) (string, error) {
	if r.ctx.Header.Get("If-Modified-Since") == "" {
		return "M16", nil
	}
	return "L14", nil
}

func nodeL14(r *run) (string, error) {
	if _, ok := parseHTTPDate(r.ctx.Header.Get("If-Modified-Since")); !ok {
		return "M16", nil
	}
	return "L15", nil
}

func nodeL15(r *run) (string, error) {
	when, _ := parseHTTPDate(r.ctx.Header.Get("If-Modified-Since"))
	if when.After(nowFunc()) {
		return "M16", nil
	}
	return "L17", nil
}

func nodeL17(r *run) (string, error) {
	when, _ := parseHTTPDate(r.ctx.Header.Get("If-Modified-Since"))
	lm, set, err := ensureLastModified(r)
	if err != nil {
		return "", err
	}
	if set && lm.After(when) {
		return "M16", nil
	}
	applyCachingHeaders(r)
	return terminal(r, 304)
}

// --- M/N/O/P: actions ---

func nodeM16(r *run) (string, error) {
	if r.ctx.Method == "DELETE" {
		return "M20", nil
	}
	return "N16", nil
}

func nodeM20(r *run) (string, error) {
	ok, err := protectBool(r.ctx, "delete_resource", r.a.deleteResource)
	if err != nil {
		return "", err
	}
	if !ok {
		return terminal(r, 500)
	}
	completed, err := protectBool(r.ctx, "delete_completed", r.a.deleteCompleted)
	if err != nil {
		return "", err
	}
	if !completed {
		return terminal(r, 202)
	}
	return "O20", nil
}

func nodeN16(r *run) (string, error) {
	if r.ctx.Method == "POST" {
		return "N11", nil
	}
	return "O14", nil
}

func nodeN11(r *run) (string, error) {
	isCreate, err := protectBool(r.ctx, "post_is_create", r.a.postIsCreate)
	if err != nil {
		return "", err
	}
	if isCreate {
		path, err := protectString(r.ctx, "create_path", r.a.createPath)
		if err != nil {
			return "", err
		}
		base, err := protectString(r.ctx, "base_uri", r.a.baseURI)
		if err != nil {
			return "", err
		}
		loc := joinBaseAndPath(base, path, r.ctx.RawPath)
		r.ctx.RespHeader.Set("Location", loc)
		if err := acceptBody(r); err != nil {
			return "", err
		}
		return terminal(r, 201)
	}

	result, err := protectPostResult(r.ctx, "process_post", r.a.processPost)
	if err != nil {
		return "", err
	}
	if result.Halt != 0 {
		return terminal(r, result.Halt)
	}
	if result.RedirectTo != "" {
		r.ctx.RespHeader.Set("Location", result.RedirectTo)
		return terminal(r, 303)
	}
	if !result.Handled {
		return terminal(r, 500)
	}
	return "O20", nil
}

func nodeO14(r *run) (string, error) {
	conflict, err := protectBool(r.ctx, "is_conflict", r.a.isConflict)
	if err != nil {
		return "", err
	}
	if conflict {
		return terminal(r, 409)
	}
	return "O16", nil
}

func nodeO16(r *run) (string, error) {
	if r.ctx.Method != "PUT" {
		return "O18", nil
	}
	if err := acceptBody(r); err != nil {
		return "", err
	}
	if r.existsKnown && !r.exists {
		return "P11", nil
	}
	return "O20", nil
}

func nodeO18(r *run) (string, error) {
	if r.ctx.Method != "GET" && r.ctx.Method != "HEAD" {
		return "O20", nil
	}
	multi, err := protectBool(r.ctx, "multiple_choices", r.a.multipleChoices)
	if err != nil {
		return "", err
	}
	if multi {
		return terminal(r, 300)
	}
	applyCachingHeaders(r)
	if r.selectedRender == nil {
		return terminal(r, 200)
	}
	body, err := callRender(r)
	if err != nil {
		return "", err
	}
	r.ctx.RespBody = body
	return terminal(r, 200)
}

func nodeO20(r *run) (string, error) {
	if r.ctx.RespBody != nil {
		return terminal(r, 200)
	}
	return terminal(r, 204)
}

func nodeP3(r *run) (string, error) {
	conflict, err := protectBool(r.ctx, "is_conflict", r.a.isConflict)
	if err != nil {
		return "", err
	}
	if conflict {
		return terminal(r, 409)
	}
	if r.ctx.Method == "PUT" {
		if err := acceptBody(r); err != nil {
			return "", err
		}
	}
	return "P11", nil
}

func nodeP11(r *run) (string, error) {
	if r.ctx.RespHeader.Get("Location") == "" {
		return "O20", nil
	}
	return terminal(r, 201)
}

var nodeTable = map[string]node{
	"B13": nodeB13, "B12": nodeB12, "B11": nodeB11, "B10": nodeB10, "B9": nodeB9,
	"B8": nodeB8, "B7": nodeB7, "B6": nodeB6, "B5": nodeB5, "B4": nodeB4, "B3": nodeB3,
	"C3": nodeC3, "D4": nodeD4, "E5": nodeE5, "F6": nodeF6,
	"G7": nodeG7, "G8": nodeG8, "G9": nodeG9, "G11": nodeG11,
	"H7": nodeH7, "H10": nodeH10, "H11": nodeH11, "H12": nodeH12,
	"I4": nodeI4, "I7": nodeI7, "I12": nodeI12, "I13": nodeI13,
	"K5": nodeK5, "K7": nodeK7,
	"L5": nodeL5, "L7": nodeL7, "L13": nodeL13, "L14": nodeL14, "L15": nodeL15, "L17": nodeL17,
	"M5": nodeM5, "M7": nodeM7, "M16": nodeM16, "M20": nodeM20,
	"N5": nodeN5, "N11": nodeN11, "N16": nodeN16,
	"O14": nodeO14, "O16": nodeO16, "O18": nodeO18, "O20": nodeO20,
	"P3": nodeP3, "P11": nodeP11,
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
