package decision

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/language"
)

// qvalue is one entry of a comma-separated Accept-* list: a token (or media
// range) together with its q parameter (default 1.0).
type qvalue struct {
	token string
	q     float64
}

// parseQList parses the common "token;q=x, token;q=y" shape shared by
// Accept-Charset and Accept-Encoding (§4.2 "Accept parsing"). It does not
// understand media-range syntax (slashes, extra params); Accept itself is
// parsed by parseMediaRanges.
func parseQList(header string) []qvalue {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	var out []qvalue
	for _, item := range strings.Split(header, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		token := item
		q := 1.0
		if idx := strings.IndexByte(item, ';'); idx >= 0 {
			token = strings.TrimSpace(item[:idx])
			for _, param := range strings.Split(item[idx+1:], ";") {
				param = strings.TrimSpace(param)
				if v, ok := strings.CutPrefix(param, "q="); ok {
					if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
						q = f
					}
				}
			}
		}
		out = append(out, qvalue{token: strings.ToLower(token), q: q})
	}
	return out
}

// mediaRange is one parsed entry of an Accept header.
type mediaRange struct {
	typ, subtype string
	q            float64
}

func parseMediaRanges(header string) []mediaRange {
	if strings.TrimSpace(header) == "" {
		return []mediaRange{{typ: "*", subtype: "*", q: 1.0}}
	}
	var out []mediaRange
	for _, item := range strings.Split(header, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		mediaType := item
		q := 1.0
		if idx := strings.IndexByte(item, ';'); idx >= 0 {
			mediaType = strings.TrimSpace(item[:idx])
			for _, param := range strings.Split(item[idx+1:], ";") {
				param = strings.TrimSpace(param)
				if v, ok := strings.CutPrefix(param, "q="); ok {
					if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
						q = f
					}
				}
			}
		}
		typ, subtype, ok := strings.Cut(mediaType, "/")
		if !ok {
			continue
		}
		out = append(out, mediaRange{
			typ:     strings.ToLower(strings.TrimSpace(typ)),
			subtype: strings.ToLower(strings.TrimSpace(subtype)),
			q:       q,
		})
	}
	if len(out) == 0 {
		return []mediaRange{{typ: "*", subtype: "*", q: 1.0}}
	}
	return out
}

// mediaMatch reports whether a provided content type matches range r, and
// how specific that match is (2 = exact, 1 = type match with wildcard
// subtype, 0 = full wildcard).
func mediaMatch(providedType string, r mediaRange) (matched bool, specificity int) {
	typ, subtype, ok := strings.Cut(strings.ToLower(providedType), "/")
	if !ok {
		return false, 0
	}
	switch {
	case r.typ == typ && r.subtype == subtype:
		return true, 2
	case r.typ == typ && r.subtype == "*":
		return true, 1
	case r.typ == "*" && r.subtype == "*":
		return true, 0
	default:
		return false, 0
	}
}

// selectContentType implements C3/C4 (§4.2 "Accept parsing"): highest q,
// then most-specific match, then first offered by the controller (stable).
func selectContentType(acceptHeader string, provided []ContentTypeHandler) (ContentTypeHandler, bool) {
	if len(provided) == 0 {
		return ContentTypeHandler{}, false
	}
	ranges := parseMediaRanges(acceptHeader)

	type score struct {
		q           float64
		specificity int
		matched     bool
	}
	best := make([]score, len(provided))
	for i, p := range provided {
		for _, r := range ranges {
			if r.q <= 0 {
				continue
			}
			if ok, spec := mediaMatch(p.ContentType, r); ok {
				if !best[i].matched || r.q > best[i].q ||
					(r.q == best[i].q && spec > best[i].specificity) {
					best[i] = score{q: r.q, specificity: spec, matched: true}
				}
			}
		}
	}

	topIdx := -1
	for i, s := range best {
		if !s.matched {
			continue
		}
		if topIdx == -1 ||
			s.q > best[topIdx].q ||
			(s.q == best[topIdx].q && s.specificity > best[topIdx].specificity) {
			topIdx = i
		}
	}
	if topIdx == -1 {
		return ContentTypeHandler{}, false
	}
	return provided[topIdx], true
}

// selectCharset implements E5/E6. Charset names are canonicalized via
// golang.org/x/text/encoding/htmlindex so "UTF-8" and "utf8" compare equal;
// q-value ranking is hand-rolled per §4.2 (no ecosystem package ranks HTTP
// q-values).
func selectCharset(acceptCharset string, provided []string) (string, bool) {
	if len(provided) == 0 {
		return "", false
	}
	if strings.TrimSpace(acceptCharset) == "" {
		return provided[0], true
	}
	qlist := parseQList(acceptCharset)

	canon := func(name string) string {
		if e, err := htmlindex.Get(name); err == nil {
			if n, err := htmlindex.Name(e); err == nil {
				return strings.ToLower(n)
			}
		}
		return strings.ToLower(name)
	}

	var wildcardQ float64 = -1
	qfor := map[string]float64{}
	for _, qv := range qlist {
		if qv.token == "*" {
			wildcardQ = qv.q
			continue
		}
		qfor[canon(qv.token)] = qv.q
	}

	bestIdx := -1
	bestQ := -1.0
	for i, p := range provided {
		q, explicit := qfor[canon(p)]
		if !explicit {
			if wildcardQ >= 0 {
				q = wildcardQ
			} else {
				q = 1.0
			}
		}
		if q <= 0 {
			continue
		}
		if q > bestQ {
			bestQ = q
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return "", false
	}
	return provided[bestIdx], true
}

// selectEncoding implements F6/F7. identity is implicitly acceptable unless
// explicitly assigned q=0 (RFC 7231 §5.3.4), even when not listed by the
// controller.
func selectEncoding(acceptEncoding string, provided []string) (string, bool) {
	if strings.TrimSpace(acceptEncoding) == "" {
		for _, p := range provided {
			if strings.EqualFold(p, "identity") {
				return p, true
			}
		}
		if len(provided) > 0 {
			return provided[0], true
		}
		return "identity", true
	}

	qlist := parseQList(acceptEncoding)
	qfor := map[string]float64{}
	var wildcardQ float64 = -1
	for _, qv := range qlist {
		if qv.token == "*" {
			wildcardQ = qv.q
			continue
		}
		qfor[qv.token] = qv.q
	}

	candidates := provided
	hasIdentity := false
	for _, p := range candidates {
		if strings.EqualFold(p, "identity") {
			hasIdentity = true
		}
	}
	if !hasIdentity {
		candidates = append(append([]string{}, provided...), "identity")
	}

	bestIdx := -1
	bestQ := -1.0
	for i, p := range candidates {
		lower := strings.ToLower(p)
		q, explicit := qfor[lower]
		if !explicit {
			if wildcardQ >= 0 {
				q = wildcardQ
			} else if lower == "identity" {
				q = 1.0
			} else {
				q = 0
			}
		}
		if lower == "identity" && !explicit && wildcardQ < 0 {
			q = 1.0
		}
		if q <= 0 {
			continue
		}
		if q > bestQ {
			bestQ = q
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return "", false
	}
	return candidates[bestIdx], true
}

// acceptLanguageCandidates returns the Accept-Language tags in preference
// order (highest q first), parsed with golang.org/x/text/language rather
// than hand-rolled grammar (§4.2 "Accept-Language").
func acceptLanguageCandidates(header string) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}

// sortByQDesc is a small helper kept for symmetry with the hand-rolled
// selectors above; language.ParseAcceptLanguage already returns tags in
// descending-q order, and nothing in this package or its tests calls it.
func sortByQDesc(qs []qvalue) {
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].q > qs[j].q })
}
