package rangeio

import (
	"strconv"
	"strings"
)

// RawSpan is one comma-separated "start-end", "start-", or "-suffix" entry
// from a Range: bytes=... header, before normalization against a body size.
// Exactly one of Start/End is unset (nil) for an open-ended span; both are
// set for a closed span; Start is unset and End holds the suffix length for
// a suffix span.
type RawSpan struct {
	Start *int64
	End   *int64
}

// Spec is an ordered, unnormalized sequence of byte-range spans.
type Spec struct {
	Unit  string
	Spans []RawSpan
}

// Part is a concrete, normalized byte interval ready to slice from a body
// of known size: bytes [Offset, Offset+Length) inclusive framing uses
// Offset and Offset+Length-1 for Content-Range.
type Part struct {
	Offset int64
	Length int64
}

// End returns the inclusive last byte offset of p.
func (p Part) End() int64 {
	if p.Length <= 0 {
		return p.Offset
	}
	return p.Offset + p.Length - 1
}

// Parse parses a "Range: bytes=0-0,-1" style header value. It returns
// ok=false if the header does not use the "bytes" unit or is syntactically
// malformed; per §4.4/§7, an unparseable Range is ignored entirely (the
// engine then serves a full 200), not rejected with 416.
func Parse(header string) (Spec, bool) {
	header = strings.TrimSpace(header)
	unit, rest, found := strings.Cut(header, "=")
	if !found {
		return Spec{}, false
	}
	unit = strings.TrimSpace(unit)
	if !strings.EqualFold(unit, "bytes") {
		return Spec{}, false
	}

	rawSpans := strings.Split(rest, ",")
	spans := make([]RawSpan, 0, len(rawSpans))
	for _, raw := range rawSpans {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		span, ok := parseSpan(raw)
		if !ok {
			return Spec{}, false
		}
		spans = append(spans, span)
	}
	if len(spans) == 0 {
		return Spec{}, false
	}
	return Spec{Unit: "bytes", Spans: spans}, true
}

func parseSpan(raw string) (RawSpan, bool) {
	startStr, endStr, found := strings.Cut(raw, "-")
	if !found {
		return RawSpan{}, false
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	if startStr == "" && endStr == "" {
		return RawSpan{}, false
	}
	if startStr == "" {
		// Suffix span: "-n".
		n, err := parseNonNegative(endStr)
		if err != nil {
			return RawSpan{}, false
		}
		return RawSpan{End: &n}, true
	}
	start, err := parseNonNegative(startStr)
	if err != nil {
		return RawSpan{}, false
	}
	if endStr == "" {
		// Prefix span: "a-".
		return RawSpan{Start: &start}, true
	}
	end, err := parseNonNegative(endStr)
	if err != nil {
		return RawSpan{}, false
	}
	return RawSpan{Start: &start, End: &end}, true
}

func parseNonNegative(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// Normalize applies the table from §4.4 to every span in s against a body
// of size bodySize, dropping invalid entries, and returns the surviving
// concrete Parts in order.
func Normalize(s Spec, bodySize int64) []Part {
	if bodySize < 0 {
		bodySize = 0
	}
	out := make([]Part, 0, len(s.Spans))
	for _, sp := range s.Spans {
		p, ok := normalizeSpan(sp, bodySize)
		if ok {
			out = append(out, p)
		}
	}
	return out
}

func normalizeSpan(sp RawSpan, size int64) (Part, bool) {
	switch {
	case sp.Start == nil && sp.End != nil:
		// {∅, n}: suffix.
		n := *sp.End
		if n < 0 {
			return Part{}, false
		}
		if n > size {
			return Part{Offset: 0, Length: size}, true
		}
		return Part{Offset: size - n, Length: n}, true
	case sp.Start != nil && sp.End == nil:
		// {a, ∅}: prefix.
		a := *sp.Start
		if a < 0 || a >= size {
			return Part{}, false
		}
		return Part{Offset: a, Length: size - a}, true
	case sp.Start != nil && sp.End != nil:
		// {a, b}: closed.
		a, b := *sp.Start, *sp.End
		if a < 0 || b < a || b >= size {
			return Part{}, false
		}
		return Part{Offset: a, Length: b - a + 1}, true
	default:
		return Part{}, false
	}
}
