package proxy

import "strings"

// parseForwardedElements splits a Forwarded header value into its
// comma-separated forwarded-elements, each itself a semicolon-separated set
// of key=value pairs (§4.1 "Forwarded parser"):
//
//	pair (";" pair)* ("," pair (";" pair)*)*
//
// where pair is token "=" (token | quoted-string); tokens are lowercased,
// and quoted strings are unescaped ("\x" -> "x"). Commas and semicolons
// inside a quoted string are not treated as separators.
func parseForwardedElements(header string) []map[string]string {
	var elements []map[string]string
	cur := map[string]string{}

	var key strings.Builder
	var val strings.Builder
	inValue := false
	inQuotes := false
	escaped := false

	flushPair := func() {
		k := strings.ToLower(strings.TrimSpace(key.String()))
		if k != "" {
			cur[k] = val.String()
		}
		key.Reset()
		val.Reset()
		inValue = false
	}
	flushElement := func() {
		flushPair()
		if len(cur) > 0 {
			elements = append(elements, cur)
		}
		cur = map[string]string{}
	}

	for i := 0; i < len(header); i++ {
		ch := header[i]

		if inQuotes {
			if escaped {
				val.WriteByte(ch)
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == '"' {
				inQuotes = false
				continue
			}
			val.WriteByte(ch)
			continue
		}

		switch ch {
		case '"':
			if inValue {
				inQuotes = true
			}
		case '=':
			if !inValue {
				inValue = true
			} else {
				val.WriteByte(ch)
			}
		case ';':
			flushPair()
		case ',':
			flushElement()
		case ' ', '\t':
			// skip insignificant whitespace outside quotes
		default:
			if inValue {
				val.WriteByte(ch)
			} else {
				key.WriteByte(ch)
			}
		}
	}
	flushElement()

	return elements
}

// lastForwardedElement returns the last forwarded-element in header (the
// latest/nearest proxy hop), per §4.1 "Only the last forwarded-element
// (latest proxy) is consumed."
func lastForwardedElement(header string) (map[string]string, bool) {
	elements := parseForwardedElements(header)
	if len(elements) == 0 {
		return nil, false
	}
	return elements[len(elements)-1], true
}

// sanitizeHost implements §4.1 "Host sanitization": lowercase, preserve
// bracketed IPv6 literals verbatim, keep [a-z0-9.-], truncate at ':',
// replace any other byte with '-'.
func sanitizeHost(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "[") {
		if end := strings.IndexByte(s, ']'); end >= 0 {
			return s[:end+1]
		}
	}
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		s = s[:idx]
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '.', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// sanitizePrintable replaces every byte outside the URI-unreserved set
// (ALPHA / DIGIT / "-" / "." / "_" / "~") with '-', used for the printable
// fallback form of an unparseable `for` token (§4.1 "`for` value parsing").
func sanitizePrintable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
