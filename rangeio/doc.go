// Package rangeio parses HTTP Range: headers, normalizes them against a
// known body size, and builds the multipart/byteranges wire format for
// responses with two or more surviving parts (§4.4 of the design).
//
// There is no teacher precedent for byte-range math in the corpus; this
// package is hand-written against RFC 7233 and the worked table in the
// design notes.
package rangeio
