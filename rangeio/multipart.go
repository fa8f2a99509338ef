package rangeio

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	mathrand "math/rand"
)

// NewBoundary returns a boundary string for multipart/byteranges: 8 bytes
// from a cryptographically strong RNG, hex-encoded. Per §5 "Shared resource
// policy", the boundary need only be unique within the response, not
// unpredictable to an adversary; on a low-entropy signal from crypto/rand it
// falls back to a pseudorandom source and logs an informational message
// rather than failing the request.
func NewBoundary() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		slog.Info("rangeio: crypto/rand unavailable, falling back to pseudorandom boundary", "error", err)
		for i := range b {
			b[i] = byte(mathrand.Intn(256))
		}
	}
	return hex.EncodeToString(b[:])
}

// MultipartPart is one rendered part of a multipart/byteranges body: the
// preamble bytes (boundary/content-type/content-range/blank line) plus the
// byte interval of the original body it wraps.
type MultipartPart struct {
	Preamble []byte
	Part     Part
}

// MultipartPlan is the fully precomputed shape of a multipart/byteranges
// response body: every preamble, the byte interval to copy for each part,
// the closing boundary, and the exact total Content-Length (§8 invariant 8).
type MultipartPlan struct {
	Boundary    string
	ContentType string
	Parts       []MultipartPart
	Closing     []byte
	TotalLength int64
}

// PlanMultipart builds a MultipartPlan for parts (already normalized by
// Normalize against the body of size total, and expected to number ≥ 2) of
// a body whose representation is originalContentType. boundary should come
// from NewBoundary.
func PlanMultipart(originalContentType string, parts []Part, total int64, boundary string) MultipartPlan {
	plan := MultipartPlan{
		Boundary:    boundary,
		ContentType: "multipart/byteranges; boundary=" + boundary,
		Parts:       make([]MultipartPart, 0, len(parts)),
		Closing:     []byte("--" + boundary + "--\r\n"),
	}

	var sum int64
	for _, p := range parts {
		preamble := []byte(fmt.Sprintf(
			"--%s\r\ncontent-type: %s\r\ncontent-range: bytes %d-%d/%d\r\n\r\n",
			boundary, originalContentType, p.Offset, p.End(), total,
		))
		plan.Parts = append(plan.Parts, MultipartPart{Preamble: preamble, Part: p})
		sum += int64(len(preamble)) + p.Length + 2 // +2 for the CRLF following each part's bytes
	}
	sum += int64(len(plan.Closing))
	plan.TotalLength = sum
	return plan
}
