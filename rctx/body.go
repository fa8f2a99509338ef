package rctx

import (
	"context"
	"errors"
	"io"
)

// ErrStreamDone is returned by Stream.Next once the stream is exhausted.
// It plays the role of the source's "done" thunk marker.
var ErrStreamDone = io.EOF

// Kind discriminates the six Body Source variants (§3 of the data model).
// Emitter code must switch exhaustively on Kind.
type Kind int

const (
	// KindBytes is an owned in-memory byte sequence.
	KindBytes Kind = iota
	// KindFile is a filesystem path; length is discovered lazily by the emitter.
	KindFile
	// KindFileHandle is an already-opened seekable byte device.
	KindFileHandle
	// KindStream is a lazy pull iterator of Chunks.
	KindStream
	// KindWriter is a callback that drives emission itself via a Sink.
	KindWriter
	// KindSizedStream pairs a known total size with a producer(from, to) -> Stream.
	KindSizedStream
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindFile:
		return "file"
	case KindFileHandle:
		return "file-handle"
	case KindStream:
		return "stream"
	case KindWriter:
		return "writer"
	case KindSizedStream:
		return "sized-stream"
	default:
		return "unknown"
	}
}

// FileHandle is the minimal seekable, closable byte device the emitter needs
// for the File-handle Body Source variant. *os.File satisfies it.
type FileHandle interface {
	io.Reader
	io.Seeker
	io.Closer
}

// ChunkKind discriminates the two Chunk shapes a Stream can yield.
type ChunkKind int

const (
	// ChunkBytes is an in-memory chunk.
	ChunkBytes ChunkKind = iota
	// ChunkFile names a file segment to splice directly into the output,
	// rather than re-entering the emitter (§9 "Streaming continuations").
	ChunkFile
)

// Chunk is one element pulled from a Stream.
type Chunk struct {
	Kind ChunkKind

	// Data is valid when Kind == ChunkBytes.
	Data []byte

	// Path, Offset, Length are valid when Kind == ChunkFile.
	Path   string
	Offset int64
	Length int64
}

// BytesChunk builds an in-memory Chunk.
func BytesChunk(p []byte) Chunk { return Chunk{Kind: ChunkBytes, Data: p} }

// FileChunk builds a file-splice Chunk.
func FileChunk(path string, offset, length int64) Chunk {
	return Chunk{Kind: ChunkFile, Path: path, Offset: offset, Length: length}
}

// Stream is a pull iterator: each call to Next returns the next Chunk, or
// ErrStreamDone (io.EOF) once exhausted. This replaces the source's
// thunk-returning-thunk continuation style (§9 "Streaming continuations").
type Stream interface {
	Next(ctx context.Context) (Chunk, error)
}

// StreamFunc adapts a plain function to a Stream.
type StreamFunc func(ctx context.Context) (Chunk, error)

// Next implements Stream.
func (f StreamFunc) Next(ctx context.Context) (Chunk, error) { return f(ctx) }

// Sink is handed to a WriterFunc so it can drive emission itself. fin must
// be true on the final call (possibly with zero-length p), matching the
// "terminal chunk flagged fin" framing used throughout the emitter.
type Sink func(p []byte, fin bool) error

// WriterFunc is a callback that receives a Sink and drives its own emission.
type WriterFunc func(sink Sink) error

// Body is the tagged Body Source value threaded from a controller's read
// callback to the emitter. Exactly one of its variant accessors is valid,
// selected by Kind. Construct one with the NewXxxBody functions below;
// never build a Body literal directly.
type Body struct {
	kind Kind

	bytesVal []byte
	pathVal  string
	handle   FileHandle
	stream   Stream
	writer   WriterFunc

	sizedTotal    int64
	sizedProducer func(from, to int64) Stream
}

// Kind reports which variant b holds.
func (b *Body) Kind() Kind { return b.kind }

// Bytes returns the payload for KindBytes. It panics for any other Kind.
func (b *Body) Bytes() []byte {
	b.mustBe(KindBytes)
	return b.bytesVal
}

// Path returns the filesystem path for KindFile. It panics for any other Kind.
func (b *Body) Path() string {
	b.mustBe(KindFile)
	return b.pathVal
}

// Handle returns the open file handle for KindFileHandle. It panics for any
// other Kind.
func (b *Body) Handle() FileHandle {
	b.mustBe(KindFileHandle)
	return b.handle
}

// StreamValue returns the Stream for KindStream. It panics for any other Kind.
func (b *Body) StreamValue() Stream {
	b.mustBe(KindStream)
	return b.stream
}

// Writer returns the WriterFunc for KindWriter. It panics for any other Kind.
func (b *Body) Writer() WriterFunc {
	b.mustBe(KindWriter)
	return b.writer
}

// SizedTotal returns the known total length for KindSizedStream. It panics
// for any other Kind.
func (b *Body) SizedTotal() int64 {
	b.mustBe(KindSizedStream)
	return b.sizedTotal
}

// SizedProducer returns the range-bound producer for KindSizedStream. It
// panics for any other Kind.
func (b *Body) SizedProducer() func(from, to int64) Stream {
	b.mustBe(KindSizedStream)
	return b.sizedProducer
}

func (b *Body) mustBe(k Kind) {
	if b.kind != k {
		panic("rctx: Body accessor " + k.String() + " called on a " + b.kind.String() + " body")
	}
}

// NewBytesBody builds a KindBytes Body.
func NewBytesBody(p []byte) *Body { return &Body{kind: KindBytes, bytesVal: p} }

// NewFileBody builds a KindFile Body.
func NewFileBody(path string) *Body { return &Body{kind: KindFile, pathVal: path} }

// NewFileHandleBody builds a KindFileHandle Body.
func NewFileHandleBody(h FileHandle) *Body { return &Body{kind: KindFileHandle, handle: h} }

// NewStreamBody builds a KindStream Body.
func NewStreamBody(s Stream) *Body { return &Body{kind: KindStream, stream: s} }

// NewWriterBody builds a KindWriter Body.
func NewWriterBody(fn WriterFunc) *Body {
	if fn == nil {
		panic("rctx: nil WriterFunc")
	}
	return &Body{kind: KindWriter, writer: fn}
}

// NewSizedStreamBody builds a KindSizedStream Body. total is the known
// total length; producer must return a Stream covering [from, to).
func NewSizedStreamBody(total int64, producer func(from, to int64) Stream) *Body {
	if producer == nil {
		panic("rctx: nil producer")
	}
	if total < 0 {
		total = 0
	}
	return &Body{kind: KindSizedStream, sizedTotal: total, sizedProducer: producer}
}

// ErrNoBody is returned by helpers when a Context has no body source set.
var ErrNoBody = errors.New("rctx: no body source set")
