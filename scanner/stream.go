package scanner

import (
	"errors"
	"io"
)

// errIncomplete is the sentinel a retainer's Read returns when it has no
// more fed bytes and the caller has not yet marked the stream final. The
// engine's yaml_parser_update_buffer only calls Read at well-defined
// refill checkpoints, before consuming any of the bytes it is asking for,
// so propagating this error part-way through a token scan never leaves
// the engine's Buffer/Mark bookkeeping in a torn state: the next PeekToken
// call after a Feed simply retries the same refill.
var errIncomplete = errors.New("scanner: more input required to continue")

// retainer wraps the byte source an engine reads from and keeps every
// byte ever delivered, indexed from zero exactly as the engine's own
// Mark.Index counts bytes consumed. The engine's internal Buffer slides
// and discards its prefix as it decodes input (see yaml_parser_update_buffer),
// so Token.Start_mark/End_mark cannot be sliced out of it; they can always
// be sliced out of a retainer's buf, which never discards anything.
type retainer struct {
	buf []byte

	src io.Reader // set in reader mode; nil in chunked (push) mode

	pending []byte // chunked mode: bytes fed but not yet handed to the engine
	final   bool   // chunked mode: no further Feed calls will arrive
}

func newRetainerFromReader(r io.Reader) *retainer {
	return &retainer{src: r}
}

func newRetainerChunked() *retainer {
	return &retainer{}
}

func (rt *retainer) Read(p []byte) (int, error) {
	if rt.src != nil {
		n, err := rt.src.Read(p)
		if n > 0 {
			rt.buf = append(rt.buf, p[:n]...)
		}
		return n, err
	}
	if len(rt.pending) == 0 {
		if rt.final {
			return 0, io.EOF
		}
		return 0, errIncomplete
	}
	n := copy(p, rt.pending)
	rt.buf = append(rt.buf, p[:n]...)
	rt.pending = rt.pending[n:]
	return n, nil
}

// feed appends chunk to the bytes available for the engine to read next,
// and records whether the stream is now complete.
func (rt *retainer) feed(chunk []byte, final bool) {
	if len(chunk) > 0 {
		rt.pending = append(rt.pending, chunk...)
	}
	rt.final = final
}

// slice returns the retained bytes in [start, end), or nil if the range
// falls outside what has been retained so far.
func (rt *retainer) slice(start, end int) []byte {
	if start < 0 || end < start || end > len(rt.buf) {
		return nil
	}
	return rt.buf[start:end]
}

// clone deep-copies a retainer so a ReaderState snapshot is unaffected by
// further reads against the live Scanner. src is shared, not copied: a
// snapshot is meant to be restored onto the same Scanner it came from (a
// rollback, not a fork), so the underlying io.Reader's forward-only
// cursor is never an issue — Buffer/Raw_buffer, cloned alongside this on
// the YamlParser itself, already hold everything read but not yet
// consumed as of the snapshot.
func (rt *retainer) clone() *retainer {
	return &retainer{
		buf:     append([]byte(nil), rt.buf...),
		src:     rt.src,
		pending: append([]byte(nil), rt.pending...),
		final:   rt.final,
	}
}
