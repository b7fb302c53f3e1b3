// Package scanner drives the token-level YAML engine in internal/parserc
// and exposes it as a pull-based Scanner: one Advance call, one Token. It
// sits below the DOM/codec layer in the root package, which instead drives
// the event-level Parse API; the two consume the same underlying engine
// from different vantage points.
package scanner

import (
	"fmt"
	"io"
	"strings"

	"github.com/latticeyaml/yamlcore/internal/parserc"
	"github.com/latticeyaml/yamlcore/internal/yamlh"
	"github.com/latticeyaml/yamlcore/token"
)

// collKind records what a collection-stack frame closes as, so a bare
// BLOCK-END token (which carries no kind of its own) can be translated to
// the right MappingEnd or SequenceEnd.
type collKind uint8

const (
	collMapping collKind = iota
	collSequence
)

type collFrame struct {
	kind      collKind
	style     token.CollectionStyle
	synthetic bool // opened by us, not by a real *_START_TOKEN
}

// Scanner turns a byte stream into a flat sequence of Tokens. A zero
// Scanner is not usable; construct one with New or NewChunked.
type Scanner struct {
	eng  *parserc.YamlParser
	opts Options
	rt   *retainer // retains every input byte ever delivered to eng, for
	// slicing the raw bytes of Scalar tokens (see translate's SCALAR_TOKEN
	// case) independently of the engine's own sliding read buffer.

	pending []token.Token // synthetic tokens queued ahead of the engine
	coll    []collFrame

	haveDocument    bool // an (implicit or explicit) document is open
	sawDirective    bool // a directive appeared since the last document end
	expectDocStart  bool // directive(s) seen; next token must be DOCUMENT-START
	tagHandles      map[string][]byte
	seenYAMLDir     bool            // %YAML directive already seen this document
	seenTagDirs     map[string]bool // %TAG handles already declared this document
	afterFlowEntry  bool            // last raw token was a FLOW_ENTRY_TOKEN
	streamStartSent bool
	streamEndSent   bool
}

// AdvanceResult classifies the outcome of an Advance call.
type AdvanceResult int

const (
	// Ready means Token is valid and more tokens may follow.
	Ready AdvanceResult = iota
	// End means the stream is exhausted; Token is the zero value.
	End
	// Incomplete means the engine ran out of fed bytes before reaching a
	// full token and the stream has not been marked final (see Feed).
	// Token is the zero value; call Feed with more data and Advance again.
	// Only Scanners built with NewChunked ever return this.
	Incomplete
)

// New constructs a Scanner reading from r with the default Options.
func New(r io.Reader) *Scanner {
	return NewWithOptions(r, DefaultOptions())
}

// NewWithOptions constructs a Scanner reading from r with opts.
func NewWithOptions(r io.Reader, opts Options) *Scanner {
	rt := newRetainerFromReader(r)
	return newScanner(rt, opts)
}

// NewChunked constructs a Scanner that is fed input explicitly via Feed
// instead of pulling from an io.Reader, for callers that receive YAML in
// pieces (e.g. off a network connection) and cannot block waiting for
// more to arrive. Advance returns Incomplete instead of an error when it
// has consumed every fed byte and the stream has not been marked final.
func NewChunked(opts Options) *Scanner {
	rt := newRetainerChunked()
	return newScanner(rt, opts)
}

func newScanner(rt *retainer, opts Options) *Scanner {
	eng := parserc.New(rt)
	if opts.MaxDepth > 0 {
		eng.MaxDepth = opts.MaxDepth
	}
	return &Scanner{
		eng:        eng,
		opts:       opts,
		rt:         rt,
		tagHandles: defaultTagHandles(),
	}
}

// Feed supplies more input to a Scanner built with NewChunked. Set final
// once no further data will arrive; Advance then returns End instead of
// Incomplete once the fed bytes are exhausted. Feed on a Scanner built
// with New panics, since such a Scanner already owns its io.Reader.
func (s *Scanner) Feed(chunk []byte, final bool) {
	if s.rt.src != nil {
		panic("scanner: Feed called on a Scanner built with New; use NewChunked")
	}
	s.rt.feed(chunk, final)
}

func defaultTagHandles() map[string][]byte {
	return map[string][]byte{
		"!":  []byte("!"),
		"!!": []byte("tag:yaml.org,2002:"),
	}
}

// ReaderState is an opaque snapshot of a Scanner's full state: engine
// buffers and stacks, retained input, and the public layer's own
// bookkeeping (open collections, pending synthetic tokens, directive and
// tag-handle tracking). Restore returns the Scanner to exactly this
// point, so resuming from a snapshot is indistinguishable from never
// having advanced past it (streaming idempotence), regardless of where
// the chunk boundaries fed via Feed happened to fall (chunk boundary
// safety). The zero value is not meaningful on its own.
type ReaderState struct {
	eng parserc.YamlParser
	rt  *retainer

	pending []token.Token
	coll    []collFrame

	haveDocument    bool
	sawDirective    bool
	expectDocStart  bool
	tagHandles      map[string][]byte
	seenYAMLDir     bool
	seenTagDirs     map[string]bool
	afterFlowEntry  bool
	streamStartSent bool
	streamEndSent   bool
}

// State captures the Scanner's complete current state for later Restore.
func (s *Scanner) State() ReaderState {
	return ReaderState{
		eng:             cloneParser(s.eng),
		rt:              s.rt.clone(),
		pending:         append([]token.Token(nil), s.pending...),
		coll:            append([]collFrame(nil), s.coll...),
		haveDocument:    s.haveDocument,
		sawDirective:    s.sawDirective,
		expectDocStart:  s.expectDocStart,
		tagHandles:      cloneTagHandles(s.tagHandles),
		seenYAMLDir:     s.seenYAMLDir,
		seenTagDirs:     cloneSeenTagDirs(s.seenTagDirs),
		afterFlowEntry:  s.afterFlowEntry,
		streamStartSent: s.streamStartSent,
		streamEndSent:   s.streamEndSent,
	}
}

// Restore returns the Scanner to the position captured by st.
func (s *Scanner) Restore(st ReaderState) {
	eng := cloneParser(&st.eng)
	s.eng = &eng
	s.rt = st.rt.clone()
	s.eng.Reader = s.rt
	s.pending = append([]token.Token(nil), st.pending...)
	s.coll = append([]collFrame(nil), st.coll...)
	s.haveDocument = st.haveDocument
	s.sawDirective = st.sawDirective
	s.expectDocStart = st.expectDocStart
	s.tagHandles = cloneTagHandles(st.tagHandles)
	s.seenYAMLDir = st.seenYAMLDir
	s.seenTagDirs = cloneSeenTagDirs(st.seenTagDirs)
	s.afterFlowEntry = st.afterFlowEntry
	s.streamStartSent = st.streamStartSent
	s.streamEndSent = st.streamEndSent
}

func cloneTagHandles(m map[string][]byte) map[string][]byte {
	if m == nil {
		return nil
	}
	c := make(map[string][]byte, len(m))
	for k, v := range m {
		c[k] = append([]byte(nil), v...)
	}
	return c
}

func cloneSeenTagDirs(m map[string]bool) map[string]bool {
	if m == nil {
		return nil
	}
	c := make(map[string]bool, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func (st ReaderState) String() string {
	m := st.eng.Mark
	return fmt.Sprintf("%d:%d (offset %d)", m.Line+1, m.Column+1, m.Index)
}

// Advance returns the next Token in the stream. Once it returns
// (Token{}, End, nil), every subsequent call does the same, unless the
// Scanner was built with NewChunked and more input arrives via Feed.
func (s *Scanner) Advance() (token.Token, AdvanceResult, error) {
	if len(s.pending) > 0 {
		t := s.pending[0]
		s.pending = s.pending[1:]
		return t, Ready, nil
	}
	if s.streamEndSent {
		return token.Token{}, End, nil
	}

	raw, err := parserc.PeekToken(s.eng)
	if err != nil {
		if isIncomplete(err) {
			return token.Token{}, Incomplete, nil
		}
		return token.Token{}, End, classify(err, s.fallbackMark())
	}
	parserc.SkipToken(s.eng)

	return s.translate(raw)
}

// isIncomplete reports whether err is the engine's reaction to a
// retainer's errIncomplete. The read error itself never survives past
// yaml_parser_update_raw_buffer, which wraps any non-EOF Read error into
// a fresh *yamlh.EngineError carrying only a string (see
// internal/parserc/readerc.go's newReaderError), so this matches on that
// message the same way classify matches engine problem strings for
// every other category.
func isIncomplete(err error) bool {
	ee, ok := err.(*yamlh.EngineError)
	if !ok {
		return false
	}
	return strings.Contains(ee.Problem, errIncomplete.Error())
}

func (s *Scanner) fallbackMark() token.Mark {
	return mark(s.eng.Mark)
}

// mark converts an engine position, which counts lines and columns from
// zero, into the one-based Mark the token package documents.
func mark(p yamlh.Position) token.Mark {
	return token.Mark{Line: p.Line + 1, Column: p.Column + 1, Offset: p.Index}
}

// translate converts one internal token into zero or more public ones,
// queuing any overflow in s.pending and returning the first.
func (s *Scanner) translate(raw *yamlh.YamlToken) (token.Token, AdvanceResult, error) {
	if s.expectDocStart {
		switch raw.Type {
		case yamlh.VERSION_DIRECTIVE_TOKEN, yamlh.TAG_DIRECTIVE_TOKEN, yamlh.DOCUMENT_START_TOKEN, yamlh.STREAM_END_TOKEN:
		default:
			return token.Token{}, End, newError(DirectiveError, mark(raw.Start_mark), "did not find expected <document start>")
		}
	}

	var out []token.Token

	if s.opts.ReadComments {
		out = append(out, s.drainComments(mark(raw.Start_mark))...)
	}

	if !s.opts.AllowTrailingCommas && s.afterFlowEntry &&
		(raw.Type == yamlh.FLOW_SEQUENCE_END_TOKEN || raw.Type == yamlh.FLOW_MAPPING_END_TOKEN) {
		return token.Token{}, End, newError(FlowError, mark(raw.Start_mark), "trailing comma before closing flow indicator")
	}
	s.afterFlowEntry = raw.Type == yamlh.FLOW_ENTRY_TOKEN

	// Close an implicit flow mapping before any token that would end its
	// pair or its enclosing flow sequence: a bare VALUE-less second key is
	// impossible at the token level (the engine already rejects it), so
	// the only closers are FLOW-ENTRY and FLOW-SEQUENCE-END.
	if raw.Type == yamlh.FLOW_ENTRY_TOKEN || raw.Type == yamlh.FLOW_SEQUENCE_END_TOKEN {
		if t, ok := s.closeImplicitFlowMapping(raw); ok {
			out = append(out, t)
		}
	}

	switch raw.Type {
	case yamlh.STREAM_START_TOKEN:
		s.streamStartSent = true
		out = append(out, token.Token{Kind: token.StreamStart, Mark: mark(raw.Start_mark)})

	case yamlh.STREAM_END_TOKEN:
		if s.haveDocument {
			out = append(out, token.Token{Kind: token.DocumentEnd, Mark: mark(raw.Start_mark)})
			s.haveDocument = false
		}
		out = append(out, token.Token{Kind: token.StreamEnd, Mark: mark(raw.Start_mark)})
		s.streamEndSent = true

	case yamlh.VERSION_DIRECTIVE_TOKEN:
		if s.haveDocument {
			out = append(out, token.Token{Kind: token.DocumentEnd, Mark: mark(raw.Start_mark)})
			s.haveDocument = false
			s.tagHandles = defaultTagHandles()
		}
		if s.seenYAMLDir {
			return token.Token{}, End, newError(DirectiveError, mark(raw.Start_mark), "found duplicate %%YAML directive")
		}
		s.seenYAMLDir = true
		s.sawDirective = true
		s.expectDocStart = true
		out = append(out, token.Token{
			Kind:  token.VersionDirective,
			Mark:  mark(raw.Start_mark),
			Value: []byte(fmt.Sprintf("%d.%d", raw.Major, raw.Minor)),
		})

	case yamlh.TAG_DIRECTIVE_TOKEN:
		if s.haveDocument {
			out = append(out, token.Token{Kind: token.DocumentEnd, Mark: mark(raw.Start_mark)})
			s.haveDocument = false
			s.tagHandles = defaultTagHandles()
		}
		handle := append([]byte(nil), raw.Value...)
		if s.seenTagDirs[string(handle)] {
			return token.Token{}, End, newError(DirectiveError, mark(raw.Start_mark), "found duplicate %%TAG directive")
		}
		if s.seenTagDirs == nil {
			s.seenTagDirs = map[string]bool{}
		}
		s.seenTagDirs[string(handle)] = true
		s.sawDirective = true
		s.expectDocStart = true
		s.tagHandles[string(handle)] = append([]byte(nil), raw.Prefix...)
		out = append(out, token.Token{
			Kind:   token.TagDirective,
			Mark:   mark(raw.Start_mark),
			Value:  handle,
			Suffix: append([]byte(nil), raw.Prefix...),
		})

	case yamlh.DOCUMENT_START_TOKEN:
		if s.haveDocument {
			out = append(out, token.Token{Kind: token.DocumentEnd, Mark: mark(raw.Start_mark)})
		}
		if !s.sawDirective {
			s.tagHandles = defaultTagHandles()
		}
		s.expectDocStart = false
		s.sawDirective = false
		s.seenYAMLDir = false
		s.seenTagDirs = nil
		s.haveDocument = true
		out = append(out, token.Token{Kind: token.DocumentStart, Mark: mark(raw.Start_mark)})

	case yamlh.DOCUMENT_END_TOKEN:
		s.haveDocument = false
		s.tagHandles = defaultTagHandles()
		out = append(out, token.Token{Kind: token.DocumentEnd, Mark: mark(raw.Start_mark)})

	case yamlh.BLOCK_SEQUENCE_START_TOKEN:
		out = append(out, s.openImplicitDocument(raw)...)
		s.coll = append(s.coll, collFrame{kind: collSequence, style: token.Block})
		out = append(out, token.Token{Kind: token.SequenceStart, Mark: mark(raw.Start_mark), Collection: token.Block})

	case yamlh.BLOCK_MAPPING_START_TOKEN:
		out = append(out, s.openImplicitDocument(raw)...)
		s.coll = append(s.coll, collFrame{kind: collMapping, style: token.Block})
		out = append(out, token.Token{Kind: token.MappingStart, Mark: mark(raw.Start_mark), Collection: token.Block})

	case yamlh.BLOCK_END_TOKEN:
		out = append(out, s.popColl(raw, token.Block)...)

	case yamlh.FLOW_SEQUENCE_START_TOKEN:
		out = append(out, s.openImplicitDocument(raw)...)
		s.coll = append(s.coll, collFrame{kind: collSequence, style: token.Flow})
		out = append(out, token.Token{Kind: token.SequenceStart, Mark: mark(raw.Start_mark), Collection: token.Flow})

	case yamlh.FLOW_SEQUENCE_END_TOKEN:
		out = append(out, s.popColl(raw, token.Flow)...)

	case yamlh.FLOW_MAPPING_START_TOKEN:
		out = append(out, s.openImplicitDocument(raw)...)
		s.coll = append(s.coll, collFrame{kind: collMapping, style: token.Flow})
		out = append(out, token.Token{Kind: token.MappingStart, Mark: mark(raw.Start_mark), Collection: token.Flow})

	case yamlh.FLOW_MAPPING_END_TOKEN:
		out = append(out, s.popColl(raw, token.Flow)...)

	case yamlh.BLOCK_ENTRY_TOKEN, yamlh.FLOW_ENTRY_TOKEN:
		// Pure separators; nothing surfaces at this layer.
		return s.next(out)

	case yamlh.KEY_TOKEN:
		out = append(out, s.openImplicitDocument(raw)...)
		if s.inBareFlowSequence() {
			s.coll = append(s.coll, collFrame{kind: collMapping, style: token.Flow, synthetic: true})
			out = append(out, token.Token{Kind: token.MappingStart, Mark: mark(raw.Start_mark), Collection: token.Flow})
		}
		out = append(out, token.Token{Kind: token.Key, Mark: mark(raw.Start_mark)})

	case yamlh.VALUE_TOKEN:
		out = append(out, token.Token{Kind: token.Value, Mark: mark(raw.Start_mark)})

	case yamlh.ALIAS_TOKEN:
		out = append(out, s.openImplicitDocument(raw)...)
		out = append(out, token.Token{Kind: token.Alias, Mark: mark(raw.Start_mark), Value: raw.Value})

	case yamlh.ANCHOR_TOKEN:
		out = append(out, s.openImplicitDocument(raw)...)
		out = append(out, token.Token{Kind: token.Anchor, Mark: mark(raw.Start_mark), Value: raw.Value})

	case yamlh.TAG_TOKEN:
		out = append(out, s.openImplicitDocument(raw)...)
		if err := s.checkTagHandle(raw); err != nil {
			return token.Token{}, End, err
		}
		out = append(out, token.Token{Kind: token.Tag, Mark: mark(raw.Start_mark), Value: raw.Value, Suffix: raw.Suffix})

	case yamlh.SCALAR_TOKEN:
		out = append(out, s.openImplicitDocument(raw)...)
		value, contentIndent := s.rawScalar(raw)
		out = append(out, token.Token{
			Kind:          token.Scalar,
			Mark:          mark(raw.Start_mark),
			Value:         value,
			Style:         scalarStyle(raw.Style),
			ContentIndent: contentIndent,
		})

	default:
		// NO_TOKEN or anything not yet surfaced: skip silently.
		return s.next(out)
	}

	return s.next(out)
}

// next queues out[1:] and returns out[0], or recurses into the engine for
// more input if out is empty (e.g. a pure separator token).
func (s *Scanner) next(out []token.Token) (token.Token, AdvanceResult, error) {
	if len(out) == 0 {
		return s.Advance()
	}
	if len(out) > 1 {
		s.pending = append(s.pending, out[1:]...)
	}
	return out[0], Ready, nil
}

// openImplicitDocument synthesizes a DocumentStart the first time content
// appears without a preceding explicit '---', mirroring the event layer's
// implicit-document-start handling.
func (s *Scanner) openImplicitDocument(raw *yamlh.YamlToken) []token.Token {
	if s.haveDocument {
		return nil
	}
	s.haveDocument = true
	s.expectDocStart = false
	return []token.Token{{Kind: token.DocumentStart, Mark: mark(raw.Start_mark)}}
}

// inBareFlowSequence reports whether the innermost open collection is a
// flow sequence with no implicit mapping already open in it — the case
// where "[ a: 1 ]"'s KEY needs a synthetic MappingStart.
func (s *Scanner) inBareFlowSequence() bool {
	if len(s.coll) == 0 {
		return false
	}
	top := s.coll[len(s.coll)-1]
	return top.style == token.Flow && top.kind == collSequence
}

// closeImplicitFlowMapping emits the MappingEnd for a synthetic flow
// mapping frame if raw is about to close its pair or its enclosing
// sequence.
func (s *Scanner) closeImplicitFlowMapping(raw *yamlh.YamlToken) (token.Token, bool) {
	if len(s.coll) == 0 {
		return token.Token{}, false
	}
	top := s.coll[len(s.coll)-1]
	if !top.synthetic || top.kind != collMapping {
		return token.Token{}, false
	}
	s.coll = s.coll[:len(s.coll)-1]
	return token.Token{Kind: token.MappingEnd, Mark: mark(raw.Start_mark), Collection: token.Flow}, true
}

// popColl closes the top collection frame, translating a bare BLOCK-END
// into the right Mapping/SequenceEnd kind. For FLOW_*_END tokens the kind
// is already known from raw.Type, but the stack is still consulted so it
// stays in sync (and to close a dangling synthetic frame first, which
// should not occur for FLOW_MAPPING_END since that always comes with its
// own explicit start, but can for FLOW_SEQUENCE_END closing over an open
// implicit pair).
func (s *Scanner) popColl(raw *yamlh.YamlToken, style token.CollectionStyle) []token.Token {
	if len(s.coll) == 0 {
		return nil
	}
	top := s.coll[len(s.coll)-1]
	s.coll = s.coll[:len(s.coll)-1]
	if top.kind == collMapping {
		return []token.Token{{Kind: token.MappingEnd, Mark: mark(raw.Start_mark), Collection: style}}
	}
	return []token.Token{{Kind: token.SequenceEnd, Mark: mark(raw.Start_mark), Collection: style}}
}

// drainComments surfaces whatever '#' comments the engine folded onto the
// mark of the upcoming token (peek_token unfolds them as a side effect of
// PeekToken, grouped into head/line/foot buckets) as standalone Comment
// tokens, and clears the engine's buffers so they are not repeated.
func (s *Scanner) drainComments(m token.Mark) []token.Token {
	var out []token.Token
	if len(s.eng.Head_comment) > 0 {
		out = append(out, token.Token{Kind: token.Comment, Mark: m, Value: append([]byte(nil), s.eng.Head_comment...)})
		s.eng.Head_comment = nil
	}
	if len(s.eng.Line_comment) > 0 {
		out = append(out, token.Token{Kind: token.Comment, Mark: m, Value: append([]byte(nil), s.eng.Line_comment...)})
		s.eng.Line_comment = nil
	}
	if len(s.eng.Foot_comment) > 0 {
		out = append(out, token.Token{Kind: token.Comment, Mark: m, Value: append([]byte(nil), s.eng.Foot_comment...)})
		s.eng.Foot_comment = nil
	}
	return out
}

// checkTagHandle validates a named tag handle ("!foo!bar") against the
// registry built from %TAG directives plus the two built-ins. Verbatim
// ("!<...>") and shorthand ("!bar") tags carry handle "!" or "" and never
// fail this check.
func (s *Scanner) checkTagHandle(raw *yamlh.YamlToken) error {
	handle := string(raw.Value)
	if handle == "" || handle == "!" || handle == "!!" {
		return nil
	}
	if _, ok := s.tagHandles[handle]; !ok {
		return newError(UnknownTagHandle, mark(raw.Start_mark), "undefined tag handle %q", handle)
	}
	return nil
}

// rawScalar returns the scalar's raw source bytes — as written, not
// unescaped or folded — plus its content indent, sliced out of the
// retainer rather than taken from raw.Value: the engine builds raw.Value
// by resolving escapes and folding line breaks into a fresh buffer (see
// yaml_parser_scan_flow_scalar and yaml_parser_scan_block_scalar in
// internal/parserc/scannerc.go), which this scanner's zero-copy contract
// does not let it surface as a token's Value.
//
// Quoted scalars: the range excludes the surrounding quote characters,
// recoverable from Start_mark/End_mark alone since escape-cooking does
// not disturb position tracking. Block scalars: Start_mark/End_mark span
// the whole construct including the header line, so the body's own
// start is carried separately on Content_start_mark (see
// yaml_parser_scan_block_scalar); the slice runs to End_mark unchomped,
// matching the body exactly as it appears in the source. Plain scalars
// need no adjustment: End_mark already trails the last non-blank
// character consumed.
func (s *Scanner) rawScalar(raw *yamlh.YamlToken) ([]byte, int) {
	switch raw.Style {
	case yamlh.SINGLE_QUOTED_SCALAR_STYLE, yamlh.DOUBLE_QUOTED_SCALAR_STYLE:
		return s.rt.slice(raw.Start_mark.Index+1, raw.End_mark.Index-1), 0
	case yamlh.LITERAL_SCALAR_STYLE, yamlh.FOLDED_SCALAR_STYLE:
		return s.rt.slice(raw.Content_start_mark.Index, raw.End_mark.Index), raw.Content_indent
	default:
		return s.rt.slice(raw.Start_mark.Index, raw.End_mark.Index), 0
	}
}

func scalarStyle(s yamlh.YamlScalarStyle) token.ScalarStyle {
	switch s {
	case yamlh.SINGLE_QUOTED_SCALAR_STYLE:
		return token.SingleQuoted
	case yamlh.DOUBLE_QUOTED_SCALAR_STYLE:
		return token.DoubleQuoted
	case yamlh.LITERAL_SCALAR_STYLE:
		return token.Literal
	case yamlh.FOLDED_SCALAR_STYLE:
		return token.Folded
	default:
		return token.Plain
	}
}
