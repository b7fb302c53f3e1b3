// Package token defines the public token vocabulary produced by the
// scanner package: the flat, structural view of a YAML stream that a DOM
// builder, schema-based deserializer, or source-generated reader can
// consume without re-deriving indentation or flow-context rules itself.
package token

import "fmt"

// Kind identifies what a Token represents.
type Kind uint8

const (
	Invalid Kind = iota
	StreamStart
	StreamEnd
	DocumentStart
	DocumentEnd
	MappingStart
	MappingEnd
	SequenceStart
	SequenceEnd
	Scalar
	Alias
	Tag
	Anchor
	Comment
	VersionDirective
	TagDirective
	Key
	Value
)

var kindNames = [...]string{
	Invalid:          "Invalid",
	StreamStart:      "StreamStart",
	StreamEnd:        "StreamEnd",
	DocumentStart:    "DocumentStart",
	DocumentEnd:      "DocumentEnd",
	MappingStart:     "MappingStart",
	MappingEnd:       "MappingEnd",
	SequenceStart:    "SequenceStart",
	SequenceEnd:      "SequenceEnd",
	Scalar:           "Scalar",
	Alias:            "Alias",
	Tag:              "Tag",
	Anchor:           "Anchor",
	Comment:          "Comment",
	VersionDirective: "VersionDirective",
	TagDirective:     "TagDirective",
	Key:              "Key",
	Value:            "Value",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ScalarStyle distinguishes how a Scalar token's text was written.
type ScalarStyle uint8

const (
	AnyScalarStyle ScalarStyle = iota
	Plain
	SingleQuoted
	DoubleQuoted
	Literal
	Folded
)

func (s ScalarStyle) String() string {
	switch s {
	case Plain:
		return "Plain"
	case SingleQuoted:
		return "SingleQuoted"
	case DoubleQuoted:
		return "DoubleQuoted"
	case Literal:
		return "Literal"
	case Folded:
		return "Folded"
	default:
		return "AnyScalarStyle"
	}
}

// CollectionStyle distinguishes block (indentation) from flow (bracket)
// layout for a MappingStart/SequenceStart token.
type CollectionStyle uint8

const (
	AnyCollectionStyle CollectionStyle = iota
	Block
	Flow
)

func (s CollectionStyle) String() string {
	switch s {
	case Block:
		return "Block"
	case Flow:
		return "Flow"
	default:
		return "AnyCollectionStyle"
	}
}

// Mark is a source position: a one-based line and column plus the absolute
// byte offset from the start of the input.
type Mark struct {
	Line   int
	Column int
	Offset int
}

func (m Mark) String() string {
	return fmt.Sprintf("%d:%d", m.Line, m.Column)
}

// Token is a single structural unit of a YAML stream. Not every field
// applies to every Kind; see the Kind-specific notes below.
type Token struct {
	Kind Kind
	Mark Mark

	// Value holds the raw source bytes for Scalar, Alias, Anchor, Tag,
	// VersionDirective (the "major.minor" text) and TagDirective (the
	// handle) tokens.
	//
	// For Scalar, Value is a slice into the original input buffer exactly
	// as written, with quote characters (for Single/DoubleQuoted) or the
	// header line (for Literal/Folded) excluded but nothing else altered:
	// the scanner performs no escape resolution, no whitespace folding,
	// and no chomping. A Double-quoted "a\nb" surfaces Value as the four
	// bytes `a\nb` (backslash, n), not a decoded line feed. A caller that
	// needs the logical scalar text applies the rule for Style:
	//   - Plain:        trim surrounding blanks, fold line breaks to ' '
	//   - SingleQuoted: replace "''" with "'"
	//   - DoubleQuoted: resolve '\' escape sequences
	//   - Literal:      strip ContentIndent from each line, then chomp
	//   - Folded:       fold line runs to ' ', strip ContentIndent, chomp
	Value []byte

	// Suffix holds the tag URI for a Tag token, or the prefix text for a
	// TagDirective token.
	Suffix []byte

	// Style is meaningful for Scalar tokens.
	Style ScalarStyle

	// ContentIndent is the detected (or explicitly specified) leading-space
	// column of a Literal or Folded scalar body, to strip from each of its
	// lines before chomping; meaningful only for those styles. It is
	// always part of Value's raw text, never stripped by the scanner.
	ContentIndent int

	// Collection is meaningful for MappingStart and SequenceStart tokens.
	Collection CollectionStyle
}

func (t Token) String() string {
	if len(t.Value) > 0 {
		return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Value, t.Mark)
	}
	return fmt.Sprintf("%s@%s", t.Kind, t.Mark)
}
