package scanner

import (
	"strings"

	"github.com/latticeyaml/yamlcore/internal/yamlh"
	"github.com/latticeyaml/yamlcore/token"
	"golang.org/x/xerrors"
)

// Category classifies why a Scanner could not continue.
type Category int

const (
	UnknownCategory Category = iota
	IndentationError
	UnterminatedScalar
	BadEscape
	BadBlockScalarHeader
	DirectiveError
	UnknownTagHandle
	MultilineImplicitKey
	CommentWithoutSpace
	FlowError
	DepthExceeded
	UnexpectedEndOfInput
	AmbiguousAnchorOrTag
	MultipleRootNodes
	TrailingContentAfterQuoted
)

var categoryNames = [...]string{
	UnknownCategory:            "UnknownCategory",
	IndentationError:           "IndentationError",
	UnterminatedScalar:         "UnterminatedScalar",
	BadEscape:                  "BadEscape",
	BadBlockScalarHeader:       "BadBlockScalarHeader",
	DirectiveError:             "DirectiveError",
	UnknownTagHandle:           "UnknownTagHandle",
	MultilineImplicitKey:       "MultilineImplicitKey",
	CommentWithoutSpace:        "CommentWithoutSpace",
	FlowError:                  "FlowError",
	DepthExceeded:              "DepthExceeded",
	UnexpectedEndOfInput:       "UnexpectedEndOfInput",
	AmbiguousAnchorOrTag:       "AmbiguousAnchorOrTag",
	MultipleRootNodes:          "MultipleRootNodes",
	TrailingContentAfterQuoted: "TrailingContentAfterQuoted",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "UnknownCategory"
}

// Error is the single error type a Scanner raises. It always carries a
// Mark pinpointing where the engine noticed the problem and a Category
// from the diagnostic taxonomy, so callers can branch with errors.As
// instead of matching message text.
type Error struct {
	Category Category
	Mark     token.Mark
	Message  string
	frame    xerrors.Frame
}

func newError(category Category, mark token.Mark, format string, args ...interface{}) *Error {
	return &Error{
		Category: category,
		Mark:     mark,
		Message:  xerrors.Errorf(format, args...).Error(),
		frame:    xerrors.Caller(1),
	}
}

func (e *Error) Error() string {
	return e.Mark.String() + ": " + e.Category.String() + ": " + e.Message
}

// FormatError lets golang.org/x/xerrors render the raise-site frame when a
// caller formats this error with "%+v".
func (e *Error) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	if p.Detail() {
		e.frame.Format(p)
	}
	return nil
}

// classify maps an error surfaced by the underlying token engine onto the
// diagnostic taxonomy. The engine itself (internal/parserc) only carries a
// message string and a zero-based position (see yamlh.EngineError), of
// which only the line is used here; this is the
// adaptation point that gives those strings a stable, typed category and a
// full Mark instead of requiring callers to pattern-match text themselves.
func classify(err error, fallback token.Mark) error {
	if err == nil {
		return nil
	}
	ee, ok := err.(*yamlh.EngineError)
	if !ok {
		return err
	}
	mark := fallback
	if ee.Mark.Line != 0 {
		mark.Line = ee.Mark.Line + 1
	}
	problem := ee.Problem

	switch {
	case strings.Contains(problem, "exceeded max depth"):
		return newError(DepthExceeded, mark, "%s", problem)
	case strings.Contains(problem, "tab character"):
		return newError(IndentationError, mark, "%s", problem)
	case strings.Contains(problem, "wrong indentation"),
		strings.Contains(problem, "indentation"),
		strings.Contains(problem, "not allowed in this context"):
		return newError(IndentationError, mark, "%s", problem)
	case strings.Contains(problem, "could not find expected ':'"):
		return newError(MultilineImplicitKey, mark, "%s", problem)
	case strings.Contains(problem, "found unexpected end of stream"),
		strings.Contains(problem, "found unexpected document indicator"):
		return newError(UnexpectedEndOfInput, mark, "%s", problem)
	case strings.Contains(problem, "found unknown escape character"),
		strings.Contains(problem, "did not find expected hexdecimal number"),
		strings.Contains(problem, "found invalid Unicode character escape code"):
		return newError(BadEscape, mark, "%s", problem)
	case strings.Contains(problem, "indentation indicator equal to 0"):
		return newError(BadBlockScalarHeader, mark, "%s", problem)
	case strings.Contains(problem, "directive"),
		strings.Contains(problem, "version number"),
		strings.Contains(problem, "did not find expected comment or line break"):
		return newError(DirectiveError, mark, "%s", problem)
	case strings.Contains(problem, "tag handle"), strings.Contains(problem, "undefined tag handle"):
		return newError(UnknownTagHandle, mark, "%s", problem)
	case strings.Contains(problem, "comma"), strings.Contains(problem, "','"):
		return newError(FlowError, mark, "%s", problem)
	default:
		return newError(UnknownCategory, mark, "%s", problem)
	}
}
