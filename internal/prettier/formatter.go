package prettier

import (
	"context"
	"errors"
	"fmt"
)

// Parser names the grammar a backend should use for a piece of text.
// Values follow prettier's --parser names.
type Parser string

const (
	ParserJSON    Parser = "json"
	ParserGraphQL Parser = "graphql"
	ParserBabel   Parser = "babel"
)

// Parsers lists every grammar a .bru block can ask for.
var Parsers = []Parser{ParserJSON, ParserGraphQL, ParserBabel}

func (p Parser) String() string { return string(p) }

var (
	// ErrUnsupportedParser is returned by a backend asked for a grammar it does not implement.
	ErrUnsupportedParser = errors.New("unsupported parser")
	// ErrNoBackend is returned when no backend is available for a parser.
	ErrNoBackend = errors.New("no formatter backend available")
)

// Formatter is the boundary to an external pretty-printer.
// Implementations must return a *FormatError on failure.
type Formatter interface {
	Format(ctx context.Context, text string, parser Parser, opts Options) (string, error)
}

// FormatterFunc adapts a plain function to Formatter.
type FormatterFunc func(ctx context.Context, text string, parser Parser, opts Options) (string, error)

// Format calls f.
func (f FormatterFunc) Format(ctx context.Context, text string, parser Parser, opts Options) (string, error) {
	return f(ctx, text, parser, opts)
}

// FormatError describes why a backend refused a piece of text.
type FormatError struct {
	Backend string
	Parser  Parser
	Message string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s formatting failed", e.Backend, e.Parser)
}

func (e *FormatError) Unwrap() error { return e.Err }

func newFormatError(backend string, parser Parser, err error) *FormatError {
	fe := &FormatError{Backend: backend, Parser: parser, Err: err}
	if err != nil {
		fe.Message = err.Error()
	}
	return fe
}

// BackendOf reports the backend name carried by err, or "formatter" when err
// is not a *FormatError.
func BackendOf(err error) string {
	var fe *FormatError
	if errors.As(err, &fe) && fe.Backend != "" {
		return fe.Backend
	}
	return "formatter"
}
