package prettier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// NativeName is the backend name reported in native FormatErrors.
const NativeName = "native"

// Native formats JSON and GraphQL without leaving the process.
// JavaScript is not supported and yields ErrUnsupportedParser.
type Native struct{}

// NewNative returns the in-process JSON/GraphQL backend.
func NewNative() *Native { return &Native{} }

// Format implements Formatter.
func (n *Native) Format(ctx context.Context, text string, p Parser, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	switch p {
	case ParserJSON:
		return formatJSON(text, opts)
	case ParserGraphQL:
		return formatGraphQL(text, opts)
	default:
		return "", &FormatError{
			Backend: NativeName,
			Parser:  p,
			Message: fmt.Sprintf("the native backend cannot format %s", p),
			Err:     ErrUnsupportedParser,
		}
	}
}

// Supports reports whether p can be handled natively.
func (n *Native) Supports(p Parser) bool {
	return p == ParserJSON || p == ParserGraphQL
}

func formatJSON(text string, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(text), "", opts.IndentUnit()); err != nil {
		return "", newFormatError(NativeName, ParserJSON, describeJSONError(text, err))
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

// describeJSONError adds a line:column position to syntax errors.
func describeJSONError(text string, err error) error {
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return err
	}
	offset := int(syntaxErr.Offset)
	if offset > len(text) {
		offset = len(text)
	}
	line := 1 + strings.Count(text[:offset], "\n")
	col := offset - strings.LastIndex(text[:offset], "\n")
	return fmt.Errorf("%w (%d:%d)", err, line, col)
}

func formatGraphQL(text string, opts Options) (string, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "body.graphql", Input: text})
	if err != nil {
		return "", newFormatError(NativeName, ParserGraphQL, err)
	}
	var buf bytes.Buffer
	f := formatter.NewFormatter(&buf, formatter.WithIndent(opts.IndentUnit()), formatter.WithComments())
	f.FormatQueryDocument(doc)
	return buf.String(), nil
}
