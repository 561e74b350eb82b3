// Package pipeline runs the block formatting passes over the text of one
// .bru file and reports what changed.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"brufmt/internal/block"
	"brufmt/internal/indent"
	"brufmt/internal/placeholder"
	"brufmt/internal/prettier"
	"brufmt/internal/rewrite"
	"brufmt/internal/trace"
)

// Config selects the optional passes and the options handed to the formatter.
type Config struct {
	AgnosticFilePaths bool
	ShortenGetters    bool
	FormatterOptions  prettier.Options
}

// Failure is a block that could not be formatted.
type Failure struct {
	Kind block.Kind
	Err  error
}

// Outcome is the result of one pipeline run.
type Outcome struct {
	NewContents       string
	BlocksSearchedFor int
	Changeable        bool
	ErrorMessages     []string
	Failures          []Failure
}

// HasErrors reports whether any block failed to format.
func (o Outcome) HasErrors() bool { return len(o.ErrorMessages) > 0 }

// Pipeline formats .bru file contents. It holds no mutable state and may be
// shared between goroutines.
type Pipeline struct {
	formatter prettier.Formatter
	cfg       Config
}

// New returns a pipeline formatting block bodies with f. A nil
// FormatterOptions is replaced by prettier.DefaultOptions.
func New(f prettier.Formatter, cfg Config) *Pipeline {
	if cfg.FormatterOptions == nil {
		cfg.FormatterOptions = prettier.DefaultOptions()
	}
	return &Pipeline{formatter: f, cfg: cfg}
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config { return p.cfg }

// Format runs every pass over contents. only restricts the block kinds that
// are formatted and stripped; the empty string selects all of them. Block
// failures are reported in the Outcome; the returned error is non-nil only
// for an invalid only value or a cancelled context.
func (p *Pipeline) Format(ctx context.Context, contents, only string) (Outcome, error) {
	filter, err := block.ParseOnly(only)
	if err != nil {
		return Outcome{}, err
	}

	ctx, span := trace.Start(ctx, trace.ScopeFile, "pipeline")
	defer span.End("")

	normalized := strings.ReplaceAll(contents, "\r\n", "\n")
	text := normalized
	var out Outcome

	kinds := filter.Select()
	for _, k := range kinds {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		out.BlocksSearchedFor++
		next, ferr := p.formatBlock(ctx, text, k)
		if ferr != nil {
			trace.Error(ctx, trace.ScopeBlock, "block:"+k.Name, ferr)
			if errors.Is(ferr, context.Canceled) || errors.Is(ferr, context.DeadlineExceeded) {
				if cerr := ctx.Err(); cerr != nil {
					return Outcome{}, cerr
				}
			}
			out.Failures = append(out.Failures, Failure{Kind: k, Err: ferr})
			out.ErrorMessages = append(out.ErrorMessages, failureMessage(k, ferr))
			continue
		}
		text = next
	}

	text = block.StripEmpty(text, kinds)
	if filter == nil && p.cfg.AgnosticFilePaths {
		text = rewrite.NormalizeFilePaths(text)
	}
	text = rewrite.TidyBlocks(text)

	out.NewContents = text
	out.Changeable = text != normalized
	span.WithExtra("changed", strconv.FormatBool(out.Changeable)).
		WithExtra("errors", strconv.Itoa(len(out.ErrorMessages)))
	return out, nil
}

// formatBlock formats the first block of kind k in text and returns the
// updated text. Missing and empty blocks leave text unchanged.
func (p *Pipeline) formatBlock(ctx context.Context, text string, k block.Kind) (string, error) {
	region, ok := block.Locate(text, k)
	if !ok || region.Empty() {
		return text, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeBlock, "block:"+k.Name)
	defer span.End("")

	body := region.Body
	if k.EscapePlaceholders {
		body = placeholder.Wrap(body)
	}
	body = indent.Strip(body)

	formatted := ""
	if strings.TrimSpace(body) != "" {
		var err error
		formatted, err = p.formatter.Format(ctx, body, k.Parser, p.cfg.FormatterOptions)
		if err != nil {
			return text, err
		}
	}

	if k.EscapePlaceholders {
		formatted = placeholder.Unwrap(formatted)
	}
	if k.ShortenGetters && p.cfg.ShortenGetters {
		formatted = rewrite.ShortenGetters(formatted)
	}
	formatted = indent.Reapply(formatted)

	if formatted == region.Body {
		return text, nil
	}
	span.WithExtra("changed", "true")
	return region.Splice(text, formatted), nil
}

func failureMessage(k block.Kind, err error) string {
	msg := err.Error()
	var fe *prettier.FormatError
	if errors.As(err, &fe) && fe.Message != "" {
		msg = fe.Message
	}
	return fmt.Sprintf("%s could not format %s because...\n%s", prettier.BackendOf(err), k.Name, msg)
}
