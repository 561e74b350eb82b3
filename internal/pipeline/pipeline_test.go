package pipeline

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brufmt/internal/block"
	"brufmt/internal/prettier"
)

// stubScript mimics the parts of prettier's babel output the tests rely on:
// no semicolons and no trailing whitespace.
func stubScript(_ context.Context, text string, _ prettier.Parser, _ prettier.Options) (string, error) {
	if strings.Contains(text, "SYNTAX ERROR") {
		return "", &prettier.FormatError{
			Backend: "prettier",
			Parser:  prettier.ParserBabel,
			Message: "SyntaxError: Missing semicolon. (1:7)",
		}
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(strings.TrimRight(l, " \t"), ";")
	}
	return strings.Join(lines, "\n") + "\n", nil
}

func newTestPipeline(cfg Config) *Pipeline {
	native := prettier.NewNative()
	router := prettier.NewRouter(map[prettier.Parser]prettier.Formatter{
		prettier.ParserJSON:    native,
		prettier.ParserGraphQL: native,
		prettier.ParserBabel:   prettier.FormatterFunc(stubScript),
	}, nil)
	return New(router, cfg)
}

func run(t *testing.T, p *Pipeline, contents, only string) Outcome {
	t.Helper()
	out, err := p.Format(context.Background(), contents, only)
	require.NoError(t, err)
	return out
}

func TestFormat_JSONExample(t *testing.T) {
	p := newTestPipeline(Config{})
	out := run(t, p, "body:json {\n  {\n      \"a\": 1,\n  \"b\": 2\n  }\n}\n", "")

	assert.Equal(t, "body:json {\n  {\n    \"a\": 1,\n    \"b\": 2\n  }\n}\n", out.NewContents)
	assert.True(t, out.Changeable)
	assert.Empty(t, out.ErrorMessages)
	assert.Equal(t, len(block.Kinds), out.BlocksSearchedFor)
}

func TestFormat_FilePaths(t *testing.T) {
	in := "meta {\n  name: upload\n}\n\nbody:file {\n  file: @file(\\Users\\a\\b.jpg)\n}\n"
	want := "meta {\n  name: upload\n}\n\nbody:file {\n  file: @file(/Users/a/b.jpg)\n}\n"

	out := run(t, newTestPipeline(Config{AgnosticFilePaths: true}), in, "")
	assert.Equal(t, want, out.NewContents)
	assert.True(t, out.Changeable)

	out = run(t, newTestPipeline(Config{}), in, "")
	assert.Equal(t, in, out.NewContents)
	assert.False(t, out.Changeable)

	out = run(t, newTestPipeline(Config{AgnosticFilePaths: true}), in, "body")
	assert.Equal(t, in, out.NewContents, "paths are only normalized without an only filter")
}

func TestFormat_PartialFailure(t *testing.T) {
	in := "body:json {\n  {\"a\": }\n}\n\ntests {\n  test(\"ok\", function () {});\n}\n"
	out := run(t, newTestPipeline(Config{}), in, "")

	require.Len(t, out.ErrorMessages, 1)
	assert.True(t, strings.HasPrefix(out.ErrorMessages[0], "native could not format body:json because...\n"), out.ErrorMessages[0])
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "body:json", out.Failures[0].Kind.Name)
	assert.True(t, out.Changeable)
	assert.Contains(t, out.NewContents, "body:json {\n  {\"a\": }\n}\n")
	assert.Contains(t, out.NewContents, "tests {\n  test(\"ok\", function () {})\n}\n")
	assert.True(t, out.HasErrors())
}

func TestFormat_BackendErrorMessage(t *testing.T) {
	in := "script:pre-request {\n  SYNTAX ERROR\n}\n"
	out := run(t, newTestPipeline(Config{}), in, "")
	require.Len(t, out.ErrorMessages, 1)
	assert.Equal(t, "prettier could not format script:pre-request because...\nSyntaxError: Missing semicolon. (1:7)", out.ErrorMessages[0])
	assert.Equal(t, in, out.NewContents)
	assert.False(t, out.Changeable)
}

func TestFormat_RemovesEmptyBlocks(t *testing.T) {
	in := "meta {\n  name: x\n}\n\ntests {\n}\n"
	out := run(t, newTestPipeline(Config{}), in, "")
	assert.Equal(t, "meta {\n  name: x\n}\n", out.NewContents)
	assert.True(t, out.Changeable)
	assert.NotContains(t, out.NewContents, "tests {")
}

func TestFormat_BlankBodyIsEmptied(t *testing.T) {
	in := "meta {\n  name: x\n}\n\nscript:post-response {\n  \n  \n}\n"
	out := run(t, newTestPipeline(Config{}), in, "")
	assert.Equal(t, "meta {\n  name: x\n}\n", out.NewContents)
	assert.Empty(t, out.ErrorMessages)
}

func TestFormat_Locality(t *testing.T) {
	unrecognized := "docs {\n  # Title\n      indented   text\n  {{not json}}\n}\n"
	meta := "meta {\n  name:    spaced\n  seq: 1\n}\n"
	in := meta + "\n" + unrecognized + "\nbody:json {\n  {\"a\":1}\n}\n"

	for _, cfg := range []Config{{}, {AgnosticFilePaths: true, ShortenGetters: true}} {
		for _, only := range []string{"", "json", "tests"} {
			out := run(t, newTestPipeline(cfg), in, only)
			assert.True(t, strings.HasPrefix(out.NewContents, meta+"\n"+unrecognized+"\n"), only)
		}
	}
}

func TestFormat_Idempotent(t *testing.T) {
	fixtures := []string{
		"body:json {\n  {\n      \"a\": 1,\n  \"b\": [1,2]\n  }\n}\n",
		"meta {\n  name: x\n}\n\n\n\nbody:json {\n  {\"id\": {{id}}, \"name\": \"{{name}}\"}\n}\n   \ntests {\n  expect(res.getStatus()).to.equal(200);  \n}\n",
		"tests {\n}\n\nscript:pre-request {\n  bru.setVar(\"a\", 1);\n}\n",
		"body:json {\n  {\"a\": }\n}\n\ntests {\n  a();\n}\n",
		"body:graphql {\n  query { user(id: 1) { name } }\n}\n\nbody:graphql:vars {\n  {\"id\": {{userId}}}\n}\n",
		"body:file {\n  file: @file(C:\\tmp\\a.png)\n}\n",
		"",
	}
	for _, cfg := range []Config{{}, {AgnosticFilePaths: true, ShortenGetters: true}} {
		p := newTestPipeline(cfg)
		for _, in := range fixtures {
			first := run(t, p, in, "")
			second := run(t, p, first.NewContents, "")
			assert.Equal(t, first.NewContents, second.NewContents, in)
			assert.False(t, second.Changeable, in)
		}
	}
}

func TestFormat_Placeholders(t *testing.T) {
	in := "body:json {\n  {\"id\": {{id}}, \"name\": \"{{name}}\", \"greeting\": \"hi {{name}}\"}\n}\n"
	out := run(t, newTestPipeline(Config{}), in, "")
	assert.Equal(t, "body:json {\n  {\n    \"id\": {{id}},\n    \"name\": \"{{name}}\",\n    \"greeting\": \"hi {{name}}\"\n  }\n}\n", out.NewContents)
	assert.Empty(t, out.ErrorMessages)
}

func TestFormat_GraphQL(t *testing.T) {
	in := "body:graphql {\n  query { user(id: 1) { name } }\n}\n"
	out := run(t, newTestPipeline(Config{}), in, "")
	require.Empty(t, out.ErrorMessages)
	assert.True(t, out.Changeable)
	assert.Contains(t, out.NewContents, "\n      name\n")
	assert.True(t, strings.HasSuffix(out.NewContents, "\n  }\n}\n"))
}

func TestFormat_ShortenGetters(t *testing.T) {
	in := "tests {\n  expect(res.getStatus()).to.equal(200)\n}\n"

	out := run(t, newTestPipeline(Config{ShortenGetters: true}), in, "")
	assert.Equal(t, "tests {\n  expect(res.status).to.equal(200)\n}\n", out.NewContents)

	out = run(t, newTestPipeline(Config{}), in, "")
	assert.False(t, out.Changeable)

	jsonIn := "body:json {\n  {\n    \"a\": \"res.getBody()\"\n  }\n}\n"
	out = run(t, newTestPipeline(Config{ShortenGetters: true}), jsonIn, "")
	assert.False(t, out.Changeable, "getters are only shortened in scripts")
}

func TestFormat_OnlyFilter(t *testing.T) {
	in := "body:json {\n  {\"a\":1}\n}\n\ntests {\n  a();\n}\n\nscript:pre-request {\n}\n"

	out := run(t, newTestPipeline(Config{}), in, "tests")
	assert.Equal(t, 1, out.BlocksSearchedFor)
	assert.Equal(t, "body:json {\n  {\"a\":1}\n}\n\ntests {\n  a()\n}\n\nscript:pre-request {\n}\n", out.NewContents,
		"only the selected kind is formatted and stripped")

	out = run(t, newTestPipeline(Config{}), in, "script")
	assert.Equal(t, 2, out.BlocksSearchedFor)
	assert.Equal(t, "body:json {\n  {\"a\":1}\n}\n\ntests {\n  a();\n}\n", out.NewContents)

	_, err := newTestPipeline(Config{}).Format(context.Background(), in, "headers")
	require.ErrorIs(t, err, block.ErrInvalidOnly)
}

func TestFormat_LineEndings(t *testing.T) {
	in := "meta {\r\n  name: x\r\n}\r\n"
	out := run(t, newTestPipeline(Config{}), in, "")
	assert.Equal(t, "meta {\n  name: x\n}\n", out.NewContents)
	assert.False(t, out.Changeable)
}

func TestFormat_SkipsMissingAndEmptyBlocks(t *testing.T) {
	var calls atomic.Int32
	counting := prettier.FormatterFunc(func(ctx context.Context, text string, p prettier.Parser, o prettier.Options) (string, error) {
		calls.Add(1)
		return text, nil
	})
	in := "meta {\n}\n\ntests {\n}\n\nscript:pre-request {\n   \n}\n"
	out := run(t, New(counting, Config{}), in, "")
	assert.Zero(t, calls.Load())
	assert.Equal(t, "meta {\n}\n", out.NewContents)
}

func TestFormat_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestPipeline(Config{}).Format(ctx, "tests {\n  a()\n}\n", "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_DefaultOptions(t *testing.T) {
	var seen prettier.Options
	f := prettier.FormatterFunc(func(_ context.Context, text string, _ prettier.Parser, o prettier.Options) (string, error) {
		seen = o
		return text, nil
	})
	run(t, New(f, Config{}), "tests {\n  a()\n}\n", "")
	assert.Equal(t, prettier.DefaultOptions(), seen)
	assert.Equal(t, prettier.DefaultOptions(), New(f, Config{}).Config().FormatterOptions)
}
