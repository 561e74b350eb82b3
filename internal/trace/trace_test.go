package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(strings.ToUpper(name))
		require.NoError(t, err)
		assert.Equal(t, name, lvl.String())
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLevel_ShouldEmit(t *testing.T) {
	assert.False(t, LevelOff.ShouldEmit(KindError, ScopeDriver))
	assert.True(t, LevelError.ShouldEmit(KindError, ScopeBlock))
	assert.False(t, LevelError.ShouldEmit(KindSpanBegin, ScopeDriver))
	assert.True(t, LevelPhase.ShouldEmit(KindSpanBegin, ScopeDriver))
	assert.False(t, LevelPhase.ShouldEmit(KindSpanBegin, ScopeFile))
	assert.True(t, LevelDetail.ShouldEmit(KindPoint, ScopeFile))
	assert.False(t, LevelDetail.ShouldEmit(KindPoint, ScopeBlock))
	assert.True(t, LevelDebug.ShouldEmit(KindPoint, ScopeBlock))
}

func TestStart_NestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Format: FormatNDJSON, Output: &buf})
	require.NoError(t, err)
	ctx := WithTracer(context.Background(), tr)

	ctx, file := Start(ctx, ScopeFile, "file")
	_, blk := Start(ctx, ScopeBlock, "block:tests")
	blk.WithExtra("changed", "true").End("")
	file.End("a.bru")

	var events []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		events = append(events, ev)
	}
	require.Len(t, events, 4)
	assert.Equal(t, "begin", events[0]["kind"])
	assert.Equal(t, events[0]["span_id"], events[1]["parent_id"])
	assert.Equal(t, "end", events[2]["kind"])
	assert.Equal(t, map[string]any{"changed": "true"}, events[2]["extra"])
	assert.Equal(t, "a.bru", events[3]["detail"])
}

func TestLevelFilteringAndErrors(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelError, Format: FormatText, Output: &buf})
	require.NoError(t, err)
	ctx := WithTracer(context.Background(), tr)

	ctx, span := Start(ctx, ScopeDriver, "sweep")
	Point(ctx, ScopeFile, "cache-hit", "a.bru")
	Error(ctx, ScopeBlock, "block:body:json", errors.New("bad json"))
	Error(ctx, ScopeBlock, "ignored", nil)
	span.End("")

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "block:body:json (bad json)")
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	tr := FromContext(context.Background())
	assert.False(t, tr.Enabled())
	ctx, span := Start(context.Background(), ScopeFile, "x")
	assert.Equal(t, uint64(0), span.ID())
	assert.Equal(t, context.Background(), ctx)
	assert.Zero(t, span.End(""))
}

func TestWithFile_TagsNestedEvents(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Format: FormatText, Output: &buf})
	require.NoError(t, err)
	ctx := WithTracer(context.Background(), tr)

	ctx = WithFile(ctx, "req.bru")
	ctx, span := Start(ctx, ScopeFile, "file")
	Error(ctx, ScopeBlock, "block:tests", errors.New("boom"))
	span.End("")

	assert.Equal(t, "req.bru", CurrentSpan(ctx).File)
	assert.Contains(t, buf.String(), "! block:tests [req.bru] (boom)")
}

func TestWithFile_NopTracer(t *testing.T) {
	ctx := WithFile(context.Background(), "req.bru")
	assert.Equal(t, context.Background(), ctx)
}
