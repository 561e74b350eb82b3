package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"brufmt/internal/block"
	"brufmt/internal/cache"
	"brufmt/internal/diag"
	"brufmt/internal/pipeline"
	"brufmt/internal/prettier"
	"brufmt/internal/source"
	"brufmt/internal/trace"
)

// Mode selects what happens to formatted output.
type Mode uint8

const (
	// ModeCheck reports files that need changes without touching them.
	ModeCheck Mode = iota
	// ModeWrite rewrites files in place.
	ModeWrite
	// ModeStdout keeps formatted output in the result for printing.
	ModeStdout
)

func (m Mode) String() string {
	switch m {
	case ModeCheck:
		return "check"
	case ModeWrite:
		return "write"
	case ModeStdout:
		return "stdout"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Options configure a formatting sweep.
type Options struct {
	Mode     Mode
	Only     string
	Jobs     int
	Pipeline *pipeline.Pipeline
	Cache    *cache.DiskCache // nil disables the cache
	Settings cache.Digest     // identifies the settings results are cached under
	Sink     Sink
}

// FormatResult describes the outcome of formatting a single file.
type FormatResult struct {
	Path        string
	Changed     bool
	Cached      bool
	Messages    []string
	Diagnostics []diag.Diagnostic
	Err         error  // load or write failure
	Formatted   []byte // set in ModeStdout
}

// HasErrors reports whether the file failed to load, to be written, or had
// blocks that could not be formatted.
func (r FormatResult) HasErrors() bool {
	return r.Err != nil || len(r.Messages) > 0
}

// FormatPaths collects .bru files under paths and formats them.
func FormatPaths(ctx context.Context, paths []string, opts Options) ([]FormatResult, error) {
	files, err := CollectFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	return FormatFiles(ctx, files, opts)
}

// FormatFiles formats files concurrently. Results keep the order of files.
// Per-file problems are reported in the results; the returned error is
// reserved for an invalid only filter or a cancelled context.
func FormatFiles(ctx context.Context, files []string, opts Options) ([]FormatResult, error) {
	if opts.Pipeline == nil {
		return nil, errors.New("driver: no pipeline configured")
	}
	if _, err := block.ParseOnly(opts.Only); err != nil {
		return nil, err
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "format")
	span.WithExtra("files", strconv.Itoa(len(files))).WithExtra("mode", opts.Mode.String())
	defer span.End("")

	for _, path := range files {
		emit(opts.Sink, path, StageLoad, StatusQueued)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]FormatResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := formatFile(gctx, path, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FormatSource formats content that does not live on disk (stdin). The
// formatted text is always returned in Formatted and the cache is not used.
func FormatSource(ctx context.Context, name string, content []byte, opts Options) (FormatResult, error) {
	if opts.Pipeline == nil {
		return FormatResult{}, errors.New("driver: no pipeline configured")
	}
	f := source.Virtual(name, content)
	res := FormatResult{Path: f.Path}
	out, err := opts.Pipeline.Format(ctx, f.Text(), opts.Only)
	if err != nil {
		return FormatResult{}, err
	}
	applyOutcome(&res, f, out)
	res.Formatted = f.Encode(out.NewContents)
	return res, nil
}

func formatFile(ctx context.Context, path string, opts Options) (FormatResult, error) {
	ctx = trace.WithFile(ctx, path)
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file")
	defer span.End(path)

	res := FormatResult{Path: path}
	emit(opts.Sink, path, StageLoad, StatusWorking)
	f, err := source.Load(path)
	if err != nil {
		res.Err = err
		res.Diagnostics = append(res.Diagnostics,
			diag.NewError(diag.IOReadFailure, diag.Location{Path: path}, err.Error()))
		trace.Error(ctx, trace.ScopeFile, "load", err)
		emit(opts.Sink, path, StageLoad, StatusError)
		return res, nil
	}

	useCache := opts.Cache != nil && opts.Mode != ModeStdout
	if useCache && opts.Cache.IsClean(f.Content, opts.Settings) {
		res.Cached = true
		trace.Point(ctx, trace.ScopeFile, "cache-hit", path)
		span.WithExtra("cached", "true")
		emit(opts.Sink, path, StageFormat, StatusCached)
		return res, nil
	}

	emit(opts.Sink, path, StageFormat, StatusWorking)
	out, err := opts.Pipeline.Format(ctx, f.Text(), opts.Only)
	if err != nil {
		return FormatResult{}, err
	}
	applyOutcome(&res, f, out)

	switch opts.Mode {
	case ModeStdout:
		res.Formatted = f.Encode(out.NewContents)
	case ModeWrite:
		if res.Changed {
			emit(opts.Sink, path, StageWrite, StatusWorking)
			if err := f.Write(out.NewContents); err != nil {
				res.Err = err
				res.Diagnostics = append(res.Diagnostics,
					diag.NewError(diag.IOWriteFailure, diag.Location{Path: path}, err.Error()))
				trace.Error(ctx, trace.ScopeFile, "write", err)
			}
		}
	}

	if useCache && !res.HasErrors() {
		clean := []byte(nil)
		switch {
		case !res.Changed:
			clean = f.Content
		case opts.Mode == ModeWrite:
			clean = []byte(out.NewContents)
		}
		if clean != nil {
			if err := opts.Cache.MarkClean(path, clean, opts.Settings); err != nil {
				trace.Error(ctx, trace.ScopeFile, "cache", err)
			}
		}
	}

	span.WithExtra("changed", strconv.FormatBool(res.Changed))
	emit(opts.Sink, path, finalStage(opts.Mode, res), finalStatus(res))
	return res, nil
}

// applyOutcome copies a pipeline outcome into res and turns block failures
// into diagnostics that point at the block header.
func applyOutcome(res *FormatResult, f *source.File, out pipeline.Outcome) {
	res.Changed = out.Changeable
	res.Messages = out.ErrorMessages
	if len(out.Failures) == 0 {
		return
	}
	normalized := strings.ReplaceAll(f.Text(), "\r\n", "\n")
	for i, fail := range out.Failures {
		loc := diag.Location{Path: f.Path}
		if region, ok := block.Locate(normalized, fail.Kind); ok {
			loc.Line = headerLine(normalized, region.Start)
			loc.Col = 1
		}
		code := diag.FmtBlockFailed
		if errors.Is(fail.Err, prettier.ErrNoBackend) {
			code = diag.FmtNoBackend
		}
		msg := fail.Err.Error()
		if i < len(out.ErrorMessages) {
			msg = out.ErrorMessages[i]
		}
		d := diag.NewError(code, loc, msg).InBlock(fail.Kind.Name)
		d = d.WithNote(loc, fmt.Sprintf("parser %s, backend %s", fail.Kind.Parser, prettier.BackendOf(fail.Err)))
		res.Diagnostics = append(res.Diagnostics, d)
	}
}

// headerLine returns the 1-based line of the header whose body starts at
// bodyStart.
func headerLine(text string, bodyStart int) uint32 {
	n, err := safecast.Conv[uint32](strings.Count(text[:bodyStart], "\n"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func finalStage(mode Mode, res FormatResult) Stage {
	if mode == ModeWrite && res.Changed {
		return StageWrite
	}
	return StageFormat
}

func finalStatus(res FormatResult) Status {
	switch {
	case res.HasErrors():
		return StatusError
	case res.Changed:
		return StatusChanged
	default:
		return StatusClean
	}
}
