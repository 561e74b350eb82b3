package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"brufmt/internal/block"
	"brufmt/internal/cache"
	"brufmt/internal/config"
	"brufmt/internal/diag"
	"brufmt/internal/driver"
	"brufmt/internal/observ"
	"brufmt/internal/pipeline"
	"brufmt/internal/prettier"
	"brufmt/internal/trace"
)

const cacheApp = "brufmt"

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [path...]",
	Short: "Format the blocks of .bru files",
	Long: `Format the JSON, GraphQL and JavaScript blocks of Bruno .bru files.

Without --write, files are only checked and the command fails when any of
them needs changes. Paths default to the current directory; "-" reads a
single file from stdin and prints the result.`,
	RunE: runFmt,
}

func init() {
	flags := fmtCmd.Flags()
	flags.BoolP("write", "w", false, "rewrite files in place")
	flags.String("only", "", "only format blocks matching one of: "+strings.Join(block.OnlyOptions(), ", "))
	flags.Bool("stdout", false, "print formatted files to stdout instead of rewriting them")
	flags.String("format", "text", "report format (text|json)")
	flags.String("config", "", "config file (default: discovered from the first path upward)")
	flags.Int("jobs", 0, "number of files formatted in parallel (default: config or GOMAXPROCS)")
	flags.Bool("no-cache", false, "ignore the cache of files known to be formatted")
	flags.Bool("agnostic-file-paths", false, "rewrite @file() paths with forward slashes")
	flags.Bool("shorten-getters", false, "rewrite res.getX() calls to res.x in scripts and tests")
	flags.String("backend", "auto", "formatter backend (auto|native|exec|goja)")
}

type fmtFlags struct {
	write   bool
	stdout  bool
	only    string
	format  string
	quiet   bool
	timings bool
	ui      uiMode
}

func readFmtFlags(cmd *cobra.Command) (fmtFlags, error) {
	var f fmtFlags
	var err error
	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if f.write, err = flags.GetBool("write"); err != nil {
		return f, err
	}
	if f.stdout, err = flags.GetBool("stdout"); err != nil {
		return f, err
	}
	if f.only, err = flags.GetString("only"); err != nil {
		return f, err
	}
	if f.format, err = flags.GetString("format"); err != nil {
		return f, err
	}
	if f.quiet, err = root.GetBool("quiet"); err != nil {
		return f, err
	}
	if f.timings, err = root.GetBool("timings"); err != nil {
		return f, err
	}
	uiValue, err := root.GetString("ui")
	if err != nil {
		return f, err
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}

	f.format = strings.ToLower(strings.TrimSpace(f.format))
	switch {
	case f.format != "text" && f.format != "json":
		return f, fmt.Errorf("fmt: unsupported output format %q", f.format)
	case f.write && f.stdout:
		return f, errors.New("fmt: --stdout cannot be used with --write")
	case f.stdout && f.format != "text":
		return f, errors.New("fmt: --stdout is only supported with text output")
	}
	return f, nil
}

func (f fmtFlags) mode() driver.Mode {
	switch {
	case f.write:
		return driver.ModeWrite
	case f.stdout:
		return driver.ModeStdout
	default:
		return driver.ModeCheck
	}
}

func runFmt(cmd *cobra.Command, args []string) error {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	stopTracing, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer stopTracing()

	colorOn, err := applyColorMode(cmd)
	if err != nil {
		return err
	}
	flags, err := readFmtFlags(cmd)
	if err != nil {
		return err
	}
	if _, err := block.ParseOnly(flags.only); err != nil {
		return fmt.Errorf("%w (expected one of: %s)", err, strings.Join(block.OnlyOptions(), ", "))
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	baseDir, err := os.Getwd()
	if err != nil {
		baseDir = ""
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	timer := observ.NewTimer()
	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "fmt")
	defer span.End("")

	warnings := diag.NewBag(100)
	phase := timer.Begin("config")
	cfg, err := loadConfig(cmd, paths, diag.BagReporter{Bag: warnings})
	timer.End(phase, cfg.Path)
	if err != nil {
		return err
	}

	p, settings, err := buildPipeline(cfg, flags.only)
	if err != nil {
		return err
	}
	opts := driver.Options{
		Mode:     flags.mode(),
		Only:     flags.only,
		Jobs:     cfg.Jobs,
		Pipeline: p,
		Settings: settings,
	}

	if len(paths) == 1 && paths[0] == "-" {
		if !flags.quiet {
			printDiagnostics(errOut, warnings, colorOn, baseDir)
		}
		return formatStdin(cmd, opts)
	}

	if cfg.Cache && opts.Mode != driver.ModeStdout {
		dc, err := cache.Open(cacheApp)
		if err != nil {
			warnings.Add(diag.NewWarning(diag.IOCacheDisabled, diag.Location{}, fmt.Sprintf("cache disabled: %v", err)))
		} else {
			opts.Cache = dc
		}
	}
	if !flags.quiet {
		printDiagnostics(errOut, warnings, colorOn, baseDir)
	}

	phase = timer.Begin("collect")
	files, err := driver.CollectFiles(ctx, paths)
	timer.End(phase, fmt.Sprintf("%d file(s)", len(files)))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		if flags.format == "json" {
			return writeJSONReport(out, buildJSONReport(nil, driver.Summary{}, opts.Mode, baseDir))
		}
		fmt.Fprintln(errOut, "No .bru files found.")
		return nil
	}

	textReport := flags.format == "text" && opts.Mode != driver.ModeStdout
	if textReport && !flags.quiet {
		fmt.Fprintf(out, "Found %d .bru file(s)\n\n", len(files))
	}

	phase = timer.Begin("format")
	var results []driver.FormatResult
	if textReport && !flags.quiet && shouldUseTUI(flags.ui, len(files)) {
		results, err = runFormatWithUI(ctx, "Formatting .bru files", files, opts)
	} else {
		results, err = driver.FormatFiles(ctx, files, opts)
	}
	timer.End(phase, opts.Mode.String())
	if err != nil {
		return err
	}

	summary := driver.Summarize(results)
	switch {
	case flags.format == "json":
		report := buildJSONReport(results, summary, opts.Mode, baseDir)
		if flags.timings {
			t := timer.Report()
			report.Timings = &t
		}
		if err := writeJSONReport(out, report); err != nil {
			return err
		}
	case opts.Mode == driver.ModeStdout:
		writeFormatted(out, errOut, results)
	default:
		timer.Measure("report", func() string {
			printReport(out, errOut, summary, opts.Mode, baseDir, flags.quiet)
			return ""
		})
	}
	if flags.timings && flags.format != "json" {
		printTimings(errOut, timer, summary)
	}

	if summary.Failed(opts.Mode) && opts.Mode != driver.ModeStdout {
		return errReported
	}
	if opts.Mode == driver.ModeStdout && summary.ErrorCount() > 0 {
		return errReported
	}
	return nil
}

// buildPipeline assembles the formatter backends and the settings digest
// results are cached under.
func buildPipeline(cfg config.Config, only string) (*pipeline.Pipeline, cache.Digest, error) {
	fs := cfg.FormatterSettings()
	router, err := prettier.Build(fs)
	if err != nil {
		return nil, cache.Digest{}, err
	}
	pc := cfg.Pipeline()
	return pipeline.New(router, pc), driver.SettingsDigest(pc, only, fs), nil
}

func formatStdin(cmd *cobra.Command, opts driver.Options) error {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	res, err := driver.FormatSource(cmd.Context(), "<stdin>", content, opts)
	if err != nil {
		return err
	}
	writeFormatted(cmd.OutOrStdout(), cmd.ErrOrStderr(), []driver.FormatResult{res})
	if res.HasErrors() {
		return errReported
	}
	return nil
}

// writeFormatted prints formatted output and sends block errors to errOut.
// A file that failed to load prints nothing.
func writeFormatted(out, errOut io.Writer, results []driver.FormatResult) {
	for _, res := range results {
		for _, msg := range errorMessages(res) {
			fmt.Fprintf(errOut, "fmt: %s: %s\n", res.Path, msg)
		}
		if res.Err == nil {
			_, _ = out.Write(res.Formatted)
		}
	}
}
