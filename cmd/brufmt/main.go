package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"brufmt/internal/version"
)

// errReported ends a run whose problems were already printed; main only
// sets the exit status.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:           "brufmt",
	Short:         "Format the embedded blocks of Bruno .bru files",
	Long:          `brufmt formats the JSON, GraphQL and JavaScript blocks of Bruno request files with prettier-compatible output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	addPersistentFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "brufmt: %v\n", err)
		}
		os.Exit(1)
	}
}

func addPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.String("ui", "auto", "progress UI (auto|on|off)")
	flags.String("trace", "", "write a trace to this file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("cpuprofile", "", "write a CPU profile to this file")
	flags.String("memprofile", "", "write a heap profile to this file")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
