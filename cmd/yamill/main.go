package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/shapestone/yamill/internal/config"
)

// Version is overridden at build time via -ldflags.
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the root command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		a.errorf("yamill: %v\n", err)
		return 1
	}
	return a.code
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yamill [flags] <path> [path...]",
		Short: "Reformat YAML files into one normalized block style",
		Long: `yamill reformats YAML files into a single normalized style: block
collections, two-space indentation, canonical scalars and tidy comments.

Without --fix it only reports the files that would change.`,
		Version:       Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		RunE:          a.runFormat,
	}

	flags := cmd.Flags()
	flags.Bool("fix", false, "fix files in place")
	flags.Bool("unsafe", false, "skip checking that rewritten files load to the same data. DO NOT USE!")
	flags.Bool("check", false, "only report files that would change, even with --fix")
	flags.Bool("diff", false, "print a unified diff for every file that would change")
	flags.Bool("debug", false, "output debugging information (extremely verbose)")
	flags.Int("jobs", 0, "number of files formatted in parallel (default from config)")
	flags.String("config", "", "path to a "+config.FileName+" file (default: searched from the working directory)")
	flags.Bool("no-cache", false, "ignore and do not update the formatted-files cache")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.String("color", "auto", "colorize output (auto|on|off)")

	return cmd
}
