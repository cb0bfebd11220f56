package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shapestone/yamill/internal/cache"
	"github.com/shapestone/yamill/internal/config"
	"github.com/shapestone/yamill/internal/driver"
)

// app holds the output streams and the exit code of one invocation.
type app struct {
	stdout, stderr io.Writer
	colors         palette
	code           int
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}

func (a *app) errorf(format string, args ...any) {
	fmt.Fprintf(a.stderr, format, args...)
}

func (a *app) runFormat(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, cfgFile, err := config.Resolve(configPath, wd)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	enabled, err := colorEnabled(colorMode, a.stdout)
	if err != nil {
		return err
	}
	a.colors = newPalette(enabled)

	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}

	var logger *slog.Logger
	if debug {
		logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		logger.Debug("config",
			slog.String("file", cfgFile),
			slog.Bool("fix", cfg.Fix),
			slog.Bool("double_check", cfg.DoubleCheck),
			slog.Int("jobs", cfg.Jobs))
	}

	var c *cache.Cache
	if !cfg.NoCache {
		c, err = cache.Default("yamill", Version)
		if err != nil {
			if logger != nil {
				logger.Warn("cache disabled", slog.Any("err", err))
			}
			c = nil
		}
	}

	results, err := driver.FormatPaths(cmd.Context(), args, driver.Options{
		Config: cfg,
		Cache:  c,
		Logger: logger,
		Trace:  debug,
	})
	if err != nil {
		return err
	}

	a.report(results, cfg.Diff, quiet)
	s := driver.Summarize(results)
	a.summary(s, quiet)
	a.code = s.ExitCode()
	return nil
}

// applyFlags overrides file settings with the flags given on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	bools := []struct {
		name string
		set  func(bool)
	}{
		{"fix", func(v bool) { cfg.Fix = v }},
		{"unsafe", func(v bool) { cfg.DoubleCheck = !v }},
		{"check", func(v bool) { cfg.Check = v }},
		{"diff", func(v bool) { cfg.Diff = v }},
		{"no-cache", func(v bool) { cfg.NoCache = v }},
	}
	for _, b := range bools {
		if !flags.Changed(b.name) {
			continue
		}
		v, err := flags.GetBool(b.name)
		if err != nil {
			return err
		}
		b.set(v)
	}

	if flags.Changed("jobs") {
		jobs, err := flags.GetInt("jobs")
		if err != nil {
			return err
		}
		cfg.Jobs = jobs
	}
	return nil
}

func (a *app) report(results []driver.Result, diff, quiet bool) {
	for _, r := range results {
		switch {
		case r.Unsafe:
			a.printf("%s\n", a.colors.bad.Sprintf("Oh my, failed to reformat %s! 🐛 😱 🐛", r.Path))
			a.printf("Please report this as a bug!\n")
		case r.Err != nil:
			a.errorf("%s\n", a.colors.bad.Sprintf("failed to reformat %s: %v", r.Path, r.Err))
		case r.Written:
			if !quiet {
				a.printf("reformatted %s\n", a.colors.path.Sprint(r.Path))
			}
		case r.Changed:
			if !quiet {
				a.printf("would reformat %s\n", a.colors.path.Sprint(r.Path))
			}
		}

		if diff && r.Changed {
			if err := a.colors.writeDiff(a.stdout, r.Path, r.Original, r.Formatted); err != nil {
				a.errorf("failed to diff %s: %v\n", r.Path, err)
			}
		}
	}
}

func (a *app) summary(s driver.Summary, quiet bool) {
	if s.ExitCode() != 0 {
		a.printf("%s\n", a.colors.bad.Sprint("Oh no! 💥 💔 💥"))
		if n := s.Pending(); n > 0 {
			a.printf("%d files still need to be reformatted. 🌩\n", n)
		}
		if s.Failed > 0 {
			a.printf("%d files failed to reformat.\n", s.Failed)
		}
		return
	}
	if quiet {
		return
	}
	a.printf("%s\n", a.colors.good.Sprint("All done! ✨ 🍰 ✨"))
	if s.Changed > 0 {
		a.printf("%d files reformatted. ⚡️\n", s.Changed)
	} else {
		a.printf("No files changed. 😴\n")
	}
}
