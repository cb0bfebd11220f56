package driver

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/shapestone/yamill/internal/cache"
	"github.com/shapestone/yamill/internal/config"
	"github.com/shapestone/yamill/pkg/yamill"
)

// ErrNoFiles is returned by FormatPaths when the paths hold no YAML file.
var ErrNoFiles = errors.New("driver: no YAML files found")

// Options configures a FormatPaths run.
type Options struct {
	Config config.Config
	// Cache skips files recorded as formatted by an earlier run. Nil
	// disables caching.
	Cache *cache.Cache
	// Logger receives per-file debug records, and per-token records when
	// Trace is set. Nil disables logging.
	Logger *slog.Logger
	Trace  bool
}

// Result captures the outcome for a single file.
type Result struct {
	Path string
	// Changed reports that the normalized text differs from the file.
	Changed bool
	// Written reports that the normalized text was written back.
	Written bool
	// Unsafe reports a rewrite that failed the double check; the file
	// was left untouched.
	Unsafe bool
	// Cached reports a file skipped because the cache knew it as formatted.
	Cached bool
	Err    error

	// Original and Formatted hold both texts of a changed file.
	Original  []byte
	Formatted []byte
}

// FormatPaths collects files from paths and formats them concurrently,
// at most opts.Config.Jobs at a time. Per-file failures are reported in
// Result.Err; the returned error is reserved for collection failures and
// cancellation.
func FormatPaths(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := Collect(ctx, paths, opts.Config)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	jobs := opts.Config.Jobs
	if jobs < 1 {
		jobs = 1
	}

	// Each worker owns one index, no locking needed
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = FormatFile(path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := opts.Cache.Save(); err != nil && opts.Logger != nil {
		opts.Logger.Warn("failed to save cache", slog.Any("err", err))
	}
	return results, nil
}

// FormatFile runs the pipeline for one file: read, format, compare, and in
// fix mode double check and write. Output is written only once every step
// has succeeded.
func FormatFile(path string, opts Options) Result {
	res := Result{Path: path}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	info, err := os.Stat(path)
	if err != nil {
		res.Err = err
		return res
	}
	original, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	if opts.Cache.Formatted(path, info, original) {
		res.Cached = true
		log.Debug("cached", slog.String("path", path))
		return res
	}

	fmtOpts := yamill.Options{}
	if opts.Trace {
		fmtOpts.Logger = opts.Logger
	}
	formatted, err := yamill.Format(original, fmtOpts)
	if err != nil {
		res.Err = err
		return res
	}

	out := []byte(formatted)
	if bytes.Equal(original, out) {
		opts.Cache.Record(path, info, original)
		log.Debug("unchanged", slog.String("path", path))
		return res
	}

	res.Changed = true
	res.Original = original
	res.Formatted = out
	opts.Cache.Forget(path)
	log.Debug("needs formatting", slog.String("path", path))

	if !opts.Config.Rewrite() {
		return res
	}

	if opts.Config.DoubleCheck {
		if err := yamill.Verify(original, out); err != nil {
			if errors.Is(err, yamill.ErrUnsafe) {
				res.Unsafe = true
			}
			res.Err = err
			return res
		}
	}

	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		res.Err = err
		return res
	}
	res.Written = true
	if written, err := os.Stat(path); err == nil {
		opts.Cache.Record(path, written, out)
	}
	log.Debug("reformatted", slog.String("path", path))
	return res
}
