package driver

// Summary counts the outcomes of a run.
type Summary struct {
	Checked     int // files formatted or found in the cache
	NeedsChange int // files whose normalized text differs
	Changed     int // files written back
	Unsafe      int // rewrites refused by the double check
	Failed      int // files that could not be formatted
}

// Summarize folds results into a Summary.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Err != nil && !r.Unsafe {
			s.Failed++
			continue
		}
		s.Checked++
		if r.Changed {
			s.NeedsChange++
		}
		if r.Written {
			s.Changed++
		}
		if r.Unsafe {
			s.Unsafe++
		}
	}
	return s
}

// Pending returns the number of files still not in normalized form.
func (s Summary) Pending() int {
	return s.NeedsChange - s.Changed
}

// ExitCode is 1 when a file failed or still needs formatting, else 0.
func (s Summary) ExitCode() int {
	if s.Failed > 0 || s.Pending() > 0 {
		return 1
	}
	return 0
}
