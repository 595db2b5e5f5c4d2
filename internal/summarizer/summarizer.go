package summarizer

import (
	"context"
	"errors"
	"time"

	"github.com/qiniu/qareport/internal/locator"
	"github.com/qiniu/qareport/internal/report"
	"github.com/qiniu/qareport/internal/section"
	"github.com/qiniu/qareport/internal/trace"
)

// Result is everything one run produced
type Result struct {
	Path     string
	Date     string
	Sections section.Map
	Report   string
}

// Summarizer turns the newest QA log of a directory into a project update
type Summarizer struct {
	now func() time.Time
}

// New creates a Summarizer that dates undated logs with the current time
func New() *Summarizer {
	return &Summarizer{now: time.Now}
}

// WithClock overrides the clock used for undated logs
func (s *Summarizer) WithClock(now func() time.Time) *Summarizer {
	s.now = now
	return s
}

// Run locates, parses and renders the newest QA log in dir.
// locator.ErrNoLogFound is returned unwrapped.
func (s *Summarizer) Run(ctx context.Context, dir string) (*Result, error) {
	xl := trace.Logger(ctx)

	path, err := locator.FindLatest(dir)
	if err != nil {
		if errors.Is(err, locator.ErrNoLogFound) {
			xl.Infof("No QA log matching %s in %s", locator.FilePattern, dir)
			return nil, err
		}
		return nil, LocateError(dir, err)
	}
	xl.Infof("Using QA log: %s", path)

	sections, err := section.ParseFile(path)
	if err != nil {
		return nil, ReadError(path, err)
	}

	for _, label := range section.Labels() {
		if section.IsPlaceholder(label, sections[label]) {
			xl.Debugf("Section %q missing or empty", label)
		} else {
			xl.Debugf("Section %q: %d items", label, len(sections[label]))
		}
	}

	date := locator.ExtractDate(path, s.now())
	xl.Debugf("Report date: %s", date)

	return &Result{
		Path:     path,
		Date:     date,
		Sections: sections,
		Report:   report.Generate(sections, date),
	}, nil
}
