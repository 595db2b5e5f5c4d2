package locator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

const (
	// FilePattern matches QA log files inside a directory
	FilePattern = "QA_Log_*.md"

	// DateLayout is the layout of dates embedded in QA log names
	DateLayout = "2006-01-02"
)

// ErrNoLogFound is returned when a directory holds no QA log files
var ErrNoLogFound = errors.New("no QA log found")

var datePattern = regexp.MustCompile(`QA_Log_(\d{4}-\d{2}-\d{2})\.md`)

// FindLatest returns the path of the QA log with the greatest name in dir.
// Names embed YYYY-MM-DD dates, so the greatest name is the newest log.
// Only FilePattern is a pattern; dir is taken literally.
func FindLatest(dir string) (string, error) {
	names, err := fs.Glob(os.DirFS(dir), FilePattern)
	if err != nil {
		return "", fmt.Errorf("failed to list QA logs in %s: %w", dir, err)
	}
	if len(names) == 0 {
		return "", ErrNoLogFound
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return filepath.Join(dir, names[0]), nil
}

// ExtractDate returns the date embedded in filename, verbatim.
// When there is none, now is used instead.
func ExtractDate(filename string, now time.Time) string {
	if match := datePattern.FindStringSubmatch(filepath.Base(filename)); match != nil {
		return match[1]
	}
	return now.Format(DateLayout)
}
