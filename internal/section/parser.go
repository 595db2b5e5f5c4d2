package section

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Label identifies one of the fixed sections of a QA log
type Label string

const (
	TasksDone     Label = "✅ Tasks Done"
	BugsFound     Label = "🐛 Bugs Found"
	FixesVerified Label = "🛠 Fixes Verified"
	Observations  Label = "📈 Observations"
	NextSteps     Label = "🔍 Next Steps"
)

// Labels returns the recognized labels in canonical order
func Labels() []Label {
	return []Label{TasksDone, BugsFound, FixesVerified, Observations, NextSteps}
}

// Map holds the extracted items of every recognized label.
// Every label is always present.
type Map map[Label][]string

// Items returns the items recorded for label
func (m Map) Items(label Label) []string {
	return m[label]
}

// Placeholder is the single item used when a section is absent or empty
func Placeholder(label Label) string {
	return fmt.Sprintf("No data provided for %s", label)
}

// IsPlaceholder reports whether items is the placeholder list for label
func IsPlaceholder(label Label, items []string) bool {
	return len(items) == 1 && items[0] == Placeholder(label)
}

var headingPatterns = buildHeadingPatterns()

func buildHeadingPatterns() map[Label]*regexp.Regexp {
	patterns := make(map[Label]*regexp.Regexp)
	for _, label := range Labels() {
		patterns[label] = regexp.MustCompile(`(?m)^### ` + regexp.QuoteMeta(string(label)) + `[ \t]*\r?$`)
	}
	return patterns
}

// Parse extracts all recognized sections from a QA log body
func Parse(content string) Map {
	sections := make(Map, len(headingPatterns))
	for _, label := range Labels() {
		items := extract(content, headingPatterns[label])
		if len(items) == 0 {
			items = []string{Placeholder(label)}
		}
		sections[label] = items
	}
	return sections
}

// ParseFile reads path fully and parses it.
// Read errors are returned as reported by the os package.
func ParseFile(path string) (Map, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(content)), nil
}

// extract returns the cleaned items under the heading matched by pattern,
// or nil when the heading is missing or has no content.
func extract(content string, pattern *regexp.Regexp) []string {
	loc := pattern.FindStringIndex(content)
	if loc == nil {
		return nil
	}

	// Body runs until the next line opening with ### or the end of text
	body := content[loc[1]:]
	if end := strings.Index(body, "\n###"); end >= 0 {
		body = body[:end]
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	var items []string
	for _, line := range strings.Split(body, "\n") {
		if item := CleanItem(line); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// CleanItem strips surrounding whitespace and bullet dashes from a line.
func CleanItem(line string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "- \t"))
}
