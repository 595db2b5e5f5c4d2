package report

import (
	"fmt"
	"strings"

	"github.com/qiniu/qareport/internal/section"
)

// Slot is one named region of a project update
type Slot struct {
	Title string
	Items []string
}

const (
	KeyTakeaways    = "🔑 Key Takeaways"
	BugsFound       = "🐛 Bugs Found"
	ProgressSummary = "📊 Progress Summary"
	NextSteps       = "🔍 Next Steps"
)

// Slots regroups sections into the four report slots, in report order.
//
// Fixes Verified and Observations feed both Key Takeaways and Progress
// Summary, so their items show up twice in a report.
func Slots(sections section.Map) []Slot {
	return []Slot{
		{Title: KeyTakeaways, Items: concat(
			sections.Items(section.TasksDone),
			sections.Items(section.FixesVerified),
			sections.Items(section.Observations),
		)},
		{Title: BugsFound, Items: concat(sections.Items(section.BugsFound))},
		{Title: ProgressSummary, Items: concat(
			sections.Items(section.FixesVerified),
			sections.Items(section.Observations),
		)},
		{Title: NextSteps, Items: concat(sections.Items(section.NextSteps))},
	}
}

// Generate renders the project update for date
func Generate(sections section.Map, date string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### 📣 Project Update: %s\n", date)
	for _, slot := range Slots(sections) {
		fmt.Fprintf(&b, "\n#### %s\n%s\n", slot.Title, listBlock(slot.Items))
	}
	return b.String()
}

func listBlock(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

func concat(lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		out = append(out, list...)
	}
	return out
}
