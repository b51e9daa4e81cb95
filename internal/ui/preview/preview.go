// Package preview renders the effect of a drop as a line diff of the lists it
// touches.
package preview

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// Lines lists a space as one line per row, pinned tabs first.
func Lines(space domain.Space, pinned []domain.Tab, groups []domain.TabGroup) []string {
	lines := make([]string, 0, len(pinned)+len(groups)+1)
	for _, t := range pinned {
		lines = append(lines, fmt.Sprintf("[%s] pinned #%d %s", space.ID, t.ID, t.DisplayName()))
	}
	lines = append(lines, fmt.Sprintf("[%s] ----", space.ID))
	for _, g := range groups {
		p := g.PrimaryTab()
		lines = append(lines, fmt.Sprintf("[%s] group  #%d %s", space.ID, p.ID, p.DisplayName()))
	}
	return lines
}

// Diff returns a unified-style line diff: unchanged lines are indented, removed
// lines start with "-" and added lines with "+".
func Diff(before, after []string) string {
	dmp := diffmatchpatch.New()
	a, b, table := dmp.DiffLinesToChars(joinLines(before), joinLines(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), table)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
		}
	}
	return out.String()
}

// Changed reports whether the lists differ.
func Changed(before, after []string) bool {
	return !slices.Equal(before, after)
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
