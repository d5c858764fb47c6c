// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/talent-profiler/internal/logger"
	"github.com/jonathan/talent-profiler/internal/types"
	"github.com/jonathan/talent-profiler/internal/workflow"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens a line to width runes.
func clip(line string, width int) string {
	if len([]rune(line)) <= width {
		return line
	}
	return logger.Truncate(line, width-3)
}

// writeList writes up to maxItemsToShow items and a remainder count.
func writeList(sb *strings.Builder, items []string, indent string) {
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "%s• %s\n", indent, items[i])
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "%s... and %d more\n", indent, len(items)-maxItemsToShow)
	}
}

// PrintCandidate outputs the fields extracted from the talent request.
func (p *Printer) PrintCandidate(c types.CandidateProfile) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "College:  %s\n", c.College)
	fmt.Fprintf(&sb, "Skills:   %d\n", len(c.Skills))
	fmt.Fprintf(&sb, "Titles:   %d\n", len(c.Titles))
	sb.WriteString("\n")

	if len(c.Companies) > 0 {
		sb.WriteString("Companies:\n")
		lines := make([]string, 0, len(c.Companies))
		for _, company := range c.Companies {
			periods := make([]string, 0, len(company.Intervals))
			for _, iv := range company.Intervals {
				end := "present"
				if iv.End != nil {
					end = iv.End.String()
				}
				periods = append(periods, iv.Start.String()+" ~ "+end)
			}
			lines = append(lines, fmt.Sprintf("%s (%s)", company.CompanyName, strings.Join(periods, ", ")))
		}
		writeList(&sb, lines, "  ")
	}

	p.printBox("CANDIDATE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintState outputs each branch result of a workflow run, including the
// branches dropped under the degrade policy.
func (p *Printer) PrintState(st *workflow.State) {
	if st == nil {
		return
	}

	var sb strings.Builder

	if st.CollegeLevel != nil {
		fmt.Fprintf(&sb, "Education:   %s\n", st.CollegeLevel.Tier)
	}
	if st.Leadership != nil {
		fmt.Fprintf(&sb, "Leadership:  %s\n", st.Leadership.Label)
		writeList(&sb, st.Leadership.Reasons, "  ")
	}
	if st.CompanyScale != nil {
		fmt.Fprintf(&sb, "Company scale: %d categories\n", len(st.CompanyScale.Items))
		lines := make([]string, 0, len(st.CompanyScale.Items))
		for _, item := range st.CompanyScale.Items {
			lines = append(lines, fmt.Sprintf("%s: %s", item.Category, strings.Join(item.Reasons, ", ")))
		}
		writeList(&sb, lines, "  ")
	}
	if st.Experience != nil {
		fmt.Fprintf(&sb, "Experience:  %d tags\n", len(st.Experience.Items))
		lines := make([]string, 0, len(st.Experience.Items))
		for _, item := range st.Experience.Items {
			lines = append(lines, fmt.Sprintf("%s: %s", item.Tag, item.Reason))
		}
		writeList(&sb, lines, "  ")
	}
	if len(st.Failed) > 0 {
		sb.WriteString("\nFailed branches:\n")
		for _, f := range st.Failed {
			fmt.Fprintf(&sb, "  ✗ %s\n", f.Node)
		}
	}

	p.printBox("BRANCH RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs the merged profile labels in insertion order.
func (p *Printer) PrintProfile(profile types.Profile) {
	var sb strings.Builder

	if profile.Len() == 0 {
		sb.WriteString("(no labels)")
	}
	for _, key := range profile.Keys() {
		value, _ := profile.Get(key)
		switch v := value.(type) {
		case string:
			fmt.Fprintf(&sb, "%s: %s\n", key, v)
		case []string:
			fmt.Fprintf(&sb, "%s:\n", key)
			writeList(&sb, v, "  ")
		}
	}

	p.printBox("PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}
