// Package output renders an analysis report as text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/naka-gawa/repo-analyzer/internal/domain"
)

// Write renders the report in the given format ("text" or "json").
func Write(w io.Writer, format string, report *domain.Report) error {
	switch format {
	case "json":
		return WriteJSON(w, report)
	case "text", "":
		return WriteText(w, report)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, report *domain.Report) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

// WriteText writes the human readable report.
func WriteText(w io.Writer, report *domain.Report) error {
	var b strings.Builder

	heading(&b, "GitHub repository analysis", "=")
	fmt.Fprintf(&b, "Repository: %s\n", report.Repository.Name)
	fmt.Fprintf(&b, "Created by: %s\n", report.Repository.Owner)
	if report.Info != nil && report.Info.Description != "" {
		fmt.Fprintf(&b, "About:      %s\n", report.Info.Description)
	}
	fmt.Fprintf(&b, "Branch:     %s\n", report.Filters.Branch)
	if r := dateRange(report.Filters); r != "" {
		fmt.Fprintf(&b, "Period:     %s\n", r)
	}
	b.WriteString("\n")

	if len(report.Contributors) > 0 {
		heading(&b, "Contributors", "^")
		fmt.Fprintf(&b, "Commits: %d (%d contributors, median %.1f per contributor)\n",
			report.TotalCommits, report.ContributorCount, report.MedianCommits)
		b.WriteString(contributorTable(report.Contributors))
		b.WriteString("\n")
	} else {
		b.WriteString("No contributions found.\n")
	}
	b.WriteString("\n")

	resourceSection(&b, "Pulls", "pull requests", report.Pulls)
	b.WriteString("\n")
	resourceSection(&b, "Issues", "issues", report.Issues)

	_, err := io.WriteString(w, b.String())
	return err
}

func heading(b *strings.Builder, title, underline string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat(underline, len(title)) + "\n")
}

func contributorTable(rows []domain.ContributorRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Author", "Commits")
	for _, row := range rows {
		t.Row(row.Author, strconv.Itoa(row.Commits))
	}
	return t.String()
}

// resourceSection prints the counts, or a "nothing found" line when counts is nil.
func resourceSection(b *strings.Builder, title, noun string, counts *domain.ResourceCounts) {
	if counts == nil {
		fmt.Fprintf(b, "No %s found.\n", noun)
		return
	}
	heading(b, title, "^")
	fmt.Fprintf(b, "opened: %d\n", counts.Opened)
	fmt.Fprintf(b, "closed: %d\n", counts.Closed)
	fmt.Fprintf(b, " stale: %d\n", counts.Stale)
}

func dateRange(f domain.Filters) string {
	if f.From == nil && f.To == nil {
		return ""
	}
	from, to := "*", "*"
	if f.From != nil {
		from = f.From.Format(domain.DateLayout)
	}
	if f.To != nil {
		to = f.To.Format(domain.DateLayout)
	}
	return from + ".." + to
}
