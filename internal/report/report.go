// Package report renders run progress and results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olgasafonova/confluence-upload/internal/confluence"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	// dimStyle for labels and muted text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// headerBoxStyle for the run header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)

	// boxStyle for the results summary
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)

	dryRunBannerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("220")).
				Padding(0, 1)
)

// Header describes a run before it starts
type Header struct {
	Instance  string
	Space     string
	ParentID  string
	Dir       string // empty in delete mode
	RootTitle string
	Delete    string // title being deleted, empty in upload mode
	DryRun    bool
}

// Printer writes progress lines and summaries. It satisfies
// uploader.Progress.
type Printer struct {
	w io.Writer
}

// New creates a Printer writing to w
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Header renders the run header box
func (p *Printer) Header(h Header) {
	if h.DryRun {
		fmt.Fprintln(p.w, dryRunBannerStyle.Render("DRY RUN MODE: no changes will be made"))
	}

	var lines []string
	if h.Delete != "" {
		lines = append(lines,
			fmt.Sprintf("%s %s", dimStyle.Render("Deleting page tree:"), titleStyle.Render(h.Delete)),
			fmt.Sprintf("%s %s %s %s", dimStyle.Render("Target:"), h.Instance, dimStyle.Render("space="), h.Space),
		)
	} else {
		lines = append(lines,
			fmt.Sprintf("%s %s", dimStyle.Render("Uploading:"), h.Dir),
			fmt.Sprintf("%s %s %s %s %s %s", dimStyle.Render("Target:"), h.Instance,
				dimStyle.Render("space="), h.Space,
				dimStyle.Render("parent="), h.ParentID),
			fmt.Sprintf("%s %s", dimStyle.Render("Root page:"), titleStyle.Render(h.RootTitle)),
		)
	}

	fmt.Fprintln(p.w, headerBoxStyle.Render(strings.Join(lines, "\n")))
}

// Directory prints a directory line indented by depth
func (p *Printer) Directory(name string, depth int) {
	fmt.Fprintf(p.w, "\n%s%s %s/\n", indent(depth), dimStyle.Render("▸"), titleStyle.Render(name))
}

// File prints a file line indented under its directory
func (p *Printer) File(name string, depth int) {
	fmt.Fprintf(p.w, "%s  %s %s\n", indent(depth), dimStyle.Render("•"), name)
}

// Stats renders the results box
func (p *Printer) Stats(s confluence.Stats) {
	failed := fmt.Sprintf("%d", s.Failed)
	if s.Failed > 0 {
		failed = errorStyle.Render(failed)
	}

	line1 := fmt.Sprintf("%s %s  %s %s  %s %s",
		dimStyle.Render("Created:"), successStyle.Render(fmt.Sprintf("%d", s.Created)),
		dimStyle.Render("Skipped:"), warnStyle.Render(fmt.Sprintf("%d", s.Skipped)),
		dimStyle.Render("Failed:"), failed,
	)

	content := titleStyle.Render("Results") + "\n" + line1
	if s.Deleted > 0 || s.NotFound > 0 {
		content += "\n" + fmt.Sprintf("%s %d  %s %d",
			dimStyle.Render("Deleted:"), s.Deleted,
			dimStyle.Render("Not found:"), s.NotFound,
		)
	}

	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, boxStyle.Render(content))
}

// Error prints a fatal error line
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, errorStyle.Render("ERROR: ")+err.Error())
}

func indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat("  ", depth)
}
