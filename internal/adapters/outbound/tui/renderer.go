package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xarsh/ooxml-validator-go/internal/domain"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success).Bold(true)
	failStyle     = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(warning).Bold(true)
	typeTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	keyStyle      = lipgloss.NewStyle().Foreground(dim).Width(14)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderResult formats one validation result for terminal output.
func RenderResult(result *domain.ValidationResult) string {
	var b strings.Builder

	status := passStyle.Render("✓ valid")
	if !result.OK {
		status = failStyle.Render("✗ invalid")
	}
	fmt.Fprintf(&b, "  %s  %s\n", status, titleStyle.Render(shortenPath(result.File)))

	if len(result.Errors) == 0 {
		if !result.OK {
			b.WriteString("    " + dimStyle.Render("validator reported failure without details") + "\n")
		}
		return b.String()
	}

	b.WriteString("    " + renderTypeCounts(result.ErrorTypes()) + "\n\n")
	for i, e := range result.Errors {
		renderError(&b, i+1, e)
	}
	return b.String()
}

func renderTypeCounts(counts map[string]int) string {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, failStyle.Render(fmt.Sprintf("%d", counts[t]))+" "+typeTagStyle.Render(t))
	}
	return strings.Join(parts, dimStyle.Render(" · "))
}

func renderError(b *strings.Builder, n int, e domain.ValidationError) {
	tag := e.ErrorType
	if tag == "" {
		tag = "Unknown"
	}
	fmt.Fprintf(b, "    %s %s %s\n",
		dimStyle.Render(fmt.Sprintf("%3d.", n)),
		typeTagStyle.Render("["+tag+"]"),
		e.Description)

	if e.Path != "" {
		fmt.Fprintf(b, "         %s %s\n", dimStyle.Render("part "), fileStyle.Render(e.Path))
	}
	if e.XPath != "" {
		fmt.Fprintf(b, "         %s %s\n", dimStyle.Render("xpath"), faintStyle.Render(e.XPath))
	}
	if e.ID != "" {
		fmt.Fprintf(b, "         %s %s\n", dimStyle.Render("id   "), faintStyle.Render(e.ID))
	}
}

// RenderFailure formats a target the validator could not be run against.
func RenderFailure(file string, err error) string {
	return fmt.Sprintf("  %s  %s\n    %s\n",
		warnStyle.Render("! error"),
		titleStyle.Render(shortenPath(file)),
		dimStyle.Render(err.Error()))
}

// RenderSummary is the footer printed after several targets.
func RenderSummary(total, conforming, nonconforming, failed int) string {
	var b strings.Builder
	b.WriteString("\n  " + separatorLine + "\n")
	fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
		titleStyle.Render(fmt.Sprintf("%d files", total)),
		passStyle.Render(fmt.Sprintf("%d valid", conforming)),
		failStyle.Render(fmt.Sprintf("%d invalid", nonconforming)),
		warnStyle.Render(fmt.Sprintf("%d errors", failed)))
	return b.String()
}

// RenderLocate formats the resolved validator for `ooxml-validate locate`.
func RenderLocate(ri *domain.RuntimeInfo) string {
	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("ooxml-validate") + "  " + dimStyle.Render("runtime") + "\n")
	b.WriteString("  " + separatorLine + "\n")

	row := func(key, value string) {
		fmt.Fprintf(&b, "  %s %s\n", keyStyle.Render(key), value)
	}

	runtimeID := string(ri.Runtime)
	if runtimeID == "" {
		runtimeID = failStyle.Render("unsupported")
	}
	row("runtime", runtimeID)
	row("install root", ri.InstallRoot)

	if ri.Handle != nil {
		source := "embedded"
		if ri.Handle.Override {
			source = "override (" + domain.EnvValidatorCLI + ")"
		}
		row("source", source)
		row("command", strings.Join(append([]string{ri.Handle.Path}, ri.Handle.Args...), " "))
	}

	if ri.Handle == nil || !ri.Handle.Override {
		installed := failStyle.Render("no") + "  " + dimStyle.Render("run `ooxml-validate install`")
		if ri.Installed {
			installed = passStyle.Render("yes")
		}
		row("installed", installed)
	}

	if m := ri.Manifest; m != nil {
		row("version", m.Version)
		row("sha256", faintStyle.Render(m.SHA256))
		row("installed at", m.InstalledAt)
	}

	if ri.Error != "" {
		row("error", warnStyle.Render(ri.Error))
	}
	return b.String()
}

// RenderInstall formats an install report.
func RenderInstall(r *domain.InstallReport) string {
	var b strings.Builder
	switch r.Status {
	case domain.InstallInstalled:
		fmt.Fprintf(&b, "  %s %s %s\n", passStyle.Render("✓ installed"), titleStyle.Render(r.Version), dimStyle.Render(string(r.Runtime)))
	case domain.InstallSkipped:
		fmt.Fprintf(&b, "  %s %s %s\n", dimStyle.Render("• up to date"), titleStyle.Render(r.Version), dimStyle.Render(string(r.Runtime)))
	default:
		fmt.Fprintf(&b, "  %s %s\n", warnStyle.Render("! install failed"), dimStyle.Render(r.Error))
		if r.Hint != "" {
			fmt.Fprintf(&b, "    %s %s\n", dimStyle.Render("hint:"), r.Hint)
		}
		return b.String()
	}
	if r.Path != "" {
		fmt.Fprintf(&b, "    %s\n", fileStyle.Render(r.Path))
	}
	if r.SHA256 != "" {
		fmt.Fprintf(&b, "    %s %s\n", dimStyle.Render("sha256"), faintStyle.Render(r.SHA256))
	}
	return b.String()
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}
