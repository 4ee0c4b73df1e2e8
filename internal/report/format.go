package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	gosyncpack "github.com/albertocavalcante/go-syncpack"
)

const separatorWidth = 60 // Width of separator lines in text output

// Format selects an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text or json)", s)
}

// Options tunes text output.
type Options struct {
	// All lists dependencies whose instances are all valid too.
	All bool
}

// Text writes a human-readable report: one block per dependency with a
// line per instance, followed by the summary.
func Text(w io.Writer, r *gosyncpack.Report, opts Options) error {
	var buf bytes.Buffer

	buf.WriteString(titleStyle.Render("Dependency Report") + mutedStyle.Render(" ("+r.Root+")") + "\n")
	buf.WriteString(mutedStyle.Render(strings.Repeat("=", separatorWidth)) + "\n\n")

	shown := 0
	for _, dep := range r.Dependencies {
		if !opts.All && dep.Worst.IsValid() {
			continue
		}
		shown++
		writeDependency(&buf, dep)
	}
	if shown == 0 {
		buf.WriteString(validStyle.Render("✓ no issues found") + "\n\n")
	}

	for _, fe := range r.FetchErrors {
		buf.WriteString(fixStyle.Render("! registry lookup failed: "+fe.Error()) + "\n")
	}
	if len(r.FetchErrors) > 0 {
		buf.WriteString("\n")
	}

	buf.WriteString(summaryLine(r.Summary, r.Strict) + "\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func writeDependency(buf *bytes.Buffer, dep gosyncpack.DependencyReport) {
	icon, style := categoryStyle(dep.Worst)
	header := style.Render(icon) + " " + nameStyle.Render(dep.Name) + " " + mutedStyle.Render(dep.Policy)
	if dep.Group != "" {
		header += mutedStyle.Render(" [" + dep.Group + "]")
	}
	buf.WriteString(header + "\n")

	for _, inst := range dep.Instances {
		icon, style := categoryStyle(inst.State)
		version := inst.Actual
		if inst.Expected == nil {
			version += " → (remove)"
		} else if *inst.Expected != inst.Actual {
			version += " → " + *inst.Expected
		}
		if inst.CatalogRef != "" {
			version += " (" + inst.CatalogRef + ")"
		}
		location := inst.File + " " + inst.Path
		fmt.Fprintf(buf, "    %s %s  %s  %s\n",
			style.Render(icon),
			style.Render(version),
			mutedStyle.Render(location),
			style.Render(inst.State.String()))
	}
	buf.WriteString("\n")
}

func summaryLine(s gosyncpack.Summary, strict bool) string {
	counts := fmt.Sprintf("%d packages, %d dependencies, %d instances: ", s.Packages, s.Dependencies, s.Instances)
	parts := []string{
		validStyle.Render(fmt.Sprintf("%d valid", s.Valid)),
		fixStyle.Render(fmt.Sprintf("%d fixable", s.Fixable)),
		errorStyle.Render(fmt.Sprintf("%d unfixable", s.Unfixable)),
		errorStyle.Render(fmt.Sprintf("%d conflicts", s.Conflicts)),
		suspectStyle.Render(fmt.Sprintf("%d suspect", s.Suspect)),
	}
	line := counts + strings.Join(parts, ", ")
	if n := s.Issues(strict); n > 0 {
		line += "\n" + errorStyle.Render(fmt.Sprintf("%d issues", n))
	}
	return line
}

// PlanText writes a fix plan, one change per line, grouped by file.
func PlanText(w io.Writer, p *gosyncpack.Plan) error {
	var buf bytes.Buffer

	if p.IsEmpty() {
		buf.WriteString(validStyle.Render("✓ nothing to fix") + "\n")
	}

	file := ""
	for _, c := range p.Changes {
		if c.File != file {
			if file != "" {
				buf.WriteString("\n")
			}
			file = c.File
			buf.WriteString(nameStyle.Render(file) + "\n")
		}
		if c.Removed {
			fmt.Fprintf(&buf, "  %s %s  %s\n", errorStyle.Render("-"), c.Path, mutedStyle.Render(c.From))
			continue
		}
		fmt.Fprintf(&buf, "  %s %s  %s → %s  %s\n",
			fixStyle.Render("~"), c.Path, mutedStyle.Render(c.From), validStyle.Render(c.To), mutedStyle.Render(string(c.Kind)))
	}

	if len(p.Skipped) > 0 {
		buf.WriteString("\n" + fixStyle.Render("Skipped (edit the pnpm catalog instead):") + "\n")
		for _, c := range p.Skipped {
			fmt.Fprintf(&buf, "  %s %s  %s → %s\n", c.File, c.Path, c.From, c.To)
		}
	}

	s := p.Summary()
	if !p.IsEmpty() {
		fmt.Fprintf(&buf, "\n%d upgrades, %d downgrades, %d range changes, %d replacements, %d removals in %d files\n",
			s.Upgrades, s.Downgrades, s.RangeChanges, s.Replacements, s.Removals, s.Files)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
