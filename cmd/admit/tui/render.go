package tui

import (
	"fmt"
	"strings"

	"admitcast/internal/college"
	"admitcast/internal/predict"
	"admitcast/internal/profile"
)

// resultMarkdown is the results screen body, rendered through glamour.
func resultMarkdown(c college.College, r predict.Result, p profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s chance at %s\n\n", r.Percent(), c.Name)
	fmt.Fprintf(&b, "**Category:** %s\n\n", r.Category)
	fmt.Fprintf(&b, "> %s\n\n", r.Advice)

	b.WriteString("## Factor weights\n\n| Factor | Weight |\n|---|---:|\n")
	for _, f := range r.OrderedFactors() {
		fmt.Fprintf(&b, "| %s | %+.1f |\n", f.Name, f.Weight)
	}

	b.WriteString("\n## Your profile vs. the school\n\n| | You | ")
	b.WriteString(c.Name)
	b.WriteString(" |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| GPA | %s | %.2f median |\n", orDash(fmtFloat(p.GPA)), c.MedianGPA)
	fmt.Fprintf(&b, "| SAT | %s | %.0f-%.0f |\n", orDash(fmtInt(p.SATScore)), c.SATRange.Low, c.SATRange.High)
	fmt.Fprintf(&b, "| ACT | %s | %.0f-%.0f |\n", orDash(fmtInt(p.ACTScore)), c.ACTRange.Low, c.ACTRange.High)
	fmt.Fprintf(&b, "| Acceptance rate | | %.0f%% |\n", c.AcceptanceRate*100)

	if n := len(p.Extracurriculars); n > 0 {
		names := make([]string, 0, n)
		for _, a := range p.Extracurriculars {
			names = append(names, a.Name)
		}
		fmt.Fprintf(&b, "\n**Activities:** %s\n", strings.Join(names, ", "))
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
