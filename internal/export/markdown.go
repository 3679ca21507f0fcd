package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/theirongolddev/adburn/internal/business"
)

// ExecutiveMarkdown renders a plain-text summary of the executive report.
func ExecutiveMarkdown(e *business.Executive, now time.Time) []byte {
	loc := e.Params.Locale
	var b bytes.Buffer

	fmt.Fprintf(&b, "# Executive Summary\n\n_Generated %s_\n\n", now.Format("2006-01-02"))

	b.WriteString("## Key Indicators\n\n| Indicator | Value |\n|---|---|\n")
	for _, key := range business.CardKeys {
		if k, ok := e.KPIs.Get(key); ok {
			fmt.Fprintf(&b, "| %s | %s |\n", k.Label, mdEscape(k.Display))
		}
	}

	b.WriteString("\n## Insights\n\n")
	for _, in := range e.Insights {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", in.Title, in.Severity, mdEscape(in.Detail))
	}

	b.WriteString("\n## Cohorts\n\n| Cohort | Spend | Purchases | CPV | Direct ROAS |\n|---|---|---|---|---|\n")
	for _, c := range e.Cohorts {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %.2fx |\n",
			mdEscape(c.Name), loc.Money(c.Spend), loc.Int(c.Purchases),
			loc.Money(business.CohortCPV(c)), business.CohortROAS(c))
	}

	b.WriteString("\n## Upsell Scenarios\n\n| Scenario | Rate | Revenue | ROAS |\n|---|---|---|---|\n")
	for _, c := range e.Cards {
		name := c.Scenario.Name
		if c.Scenario.Realistic {
			name += " (realistic)"
		}
		fmt.Fprintf(&b, "| %s | %d%% | %s | %.2fx |\n",
			name, business.RatePercent(c.Scenario), loc.MoneyWhole(c.Revenue), c.ROAS)
	}

	fmt.Fprintf(&b, "\n## Waste\n\nTotal waste: **%s** across %d campaigns without conversion.\n\n",
		loc.Money(e.Waste.Total), e.Waste.Count)
	for _, w := range e.Waste.Top {
		fmt.Fprintf(&b, "1. %s: %s\n", mdEscape(w.Name), loc.Money(w.Spend))
	}

	if e.AnySample() {
		b.WriteString("\n> Parts of this report use sample data.\n")
	}
	return b.Bytes()
}

// MarkdownToHTML converts Markdown to an HTML fragment. Raw HTML in the
// source is skipped.
func MarkdownToHTML(md []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML})
	return template.HTML(markdown.ToHTML(md, p, r)) //nolint:gosec // raw HTML is skipped by the renderer
}

var mdReplacer = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`)

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}
