// Package pages derives the logical page sequence of a report from the
// current chart selection and feature toggles. The derivation is pure and is
// rebuilt from scratch on every input change; pages are never mutated in
// place. Absence of charts degrades to placeholder entries rather than
// erroring.
package pages

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a logical page.
type Kind string

const (
	// KindCover is the branded title page, always page 1.
	KindCover Kind = "cover"
	// KindTableOfContents lists every other page with its number.
	KindTableOfContents Kind = "toc"
	// KindExecutiveSummary is the optional AI-generated overview page.
	KindExecutiveSummary Kind = "summary"
	// KindChart is a content page holding one chart group.
	KindChart Kind = "chart"
)

// DefaultChartsPerPage is how many charts share a content page. The layout
// currently places a single chart per page, but renderers and the builder
// must honor whatever value Options carries.
const DefaultChartsPerPage = 1

// ChartRef is the read-only view of a chart that pagination needs. The full
// chart definition (fields, slicers, configuration) is owned elsewhere.
type ChartRef struct {
	ID   string
	Name string
	Type string
}

// TOCEntry is one table-of-contents row.
type TOCEntry struct {
	Title      string
	Subtitle   string
	PageNumber int
}

// Page is one logical report page. Charts and StartIndex are populated only
// for KindChart; Entries only for KindTableOfContents.
type Page struct {
	Kind   Kind
	Number int

	// Charts is the chart group rendered on this page, in selection order.
	Charts []ChartRef
	// StartIndex is the zero-based position of the group's first chart
	// within the full selection. "Chart N" labels derive from it so they
	// survive re-selection and reordering.
	StartIndex int

	Entries []TOCEntry
}

// Options are the feature toggles the builder honors.
type Options struct {
	IncludeCharts           bool
	IncludeExecutiveSummary bool
	// ChartsPerPage overrides DefaultChartsPerPage when positive.
	ChartsPerPage int
}

// Layout is the derived page sequence plus the table-of-contents entries that
// the contents page renders.
type Layout struct {
	Pages []Page
	TOC   []TOCEntry
}

// Build derives the logical page sequence for the selected charts.
//
// The sequence is always Cover, Table of Contents, then the optional
// executive summary, then one page per chart group in selection order. TOC
// entries are built in lockstep: the cover is entry one at page 1, the
// contents page itself is not listed, and the running counter starts at 2.
func Build(charts []ChartRef, opts Options) Layout {
	perPage := opts.ChartsPerPage
	if perPage <= 0 {
		perPage = DefaultChartsPerPage
	}

	var groups []Page
	if opts.IncludeCharts {
		for start := 0; start < len(charts); start += perPage {
			end := start + perPage
			if end > len(charts) {
				end = len(charts)
			}
			groups = append(groups, Page{
				Kind:       KindChart,
				Charts:     charts[start:end],
				StartIndex: start,
			})
		}
	}

	toc := []TOCEntry{{Title: "Cover", PageNumber: 1}}
	counter := 2
	if opts.IncludeExecutiveSummary {
		toc = append(toc, TOCEntry{
			Title:      "Executive Summary",
			PageNumber: counter,
		})
		counter++
	}
	if len(groups) == 0 {
		toc = append(toc, TOCEntry{Title: "Report Overview", PageNumber: counter})
	}
	for i := range groups {
		toc = append(toc, TOCEntry{
			Title:      groupTitle(groups[i]),
			Subtitle:   groupSubtitle(groups[i]),
			PageNumber: counter,
		})
		counter++
	}

	out := Layout{TOC: toc}
	out.Pages = append(out.Pages, Page{Kind: KindCover})
	out.Pages = append(out.Pages, Page{Kind: KindTableOfContents, Entries: toc})
	if opts.IncludeExecutiveSummary {
		out.Pages = append(out.Pages, Page{Kind: KindExecutiveSummary})
	}
	out.Pages = append(out.Pages, groups...)

	for i := range out.Pages {
		out.Pages[i].Number = i + 1
	}
	return out
}

// Title returns the display heading for a page.
func (p Page) Title() string {
	switch p.Kind {
	case KindCover:
		return "Cover"
	case KindTableOfContents:
		return "Table of Contents"
	case KindExecutiveSummary:
		return "Executive Summary"
	case KindChart:
		return groupTitle(p)
	}
	return ""
}

// groupTitle joins the chart names of a group, substituting a positional
// "Chart N" label for any unnamed chart.
func groupTitle(p Page) string {
	names := make([]string, 0, len(p.Charts))
	for i, c := range p.Charts {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = fmt.Sprintf("Chart %d", p.StartIndex+i+1)
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// groupSubtitle reports the chart type for single-chart groups and the group
// size otherwise.
func groupSubtitle(p Page) string {
	if len(p.Charts) == 1 {
		return p.Charts[0].Type
	}
	return fmt.Sprintf("%d charts", len(p.Charts))
}
