package export

import (
	"fmt"
	"strings"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

const rule = 60

// SummaryExporter writes the human-readable per-run report as
// websites_summary_<stamp>.txt.
type SummaryExporter struct{}

func NewSummaryExporter() Exporter {
	return &SummaryExporter{}
}

func (e *SummaryExporter) Export(run *domain.MonitoringRun, dir string) (string, error) {
	f, path, err := createFile(dir, fmt.Sprintf("websites_summary_%s.txt", stamp(run)))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.WriteString(FormatSummary(run)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// FormatSummary renders the run as the plain-text report.
func FormatSummary(run *domain.MonitoringRun) string {
	var b strings.Builder
	totals := run.Totals()

	b.WriteString(strings.Repeat("=", rule) + "\n")
	b.WriteString("Website Elements Monitoring Summary\n")
	b.WriteString(strings.Repeat("=", rule) + "\n\n")

	fmt.Fprintf(&b, "Total websites: %d\n", totals.Websites)
	fmt.Fprintf(&b, "Parsed successfully: %d\n", totals.Parsed)
	fmt.Fprintf(&b, "Parse failures: %d\n", totals.Failed)
	fmt.Fprintf(&b, "Links tested: %d\n", totals.LinksTested)
	fmt.Fprintf(&b, "Inaccessible links: %d\n", totals.Inaccessible)
	fmt.Fprintf(&b, "Skipped download links: %d\n\n", totals.Skipped)

	for i, site := range run.Websites {
		b.WriteString(strings.Repeat("-", rule) + "\n")
		fmt.Fprintf(&b, "%d. %s\n", i+1, site.URL)
		fmt.Fprintf(&b, "   Status: %s\n", site.Status)

		if site.Title != "" {
			fmt.Fprintf(&b, "   Title: %s\n", clip(site.Title, 100))
		}
		if site.MetaDescription != "" {
			fmt.Fprintf(&b, "   Description: %s\n", clip(site.MetaDescription, 100))
		}
		if site.Status == domain.SiteSuccess {
			fmt.Fprintf(&b, "   Links: %d\n", len(site.Links))
			fmt.Fprintf(&b, "   Images: %d\n", len(site.Images))
			fmt.Fprintf(&b, "   Headings: %d\n", countHeadings(site.Headings))
		}

		if report := site.LinkCheck; report != nil && report.TotalTested > 0 {
			b.WriteString("   Link check:\n")
			fmt.Fprintf(&b, "     tested: %d\n", report.TotalTested)
			fmt.Fprintf(&b, "     accessible: %d\n", report.AccessibleCount)
			fmt.Fprintf(&b, "     inaccessible: %d\n", report.InaccessibleCount)
			fmt.Fprintf(&b, "     skipped: %d\n", report.SkippedCount)

			if len(report.InaccessibleLinks) > 0 {
				b.WriteString("   Inaccessible links:\n")
				for _, link := range report.InaccessibleLinks {
					fmt.Fprintf(&b, "     - %s\n", link.URL)
					if link.Text != "" {
						fmt.Fprintf(&b, "       text: %s\n", clip(link.Text, 80))
					}
					if link.StatusCode != nil {
						fmt.Fprintf(&b, "       status: %d\n", *link.StatusCode)
					}
					if link.Error != "" {
						fmt.Fprintf(&b, "       error: %s\n", clip(link.Error, 100))
					}
				}
			}
		}

		if site.Error != "" {
			fmt.Fprintf(&b, "   Error: %s\n", clip(site.Error, 100))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func countHeadings(headings map[string][]string) int {
	n := 0
	for _, texts := range headings {
		n += len(texts)
	}
	return n
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
