package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

func exportTestRun() *domain.MonitoringRun {
	report := domain.NewLinkCheckReport(3)
	report.Observe(domain.Link{URL: "https://a.com/ok"}, domain.Accessible(200))
	report.Observe(domain.Link{URL: "https://a.com/gone", Text: "old page"}, domain.InaccessibleStatus(404))
	report.Observe(domain.Link{URL: "https://a.com/boom"}, domain.InaccessibleStatus(500))

	return &domain.MonitoringRun{
		StartedAt:  time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 6, 2, 9, 35, 12, 0, time.UTC),
		Websites: []domain.SiteResult{
			{
				URL:             "https://a.com",
				Status:          domain.SiteSuccess,
				Title:           "Site A",
				MetaDescription: "corporate portal",
				Headings:        map[string][]string{"h1": {"Home"}, "h2": {"News", "Jobs"}},
				Links:           []domain.Link{{URL: "https://a.com/ok"}, {URL: "https://a.com/gone"}, {URL: "https://a.com/boom"}},
				Images:          []domain.Image{{Src: "https://a.com/logo.png"}},
				LinkCheck:       report,
			},
			domain.NewErrorSiteResult("https://b.com", assert.AnError),
		},
	}
}

func TestJSONExporterWritesNotFoundRows(t *testing.T) {
	dir := t.TempDir()
	run := exportTestRun()

	path, err := NewJSONExporter().Export(run, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "404_links_20250602_093512.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 1, "only the 404 makes it into the export")
	assert.Equal(t, "https://a.com/gone", rows[0]["url"])
	assert.Equal(t, "https://a.com", rows[0]["source"])
	assert.Equal(t, "old page", rows[0]["text"])
	assert.NotContains(t, rows[0], "status_code")
}

func TestJSONExporterEmptyRunWritesEmptyList(t *testing.T) {
	dir := t.TempDir()
	run := &domain.MonitoringRun{FinishedAt: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)}

	path, err := NewJSONExporter().Export(run, dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

func TestCSVExporterWritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()

	path, err := NewCSVExporter().Export(exportTestRun(), dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "404_links_20250602_093512.csv"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "URL,Source,Text,Status Code", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "https://a.com/gone")
	assert.Contains(t, lines[1], "404")
}

func TestSummaryExporter(t *testing.T) {
	dir := t.TempDir()

	path, err := NewSummaryExporter().Export(exportTestRun(), dir)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "websites_summary_20250602_093512.txt"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)

	assert.Contains(t, text, "Total websites: 2")
	assert.Contains(t, text, "Parsed successfully: 1")
	assert.Contains(t, text, "Parse failures: 1")
	assert.Contains(t, text, "Links tested: 3")
	assert.Contains(t, text, "1. https://a.com")
	assert.Contains(t, text, "Title: Site A")
	assert.Contains(t, text, "Headings: 3")
	assert.Contains(t, text, "inaccessible: 2")
	assert.Contains(t, text, "- https://a.com/gone")
	assert.Contains(t, text, "status: 404")
	assert.Contains(t, text, "2. https://b.com")
	assert.Contains(t, text, "Status: error")
}

func TestPrintFailureTable(t *testing.T) {
	var buf bytes.Buffer
	PrintFailureTable(&buf, exportTestRun().FailureRecords(404))

	out := buf.String()
	assert.Contains(t, out, "https://a.com/gone")
	assert.Contains(t, out, "https://a.com")
	assert.Contains(t, out, "old page")
}

func TestPrintFailureTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintFailureTable(&buf, nil)

	assert.Contains(t, buf.String(), "No 404 links found")
}
