package export

import (
	"encoding/json"
	"fmt"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

// notFoundRow is the on-disk shape of one 404 record. The JSON file
// deliberately carries no status code: every row is a 404 by
// construction and downstream consumers rely on these three keys.
type notFoundRow struct {
	URL    string `json:"url"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

// JSONExporter writes the cross-site 404 list as 404_links_<stamp>.json.
type JSONExporter struct{}

func NewJSONExporter() Exporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Export(run *domain.MonitoringRun, dir string) (string, error) {
	rows := transformRecords(run.FailureRecords(failureStatus))

	raw, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal 404 links: %w", err)
	}

	f, path, err := createFile(dir, fmt.Sprintf("404_links_%s.json", stamp(run)))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(raw); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func transformRecords(records []domain.SiteFailureRecord) []notFoundRow {
	rows := make([]notFoundRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, notFoundRow{URL: rec.URL, Source: rec.Source, Text: rec.Text})
	}
	return rows
}
