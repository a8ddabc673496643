package export

import (
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

type notFoundCSVRow struct {
	URL        string `csv:"URL"`
	Source     string `csv:"Source"`
	Text       string `csv:"Text"`
	StatusCode int    `csv:"Status Code"`
}

// CSVExporter writes the cross-site 404 list as 404_links_<stamp>.csv,
// the shape the operations team imports into spreadsheets.
type CSVExporter struct{}

func NewCSVExporter() Exporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Export(run *domain.MonitoringRun, dir string) (string, error) {
	records := run.FailureRecords(failureStatus)
	rows := make([]notFoundCSVRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, notFoundCSVRow{
			URL:        rec.URL,
			Source:     rec.Source,
			Text:       rec.Text,
			StatusCode: rec.StatusCode,
		})
	}

	f, path, err := createFile(dir, fmt.Sprintf("404_links_%s.csv", stamp(run)))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
