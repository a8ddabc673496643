// Package export writes monitoring run artifacts: the 404-link JSON and
// CSV files, and the plain-text per-run summary.
package export

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

// Exporter writes one artifact for a finished run into dir and returns
// the path it wrote.
type Exporter interface {
	Export(run *domain.MonitoringRun, dir string) (string, error)
}

// failureStatus is the status code the 404 exports filter on.
const failureStatus = http.StatusNotFound

const stampLayout = "20060102_150405"

// stamp derives the filename timestamp from the run itself, so
// re-exporting a stored run reproduces the same name.
func stamp(run *domain.MonitoringRun) string {
	at := run.FinishedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return at.Format(stampLayout)
}

func createFile(dir, name string) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	return f, path, nil
}
