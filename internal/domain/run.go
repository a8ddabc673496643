package domain

import "time"

// MonitoringRun is one complete pass over the configured websites.
type MonitoringRun struct {
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Websites   []SiteResult `json:"websites"`
}

// SiteFailureRecord is one inaccessible link paired with the page it was
// found on, the shape exports and the web API hand out.
type SiteFailureRecord struct {
	URL        string `json:"url"`
	Source     string `json:"source"`
	Text       string `json:"text"`
	StatusCode int    `json:"status_code"`
}

// RunTotals summarizes a run across all its sites.
type RunTotals struct {
	Websites     int `json:"websites"`
	Parsed       int `json:"parsed"`
	Failed       int `json:"failed"`
	LinksTested  int `json:"links_tested"`
	Accessible   int `json:"accessible"`
	Inaccessible int `json:"inaccessible"`
	Skipped      int `json:"skipped"`
}

// FailureRecords collects every inaccessible link across the run whose
// observed HTTP status equals statusCode, in site order then completion
// order. Links that never produced a status (timeouts, connection
// errors) never match.
func (m *MonitoringRun) FailureRecords(statusCode int) []SiteFailureRecord {
	records := []SiteFailureRecord{}
	for _, site := range m.Websites {
		if site.LinkCheck == nil {
			continue
		}
		for _, link := range site.LinkCheck.InaccessibleLinks {
			if link.StatusCode == nil || *link.StatusCode != statusCode {
				continue
			}
			records = append(records, SiteFailureRecord{
				URL:        link.URL,
				Source:     site.URL,
				Text:       link.Text,
				StatusCode: *link.StatusCode,
			})
		}
	}
	return records
}

// Totals sums the run's per-site reports.
func (m *MonitoringRun) Totals() RunTotals {
	t := RunTotals{Websites: len(m.Websites)}
	for _, site := range m.Websites {
		if site.Status != SiteSuccess {
			t.Failed++
			continue
		}
		t.Parsed++
		if site.LinkCheck == nil {
			continue
		}
		t.LinksTested += site.LinkCheck.TotalTested
		t.Accessible += site.LinkCheck.AccessibleCount
		t.Inaccessible += site.LinkCheck.InaccessibleCount
		t.Skipped += site.LinkCheck.SkippedCount
	}
	return t
}
