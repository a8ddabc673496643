package domain

import "fmt"

// OutcomeClass is the terminal classification of a single link check.
type OutcomeClass string

const (
	// OutcomeAccessible means the link answered with a 2xx or 3xx status.
	OutcomeAccessible OutcomeClass = "accessible"

	// OutcomeInaccessible means the link answered with a 4xx/5xx status,
	// timed out, failed at the transport level, or the check itself failed.
	OutcomeInaccessible OutcomeClass = "inaccessible"

	// OutcomeSkippedDownload means the link points at a file download and
	// its accessibility was not judged.
	OutcomeSkippedDownload OutcomeClass = "skipped_download"
)

// Outcome is the result of checking one link. StatusCode is nil when no
// HTTP status was observed (timeouts, connection failures, skipped
// downloads, check failures).
type Outcome struct {
	Class      OutcomeClass `json:"class"`
	StatusCode *int         `json:"status_code"`
	Reason     string       `json:"reason,omitempty"`
}

// Accessible builds an accessible outcome carrying the observed status.
func Accessible(status int) Outcome {
	s := status
	return Outcome{Class: OutcomeAccessible, StatusCode: &s}
}

// InaccessibleStatus builds an inaccessible outcome for a clean HTTP
// response outside the accessible range.
func InaccessibleStatus(status int) Outcome {
	s := status
	return Outcome{Class: OutcomeInaccessible, StatusCode: &s, Reason: fmt.Sprintf("HTTP %d", status)}
}

// InaccessibleReason builds an inaccessible outcome with no HTTP status,
// e.g. a timeout or a connection error.
func InaccessibleReason(reason string) Outcome {
	return Outcome{Class: OutcomeInaccessible, Reason: reason}
}

// SkippedDownload builds a skipped outcome for file-download links.
func SkippedDownload() Outcome {
	return Outcome{Class: OutcomeSkippedDownload}
}

// InaccessibleLink records one link that failed its check, with enough
// context to report it without the page it came from.
type InaccessibleLink struct {
	URL        string `json:"url"`
	Text       string `json:"text"`
	StatusCode *int   `json:"status_code"`
	Error      string `json:"error"`
}

// LinkCheckReport aggregates the outcomes of checking one page's links.
// Every tested link lands in exactly one of the three counters.
type LinkCheckReport struct {
	TotalTested       int                `json:"total_tested"`
	AccessibleCount   int                `json:"accessible_count"`
	InaccessibleCount int                `json:"inaccessible_count"`
	SkippedCount      int                `json:"skipped_count"`
	InaccessibleLinks []InaccessibleLink `json:"inaccessible_links"`
}

// NewLinkCheckReport returns an empty report for a batch of total links.
func NewLinkCheckReport(total int) *LinkCheckReport {
	return &LinkCheckReport{
		TotalTested:       total,
		InaccessibleLinks: []InaccessibleLink{},
	}
}

// Observe folds one link's outcome into the report. Outcomes with an
// unknown class count as inaccessible rather than being dropped.
func (r *LinkCheckReport) Observe(link Link, o Outcome) {
	switch o.Class {
	case OutcomeAccessible:
		r.AccessibleCount++
	case OutcomeSkippedDownload:
		r.SkippedCount++
	default:
		r.InaccessibleCount++
		r.InaccessibleLinks = append(r.InaccessibleLinks, InaccessibleLink{
			URL:        link.URL,
			Text:       link.Text,
			StatusCode: o.StatusCode,
			Error:      o.Reason,
		})
	}
}
