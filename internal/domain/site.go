package domain

import "time"

// SiteStatus says whether a monitored site could be rendered at all.
type SiteStatus string

const (
	SiteSuccess SiteStatus = "success"
	SiteError   SiteStatus = "error"
)

// SiteResult is everything the monitor learned about one website in one
// pass. For sites that failed to load, Status is SiteError, Error holds
// the cause and LinkCheck stays nil. A site that loaded but exposed no
// links still gets a non-nil, zeroed LinkCheck.
type SiteResult struct {
	// URL is the page URL after scheme normalization.
	URL string `json:"url"`

	Status SiteStatus `json:"status"`
	Error  string     `json:"error,omitempty"`

	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`

	// Headings maps h1..h6 to their visible texts, capped per level.
	Headings map[string][]string `json:"headings"`

	Links  []Link  `json:"links"`
	Images []Image `json:"images"`

	// TextContent is the page body text, whitespace-collapsed and capped.
	TextContent string `json:"text_content"`

	ParsedAt time.Time `json:"parsed_at"`

	LinkCheck *LinkCheckReport `json:"link_test_results,omitempty"`
}

// NewErrorSiteResult records a site that could not be rendered.
func NewErrorSiteResult(url string, err error) SiteResult {
	return SiteResult{
		URL:      url,
		Status:   SiteError,
		Error:    err.Error(),
		Headings: map[string][]string{},
		Links:    []Link{},
		Images:   []Image{},
		ParsedAt: time.Now().UTC(),
	}
}
