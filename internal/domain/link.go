package domain

// Link is a deduplicated, absolute hyperlink extracted from a monitored page.
type Link struct {
	// URL is the absolute form of the anchor's href, resolved against the page URL.
	URL string `json:"url"`

	// Text is the anchor's visible text, trimmed and capped.
	Text string `json:"text"`
}

// Image is an image reference extracted from a monitored page.
type Image struct {
	// Src is the absolute form of the img's src attribute.
	Src string `json:"src"`

	// Alt is the image's alt text, capped.
	Alt string `json:"alt"`
}
