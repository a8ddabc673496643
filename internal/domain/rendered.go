package domain

// Anchor is a raw <a href> pair as found in the document, before any
// filtering, resolution or deduplication.
type Anchor struct {
	Href string
	Text string
}

// ImageRef is a raw <img src> pair as found in the document.
type ImageRef struct {
	Src string
	Alt string
}

// RenderedPage is the raw material a renderer hands to the element
// extractor. Anchors and Images preserve document order.
type RenderedPage struct {
	Title           string
	MetaDescription string
	Headings        map[string][]string
	Anchors         []Anchor
	Images          []ImageRef
	BodyText        string
}
