// Package extract turns a rendered page into a SiteResult: deduplicated
// links and images under fixed caps, plus cleaned text elements.
package extract

import (
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
	"github.com/tianzeyuan99/website-monitor/internal/urlutil"
)

// Limits bound how much of one page the extractor keeps.
type Limits struct {
	// MaxAnchors is the number of raw anchors considered. Rejected
	// pseudo-links and duplicates still consume slots.
	MaxAnchors int

	// MaxImages is the number of raw image tags considered.
	MaxImages int

	// MaxTextRunes caps link texts and image alt texts.
	MaxTextRunes int

	// MaxBodyRunes caps the collapsed body text.
	MaxBodyRunes int
}

// DefaultLimits returns the production settings.
func DefaultLimits() Limits {
	return Limits{MaxAnchors: 100, MaxImages: 50, MaxTextRunes: 200, MaxBodyRunes: 5000}
}

const maxHeadingsPerLevel = 10

var headingLevels = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// BuildSiteResult assembles a successful SiteResult from a rendered
// page. The link check report is attached later by the monitor.
func BuildSiteResult(pageURL string, page *domain.RenderedPage, limits Limits) domain.SiteResult {
	return domain.SiteResult{
		URL:             pageURL,
		Status:          domain.SiteSuccess,
		Title:           strings.TrimSpace(page.Title),
		MetaDescription: strings.TrimSpace(page.MetaDescription),
		Headings:        CleanHeadings(page.Headings),
		Links:           CollectLinks(pageURL, page.Anchors, limits),
		Images:          CollectImages(pageURL, page.Images, limits),
		TextContent:     CleanBodyText(page.BodyText, limits.MaxBodyRunes),
		ParsedAt:        time.Now().UTC(),
	}
}

// CollectLinks resolves, filters and deduplicates the first
// limits.MaxAnchors raw anchors. Duplicates are detected on the
// lower-cased absolute URL; the first occurrence keeps its text and its
// position.
func CollectLinks(pageURL string, anchors []domain.Anchor, limits Limits) []domain.Link {
	seen := mapset.NewSet[string]()
	links := []domain.Link{}
	for i, a := range anchors {
		if i >= limits.MaxAnchors {
			break
		}
		abs, ok := urlutil.ResolveHref(pageURL, a.Href)
		if !ok {
			continue
		}
		if !seen.Add(strings.ToLower(abs)) {
			continue
		}
		links = append(links, domain.Link{
			URL:  abs,
			Text: capRunes(strings.TrimSpace(a.Text), limits.MaxTextRunes),
		})
	}
	return links
}

// CollectImages resolves and deduplicates the first limits.MaxImages raw
// image tags. Duplicates are detected on the exact resolved src, so a
// relative and an absolute src pointing at the same image collapse to
// one entry. Unlike links, the match is case-sensitive.
func CollectImages(pageURL string, images []domain.ImageRef, limits Limits) []domain.Image {
	seen := mapset.NewSet[string]()
	out := []domain.Image{}
	for i, img := range images {
		if i >= limits.MaxImages {
			break
		}
		abs, ok := urlutil.ResolveImageSrc(pageURL, img.Src)
		if !ok {
			continue
		}
		if !seen.Add(abs) {
			continue
		}
		out = append(out, domain.Image{
			Src: abs,
			Alt: capRunes(img.Alt, limits.MaxTextRunes),
		})
	}
	return out
}

// CleanHeadings trims heading texts, drops empty ones and keeps at most
// maxHeadingsPerLevel per level. All six levels are always present in
// the result.
func CleanHeadings(raw map[string][]string) map[string][]string {
	out := make(map[string][]string, len(headingLevels))
	for _, level := range headingLevels {
		texts := []string{}
		for _, t := range raw[level] {
			if len(texts) >= maxHeadingsPerLevel {
				break
			}
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			texts = append(texts, t)
		}
		out[level] = texts
	}
	return out
}

// CleanBodyText collapses all whitespace runs to single spaces and caps
// the result.
func CleanBodyText(body string, maxRunes int) string {
	return capRunes(strings.Join(strings.Fields(body), " "), maxRunes)
}

func capRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
