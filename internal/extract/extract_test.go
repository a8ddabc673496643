package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

func TestCollectLinksDeduplicatesCaseInsensitively(t *testing.T) {
	anchors := []domain.Anchor{
		{Href: "http://a.com/x", Text: "first"},
		{Href: "HTTP://A.COM/X", Text: "second"},
		{Href: "http://a.com/y", Text: "third"},
	}

	links := CollectLinks("https://a.com", anchors, DefaultLimits())

	require.Len(t, links, 2)
	assert.Equal(t, "http://a.com/x", links[0].URL)
	assert.Equal(t, "first", links[0].Text)
	assert.Equal(t, "http://a.com/y", links[1].URL)
	assert.Equal(t, "third", links[1].Text)
}

func TestCollectLinksRejectedAnchorsConsumeSlots(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxAnchors = 2

	anchors := []domain.Anchor{
		{Href: "javascript:void(0)", Text: "menu"},
		{Href: "/a", Text: "a"},
		{Href: "/b", Text: "b"},
	}

	links := CollectLinks("https://a.com", anchors, limits)

	require.Len(t, links, 1)
	assert.Equal(t, "https://a.com/a", links[0].URL)
}

func TestCollectLinksCapsTextByRunes(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxTextRunes = 3

	anchors := []domain.Anchor{{Href: "/news", Text: "  新闻中心动态  "}}
	links := CollectLinks("https://a.com", anchors, limits)

	require.Len(t, links, 1)
	assert.Equal(t, "新闻中", links[0].Text)
}

func TestCollectLinksCapConsidersRawAnchors(t *testing.T) {
	limits := DefaultLimits()
	anchors := make([]domain.Anchor, 0, 120)
	for i := 0; i < 120; i++ {
		anchors = append(anchors, domain.Anchor{Href: fmt.Sprintf("/page-%d", i)})
	}

	links := CollectLinks("https://a.com", anchors, limits)

	require.Len(t, links, 100)
	assert.Equal(t, "https://a.com/page-99", links[99].URL)
}

func TestCollectImagesDeduplicatesOnResolvedSrc(t *testing.T) {
	images := []domain.ImageRef{
		{Src: "/logo.png", Alt: "logo"},
		{Src: "/logo.png", Alt: "again"},
		{Src: "https://a.com/logo.png", Alt: "absolute"},
		{Src: "/LOGO.png", Alt: "caps"},
	}

	out := CollectImages("https://a.com", images, DefaultLimits())

	require.Len(t, out, 2, "relative and absolute srcs resolving to the same URL collapse")
	assert.Equal(t, "https://a.com/logo.png", out[0].Src)
	assert.Equal(t, "logo", out[0].Alt, "first occurrence keeps its alt text")
	assert.Equal(t, "https://a.com/LOGO.png", out[1].Src, "image dedup stays case-sensitive")
}

func TestCleanHeadings(t *testing.T) {
	raw := map[string][]string{
		"h1": {"  Welcome  ", "", "   "},
		"h2": make([]string, 0, 12),
	}
	for i := 0; i < 12; i++ {
		raw["h2"] = append(raw["h2"], fmt.Sprintf("section %d", i))
	}

	got := CleanHeadings(raw)

	assert.Equal(t, []string{"Welcome"}, got["h1"])
	assert.Len(t, got["h2"], 10)
	for _, level := range []string{"h3", "h4", "h5", "h6"} {
		assert.Equal(t, []string{}, got[level])
	}
}

func TestCleanBodyText(t *testing.T) {
	body := "  Oil \t and\n\n gas   news  "
	assert.Equal(t, "Oil and gas news", CleanBodyText(body, 5000))
	assert.Equal(t, "Oil a", CleanBodyText(body, 5))
}

func TestBuildSiteResult(t *testing.T) {
	page := &domain.RenderedPage{
		Title:           " CNOOC Limited ",
		MetaDescription: " offshore oil and gas ",
		Headings:        map[string][]string{"h1": {"Home"}},
		Anchors: []domain.Anchor{
			{Href: "/about", Text: "About"},
			{Href: "#top", Text: "Back"},
		},
		Images:   []domain.ImageRef{{Src: "/logo.png", Alt: "logo"}},
		BodyText: strings.Repeat("word ", 8),
	}

	site := BuildSiteResult("https://a.com", page, DefaultLimits())

	assert.Equal(t, domain.SiteSuccess, site.Status)
	assert.Equal(t, "https://a.com", site.URL)
	assert.Equal(t, "CNOOC Limited", site.Title)
	assert.Equal(t, "offshore oil and gas", site.MetaDescription)
	require.Len(t, site.Links, 1)
	assert.Equal(t, "https://a.com/about", site.Links[0].URL)
	require.Len(t, site.Images, 1)
	assert.False(t, site.ParsedAt.IsZero())
	assert.Nil(t, site.LinkCheck)
}
