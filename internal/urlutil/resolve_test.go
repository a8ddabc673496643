package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveHref(t *testing.T) {
	tests := []struct {
		name    string
		pageURL string
		href    string
		want    string
		wantOK  bool
	}{
		{name: "absolute http", pageURL: "https://a.com", href: "http://b.com/x", want: "http://b.com/x", wantOK: true},
		{name: "absolute https", pageURL: "https://a.com", href: "https://b.com/x", want: "https://b.com/x", wantOK: true},
		{name: "host absolute path", pageURL: "https://a.com/news/", href: "/about", want: "https://a.com/about", wantOK: true},
		{name: "path relative", pageURL: "https://a.com/news/", href: "detail.html", want: "https://a.com/news/detail.html", wantOK: true},
		{name: "path relative no trailing slash", pageURL: "https://a.com", href: "detail.html", want: "https://a.com/detail.html", wantOK: true},
		{name: "empty href", pageURL: "https://a.com", href: ""},
		{name: "javascript handler", pageURL: "https://a.com", href: "javascript:void(0)"},
		{name: "mailto", pageURL: "https://a.com", href: "mailto:ops@a.com"},
		{name: "tel", pageURL: "https://a.com", href: "tel:+8610000000"},
		{name: "bare fragment", pageURL: "https://a.com", href: "#"},
		{name: "fragment with name", pageURL: "https://a.com", href: "#top"},
		{name: "void call", pageURL: "https://a.com", href: "void(0)"},
		{name: "unparseable page URL", pageURL: "://bad", href: "/about"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveHref(tt.pageURL, tt.href)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveImageSrc(t *testing.T) {
	tests := []struct {
		name    string
		pageURL string
		src     string
		want    string
		wantOK  bool
	}{
		{name: "absolute", pageURL: "https://a.com", src: "https://cdn.a.com/logo.png", want: "https://cdn.a.com/logo.png", wantOK: true},
		{name: "host absolute joins page URL", pageURL: "https://a.com/", src: "/img/logo.png", want: "https://a.com/img/logo.png", wantOK: true},
		{name: "relative", pageURL: "https://a.com/news/", src: "banner.gif", want: "https://a.com/news/banner.gif", wantOK: true},
		{name: "empty", pageURL: "https://a.com", src: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveImageSrc(tt.pageURL, tt.src)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnsureScheme(t *testing.T) {
	assert.Equal(t, "https://www.cnooc.com.cn", EnsureScheme("www.cnooc.com.cn"))
	assert.Equal(t, "http://a.com", EnsureScheme("http://a.com"))
	assert.Equal(t, "https://a.com", EnsureScheme("https://a.com"))
}

func TestIsDownloadURL(t *testing.T) {
	downloads := []string{
		"https://a.com/annual-report.pdf",
		"https://a.com/ANNUAL-REPORT.PDF",
		"https://a.com/photo.JPEG",
		"https://a.com/archive.zip",
		"https://a.com/deck.pptx",
		"https://a.com/setup.exe",
		"https://a.com/video.mov",
	}
	for _, u := range downloads {
		assert.True(t, IsDownloadURL(u), u)
	}

	pages := []string{
		"https://a.com/",
		"https://a.com/news.html",
		"https://a.com/pdf-guide",
		"https://a.com/download?file=report.pdf&sig=x",
	}
	for _, u := range pages {
		assert.False(t, IsDownloadURL(u), u)
	}
}
