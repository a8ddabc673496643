package renderer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

// StaticRenderer fetches pages with a plain GET and parses the HTML as
// delivered. Script-generated content is invisible to it; sites that
// need it should run under the browser renderer instead.
type StaticRenderer struct {
	client    *http.Client
	userAgent string
	log       logrus.FieldLogger
}

// NewStaticRenderer builds a renderer with its own HTTP client.
func NewStaticRenderer(opts Options, logger logrus.FieldLogger) *StaticRenderer {
	timeout := opts.PageTimeout
	if timeout <= 0 {
		timeout = DefaultPageTimeout
	}
	return &StaticRenderer{
		client:    &http.Client{Timeout: timeout},
		userAgent: opts.UserAgent,
		log:       logger.WithField("component", "renderer"),
	}
}

// Close is a no-op; the static renderer holds no long-lived resources.
func (r *StaticRenderer) Close() error { return nil }

// Render fetches pageURL and extracts raw elements from the parsed
// document. The charset is taken from the response headers and document,
// so legacy GBK and GB2312 pages decode correctly.
func (r *StaticRenderer) Render(ctx context.Context, pageURL string) (*domain.RenderedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("failed to load page: HTTP %d", resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode page charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	out := &domain.RenderedPage{
		Title:    doc.Find("title").First().Text(),
		Headings: make(map[string][]string, 6),
	}
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		out.MetaDescription = desc
	}

	for level := 1; level <= 6; level++ {
		sel := fmt.Sprintf("h%d", level)
		texts := []string{}
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			texts = append(texts, s.Text())
		})
		out.Headings[sel] = texts
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		out.Anchors = append(out.Anchors, domain.Anchor{Href: href, Text: s.Text()})
	})
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		out.Images = append(out.Images, domain.ImageRef{Src: src, Alt: alt})
	})
	out.BodyText = doc.Find("body").Text()

	r.log.WithFields(logrus.Fields{
		"url":     pageURL,
		"anchors": len(out.Anchors),
		"images":  len(out.Images),
	}).Debug("Page rendered")
	return out, nil
}
