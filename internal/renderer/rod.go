package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

// RodRenderer drives a persistent headless browser so that pages which
// build their navigation with scripts expose the same links a visitor
// sees. The browser is launched once and reused for every page.
type RodRenderer struct {
	browser     *rod.Browser
	pageTimeout time.Duration
	settleDelay time.Duration
	log         logrus.FieldLogger
}

// NewRodRenderer launches the browser and connects to it. Close shuts
// the browser down again.
func NewRodRenderer(opts Options, logger logrus.FieldLogger) (*RodRenderer, error) {
	log := logger.WithField("component", "renderer")

	l := launcher.New().Headless(true)
	if opts.BrowserBin != "" {
		l = l.Bin(opts.BrowserBin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	log.WithField("bin", opts.BrowserBin).Info("Browser ready")

	if opts.PageTimeout <= 0 {
		opts.PageTimeout = DefaultPageTimeout
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}

	return &RodRenderer{
		browser:     browser,
		pageTimeout: opts.PageTimeout,
		settleDelay: opts.SettleDelay,
		log:         log,
	}, nil
}

// Close shuts down the persistent browser instance.
func (r *RodRenderer) Close() error {
	r.log.Info("Closing persistent browser instance")
	return r.browser.Close()
}

// Render opens pageURL in a fresh tab, waits for the load event plus a
// settle delay, and collects the raw elements.
func (r *RodRenderer) Render(ctx context.Context, pageURL string) (*domain.RenderedPage, error) {
	log := r.log.WithField("url", pageURL)
	log.Info("Rendering page")

	tab, err := r.browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer func() {
		if closeErr := tab.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Error closing page")
		}
	}()

	pageCtx, cancel := context.WithTimeout(ctx, r.pageTimeout)
	defer cancel()
	tab = tab.Context(pageCtx)

	if err := tab.WaitLoad(); err != nil {
		if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
			log.WithError(pageCtx.Err()).Warn("Page load timed out")
			return nil, fmt.Errorf("page load timed out after %s", r.pageTimeout)
		}
		return nil, fmt.Errorf("failed waiting for page load: %w", err)
	}

	// Late scripts keep injecting content after the load event fires.
	select {
	case <-time.After(r.settleDelay):
	case <-pageCtx.Done():
	}

	out := &domain.RenderedPage{Headings: make(map[string][]string, 6)}

	if el, err := tab.Element("title"); err == nil {
		if text, err := el.Text(); err == nil {
			out.Title = text
		}
	}
	if el, err := tab.Element(`meta[name="description"]`); err == nil {
		if content, err := el.Attribute("content"); err == nil && content != nil {
			out.MetaDescription = *content
		}
	}

	for level := 1; level <= 6; level++ {
		sel := fmt.Sprintf("h%d", level)
		els, err := tab.Elements(sel)
		if err != nil {
			continue
		}
		texts := make([]string, 0, len(els))
		for _, el := range els {
			if text, err := el.Text(); err == nil {
				texts = append(texts, text)
			}
		}
		out.Headings[sel] = texts
	}

	if els, err := tab.Elements("a[href]"); err == nil {
		for _, el := range els {
			href, err := el.Attribute("href")
			if err != nil || href == nil {
				continue
			}
			text, _ := el.Text()
			out.Anchors = append(out.Anchors, domain.Anchor{Href: *href, Text: text})
		}
	}

	if els, err := tab.Elements("img[src]"); err == nil {
		for _, el := range els {
			src, err := el.Attribute("src")
			if err != nil || src == nil {
				continue
			}
			var alt string
			if altAttr, err := el.Attribute("alt"); err == nil && altAttr != nil {
				alt = *altAttr
			}
			out.Images = append(out.Images, domain.ImageRef{Src: *src, Alt: alt})
		}
	}

	if el, err := tab.Element("body"); err == nil {
		if text, err := el.Text(); err == nil {
			out.BodyText = text
		}
	}

	log.WithFields(logrus.Fields{
		"anchors": len(out.Anchors),
		"images":  len(out.Images),
	}).Debug("Page rendered")
	return out, nil
}
