// Package renderer loads monitored pages and hands back their raw
// elements. Two implementations exist: a headless-browser renderer for
// script-heavy pages, and a plain HTTP renderer for static ones.
package renderer

import (
	"context"
	"time"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

// Renderer defines the interface for loading one page.
type Renderer interface {
	// Render navigates to pageURL and collects the page's title, meta
	// description, headings, anchors, images and body text. A page
	// that cannot be loaded returns an error.
	Render(ctx context.Context, pageURL string) (*domain.RenderedPage, error)

	// Close releases renderer resources, e.g. a persistent browser.
	Close() error
}

// Options configure a renderer.
type Options struct {
	// PageTimeout bounds one page load.
	PageTimeout time.Duration

	// SettleDelay is waited after the load event so late scripts can
	// finish injecting content. Only the browser renderer uses it.
	SettleDelay time.Duration

	// BrowserBin points at the browser executable. Only the browser
	// renderer uses it; empty lets the launcher pick one.
	BrowserBin string

	// UserAgent is sent by the static renderer.
	UserAgent string
}

const (
	DefaultPageTimeout = 20 * time.Second
	DefaultSettleDelay = time.Second
)
