// Package urlutil resolves the href and src values found on monitored
// pages into absolute URLs. Resolution is deliberately simplified, not
// full RFC 3986: path-relative values are appended to the page URL as-is,
// ./ segments and <base> tags are ignored. Changing this would change
// which links count as duplicates, so the approximation is kept.
package urlutil

import (
	"net/url"
	"strings"
)

var pseudoPrefixes = []string{"javascript:", "mailto:", "tel:", "#", "void(0)"}

// IsPseudoLink reports whether href is a non-navigational anchor value,
// such as a javascript: handler, a mailto:, or a fragment.
func IsPseudoLink(href string) bool {
	for _, prefix := range pseudoPrefixes {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}

// EnsureScheme prefixes https onto bare hostnames so configured sites
// can be listed without a scheme.
func EnsureScheme(site string) string {
	if hasHTTPScheme(site) {
		return site
	}
	return "https://" + site
}

// ResolveHref turns an anchor's href into an absolute URL. Empty and
// pseudo hrefs resolve to nothing. Host-absolute paths join the page's
// scheme and host; anything else is appended to the page URL.
func ResolveHref(pageURL, href string) (string, bool) {
	if href == "" || IsPseudoLink(href) {
		return "", false
	}
	if hasHTTPScheme(href) {
		return href, true
	}
	if strings.HasPrefix(href, "/") {
		base, err := url.Parse(pageURL)
		if err != nil || base.Scheme == "" || base.Host == "" {
			return "", false
		}
		return base.Scheme + "://" + base.Host + href, true
	}
	return strings.TrimRight(pageURL, "/") + "/" + href, true
}

// ResolveImageSrc resolves an img's src against the page URL. Unlike
// hrefs there is no pseudo-link filtering, and host-absolute paths are
// joined to the full page URL rather than a reconstructed scheme://host.
func ResolveImageSrc(pageURL, src string) (string, bool) {
	if src == "" {
		return "", false
	}
	if hasHTTPScheme(src) {
		return src, true
	}
	base := strings.TrimRight(pageURL, "/")
	if strings.HasPrefix(src, "/") {
		return base + src, true
	}
	return base + "/" + src, true
}

func hasHTTPScheme(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
