package utils

import (
	"net/url"
	"path"
	"strings"
)

// ResolveURL resolves href against the page it was found on and drops the
// fragment. An href that cannot be parsed resolves to "".
func ResolveURL(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// ProductIDFromURL returns the final path segment of a product URL.
func ProductIDFromURL(productURL string) string {
	u, err := url.Parse(productURL)
	if err != nil {
		parts := strings.Split(strings.TrimRight(productURL, "/"), "/")
		return parts[len(parts)-1]
	}
	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// WithQueryParam returns rawURL with key=value added to its query string.
func WithQueryParam(rawURL, key, value string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL + "?" + url.QueryEscape(key) + "=" + url.QueryEscape(value)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

// HostOf returns the lower-cased host of rawURL without a leading "www.".
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
