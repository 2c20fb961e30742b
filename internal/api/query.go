package api

import (
	"net/url"
	"strings"
)

// BuildURL joins base and path, tolerating a trailing slash on base.
func BuildURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

// CleanQuery drops the "si" share-tracking parameter from URL queries.
// Anything that is not an absolute URL with a query is returned unchanged.
func CleanQuery(input string) string {
	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || u.Host == "" || u.RawQuery == "" {
		return input
	}
	q := u.Query()
	if !q.Has("si") {
		return input
	}
	q.Del("si")
	u.RawQuery = q.Encode()
	return u.String()
}
