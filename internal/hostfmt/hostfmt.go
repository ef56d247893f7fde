// Package hostfmt formats hostnames for display, trimming long FQDNs to
// a configurable number of leading labels so the live view's host column
// doesn't blow out on deeply nested domains.
package hostfmt

import (
	"net"
	"strings"
)

// IsIP reports whether host parses as an IPv4 or IPv6 literal. IP
// literals are never trimmed by ShortHost, since there are no domain
// labels to drop.
func IsIP(host string) bool {
	return net.ParseIP(host) != nil
}

// ShortHost returns the first maxDots+1 dot-separated labels of host,
// e.g. ShortHost("web01.prod.example.com", 1) == "web01.prod". A
// negative maxDots means "no trimming" (the full name is returned).
// IP literals are returned unchanged regardless of maxDots.
func ShortHost(host string, maxDots int) string {
	if maxDots < 0 || IsIP(host) {
		return host
	}
	labels := strings.Split(host, ".")
	n := maxDots + 1
	if n > len(labels) {
		n = len(labels)
	}
	return strings.Join(labels[:n], ".")
}
