// Package resolve turns a host argument from the command line into the
// name (or IP) actually handed to ssh, trying a list of domain suffixes
// for bare hostnames and reverse-resolving IP literals.
package resolve

import (
	"fmt"
	"net"

	"github.com/ChuLiYu/ssh-para/internal/hostfmt"
)

// Resolver performs name resolution, with lookups swappable for tests.
type Resolver struct {
	LookupHost func(name string) ([]string, error)
	LookupAddr func(addr string) ([]string, error)
	Domains    []string
}

// New builds a Resolver backed by the standard library's resolver.
func New(domains []string) *Resolver {
	return &Resolver{
		LookupHost: net.LookupHost,
		LookupAddr: net.LookupAddr,
		Domains:    domains,
	}
}

// Resolve returns the name ssh should be given for host: a reverse
// lookup for IP literals, or the first of host / host.domain... that
// resolves for bare names. If nothing resolves, host is returned
// unchanged (ssh will get the same resolution failure we would).
func (r *Resolver) Resolve(host string) string {
	if hostfmt.IsIP(host) {
		return r.resolveIP(host)
	}
	return r.resolveInDomains(host)
}

func (r *Resolver) resolveIP(ip string) string {
	names, err := r.LookupAddr(ip)
	if err != nil || len(names) == 0 {
		return ip
	}
	return trimTrailingDot(names[0])
}

func (r *Resolver) resolveInDomains(host string) string {
	if _, err := r.LookupHost(host); err == nil {
		return host
	}
	for _, domain := range r.Domains {
		candidate := fmt.Sprintf("%s.%s", host, domain)
		if _, err := r.LookupHost(candidate); err == nil {
			return candidate
		}
	}
	return host
}

func trimTrailingDot(name string) string {
	if len(name) > 0 && name[len(name)-1] == '.' {
		return name[:len(name)-1]
	}
	return name
}
