// Package fetcher holds the outbound HTTP plumbing of the collectors: an
// SSRF-safe client with bounded reads and the readability page extractor.
package fetcher

import (
	"fmt"
	"net"
	"net/url"

	"geodata/internal/usecase/collect"
)

// validateURL rejects non-http(s) URLs and, when denyPrivateIPs is set,
// hosts resolving to loopback, private or link-local addresses:
//   - 127.0.0.0/8, ::1
//   - 10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16, fc00::/7
//   - 169.254.0.0/16, fe80::/10
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", collect.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", collect.ErrInvalidURL, u.Scheme)
	}
	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", collect.ErrInvalidURL)
	}
	if !denyPrivateIPs {
		return nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", collect.ErrInvalidURL, hostname, err)
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", collect.ErrInvalidURL, hostname, ip.String())
		}
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
