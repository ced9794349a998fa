package entity

import (
	"fmt"
	"net"
	"net/url"
)

// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
const maxURLLength = 2048

// ValidateURL checks that rawURL is a well-formed http(s) URL with a host.
// field names the offending input in the returned ValidationError.
func ValidateURL(field, rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: field, Message: "invalid URL"}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: field, Message: "must use http or https scheme"}
	}
	if parsedURL.Host == "" {
		return &ValidationError{Field: field, Message: "must have a valid host"}
	}
	return nil
}

// ValidatePublicURL runs ValidateURL and additionally rejects hosts that
// resolve to loopback, link-local or private networks. Collectors call it
// before fetching caller-supplied URLs.
func ValidatePublicURL(field, rawURL string) error {
	if err := ValidateURL(field, rawURL); err != nil {
		return err
	}
	parsedURL, _ := url.Parse(rawURL)
	ips, err := net.LookupIP(parsedURL.Hostname())
	if err != nil {
		return nil
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return &ValidationError{Field: field, Message: "cannot point to private network"}
		}
	}
	return nil
}

// isPrivateIP reports whether ip is loopback, link-local (including cloud
// metadata at 169.254.169.254) or inside an RFC 1918 range.
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() {
		return true
	}

	privateIPv4Ranges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16",
	}
	for _, cidr := range privateIPv4Ranges {
		_, subnet, _ := net.ParseCIDR(cidr)
		if subnet.Contains(ip) {
			return true
		}
	}
	return false
}
