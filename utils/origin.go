package utils

import (
	"net/url"
	"strings"
)

// OriginHost extracts the host of an Origin header
func OriginHost(origin string) (string, error) {
	if origin == "" {
		return "", nil
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return "", err
	}

	return parsed.Host, nil
}

// NormalizeHost lower-cases a host and drops a leading www
func NormalizeHost(host string) string {
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}

// OriginAllowed reports whether a browser origin may call the API.
// An entry of "*" allows every origin; other entries match their host and its subdomains.
func OriginAllowed(origin string, allowed []string) bool {
	host, err := OriginHost(origin)
	if err != nil || host == "" {
		return false
	}
	host = NormalizeHost(host)

	for _, entry := range allowed {
		entry = strings.TrimSpace(entry)
		if entry == "*" {
			return true
		}
		if h, err := OriginHost(entry); err == nil && h != "" {
			entry = h
		}
		entry = NormalizeHost(entry)
		if entry == "" {
			continue
		}
		if host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}

	return false
}
