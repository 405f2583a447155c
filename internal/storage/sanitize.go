package storage

import (
	"net/netip"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxLength caps sanitized text when the caller passes no limit.
const DefaultMaxLength = 1000

// dangerous characters removed from every persisted string. Angle brackets
// and quotes cover markup/attribute injection, the backtick covers template
// literals in downstream renderers.
const dangerousChars = "<>\"'`"

// scriptPattern matches injection payloads that survive plain character
// stripping: scheme-based script URIs and inline event handlers.
var scriptPattern = regexp.MustCompile(`(?i)(javascript:|vbscript:|data:text/html|on\w+\s*=)`)

// executable path extensions rejected inside URLs.
var executableExts = []string{
	".exe", ".bat", ".cmd", ".com", ".scr", ".ps1", ".sh", ".dll", ".msi", ".jar", ".vbs",
}

// blockedHosts are URL shorteners and tunnel services. Shortened links hide
// their destination from validation; tunnels typically terminate on private
// machines.
var blockedHosts = map[string]struct{}{
	"localhost":           {},
	"bit.ly":              {},
	"tinyurl.com":         {},
	"t.co":                {},
	"goo.gl":              {},
	"is.gd":               {},
	"ow.ly":               {},
	"cutt.ly":             {},
	"rb.gy":               {},
	"ngrok.io":            {},
	"ngrok-free.app":      {},
	"trycloudflare.com":   {},
	"loca.lt":             {},
	"serveo.net":          {},
	"localtunnel.me":      {},
}

// Sanitize cleans arbitrary text before it is persisted: control characters
// and dangerous characters are stripped, script injection patterns removed,
// the result truncated to maxLength runes and trimmed of surrounding
// whitespace. Pure function; sanitizing an already-sanitized string is a
// no-op, which keeps save/load round-trips stable.
func Sanitize(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == utf8.RuneError || unicode.IsControl(r) {
			continue
		}
		if strings.ContainsRune(dangerousChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()

	// Removing one match can splice a new one together, so iterate to a
	// fixpoint. The string shrinks every round, so this terminates.
	for scriptPattern.MatchString(out) {
		out = scriptPattern.ReplaceAllString(out, "")
	}

	if utf8.RuneCountInString(out) > maxLength {
		out = string([]rune(out)[:maxLength])
	}
	return strings.TrimSpace(out)
}

// ValidateURL reports whether raw is a safe, fetchable product URL. The
// second return value carries the rejection reason for auditing.
//
// Rejected: oversized URLs, missing scheme or host, non-http(s) schemes,
// loopback/private/link-local address literals, localhost and known
// shortener/tunnel hostnames, and paths smuggling executables or script URIs.
//
// Hostnames are not resolved here: DNS answers change between validation and
// fetch, so a lookup would only add a race and a network dependency. Literal
// IP hosts are range-checked; name-based screening relies on the blocklists.
func ValidateURL(raw string) (bool, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, "empty url"
	}
	if len(raw) > 2048 {
		return false, "url too long"
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false, "malformed url"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		return false, "missing scheme"
	}
	if scheme != "http" && scheme != "https" {
		return false, "scheme not allowed"
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false, "missing host"
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
			addr.IsLinkLocalMulticast() || addr.IsUnspecified() {
			return false, "private or loopback address"
		}
	} else {
		if _, blocked := blockedHosts[host]; blocked {
			return false, "blocked host"
		}
		for blockedHost := range blockedHosts {
			if strings.HasSuffix(host, "."+blockedHost) {
				return false, "blocked host"
			}
		}
		if strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal") {
			return false, "private hostname"
		}
	}

	pathAndQuery := strings.ToLower(u.Path + "?" + u.RawQuery)
	for _, ext := range executableExts {
		if strings.HasSuffix(strings.ToLower(u.Path), ext) {
			return false, "executable path"
		}
	}
	if scriptPattern.MatchString(pathAndQuery) {
		return false, "script injection"
	}

	return true, ""
}
