package logging

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"
)

const maxLoggedPayload = 512

// LogHTTPRequest logs an outbound request when debugging is enabled.
// Sensitive headers and query values are masked.
func LogHTTPRequest(req *http.Request) {
	if !DebugEnabled() || req == nil {
		return
	}

	target := sanitizeURL(req.URL)
	if target == "" {
		target = "<unknown>"
	}
	Get().V(1).Info("http request", "method", req.Method, "url", target, "headers", formatHeaders(req.Header))
}

// LogHTTPResponse logs an inbound response and a prefix of its body when
// debugging is enabled.
func LogHTTPResponse(resp *http.Response, body []byte) {
	if !DebugEnabled() || resp == nil {
		return
	}

	target := "<unknown>"
	if resp.Request != nil {
		target = sanitizeURL(resp.Request.URL)
	}
	Get().V(1).Info("http response",
		"status", resp.Status,
		"url", target,
		"headers", formatHeaders(resp.Header),
		"payload", describePayload(body),
	)
}

func formatHeaders(headers http.Header) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	var b strings.Builder
	for idx, name := range names {
		if idx > 0 {
			b.WriteString(", ")
		}
		values := make([]string, len(headers[name]))
		for i, value := range headers[name] {
			values[i] = sanitizeSensitiveValue(name, value)
		}
		b.WriteString(name)
		b.WriteString(": [")
		b.WriteString(strings.Join(values, ", "))
		b.WriteString("]")
	}
	return b.String()
}

func describePayload(body []byte) string {
	if len(body) == 0 {
		return "(empty)"
	}
	shown := body
	if len(shown) > maxLoggedPayload {
		shown = shown[:maxLoggedPayload]
	}
	if utf8.Valid(shown) {
		return fmt.Sprintf("(utf-8, %d bytes): %s", len(body), string(shown))
	}
	return fmt.Sprintf("(base64, %d bytes): %s", len(body), base64.StdEncoding.EncodeToString(shown))
}

func sanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	clone := *u
	if clone.RawQuery != "" {
		query := clone.Query()
		sanitized := false
		for key, values := range query {
			if !isSensitiveKey(key) {
				continue
			}
			sanitized = true
			for idx, value := range values {
				query[key][idx] = MaskIdentifier(value)
			}
		}
		if sanitized {
			clone.RawQuery = query.Encode()
		}
	}

	if clone.User != nil {
		if password, ok := clone.User.Password(); ok {
			clone.User = url.UserPassword(clone.User.Username(), MaskIdentifier(password))
		}
	}
	return clone.String()
}

func isSensitiveKey(name string) bool {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "api-key"),
		strings.Contains(lower, "apikey"),
		strings.Contains(lower, "authorization"),
		strings.Contains(lower, "secret"),
		strings.Contains(lower, "token"):
		return true
	default:
		return false
	}
}

func sanitizeSensitiveValue(name, value string) string {
	if value == "" || !isSensitiveKey(name) {
		return value
	}
	return MaskIdentifier(value)
}

// MaskIdentifier obscures sensitive identifiers leaving only the last four characters visible.
func MaskIdentifier(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(trimmed)-4) + trimmed[len(trimmed)-4:]
}
