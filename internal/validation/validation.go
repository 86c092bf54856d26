package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ChannelPattern defines the valid channel key format: lowercase alphanumerics and underscores.
var ChannelPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// TemplateIDPattern defines the valid message template identifier format.
var TemplateIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// MaxBroadcastTarget caps the headcount of a single launch.
const MaxBroadcastTarget = 100000

// NormalizeChannel lowercases and trims a channel key so "WhatsApp " and
// "whatsapp" price the same.
func NormalizeChannel(channel string) string {
	return strings.ToLower(strings.TrimSpace(channel))
}

// ValidateChannel checks if a normalized channel key matches the allowed pattern.
func ValidateChannel(channel string) bool {
	if channel == "" || len(channel) > 32 {
		return false
	}
	return ChannelPattern.MatchString(channel)
}

// ValidateBroadcastName checks a human-readable broadcast name.
func ValidateBroadcastName(name string) (bool, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, "name is required"
	}
	if utf8.RuneCountInString(name) > 120 {
		return false, "name must be at most 120 characters"
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return false, "name must not contain control characters"
	}
	return true, ""
}

// ValidateTemplateID checks a backend message template identifier.
func ValidateTemplateID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	return TemplateIDPattern.MatchString(id)
}

// ValidateTarget checks the requested headcount of a broadcast launch.
func ValidateTarget(target int) (bool, string) {
	if target <= 0 {
		return false, "target must be positive"
	}
	if target > MaxBroadcastTarget {
		return false, "target exceeds the maximum batch size"
	}
	return true, ""
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}
