package categorizer

import (
	"regexp"
	"strings"
)

// Extraction patterns are independent of the category decision. Each field
// tries its alternatives in order and keeps the first capture that passes the
// length sanity check.
var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)to\s+([A-Za-z\s]+?)\s+\d+`),
	regexp.MustCompile(`(?i)payment\s+to\s+([A-Za-z\s]+)`),
	regexp.MustCompile(`(?i)([A-Za-z\s]+)\s+\d{5,}`),
}

var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)TxId:\s*(\d+)`),
	regexp.MustCompile(`(?i)Transaction\s+Id:\s*(\d+)`),
	regexp.MustCompile(`(?i)Reference:\s*(\w+)`),
	regexp.MustCompile(`(?i)Ref:\s*(\w+)`),
}

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)at\s+([A-Za-z\s]+?)\s+\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`(?i)from\s+([A-Za-z\s]+?)\s+\d{4}-\d{2}-\d{2}`),
}

func extractMerchant(body string) string {
	for _, pattern := range merchantPatterns {
		if m := pattern.FindStringSubmatch(body); m != nil {
			name := strings.TrimSpace(m[1])
			if len(name) > 2 && len(name) < 50 {
				return name
			}
		}
	}
	return ""
}

func extractReference(body string) string {
	for _, pattern := range referencePatterns {
		if m := pattern.FindStringSubmatch(body); m != nil {
			return m[1]
		}
	}
	return ""
}

func extractLocation(body string) string {
	for _, pattern := range locationPatterns {
		if m := pattern.FindStringSubmatch(body); m != nil {
			location := strings.TrimSpace(m[1])
			if len(location) > 2 && len(location) < 30 {
				return location
			}
		}
	}
	return ""
}
