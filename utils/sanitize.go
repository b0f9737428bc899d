package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// SanitizeStrict strips all HTML from user input, for plain-text fields
// like usernames and NFT names.
func SanitizeStrict(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

// SanitizeUGC keeps a safe subset of HTML, for rich fields like bios.
func SanitizeUGC(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}
