package validation

import (
	"net/mail"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	channelStripRe    = regexp.MustCompile(`[^a-z0-9-]`)
	channelDashRunRe  = regexp.MustCompile(`-+`)
	channelSpaceRunRe = regexp.MustCompile(`\s+`)
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

// NormalizeChannelName turns a display name into a channel slug: lowercase,
// spaces become dashes, everything but [a-z0-9-] is dropped, dash runs are
// collapsed and leading/trailing dashes trimmed.
func NormalizeChannelName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = channelSpaceRunRe.ReplaceAllString(name, "-")
	name = channelStripRe.ReplaceAllString(name, "")
	name = channelDashRunRe.ReplaceAllString(name, "-")
	return strings.Trim(name, "-")
}

// ValidateChannelName checks an already-normalized slug.
func ValidateChannelName(name string) bool {
	return len(name) >= 2 && len(name) <= 70
}

func ValidateWorkspaceName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= 2 && n <= 50
}

func ValidateMemberName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= 2 && n <= 100
}

// ValidateEmoji rejects empty and oversized reaction payloads. A single
// emoji with skin-tone modifiers stays well under 32 bytes.
func ValidateEmoji(emoji string) bool {
	emoji = strings.TrimSpace(emoji)
	return emoji != "" && len(emoji) <= 32
}

func MaxMessageLength() int {
	maxStr := os.Getenv("MAX_MESSAGE_LENGTH")
	if maxStr == "" {
		return 20000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 20000
	}
	return max
}

func TrimAndLimit(s string, max int) string {
	s = strings.TrimSpace(s)
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
