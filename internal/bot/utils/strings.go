package utils

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"
)

var mentionReplacer = strings.NewReplacer("<", "", "@", "", "!", "", ">", "")

// TruncateString truncates a string to at most maxLength characters, cutting on a rune boundary.
func TruncateString(s string, maxLength int) string {
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}

	runes := []rune(s)

	return string(runes[:max(maxLength-3, 0)]) + "..."
}

// ParseUserID accepts a raw ID or a user mention such as <@123> or <@!123>.
func ParseUserID(s string) (snowflake.ID, bool) {
	raw := mentionReplacer.Replace(s)
	if raw == "" {
		return 0, false
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return snowflake.ID(id), true
}
