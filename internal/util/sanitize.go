package util

import (
	"regexp"
	"strings"
)

var controlRE = regexp.MustCompile(`[\x00-\x1F\x7F]+`)

// SanitizeForLog removes control characters and newlines from user-supplied
// content before it reaches a log line. Attack payloads routinely contain
// both.
func SanitizeForLog(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return controlRE.ReplaceAllString(s, " ")
}
