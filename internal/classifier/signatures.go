package classifier

import (
	"regexp"

	"github.com/microsoc/command-centre/internal/models"
)

// Signature tables. Each table is matched against a different surface of the
// request: sensitive-path patterns against the path, injection patterns
// against the flattened payload, bot patterns against the user agent.

var sensitivePathPatterns = compile(
	`(?i)\.env\b`,
	`(?i)/admin\b`,
	`(?i)/\.git\b`,
	`(?i)/config\b`,
	`(?i)/wp-admin\b`,
	`(?i)/phpmyadmin\b`,
	`(?i)/etc/passwd`,
	`(?i)\.(bak|sql|sqlite|db)$`,
)

var sqlInjectionPatterns = compile(
	`(?i)'\s*or\s*'[^']*'\s*=\s*'`,
	`(?i)\bor\b\s+['"]?\d+['"]?\s*=\s*['"]?\d+`,
	`(?i)\bunion\s+(all\s+)?select\b`,
	`(?i)\b(select\s+.*\s+from|insert\s+into|delete\s+from|drop\s+(table|database))\b`,
	`(?i);\s*--`,
	`--\s*$`,
	`(?i);\s*(drop|alter|truncate|exec|execute)\b`,
	`(?i)\b(sleep|benchmark|pg_sleep)\s*\(`,
)

var xssPatterns = compile(
	`(?i)<\s*script`,
	`(?i)\bonerror\s*=`,
	`(?i)\bonload\s*=`,
	`(?i)javascript\s*:`,
	`(?i)document\s*\.\s*cookie`,
)

var botAgentPatterns = compile(
	`(?i)\bcurl\b`,
	`(?i)python-requests`,
	`(?i)\bwget\b`,
	`(?i)\bbot\b`,
	`(?i)\bcrawler\b`,
	`(?i)\bscrapy\b`,
	`(?i)go-http-client`,
)

var loginPathPattern = regexp.MustCompile(`(?i)/(login|signin|sign-in|auth|session|token)s?\b`)

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	if s == "" {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// matchesAnyFragment applies the table to each payload fragment separately,
// so end-anchored patterns see the end of the fragment they belong to rather
// than the end of the whole payload.
func matchesAnyFragment(patterns []*regexp.Regexp, fragments []string) bool {
	for _, f := range fragments {
		if matchesAny(patterns, f) {
			return true
		}
	}
	return false
}

// suggestions carries the fixed remediation advice attached to each verdict.
var suggestions = map[string]string{
	models.AttackRepeatOffender: "Keep the address blocked and review its prior activity before lifting the ban.",
	models.AttackSensitivePath:  "Restrict access to sensitive paths behind authentication and network ACLs.",
	models.AttackSQLInjection:   "Use parameterized queries and reject unescaped quote/comment sequences at the edge.",
	models.AttackXSS:            "Escape user-supplied HTML on output and enable a Content-Security-Policy header.",
	models.AttackBruteForce:     "Enforce progressive login delays and require MFA for repeated failures.",
	models.AttackDoSFlood:       "Enable upstream rate limiting and consider null-routing the source network.",
	models.AttackDirectoryScan:  "Return uniform 404 responses and rate-limit unauthenticated path discovery.",
	models.AttackAutomatedBot:   "Verify the integration is expected; otherwise challenge the client or restrict the endpoint.",
	models.AttackThreatIntel:    "Keep the address blocked; it is listed as malicious by threat intelligence.",
}

// Suggestion returns the remediation text for an attack type, empty for
// normal traffic.
func Suggestion(attackType string) string {
	return suggestions[attackType]
}
