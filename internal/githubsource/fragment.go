package githubsource

import (
	"regexp"
	"strings"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	disallowedCharPattern = regexp.MustCompile(`[^a-z0-9 -]`)
	repeatedHyphenPattern = regexp.MustCompile(`-{2,}`)
)

// SanitizeHeaderToFragment converts a markdown header line (e.g.
// "### T1: Push Towards Validation") into the GitHub-compatible anchor
// fragment a link to that heading would use ("t1-push-towards-validation").
//
// Mirrors GitHub's own heading-to-fragment algorithm: strip the leading
// '#'s, resolve markdown links and inline code to their plain text, drop
// everything but letters, digits, spaces, and hyphens, lowercase, and
// collapse runs of whitespace into single hyphens.
func SanitizeHeaderToFragment(header string) (string, error) {
	line := strings.TrimLeft(strings.TrimSpace(header), "#")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", newError(URLParsing, "empty header")
	}

	line = markdownLinkPattern.ReplaceAllString(line, "$1")
	line = strings.ReplaceAll(line, "`", "")
	line = strings.ToLower(line)
	line = disallowedCharPattern.ReplaceAllString(line, "")
	line = strings.ReplaceAll(line, " ", "-")
	line = repeatedHyphenPattern.ReplaceAllString(line, "-")
	line = strings.Trim(line, "-")

	if line == "" {
		return "", newError(URLParsing, "header sanitized to an empty fragment: "+header)
	}
	return line, nil
}
