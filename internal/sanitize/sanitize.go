// Package sanitize strips markup from user-supplied text before it is stored.
//
// It is a denylist filter built on regular expressions, not an HTML parser.
// It does not defend against nested encodings (entities, percent-encoding)
// or parser differentials between this filter and a browser. Output must
// still be escaped when rendered.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	scriptBlock  = regexp.MustCompile(`(?i)<script[\s\S]*?>[\s\S]*?</script>`)
	imageTag     = regexp.MustCompile(`(?i)<img[\s\S]*?>`)
	eventHandler = regexp.MustCompile(`(?i)on\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	jsScheme     = regexp.MustCompile(`(?i)javascript:\s*[^\s"'>]*`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
)

// String cleans s. The steps run in a fixed order: script blocks, image
// tags, inline event handlers, javascript: URIs, remaining tags, then
// surrounding whitespace.
func String(s string) string {
	s = scriptBlock.ReplaceAllString(s, "")
	s = imageTag.ReplaceAllString(s, "")
	s = eventHandler.ReplaceAllString(s, "")
	s = jsScheme.ReplaceAllString(s, "")
	s = anyTag.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Value cleans v when it is a string (or *string) and returns anything else unchanged.
func Value(v interface{}) interface{} {
	switch s := v.(type) {
	case string:
		return String(s)
	case *string:
		if s == nil {
			return s
		}
		cleaned := String(*s)
		return &cleaned
	default:
		return v
	}
}
