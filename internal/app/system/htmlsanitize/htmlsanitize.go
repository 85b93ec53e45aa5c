// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize strips unsafe HTML from user-supplied content, keeping the
// basic formatting tags the portal's editors produce (paragraphs,
// emphasis, lists, safe links).
func Sanitize(html string) string {
	return policy.Sanitize(html)
}
