package content

import (
	"regexp"
	"strings"
)

// fmRegexp is the regular expression used to split out front matter.
var fmRegexp = regexp.MustCompile(`(?m)^\s*\+\+\+\s*$`)

// extractFrontMatter splits the front matter and Markdown content.
// ok is false unless the input starts with a "+++" line and has a second one.
func extractFrontMatter(x []byte) (fm, r []byte, ok bool) {
	subs := fmRegexp.Split(string(x), 3)
	if len(subs) != 3 {
		return nil, nil, false
	}
	if s := strings.TrimSpace(subs[0]); len(s) > 0 {
		return nil, nil, false
	}
	return []byte(strings.TrimSpace(subs[1])), []byte(strings.TrimSpace(subs[2])), true
}
