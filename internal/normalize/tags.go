package normalize

import (
	"regexp"
	"strings"
)

// Tag returns the trimmed value of the first <tag> element in SGML/XML
// markup. The closing-tag form <TAG>value</TAG> is tried first, then the
// SGML form where the value runs to the next tag or line break.
func Tag(content, tag string) string {
	q := regexp.QuoteMeta(tag)
	closed := regexp.MustCompile(`(?i)<` + q + `>([^<]*)</` + q + `>`)
	if m := closed.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	open := regexp.MustCompile(`(?i)<` + q + `>([^<\r\n]*)`)
	if m := open.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Blocks returns the inner content of every <tag>...</tag> aggregate. When
// the markup never closes the aggregate, each block runs to the next opening
// tag of the same name.
func Blocks(content, tag string) []string {
	q := regexp.QuoteMeta(tag)
	closed := regexp.MustCompile(`(?is)<` + q + `>(.*?)</` + q + `>`)
	if ms := closed.FindAllStringSubmatch(content, -1); len(ms) > 0 {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m[1]
		}
		return out
	}

	starts := regexp.MustCompile(`(?i)<`+q+`>`).FindAllStringIndex(content, -1)
	out := make([]string, 0, len(starts))
	for i, loc := range starts {
		end := len(content)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		out = append(out, content[loc[1]:end])
	}
	return out
}

// Block returns the first aggregate named tag, or "" when there is none.
func Block(content, tag string) string {
	bs := Blocks(content, tag)
	if len(bs) == 0 {
		return ""
	}
	return bs[0]
}
