package http

import "strings"

// BuildPath joins path segments with exactly one forward slash between
// them. Backslashes are normalized to forward slashes first. Slashes inside
// a segment are left alone, so embedded "//" survives; only the slashes at
// the join point are collapsed.
//
//	BuildPath("/a/", "/b") == "/a/b"
//	BuildPath(`a\b`)       == "a/b"
func BuildPath(segments ...string) string {
	var b strings.Builder

	for _, seg := range segments {
		seg = strings.ReplaceAll(seg, `\`, "/")

		if b.Len() > 0 {
			if !strings.HasSuffix(b.String(), "/") {
				b.WriteByte('/')
			}
			seg = strings.TrimLeft(seg, "/")
		}

		b.WriteString(seg)
	}

	return b.String()
}

// TrimQuery drops a "?..." query component from a request URI
func TrimQuery(uri string) string {
	if idx := strings.IndexByte(uri, '?'); idx != -1 {
		return uri[:idx]
	}
	return uri
}

// splitRequestLine splits on single spaces. Trailing empty tokens are
// dropped; empty tokens in the middle are kept and count toward the total.
func splitRequestLine(line string) []string {
	tokens := strings.Split(line, " ")
	for len(tokens) > 0 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}
