package ffmpeg

import "strings"

// FFmpeg filtergraph values go through two layers of parsing, each with its
// own escaping rules. A subtitle file path embedded in
// `-vf subtitles=PATH:force_style=...` therefore needs two escape passes:
//
//  1. the filter option parser treats backslash, single quote and colon
//     as special (colon separates filter options),
//  2. the filtergraph parser treats backslash, single quote, brackets,
//     comma and semicolon as special (comma/semicolon chain filters).
//
// Quoting with single quotes would be the shell-style alternative, but
// backslash escaping is position independent and round-trips cleanly.

const filterOptionSpecials = `\':`
const filterGraphSpecials = `\'[],;`

func escapeSpecials(s, specials string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unescapeSpecials(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// EscapeFilterValue escapes an arbitrary string (path or style bundle) for
// embedding as a single filter option value inside a -vf argument. Both
// escaping layers are applied.
func EscapeFilterValue(s string) string {
	return escapeSpecials(escapeSpecials(s, filterOptionSpecials), filterGraphSpecials)
}

// ParseFilterValue reverses EscapeFilterValue. It mirrors what FFmpeg's
// filtergraph and filter option parsers do to the value, and serves as the
// reference parser for round-trip tests.
func ParseFilterValue(s string) string {
	return unescapeSpecials(unescapeSpecials(s))
}
