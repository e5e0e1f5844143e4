package cosmolog

import "strings"

// Render substitutes {name} placeholders in format with the text form of
// matching payload values. Placeholder names match payload keys exactly and
// case-sensitively; keys may contain dots and dashes. Render is total:
// placeholders naming absent keys survive as literal text, unreferenced
// payload keys are ignored, and stray or unbalanced braces pass through
// verbatim. The renderer sits on the consuming end of untrusted streams and
// must keep producing output no matter what the producer wrote.
func Render(format string, payload *Payload) string {
	if format == "" {
		return ""
	}
	if strings.IndexByte(format, '{') < 0 {
		return format
	}

	var b strings.Builder
	b.Grow(len(format) + 16)
	rest := format
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:open])
		rest = rest[open:]

		// the placeholder ends at the next brace of either kind
		next := strings.IndexAny(rest[1:], "{}")
		if next < 0 {
			b.WriteString(rest)
			break
		}
		next++
		if rest[next] == '{' {
			// a second '{' before any '}': the first cannot open a
			// placeholder, emit it literally and rescan from the inner one
			b.WriteString(rest[:next])
			rest = rest[next:]
			continue
		}

		name := rest[1:next]
		if v, ok := payload.Get(name); ok {
			b.WriteString(v.Text())
		} else {
			b.WriteString(rest[:next+1])
		}
		rest = rest[next+1:]
	}
	return b.String()
}
