// Package markup performs targeted edits on Confluence storage format
// (XHTML-like) page bodies. Instead of whole-document regular expressions it
// scans for structured-macro elements with precise byte spans, so replacing
// one macro never disturbs its neighbours.
package markup

import (
	"fmt"
	"sort"
	"strings"
)

const (
	macroOpen  = "<ac:structured-macro"
	macroClose = "</ac:structured-macro>"
	nameAttr   = `ac:name="`
)

// Macro is one structured-macro element found in a body.
type Macro struct {
	Name string
	// Start is the byte offset of the element's opening '<'.
	Start int
	// End is the byte offset just past the element's closing tag.
	End         int
	SelfClosing bool
}

// ScanMacros enumerates every structured-macro element in body in document
// order. Nested macros are reported as well; their spans lie inside the
// parent's span.
func ScanMacros(body string) []Macro {
	var macros []Macro

	for offset := 0; ; {
		start := strings.Index(body[offset:], macroOpen)
		if start < 0 {
			break
		}
		start += offset

		m, ok := parseMacroAt(body, start)
		if !ok {
			offset = start + len(macroOpen)
			continue
		}

		macros = append(macros, m)
		// Continue inside the element so nested macros are found too.
		offset = startTagEnd(body, start)
	}

	return macros
}

// ReplaceMacros substitutes every macro named oldName with replacement and
// returns the new body plus the number of substitutions. Matching is scoped
// to complete macro elements: a macro's span runs to its own balanced
// closing tag, so repeated or nested macros of the same name cannot be
// mis-paired.
func ReplaceMacros(body, oldName, replacement string) (string, int) {
	macros := ScanMacros(body)

	var spans []Macro
	lastEnd := -1
	for _, m := range macros {
		if m.Name != oldName {
			continue
		}
		// Skip matches nested inside an already-replaced span.
		if m.Start < lastEnd {
			continue
		}
		spans = append(spans, m)
		lastEnd = m.End
	}

	if len(spans) == 0 {
		return body, 0
	}

	var b strings.Builder
	prev := 0
	for _, m := range spans {
		b.WriteString(body[prev:m.Start])
		b.WriteString(replacement)
		prev = m.End
	}
	b.WriteString(body[prev:])

	return b.String(), len(spans)
}

// MacroTag renders a structured-macro element. Parameters are serialized as
// key="value" attribute pairs in sorted key order; values must not contain
// double quotes. A non-empty body is wrapped in a rich-text-body element,
// otherwise the tag is self-closing.
func MacroTag(name string, params map[string]string, body string) string {
	var b strings.Builder
	b.WriteString(macroOpen)
	b.WriteString(` ac:name="`)
	b.WriteString(name)
	b.WriteString(`"`)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, ` %s="%s"`, k, params[k])
	}

	if body == "" {
		b.WriteString("/>")
		return b.String()
	}

	b.WriteString("><ac:rich-text-body>")
	b.WriteString(body)
	b.WriteString("</ac:rich-text-body>")
	b.WriteString(macroClose)
	return b.String()
}

// AttachmentImage renders an inline image reference to a page attachment.
// Confluence resolves the image by filename at render time.
func AttachmentImage(filename string, width int) string {
	return fmt.Sprintf(`<ac:image ac:width="%d"><ri:attachment ri:filename="%s"/></ac:image>`, width, filename)
}

// WrapPosition wraps html in a positioning container. Valid positions are
// inline (no wrapper), center, left, and right.
func WrapPosition(html, position string) (string, error) {
	switch position {
	case "", "inline":
		return html, nil
	case "center":
		return `<p style="text-align: center;">` + html + `</p>`, nil
	case "left":
		return `<div style="float: left; margin-right: 10px;">` + html + `</div>`, nil
	case "right":
		return `<div style="float: right; margin-left: 10px;">` + html + `</div>`, nil
	default:
		return "", fmt.Errorf("markup: invalid position %q (want inline, center, left, or right)", position)
	}
}

// parseMacroAt parses the macro element opening at start, returning its full
// span. Balanced open/close counting pairs each start tag with its own
// closing tag even when macros nest.
func parseMacroAt(body string, start int) (Macro, bool) {
	tagEnd := startTagEnd(body, start)
	if tagEnd < 0 {
		return Macro{}, false
	}

	m := Macro{
		Name:  attrValue(body[start:tagEnd], nameAttr),
		Start: start,
	}

	if strings.HasSuffix(strings.TrimRight(body[start:tagEnd], ">"), "/") {
		m.End = tagEnd
		m.SelfClosing = true
		return m, true
	}

	depth := 1
	pos := tagEnd
	for depth > 0 {
		nextOpen := strings.Index(body[pos:], macroOpen)
		nextClose := strings.Index(body[pos:], macroClose)
		if nextClose < 0 {
			// Unterminated element; treat the start tag alone as the span.
			m.End = tagEnd
			return m, true
		}

		if nextOpen >= 0 && nextOpen < nextClose {
			inner := pos + nextOpen
			innerEnd := startTagEnd(body, inner)
			if innerEnd < 0 {
				m.End = tagEnd
				return m, true
			}
			if !strings.HasSuffix(strings.TrimRight(body[inner:innerEnd], ">"), "/") {
				depth++
			}
			pos = innerEnd
			continue
		}

		depth--
		pos += nextClose + len(macroClose)
	}

	m.End = pos
	return m, true
}

// startTagEnd returns the offset just past the '>' terminating the start tag
// beginning at start, skipping '>' characters inside quoted attribute values.
func startTagEnd(body string, start int) int {
	inQuote := false
	for i := start; i < len(body); i++ {
		switch body[i] {
		case '"':
			inQuote = !inQuote
		case '>':
			if !inQuote {
				return i + 1
			}
		}
	}
	return -1
}

func attrValue(tag, attr string) string {
	idx := strings.Index(tag, attr)
	if idx < 0 {
		return ""
	}
	rest := tag[idx+len(attr):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}
	return rest[:end]
}
