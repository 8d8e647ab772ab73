// Package ofx turns OFX/QFX exports (SGML or XML flavoured) into normalized statements.
package ofx

import (
	"regexp"
	"strings"
)

var (
	// entityPattern matches an ampersand together with the entity it starts, if any.
	entityPattern = regexp.MustCompile(`&(#?[A-Za-z0-9]+;)?`)
	// singleLinePattern detects a whole document squeezed onto one line.
	singleLinePattern = regexp.MustCompile(`(?i)^<OFX>.*</OFX>\s*$`)
	ofxMarkerPattern  = regexp.MustCompile(`(?i)<OFX>`)
)

// openTag is one entry of the repair stack: the line a tag was opened on, and its name.
type openTag struct {
	line int
	name string
}

// tagRepairer closes the tags SGML leaves implicitly open. It rewrites earlier lines in place,
// so it owns the output buffer as well as the stack.
type tagRepairer struct {
	lines []string
	stack []openTag
}

func newTagRepairer(lines []string) *tagRepairer {
	return &tagRepairer{lines: lines, stack: make([]openTag, 0, 16)}
}

// repair fixes lines[idx] and returns the corrected text. The line is expected to be trimmed
// and to carry at most one open/close pair plus text.
func (r *tagRepairer) repair(idx int) string {
	line := r.lines[idx]
	tag, ok := firstTag(line)
	if !ok || tag.selfClosing {
		return line
	}

	if tag.closing {
		if !r.onStack(tag.name) {
			// Dangling close tag: nothing to close, and keeping it would break the markup.
			return ""
		}
		for len(r.stack) > 0 {
			top := r.pop()
			if strings.EqualFold(top.name, tag.name) {
				if top.name != tag.name {
					line = strings.Replace(line, "</"+tag.name, "</"+top.name, 1)
				}
				break
			}
			r.lines[top.line] = closeInline(r.lines[top.line], top.name)
		}
		return line
	}

	if closed, ok := matchInlineClose(line, tag); ok {
		return closed
	}
	r.stack = append(r.stack, openTag{line: idx, name: tag.name})
	return line
}

// finish closes whatever is still open at the end of the document. Tags carrying text are
// closed on their own line; bare aggregates get a close tag appended, innermost first.
func (r *tagRepairer) finish() []string {
	var tail []string
	for len(r.stack) > 0 {
		top := r.pop()
		if tagContent(r.lines[top.line]) != "" {
			r.lines[top.line] = closeInline(r.lines[top.line], top.name)
			continue
		}
		tail = append(tail, "</"+top.name+">")
	}
	return append(r.lines, tail...)
}

func (r *tagRepairer) pop() openTag {
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return top
}

func (r *tagRepairer) onStack(name string) bool {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if strings.EqualFold(r.stack[i].name, name) {
			return true
		}
	}
	return false
}

type tagInfo struct {
	name        string
	closing     bool
	selfClosing bool
	end         int // index just past '>'
}

// firstTag extracts the first tag on the line. Processing instructions, declarations and
// comments are not tags for this purpose.
func firstTag(line string) (tagInfo, bool) {
	start := strings.Index(line, "<")
	if start < 0 {
		return tagInfo{}, false
	}
	end := strings.Index(line[start:], ">")
	if end < 0 {
		return tagInfo{}, false
	}
	inner := line[start+1 : start+end]
	if inner == "" || inner[0] == '?' || inner[0] == '!' {
		return tagInfo{}, false
	}
	info := tagInfo{end: start + end + 1}
	if inner[0] == '/' {
		info.closing = true
		inner = inner[1:]
	}
	if strings.HasSuffix(inner, "/") {
		info.selfClosing = true
		inner = strings.TrimSuffix(inner, "/")
	}
	if f := strings.Fields(inner); len(f) > 0 {
		info.name = f[0]
	}
	return info, info.name != ""
}

// matchInlineClose reports whether the open tag is closed later on the same line, and returns
// the line with that close tag spelled in the opener's case.
func matchInlineClose(line string, tag tagInfo) (string, bool) {
	closePattern := regexp.MustCompile(`(?i)</` + regexp.QuoteMeta(tag.name) + `>`)
	loc := closePattern.FindStringIndex(line[tag.end:])
	if loc == nil {
		return line, false
	}
	start, end := tag.end+loc[0], tag.end+loc[1]
	return line[:start] + "</" + tag.name + ">" + line[end:], true
}

func tagContent(line string) string {
	i := strings.Index(line, ">")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(line[i+1:])
}

// closeInline turns "<tag>content" into "<tag>content</tag>", or "<tag/>" when there is no
// content.
func closeInline(line, name string) string {
	if tagContent(line) == "" {
		return "<" + name + "/>"
	}
	return line + "</" + name + ">"
}

// escapeAmpersands replaces every & that does not start an entity reference with &amp;.
func escapeAmpersands(s string) string {
	return entityPattern.ReplaceAllStringFunc(s, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
}

// ConvertSGML rewrites an SGML OFX body (starting at <OFX>) into well-formed markup. It never
// fails: whatever cannot be repaired is left for the XML parser to report.
func ConvertSGML(sgml string) string {
	sgml = escapeAmpersands(strings.ReplaceAll(sgml, "\r\n", "\n"))
	lines := strings.Split(sgml, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	r := newTagRepairer(lines)
	for i := range lines {
		lines[i] = r.repair(i)
	}
	return strings.Join(r.finish(), "\n")
}

// isolateBody returns the document from the first <OFX> marker on, with single-line documents
// expanded to one tag per line.
func isolateBody(doc string) (string, bool) {
	loc := ofxMarkerPattern.FindStringIndex(doc)
	if loc == nil {
		return "", false
	}
	body := strings.TrimSpace(doc[loc[0]:])
	if singleLinePattern.MatchString(body) {
		body = strings.ReplaceAll(body, "<", "\n<")
	}
	return body, true
}
