// Package snippet formats extracted document content for inclusion in a
// prompt bundle.
package snippet

import "strings"

// Format renders one document as a named, fenced block. Content is trimmed
// of surrounding whitespace; instructions, when present, follow the fence.
func Format(fileName, content, instructions string) string {
	var b strings.Builder
	b.WriteString("File: ")
	b.WriteString(fileName)
	b.WriteString("\n\n```\n")
	b.WriteString(strings.TrimSpace(content))
	b.WriteString("\n```\n\n")
	if instructions != "" {
		b.WriteString("Instructions: ")
		b.WriteString(instructions)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Bundle concatenates snippets for the given documents in order. Documents
// and contents are parallel slices; instructions apply once at the end of
// the bundle rather than per document.
func Bundle(names, contents []string, instructions string) string {
	var b strings.Builder
	for i, name := range names {
		if i >= len(contents) {
			break
		}
		b.WriteString(Format(name, contents[i], ""))
	}
	if instructions != "" {
		b.WriteString("Instructions: ")
		b.WriteString(instructions)
		b.WriteString("\n")
	}
	return b.String()
}
