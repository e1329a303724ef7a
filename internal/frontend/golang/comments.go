package golang

import (
	"strings"

	"reflectdoc/internal/frontend"
)

// DocComment returns the cleaned text of the comment block directly above a
// declaration. Specs inside a grouped declaration use their own comment and
// fall back to the group's comment when they are the only spec.
func DocComment(n frontend.Node) string {
	if n == nil {
		return ""
	}
	if doc := precedingComment(n); doc != "" {
		return doc
	}
	parent := n.Parent()
	if parent == nil {
		return ""
	}
	switch parent.Kind() {
	case "const_declaration", "var_declaration", "type_declaration":
	default:
		return ""
	}
	specs := 0
	for _, child := range parent.NamedChildren() {
		if child.Kind() != "comment" {
			specs++
		}
	}
	if specs != 1 {
		return ""
	}
	return precedingComment(parent)
}

func precedingComment(n frontend.Node) string {
	var lines []string
	current := n
	for {
		prev := current.PrevSibling()
		if prev == nil || prev.Kind() != "comment" {
			break
		}
		if current.Span().Line-EndLine(prev) > 1 {
			break
		}
		lines = append([]string{prev.Text()}, lines...)
		current = prev
	}
	return cleanDocComment(strings.Join(lines, "\n"))
}

func cleanDocComment(raw string) string {
	if raw == "" {
		return ""
	}
	var cleaned []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "//")
		l = strings.TrimPrefix(l, "/*")
		l = strings.TrimSuffix(l, "*/")
		l = strings.TrimPrefix(strings.TrimSpace(l), "*")
		cleaned = append(cleaned, strings.TrimSpace(l))
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
