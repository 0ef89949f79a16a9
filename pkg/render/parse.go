package render

import (
	"strings"

	"github.com/querylint/querylint/pkg/typemap"
)

// Parse recovers a registry from a previously rendered flat or wrapped
// annotation. One level of table nesting is flattened back into
// table.column property names, which mirrors what the nested renderer
// falls back to on its input side.
//
// A nil result is the "no annotation present" signal. Malformed text
// (no object literal, unbalanced braces) is deliberately treated the same
// way: the planner then regenerates the whole annotation instead of
// guessing at partial member lists.
func Parse(text string) *typemap.Registry {
	body, ok := outermostObject(text)
	if !ok {
		return nil
	}
	registry := typemap.NewRegistry()
	parseMembers(body, "", registry)
	return registry
}

// outermostObject locates the first top-level { ... } block and returns
// its inside. Double-quoted segments are opaque to the scan.
func outermostObject(text string) (string, bool) {
	start := -1
	depth := 0
	inQuote := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuote {
			if c == '\\' {
				i++
			} else if c == '"' {
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start >= 0 {
				return text[start+1 : i], true
			}
			if depth < 0 {
				return "", false
			}
		}
	}
	return "", false
}

// parseMembers splits an object body on top-level semicolons and records
// one registry entry per member. Members whose right-hand side is itself
// an object literal are flattened with a table prefix.
func parseMembers(body, tablePrefix string, registry *typemap.Registry) {
	for _, member := range splitTopLevel(body, ';') {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		name, rhs, ok := splitMember(member)
		if !ok {
			continue
		}
		rhs = strings.TrimSpace(rhs)
		if strings.HasPrefix(rhs, "{") {
			if sub, ok := outermostObject(rhs); ok {
				parseMembers(sub, name, registry)
			}
			continue
		}
		entry := typemap.Entry{
			Name:       name,
			Table:      tablePrefix,
			Descriptor: parseDescriptor(rhs),
		}
		if tablePrefix != "" {
			entry.Name = tablePrefix + "." + name
		}
		registry.Put(entry)
	}
}

// splitMember splits "name: type" on the first colon outside quotes and
// unquotes the property name when needed.
func splitMember(member string) (name, rhs string, ok bool) {
	inQuote := false
	for i := 0; i < len(member); i++ {
		c := member[i]
		if inQuote {
			if c == '\\' {
				i++
			} else if c == '"' {
				inQuote = false
			}
			continue
		}
		if c == '"' {
			inQuote = true
			continue
		}
		if c == ':' {
			name = strings.TrimSpace(member[:i])
			rhs = member[i+1:]
			if strings.HasPrefix(name, `"`) {
				literals := quotedLiterals(name)
				if len(literals) != 1 {
					return "", "", false
				}
				name = literals[0]
			}
			return name, rhs, name != ""
		}
	}
	return "", "", false
}

// parseDescriptor classifies a member's right-hand side: a trailing null
// or undefined alternative marks nullability (and records which token was
// used — the only path that ever produces the undefined token), quoted
// segments make it an enum, anything else is the base type name verbatim.
func parseDescriptor(rhs string) typemap.TypeDescriptor {
	desc := typemap.TypeDescriptor{NullToken: typemap.TokenNull}

	segments := splitTopLevel(rhs, '|')
	for i := 0; i < len(segments); i++ {
		segments[i] = strings.TrimSpace(segments[i])
	}
	if n := len(segments); n > 1 {
		switch segments[n-1] {
		case "null":
			desc.Nullable = true
			segments = segments[:n-1]
		case "undefined":
			desc.Nullable = true
			desc.NullToken = typemap.TokenUndefined
			segments = segments[:n-1]
		}
	}

	remaining := strings.Join(segments, " | ")
	if strings.Contains(remaining, `"`) {
		desc.Base = typemap.BaseEnum
		desc.EnumValues = quotedLiterals(remaining)
		return desc
	}
	desc.Base = typemap.BaseType(remaining)
	return desc
}

// quotedLiterals extracts each double-quoted literal in order, undoing
// the renderer's escaping.
func quotedLiterals(text string) []string {
	var literals []string
	var current strings.Builder
	inQuote := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !inQuote {
			if c == '"' {
				inQuote = true
				current.Reset()
			}
			continue
		}
		switch c {
		case '\\':
			if i+1 < len(text) {
				i++
				current.WriteByte(text[i])
			}
		case '"':
			inQuote = false
			literals = append(literals, current.String())
		default:
			current.WriteByte(c)
		}
	}
	return literals
}

// splitTopLevel splits text on a separator, ignoring separators nested
// inside braces, brackets, parentheses or double quotes.
func splitTopLevel(text string, sep byte) []string {
	var parts []string
	depth := 0
	inQuote := false
	last := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuote {
			if c == '\\' {
				i++
			} else if c == '"' {
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		default:
			if c == sep && depth == 0 {
				parts = append(parts, text[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, text[last:])
	return parts
}
