// Package render serializes type registries into textual type annotations
// and parses previously rendered annotations back.
package render

import (
	"regexp"
	"strings"

	"github.com/querylint/querylint/pkg/typemap"
)

// Shape selects the overall layout of a rendered annotation.
type Shape int

// Supported annotation shapes.
const (
	// ShapeObject renders a flat object literal: { id: number; name: string }.
	ShapeObject Shape = iota
	// ShapeWrapped intersects the flat object with a marker type required
	// by the client library's generic contract: (Marker & { ... }).
	ShapeWrapped
	// ShapeNested groups columns by their owning table:
	// (Marker & { u: { id: number }; p: { title: string } }).
	ShapeNested
	// ShapeTuple renders positional element types for row-as-array
	// results: [number, string].
	ShapeTuple
)

// Format describes how a registry is rendered.
type Format struct {
	Shape Shape
	// Marker is the wrapper type name intersected with the object for
	// ShapeWrapped and ShapeNested. Ignored by the other shapes.
	Marker string
	// Array appends the array suffix for array-of-rows result shapes.
	Array bool
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Render serializes a registry into the selected textual format.
// Canonical output always uses the null token for nullable members,
// regardless of the token any source descriptor carried.
func Render(registry *typemap.Registry, format Format) string {
	var body string
	switch format.Shape {
	case ShapeTuple:
		body = renderTuple(registry)
	case ShapeNested:
		body = wrapMarker(renderNested(registry), format.Marker)
	case ShapeWrapped:
		body = wrapMarker(renderObject(registry.Entries()), format.Marker)
	default:
		body = renderObject(registry.Entries())
	}
	if format.Array {
		body += "[]"
	}
	return body
}

// RenderDescriptor serializes one descriptor: enum members as a union of
// double-quoted literals, any other base type as its literal name, with
// the null alternative appended for nullable descriptors.
func RenderDescriptor(desc typemap.TypeDescriptor) string {
	var text string
	if desc.IsEnum() {
		parts := make([]string, len(desc.EnumValues))
		for i, v := range desc.EnumValues {
			parts[i] = quote(v)
		}
		text = strings.Join(parts, " | ")
	} else {
		text = string(desc.Base)
	}
	if desc.Nullable {
		text += " | null"
	}
	return text
}

func renderObject(entries []typemap.Entry) string {
	if len(entries) == 0 {
		return "{}"
	}
	members := make([]string, len(entries))
	for i, e := range entries {
		members[i] = propertyName(e.Name) + ": " + RenderDescriptor(e.Descriptor)
	}
	return "{ " + strings.Join(members, "; ") + " }"
}

// renderNested groups entries by owning table in first-encounter order.
// Entries without a table tag fall back to a table.column-shaped property
// name; anything else lands in the top-level object untouched.
func renderNested(registry *typemap.Registry) string {
	type group struct {
		table   string
		entries []typemap.Entry
	}
	var groups []group
	index := make(map[string]int)
	var flat []typemap.Entry

	for _, e := range registry.Entries() {
		table, column := e.Table, e.Name
		if table == "" {
			if dot := strings.Index(e.Name, "."); dot > 0 {
				table, column = e.Name[:dot], e.Name[dot+1:]
			}
		} else if dot := strings.Index(e.Name, "."); dot > 0 && e.Name[:dot] == table {
			column = e.Name[dot+1:]
		}
		if table == "" {
			flat = append(flat, e)
			continue
		}
		i, ok := index[table]
		if !ok {
			i = len(groups)
			index[table] = i
			groups = append(groups, group{table: table})
		}
		entry := e
		entry.Name = column
		groups[i].entries = append(groups[i].entries, entry)
	}

	var members []string
	for _, g := range groups {
		members = append(members, propertyName(g.table)+": "+renderObject(g.entries))
	}
	for _, e := range flat {
		members = append(members, propertyName(e.Name)+": "+RenderDescriptor(e.Descriptor))
	}
	if len(members) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(members, "; ") + " }"
}

// renderTuple emits positional element types in registry order,
// ignoring property names entirely.
func renderTuple(registry *typemap.Registry) string {
	entries := registry.Entries()
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = RenderDescriptor(e.Descriptor)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func wrapMarker(object, marker string) string {
	if marker == "" {
		return object
	}
	return "(" + marker + " & " + object + ")"
}

// propertyName renders a property name, double-quoting anything outside
// the simple identifier grammar.
func propertyName(name string) string {
	if identifierPattern.MatchString(name) {
		return name
	}
	return quote(name)
}

// quote double-quotes a literal, escaping backslash first, then the quote.
func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
