// Package autofix computes the textual replacements that bring a call
// site's type annotation in line with the inferred result shape.
package autofix

import (
	"strings"

	"github.com/querylint/querylint/pkg/diff"
	"github.com/querylint/querylint/pkg/render"
	"github.com/querylint/querylint/pkg/typemap"
)

// TextEdit is one replacement expressed as offsets into the caller's
// source text. Start == End is a pure insertion. The planner never touches
// files itself.
type TextEdit struct {
	Start int
	End   int
	Text  string
}

// Annotation locates the type-argument text span inside the caller's
// source. When Present is false, Start is the insertion point for a fresh
// annotation and End is ignored.
type Annotation struct {
	Present bool
	Start   int
	End     int
}

// Planner computes fixes for one annotation format.
type Planner struct {
	format render.Format
	// markerImport is the full declaration inserted when the marker
	// wrapper type is not yet referenced anywhere in the source.
	markerImport string
}

// NewPlanner creates a planner for the given format. markerImport may be
// empty when the format needs no wrapper type.
func NewPlanner(format render.Format, markerImport string) *Planner {
	return &Planner{format: format, markerImport: markerImport}
}

// Plan computes one edit per discrepancy.
//
// Each fix is computed independently against the original actual registry,
// never against a sibling fix's output. With several simultaneous
// discrepancies the caller applies one edit, re-runs the whole
// check-compare-plan cycle, and repeats; every pass resolves at least the
// applied edit, so the loop is bounded by the discrepancy count. The call
// site only ever moves forward: no annotation, then annotated but
// mismatched, then correct.
func (p *Planner) Plan(discrepancies []diff.Discrepancy, expected, actual *typemap.Registry, ann Annotation, source string) []TextEdit {
	if !ann.Present || actual == nil {
		return p.planFullAnnotation(expected, ann, source)
	}

	var edits []TextEdit
	for _, d := range discrepancies {
		corrected := p.correct(d, expected, actual)
		edits = append(edits, TextEdit{
			Start: ann.Start,
			End:   ann.End,
			Text:  render.Render(corrected, p.format),
		})
	}
	return edits
}

// planFullAnnotation synthesizes the whole annotation from the inferred
// registry, plus the marker import when the wrapper type name does not
// appear anywhere in the source yet. A present-but-unparseable annotation
// is overwritten in place; an absent one is inserted at the span start.
func (p *Planner) planFullAnnotation(expected *typemap.Registry, ann Annotation, source string) []TextEdit {
	end := ann.Start
	if ann.Present {
		end = ann.End
	}
	edits := []TextEdit{{
		Start: ann.Start,
		End:   end,
		Text:  render.Render(expected, p.format),
	}}
	if p.format.Marker != "" && p.markerImport != "" && !strings.Contains(source, p.format.Marker) {
		offset := importInsertionOffset(source)
		edits = append(edits, TextEdit{
			Start: offset,
			End:   offset,
			Text:  p.markerImport + "\n",
		})
	}
	return edits
}

// correct copies the original actual registry and repairs the single
// offending entry.
func (p *Planner) correct(d diff.Discrepancy, expected, actual *typemap.Registry) *typemap.Registry {
	corrected := actual.Clone()
	switch d.Kind {
	case diff.KindMissingColumn:
		entry := typemap.Entry{Name: d.Name, Descriptor: d.ExpectedDescriptor}
		if e, ok := expected.Get(d.Name); ok {
			entry.Table = e.Table
		}
		corrected.Put(entry)
	case diff.KindExtraColumn:
		corrected.Delete(d.Name)
	case diff.KindTypeMismatch:
		entry, _ := corrected.Get(d.Name)
		entry.Descriptor = d.ExpectedDescriptor
		corrected.Put(entry)
	}
	return corrected
}

// importInsertionOffset returns the offset just after the last line that
// opens an import declaration, or the top of the file when none exists.
func importInsertionOffset(source string) int {
	offset := 0
	insertAt := 0
	for _, line := range strings.SplitAfter(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "import{") {
			insertAt = offset + len(line)
		}
		offset += len(line)
	}
	return insertAt
}
