package autofix

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/querylint/querylint/pkg/diff"
	"github.com/querylint/querylint/pkg/render"
	"github.com/querylint/querylint/pkg/typemap"
)

var wrappedArray = render.Format{
	Shape:  render.ShapeWrapped,
	Marker: "RowDataPacket",
	Array:  true,
}

const markerImport = `import type { RowDataPacket } from "mysql2";`

func parseFixture(t *testing.T, annotation string) *typemap.Registry {
	t.Helper()
	r := render.Parse(annotation)
	if r == nil {
		t.Fatalf("failed to parse fixture annotation %q", annotation)
	}
	return r
}

// applyEdit applies a single edit to the source text, most tests' way of
// simulating one pass of the external fix loop.
func applyEdit(source string, edit TextEdit) string {
	return source[:edit.Start] + edit.Text + source[edit.End:]
}

func TestPlan_FullAnnotationSynthesis(t *testing.T) {
	expected := parseFixture(t, `{ id: number; status: "pending" | "active" }`)

	source := `import mysql from "mysql2/promise";` + "\n\n" +
		`const rows = await conn.query(sql);` + "\n"
	insertAt := len(source) - len(`(sql);`) - 1

	planner := NewPlanner(wrappedArray, markerImport)
	edits := planner.Plan(nil, expected, nil, Annotation{Start: insertAt}, source)

	if len(edits) != 2 {
		t.Fatalf("expected annotation + import edits, got %d", len(edits))
	}
	wantText := `(RowDataPacket & { id: number; status: "pending" | "active" })[]`
	if edits[0].Text != wantText {
		t.Errorf("annotation text mismatch:\nwant %s\ngot  %s", wantText, edits[0].Text)
	}
	if edits[0].Start != insertAt || edits[0].End != insertAt {
		t.Errorf("annotation edit must be a pure insertion at %d, got [%d,%d]", insertAt, edits[0].Start, edits[0].End)
	}

	// Import lands after the last existing import line.
	wantOffset := len(`import mysql from "mysql2/promise";`) + 1
	if edits[1].Start != wantOffset || edits[1].Text != markerImport+"\n" {
		t.Errorf("import edit mismatch: %+v", edits[1])
	}
}

func TestPlan_ImportAtTopWhenNoImportsExist(t *testing.T) {
	expected := parseFixture(t, `{ id: number }`)
	source := "const rows = await conn.query(sql);\n"

	planner := NewPlanner(wrappedArray, markerImport)
	edits := planner.Plan(nil, expected, nil, Annotation{Start: 0}, source)

	if len(edits) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(edits))
	}
	if edits[1].Start != 0 || edits[1].End != 0 {
		t.Errorf("import must insert at file top, got [%d,%d]", edits[1].Start, edits[1].End)
	}
}

func TestPlan_NoImportWhenMarkerAlreadyReferenced(t *testing.T) {
	expected := parseFixture(t, `{ id: number }`)
	source := `import type { RowDataPacket } from "mysql2";` + "\nconst rows = await conn.query(sql);\n"

	planner := NewPlanner(wrappedArray, markerImport)
	edits := planner.Plan(nil, expected, nil, Annotation{Start: 0}, source)

	if len(edits) != 1 {
		t.Fatalf("expected only the annotation edit, got %d", len(edits))
	}
}

func TestPlan_TypeMismatchReplacesSpan(t *testing.T) {
	expected := parseFixture(t, `{ id: number; name: string }`)
	actualText := `(RowDataPacket & { id: string; name: string })[]`
	actual := parseFixture(t, actualText)

	prefix := "const rows = await conn.query<"
	source := prefix + actualText + ">(sql);\n"
	ann := Annotation{Present: true, Start: len(prefix), End: len(prefix) + len(actualText)}

	planner := NewPlanner(wrappedArray, markerImport)
	edits := planner.Plan(diff.Compare(expected, actual), expected, actual, ann, source)

	if len(edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(edits))
	}
	fixed := applyEdit(source, edits[0])
	want := prefix + `(RowDataPacket & { id: number; name: string })[]` + ">(sql);\n"
	if diff := cmp.Diff(want, fixed); diff != "" {
		t.Errorf("fixed source mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan_MissingColumnAppends(t *testing.T) {
	expected := parseFixture(t, `{ id: number; email: string | null }`)
	actual := parseFixture(t, `{ id: number }`)
	ann := Annotation{Present: true, Start: 0, End: 15}

	planner := NewPlanner(render.Format{Shape: render.ShapeObject}, "")
	edits := planner.Plan(diff.Compare(expected, actual), expected, actual, ann, "{ id: number }>")

	if len(edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(edits))
	}
	want := `{ id: number; email: string | null }`
	if edits[0].Text != want {
		t.Errorf("corrected annotation mismatch:\nwant %s\ngot  %s", want, edits[0].Text)
	}
}

func TestPlan_ExtraColumnRemoved(t *testing.T) {
	expected := parseFixture(t, `{ id: number }`)
	actual := parseFixture(t, `{ id: number; legacy: string }`)
	ann := Annotation{Present: true, Start: 0, End: 30}

	planner := NewPlanner(render.Format{Shape: render.ShapeObject}, "")
	edits := planner.Plan(diff.Compare(expected, actual), expected, actual, ann, "")

	if len(edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(edits))
	}
	if edits[0].Text != `{ id: number }` {
		t.Errorf("corrected annotation mismatch, got %s", edits[0].Text)
	}
}

// TestPlan_ConvergenceOverMultiplePasses exercises the documented
// multi-pass contract: two simultaneous discrepancies, one edit applied
// per pass, annotation correct after two passes.
func TestPlan_ConvergenceOverMultiplePasses(t *testing.T) {
	expected := parseFixture(t, `{ id: number; email: string | null }`)
	format := render.Format{Shape: render.ShapeObject}
	planner := NewPlanner(format, "")

	annotation := `{ id: number; legacy: string }`
	passes := 0
	for ; passes < 10; passes++ {
		actual := render.Parse(annotation)
		discrepancies := diff.Compare(expected, actual)
		if len(discrepancies) == 0 {
			break
		}
		edits := planner.Plan(discrepancies, expected, actual,
			Annotation{Present: true, Start: 0, End: len(annotation)}, annotation)
		if len(edits) != len(discrepancies) {
			t.Fatalf("expected one edit per discrepancy, got %d for %d", len(edits), len(discrepancies))
		}
		// Each fix was computed against the original registry, so apply
		// only the first and re-check.
		annotation = applyEdit(annotation, edits[0])
	}

	if passes == 0 || passes > 2 {
		t.Errorf("expected convergence within 2 passes, took %d", passes)
	}
	final := render.Parse(annotation)
	if !expected.EquivalentTo(final) {
		t.Errorf("did not converge to the expected shape: %s", annotation)
	}
}

// Each fix must be computed against the original actual registry, not a
// sibling-updated one.
func TestPlan_FixesAreIndependent(t *testing.T) {
	expected := parseFixture(t, `{ a: number; b: number }`)
	actual := parseFixture(t, `{ c: string }`)
	format := render.Format{Shape: render.ShapeObject}
	planner := NewPlanner(format, "")

	edits := planner.Plan(diff.Compare(expected, actual), expected, actual,
		Annotation{Present: true, Start: 0, End: 1}, "")

	// missing a, missing b, extra c: three independent corrections, each
	// touching exactly one entry of the original.
	wantTexts := []string{
		`{ c: string; a: number }`,
		`{ c: string; b: number }`,
		`{}`,
	}
	var gotTexts []string
	for _, e := range edits {
		gotTexts = append(gotTexts, e.Text)
	}
	if diff := cmp.Diff(wantTexts, gotTexts); diff != "" {
		t.Errorf("independent fixes mismatch (-want +got):\n%s", diff)
	}
}
