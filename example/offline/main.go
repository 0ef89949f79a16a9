// Demonstrates the annotation pipeline without a database: build a
// registry by hand, render it, diff it against a stale annotation and
// apply the planned fix.
package main

import (
	"fmt"

	"github.com/querylint/querylint/pkg/autofix"
	"github.com/querylint/querylint/pkg/config"
	"github.com/querylint/querylint/pkg/diff"
	"github.com/querylint/querylint/pkg/render"
	"github.com/querylint/querylint/pkg/typemap"
)

func main() {
	expected := typemap.NewRegistry()
	expected.Put(typemap.Entry{
		Name:       "id",
		Table:      "users",
		Descriptor: typemap.TypeDescriptor{Base: typemap.BaseNumber, NullToken: typemap.TokenNull},
	})
	expected.Put(typemap.Entry{
		Name:  "status",
		Table: "users",
		Descriptor: typemap.TypeDescriptor{
			Base:       typemap.BaseEnum,
			EnumValues: []string{"pending", "active", "inactive"},
			NullToken:  typemap.TokenNull,
		},
	})

	format := render.Format{Shape: render.ShapeWrapped, Marker: config.DefaultMarker, Array: true}
	fmt.Println("inferred:", render.Render(expected, format))

	declared := `(RowDataPacket & { id: string; status: "pending" | "active" | "inactive" })[]`
	actual := render.Parse(declared)

	discrepancies := diff.Compare(expected, actual)
	for _, d := range discrepancies {
		fmt.Println("finding:", d.Message())
	}

	planner := autofix.NewPlanner(format, config.DefaultMarkerImport)
	ann := autofix.Annotation{Present: true, Start: 0, End: len(declared)}
	for _, edit := range planner.Plan(discrepancies, expected, actual, ann, declared) {
		fixed := declared[:edit.Start] + edit.Text + declared[edit.End:]
		fmt.Println("fixed:", fixed)
	}
}
