package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/querylint/querylint/pkg/render"
	"github.com/querylint/querylint/pkg/typemap"
)

func registryOf(t *testing.T, annotation string) *typemap.Registry {
	t.Helper()
	r := render.Parse(annotation)
	if r == nil {
		t.Fatalf("failed to parse fixture annotation %q", annotation)
	}
	return r
}

func kinds(discrepancies []Discrepancy) []string {
	out := make([]string, len(discrepancies))
	for i, d := range discrepancies {
		out[i] = d.Kind.String() + ":" + d.Name
	}
	return out
}

func TestCompare_IdenticalRegistriesAreClean(t *testing.T) {
	expected := registryOf(t, "{ id: number; name: string; email: string | null }")
	actual := registryOf(t, "{ id: number; name: string; email: string | null }")

	if got := Compare(expected, actual); len(got) != 0 {
		t.Errorf("expected no discrepancies, got %v", kinds(got))
	}
}

func TestCompare_TypeMismatch(t *testing.T) {
	expected := registryOf(t, "{ id: number; name: string }")
	actual := registryOf(t, "{ id: string; name: string }")

	got := Compare(expected, actual)
	if len(got) != 1 {
		t.Fatalf("expected exactly one discrepancy, got %v", kinds(got))
	}
	want := Discrepancy{
		Kind:               KindTypeMismatch,
		Name:               "id",
		Expected:           "number",
		Actual:             "string",
		ExpectedDescriptor: typemap.TypeDescriptor{Base: typemap.BaseNumber, NullToken: typemap.TokenNull},
		ActualDescriptor:   typemap.TypeDescriptor{Base: typemap.BaseString, NullToken: typemap.TokenNull},
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("discrepancy mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_MissingColumn(t *testing.T) {
	expected := registryOf(t, "{ id: number; name: string; email: string | null }")
	actual := registryOf(t, "{ id: number; name: string }")

	got := Compare(expected, actual)
	if len(got) != 1 {
		t.Fatalf("expected exactly one discrepancy, got %v", kinds(got))
	}
	if got[0].Kind != KindMissingColumn || got[0].Name != "email" {
		t.Errorf("expected missing-column:email, got %s:%s", got[0].Kind, got[0].Name)
	}
	if got[0].Expected != "string | null" {
		t.Errorf("expected rendered type, got %q", got[0].Expected)
	}
}

func TestCompare_ExtraColumn(t *testing.T) {
	expected := registryOf(t, "{ id: number; name: string }")
	actual := registryOf(t, "{ id: number; name: string; extra: string }")

	got := Compare(expected, actual)
	if len(got) != 1 {
		t.Fatalf("expected exactly one discrepancy, got %v", kinds(got))
	}
	if got[0].Kind != KindExtraColumn || got[0].Name != "extra" {
		t.Errorf("expected extra-column:extra, got %s:%s", got[0].Kind, got[0].Name)
	}
}

func TestCompare_FixedOutputOrder(t *testing.T) {
	expected := registryOf(t, "{ a: number; b: string; c: Date }")
	actual := registryOf(t, "{ b: number; d: string; e: string }")

	got := Compare(expected, actual)
	want := []string{
		"missing-column:a",
		"missing-column:c",
		"extra-column:d",
		"extra-column:e",
		"type-mismatch:b",
	}
	if diff := cmp.Diff(want, kinds(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_NullabilityIsExact(t *testing.T) {
	expected := registryOf(t, "{ email: string | null }")
	actual := registryOf(t, "{ email: string }")

	got := Compare(expected, actual)
	if len(got) != 1 || got[0].Kind != KindTypeMismatch {
		t.Fatalf("expected one type mismatch, got %v", kinds(got))
	}

	// And in the other direction too: no coercion.
	got = Compare(registryOf(t, "{ email: string }"), registryOf(t, "{ email: string | null }"))
	if len(got) != 1 || got[0].Kind != KindTypeMismatch {
		t.Errorf("expected one type mismatch, got %v", kinds(got))
	}
}

func TestCompare_UndefinedTokenIsMismatch(t *testing.T) {
	expected := registryOf(t, "{ email: string | null }")
	actual := registryOf(t, "{ email: string | undefined }")

	got := Compare(expected, actual)
	if len(got) != 1 || got[0].Kind != KindTypeMismatch {
		t.Fatalf("expected the undefined token to be a mismatch, got %v", kinds(got))
	}
	if got[0].Actual != "string | undefined" {
		t.Errorf("message must show the declared token, got %q", got[0].Actual)
	}
	if got[0].Expected != "string | null" {
		t.Errorf("expected side must be canonical, got %q", got[0].Expected)
	}
}

func TestCompare_EnumValueSetsCompareAsSets(t *testing.T) {
	expected := registryOf(t, `{ status: "active" | "pending" }`)

	// Reordered members are equal.
	actual := registryOf(t, `{ status: "pending" | "active" }`)
	if got := Compare(expected, actual); len(got) != 0 {
		t.Errorf("reordered enum members must match, got %v", kinds(got))
	}

	// A differing member is not.
	actual = registryOf(t, `{ status: "pending" | "done" }`)
	if got := Compare(expected, actual); len(got) != 1 || got[0].Kind != KindTypeMismatch {
		t.Errorf("differing enum members must mismatch, got %v", kinds(got))
	}

	// A subset is not, either.
	actual = registryOf(t, `{ status: "pending" }`)
	if got := Compare(expected, actual); len(got) != 1 {
		t.Errorf("enum subset must mismatch, got %v", kinds(got))
	}
}

func TestDiscrepancy_Messages(t *testing.T) {
	testCases := []struct {
		name string
		d    Discrepancy
		want string
	}{
		{
			name: "missing",
			d:    Discrepancy{Kind: KindMissingColumn, Name: "email", Expected: "string | null"},
			want: `column "email" is missing from the type annotation (query returns string | null)`,
		},
		{
			name: "extra",
			d:    Discrepancy{Kind: KindExtraColumn, Name: "legacy"},
			want: `column "legacy" is declared but not returned by the query`,
		},
		{
			name: "mismatch",
			d:    Discrepancy{Kind: KindTypeMismatch, Name: "id", Expected: "number", Actual: "string"},
			want: `column "id" has type string but the query returns number`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.d.Message()); diff != "" {
				t.Errorf("message mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
