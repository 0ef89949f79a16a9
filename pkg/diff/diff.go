// Package diff compares an expected type registry against a declared one
// and classifies every difference.
package diff

import (
	"fmt"

	"github.com/querylint/querylint/pkg/render"
	"github.com/querylint/querylint/pkg/typemap"
)

// Kind classifies one discrepancy between registries.
type Kind int

// Discrepancy kinds.
const (
	// KindMissingColumn: the declared annotation lacks a property the
	// query produces.
	KindMissingColumn Kind = iota
	// KindExtraColumn: the declared annotation has a property the query
	// does not produce.
	KindExtraColumn
	// KindTypeMismatch: both sides declare the property with differing
	// base type, nullability or null token.
	KindTypeMismatch
)

// String returns the diagnostic label for the kind.
func (k Kind) String() string {
	switch k {
	case KindMissingColumn:
		return "missing-column"
	case KindExtraColumn:
		return "extra-column"
	case KindTypeMismatch:
		return "type-mismatch"
	}
	return "unknown"
}

// Discrepancy is one classified difference between the expected and the
// declared result shape. Expected and Actual carry rendered type text for
// diagnostics; the descriptors ride along for the autofix planner.
type Discrepancy struct {
	Kind     Kind
	Name     string
	Expected string
	Actual   string

	ExpectedDescriptor typemap.TypeDescriptor
	ActualDescriptor   typemap.TypeDescriptor
}

// Message renders the human-readable diagnostic for the discrepancy.
func (d Discrepancy) Message() string {
	switch d.Kind {
	case KindMissingColumn:
		return fmt.Sprintf("column %q is missing from the type annotation (query returns %s)", d.Name, d.Expected)
	case KindExtraColumn:
		return fmt.Sprintf("column %q is declared but not returned by the query", d.Name)
	default:
		return fmt.Sprintf("column %q has type %s but the query returns %s", d.Name, d.Actual, d.Expected)
	}
}

// Compare diffs the declared (actual) registry against the freshly
// inferred (expected) one. Output order is fixed for reproducible
// diagnostics and for the planner's staged convergence: every missing
// column in expected order, every extra column in actual order, then every
// mismatching shared column in expected order.
func Compare(expected, actual *typemap.Registry) []Discrepancy {
	var discrepancies []Discrepancy

	for _, e := range expected.Entries() {
		if _, ok := actual.Get(e.Name); !ok {
			discrepancies = append(discrepancies, Discrepancy{
				Kind:               KindMissingColumn,
				Name:               e.Name,
				Expected:           render.RenderDescriptor(e.Descriptor),
				ExpectedDescriptor: e.Descriptor,
			})
		}
	}

	for _, a := range actual.Entries() {
		if _, ok := expected.Get(a.Name); !ok {
			discrepancies = append(discrepancies, Discrepancy{
				Kind:             KindExtraColumn,
				Name:             a.Name,
				Actual:           render.RenderDescriptor(a.Descriptor),
				ActualDescriptor: a.Descriptor,
			})
		}
	}

	for _, e := range expected.Entries() {
		a, ok := actual.Get(e.Name)
		if !ok {
			continue
		}
		if !descriptorsMatch(e.Descriptor, a.Descriptor) {
			discrepancies = append(discrepancies, Discrepancy{
				Kind:               KindTypeMismatch,
				Name:               e.Name,
				Expected:           render.RenderDescriptor(e.Descriptor),
				Actual:             renderDeclared(a.Descriptor),
				ExpectedDescriptor: e.Descriptor,
				ActualDescriptor:   a.Descriptor,
			})
		}
	}

	return discrepancies
}

// descriptorsMatch applies the equality rule: exact nullability, no
// coercion; a nullable member declared with the undefined token is a
// mismatch even though nullability alone agrees, because the client
// protocol's absent-value representation is always null; enum descriptors
// match on equal value sets.
func descriptorsMatch(expected, actual typemap.TypeDescriptor) bool {
	if expected.Nullable != actual.Nullable {
		return false
	}
	if expected.Nullable && actual.NullToken == typemap.TokenUndefined {
		return false
	}
	if expected.Base != actual.Base {
		return false
	}
	if expected.IsEnum() {
		return expected.EnumSetEqual(actual)
	}
	return true
}

// renderDeclared renders the declared side of a mismatch, preserving the
// undefined token the annotation actually used so the message shows what
// the source says.
func renderDeclared(desc typemap.TypeDescriptor) string {
	text := render.RenderDescriptor(typemap.TypeDescriptor{
		Base:       desc.Base,
		EnumValues: desc.EnumValues,
	})
	if desc.Nullable {
		if desc.NullToken == typemap.TokenUndefined {
			return text + " | undefined"
		}
		return text + " | null"
	}
	return text
}
