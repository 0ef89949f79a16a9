// Package config provides configuration constants for the query checker.
package config

// Default connection settings.
const (
	DefaultListenAddr = ":8084"
	DefaultCacheSize  = 512
)

// Default annotation rendering settings. RowDataPacket is the row marker
// the mysql2 Node driver stamps on result rows, which is what most
// annotated call sites intersect with.
const (
	DefaultMarker       = "RowDataPacket"
	DefaultMarkerImport = `import { RowDataPacket } from "mysql2";`
)

// ShapeName identifies an annotation rendering shape.
type ShapeName string

// Rendering shape names as they appear in configuration and requests.
const (
	ShapeNameObject  ShapeName = "object"
	ShapeNameWrapped ShapeName = "wrapped"
	ShapeNameNested  ShapeName = "nested"
	ShapeNameTuple   ShapeName = "tuple"
)

// DefaultShape is the shape used when a request names none.
const DefaultShape = ShapeNameWrapped

// KnownShapes returns the accepted shape names.
func KnownShapes() []ShapeName {
	return []ShapeName{ShapeNameObject, ShapeNameWrapped, ShapeNameNested, ShapeNameTuple}
}

// IsKnownShape reports whether name is an accepted shape name.
func IsKnownShape(name ShapeName) bool {
	for _, s := range KnownShapes() {
		if s == name {
			return true
		}
	}
	return false
}
