package check

import (
	"github.com/querylint/querylint/pkg/checkerr"
	"github.com/querylint/querylint/pkg/config"
	"github.com/querylint/querylint/pkg/render"
)

// FormatFor translates a configured shape name into a render format.
// An empty shape name falls back to the configured default.
func FormatFor(shape config.ShapeName, marker string, array bool) (render.Format, error) {
	if shape == "" {
		shape = config.DefaultShape
	}
	if !config.IsKnownShape(shape) {
		return render.Format{}, checkerr.NewInvalidParameterError("shape", "unknown shape "+string(shape))
	}

	format := render.Format{Marker: marker, Array: array}
	switch shape {
	case config.ShapeNameObject:
		format.Shape = render.ShapeObject
		format.Marker = ""
	case config.ShapeNameNested:
		format.Shape = render.ShapeNested
	case config.ShapeNameTuple:
		format.Shape = render.ShapeTuple
		format.Marker = ""
	default:
		format.Shape = render.ShapeWrapped
	}
	return format, nil
}
