// Package types defines the request and response shapes of the check API.
package types

// CheckRequest asks the service to infer the result shape of one query
// and compare it against the call site's declared annotation.
type CheckRequest struct {
	SQL string `json:"sql"`
	// Shape selects the annotation layout: object, wrapped, nested or
	// tuple. Empty means the server default.
	Shape string `json:"shape,omitempty"`
	// Marker overrides the wrapper type name for wrapped and nested
	// shapes. Empty means the server default.
	Marker string `json:"marker,omitempty"`
	// Array appends the array suffix for array-of-rows call sites.
	Array bool `json:"array,omitempty"`
	// Source is the surrounding source text, required for fix planning.
	Source string `json:"source,omitempty"`
	// Annotation locates the declared type-argument span inside Source.
	// Absent means the call site is unannotated.
	Annotation *AnnotationSpan `json:"annotation,omitempty"`
	// AnnotationText is the declared annotation text.
	AnnotationText string `json:"annotationText,omitempty"`
}

// AnnotationSpan is a half-open [start, end) offset range in Source.
type AnnotationSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// CheckResponse is the top-level check API response.
type CheckResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Code    string            `json:"code,omitempty"`
	Data    *CheckSuccessData `json:"data,omitempty"`
}

// CheckSuccessData carries the outcome of a successful check call.
// Skipped call sites report a reason and nothing else.
type CheckSuccessData struct {
	RequestID  string `json:"requestId"`
	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skipReason,omitempty"`

	Rendered      string        `json:"rendered,omitempty"`
	Columns       []ColumnType  `json:"columns,omitempty"`
	Discrepancies []Discrepancy `json:"discrepancies,omitempty"`
	Fixes         []TextEdit    `json:"fixes,omitempty"`
}

// ColumnType is one inferred result column.
type ColumnType struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// Discrepancy is one difference between the inferred and declared shape.
type Discrepancy struct {
	Kind     string `json:"kind"`
	Column   string `json:"column"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message"`
}

// TextEdit is one planned source replacement. Start == End is an
// insertion.
type TextEdit struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}
