// Package typemap provides the semantic type model for query result columns
// and the mapping from raw MySQL column metadata into it.
package typemap

// BaseType represents the semantic base type of one result column.
// This is the fixed vocabulary the renderer emits verbatim.
type BaseType string

// Base type constants
const (
	// BaseNumber covers the integer and float families that fit safely
	// into a double-precision value.
	BaseNumber BaseType = "number"

	// BaseString covers character data and the precision-preserving
	// numeric families (BIGINT, DECIMAL) that must not be narrowed.
	BaseString BaseType = "string"

	// BaseDate covers DATE, DATETIME and TIMESTAMP columns.
	BaseDate BaseType = "Date"

	// BaseBuffer covers binary column families.
	BaseBuffer BaseType = "Buffer"

	// BaseUnknown is the fallback for JSON and unrecognized storage types.
	BaseUnknown BaseType = "unknown"

	// BaseEnum is the only variant carrying auxiliary data (EnumValues).
	BaseEnum BaseType = "enum"
)

// NullToken identifies which absent-value token a declared annotation used.
type NullToken string

// Null token constants. Inference always produces TokenNull; TokenUndefined
// only ever comes back from parsing an existing annotation.
const (
	TokenNull      NullToken = "null"
	TokenUndefined NullToken = "undefined"
)

// AggregateKind identifies the aggregate function a column originates from.
type AggregateKind string

// Aggregate kinds reported by the column extractor.
const (
	AggregateCount AggregateKind = "COUNT"
	AggregateSum   AggregateKind = "SUM"
	AggregateAvg   AggregateKind = "AVG"
	AggregateMin   AggregateKind = "MIN"
	AggregateMax   AggregateKind = "MAX"
	AggregateOther AggregateKind = "OTHER"
)

// TypeDescriptor is the canonical semantic type for one output column.
//
// Invariant: EnumValues is non-empty iff Base == BaseEnum.
type TypeDescriptor struct {
	Base       BaseType
	Nullable   bool
	EnumValues []string
	// NullToken records which token a parsed annotation used for its
	// nullable part. Freshly inferred descriptors always carry TokenNull.
	NullToken NullToken
}

// IsEnum returns true if the descriptor is an enum type.
func (d TypeDescriptor) IsEnum() bool {
	return d.Base == BaseEnum
}

// EnumSetEqual compares enum value lists as sets (order-independent,
// cardinality-checked). Non-enum descriptors compare as equal-empty.
func (d TypeDescriptor) EnumSetEqual(other TypeDescriptor) bool {
	if len(d.EnumValues) != len(other.EnumValues) {
		return false
	}
	seen := make(map[string]int, len(d.EnumValues))
	for _, v := range d.EnumValues {
		seen[v]++
	}
	for _, v := range other.EnumValues {
		seen[v]--
		if seen[v] < 0 {
			return false
		}
	}
	return true
}

// ColumnMeta is the raw description of one query-result column before
// semantic mapping. It is built once per query from driver metadata,
// enriched by the SQL column extractor, and consumed by the normalizer.
type ColumnMeta struct {
	Name        string // physical column name
	AliasName   string // SELECT-list alias, empty when none
	Table       string // owning table, empty for computed/aggregate columns
	StorageType string // engine type name, e.g. "BIGINT", "VARCHAR"
	Charset     string // column character set, "binary" for binary BLOBs

	IsNullableFlag bool // from engine NOT NULL flags, already inverted

	IsAggregate     bool
	AggregateKind   AggregateKind
	HasNullCoalesce bool

	// EnumValues carries the permitted member list when the engine already
	// reported the column as ENUM. Left empty otherwise; the normalizer
	// may still fill enum values through the lookup capability.
	EnumValues []string
}

// PropertyName returns the output property name for the column:
// the alias when present, the physical name otherwise.
func (c ColumnMeta) PropertyName() string {
	if c.AliasName != "" {
		return c.AliasName
	}
	return c.Name
}
