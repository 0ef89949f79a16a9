package typemap

import (
	"context"
	"strings"
)

// EnumLookup resolves the permitted member list of an ENUM column.
// An empty result means the column is not an enum (or was not found);
// errors are treated as "no enum information available".
type EnumLookup interface {
	EnumValues(ctx context.Context, table, column string) ([]string, error)
}

// Normalizer converts raw column metadata into semantic type descriptors.
type Normalizer struct {
	storageMapping map[string]BaseType
	enums          EnumLookup
}

// NewNormalizer creates a normalizer with the default MySQL storage-type
// mappings. The enum lookup may be nil, in which case the ENUM-vs-CHAR
// probe is skipped and CHAR columns stay strings.
func NewNormalizer(enums EnumLookup) *Normalizer {
	// BIGINT and DECIMAL map to string on purpose: both exceed (or risk
	// exceeding) double-precision safe-integer range, so the client keeps
	// them as precision-preserving strings.
	return &Normalizer{
		enums: enums,
		storageMapping: map[string]BaseType{
			"TINYINT":    BaseNumber,
			"SMALLINT":   BaseNumber,
			"MEDIUMINT":  BaseNumber,
			"INT":        BaseNumber,
			"INTEGER":    BaseNumber,
			"YEAR":       BaseNumber,
			"FLOAT":      BaseNumber,
			"DOUBLE":     BaseNumber,
			"BIGINT":     BaseString,
			"DECIMAL":    BaseString,
			"NEWDECIMAL": BaseString,
			"NUMERIC":    BaseString,
			"VARCHAR":    BaseString,
			"VAR_STRING": BaseString,
			"CHAR":       BaseString,
			"TINYTEXT":   BaseString,
			"TEXT":       BaseString,
			"MEDIUMTEXT": BaseString,
			"LONGTEXT":   BaseString,
			"TIME":       BaseString,
			"DATE":       BaseDate,
			"DATETIME":   BaseDate,
			"TIMESTAMP":  BaseDate,
			"TINYBLOB":   BaseBuffer,
			"BLOB":       BaseBuffer,
			"MEDIUMBLOB": BaseBuffer,
			"LONGBLOB":   BaseBuffer,
			"BINARY":     BaseBuffer,
			"VARBINARY":  BaseBuffer,
			"JSON":       BaseUnknown,
			"ENUM":       BaseEnum,
		},
	}
}

// mapStorageType maps an engine type name to a base type.
// Unrecognized types map to unknown; inference never aborts on them.
func (n *Normalizer) mapStorageType(storageType string) BaseType {
	if base, ok := n.storageMapping[strings.ToUpper(storageType)]; ok {
		return base
	}
	return BaseUnknown
}

// Normalize converts one column's raw metadata into a type descriptor.
//
// Two systemic ambiguities of the MySQL wire protocol are resolved here:
//   - BLOB vs TEXT: long text and binary columns report the same BLOB type
//     code; the column character set decides (binary charset means bytes).
//   - ENUM vs CHAR: prepared-statement metadata reports ENUM columns with
//     the generic CHAR/VAR_STRING code; when a table+column reference is
//     available the enum lookup decides.
func (n *Normalizer) Normalize(ctx context.Context, col ColumnMeta) TypeDescriptor {
	storage := strings.ToUpper(col.StorageType)
	base := n.mapStorageType(storage)

	desc := TypeDescriptor{
		Base:      base,
		NullToken: TokenNull,
	}

	if base == BaseBuffer && isGenericBlob(storage) && col.Charset != "" && col.Charset != "binary" {
		// Reported as BLOB but backed by a text character set: it is a
		// TEXT-family column at the wire level.
		desc.Base = BaseString
	}

	switch {
	case base == BaseEnum:
		desc.EnumValues = col.EnumValues
	case charMightBeEnum(storage) && col.Table != "" && col.Name != "":
		if values := n.probeEnum(ctx, col.Table, col.Name); len(values) > 0 {
			desc.Base = BaseEnum
			desc.EnumValues = values
		}
	}

	desc.Nullable = n.nullability(col)

	return desc
}

// nullability applies the override precedence on top of the engine flag:
// a null-coalescing wrapper guarantees a fallback value, and any aggregate
// other than COUNT returns NULL over an empty grouping.
func (n *Normalizer) nullability(col ColumnMeta) bool {
	if col.HasNullCoalesce {
		return false
	}
	if col.IsAggregate && col.AggregateKind != AggregateCount {
		return true
	}
	return col.IsNullableFlag
}

// probeEnum asks the lookup capability for the member list. Failures
// degrade to "not an enum": partial information beats no information for
// a linting use case.
func (n *Normalizer) probeEnum(ctx context.Context, table, column string) []string {
	if n.enums == nil {
		return nil
	}
	values, err := n.enums.EnumValues(ctx, table, column)
	if err != nil {
		return nil
	}
	return values
}

// isGenericBlob reports whether the storage type is the generic
// large-object code that conflates TEXT and BLOB columns.
func isGenericBlob(storage string) bool {
	switch storage {
	case "TINYBLOB", "BLOB", "MEDIUMBLOB", "LONGBLOB":
		return true
	}
	return false
}

// charMightBeEnum reports whether the storage type is one of the generic
// character codes the wire protocol uses for ENUM columns.
func charMightBeEnum(storage string) bool {
	switch storage {
	case "CHAR", "STRING":
		return true
	}
	return false
}
