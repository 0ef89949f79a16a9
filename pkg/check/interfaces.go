package check

import (
	"context"

	"github.com/querylint/querylint/pkg/sqlparse"
	"github.com/querylint/querylint/pkg/typemap"
)

// MetadataProvider supplies column metadata from the database. It also
// satisfies typemap.EnumLookup so the normalizer can probe ENUM columns.
type MetadataProvider interface {
	// ColumnMetadata reports one ColumnMeta per result column of the
	// query, in SELECT-list order, without fetching user rows.
	ColumnMetadata(ctx context.Context, sql string) ([]typemap.ColumnMeta, error)
	// EnumValues returns the ordered member list of an ENUM column, empty
	// when the column is not an enum.
	EnumValues(ctx context.Context, table, column string) ([]string, error)
	// Charset returns a column's character set, empty when it has none.
	Charset(ctx context.Context, table, column string) (string, error)
	// SchemaVersion returns a token that changes whenever the schema does.
	SchemaVersion(ctx context.Context) (string, error)
}

// ColumnExtractor derives per-column shape information from the SQL text
// itself: aliases, owning tables, aggregate wrappers, null coalescing.
type ColumnExtractor interface {
	Columns(sql string) ([]sqlparse.Column, error)
}
