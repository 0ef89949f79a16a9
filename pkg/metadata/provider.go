// Package metadata resolves column metadata for SQL queries from a live
// MySQL database: driver-level result shape probes plus
// INFORMATION_SCHEMA lookups for what the wire protocol conflates.
package metadata

import (
	"context"
	"strings"

	"github.com/querylint/querylint/pkg/checkerr"
	"github.com/querylint/querylint/pkg/connection"
	"github.com/querylint/querylint/pkg/typemap"
)

// Provider implements the metadata side of query checking against MySQL.
type Provider struct {
	mgr    *connection.Manager
	schema string
}

// NewProvider creates a provider bound to one schema.
func NewProvider(mgr *connection.Manager, schema string) *Provider {
	return &Provider{mgr: mgr, schema: schema}
}

// ColumnMetadata executes a zero-row probe of the query and reports one
// ColumnMeta per result column, in SELECT-list order. The probe wraps the
// query as a derived table with LIMIT 0, so no user rows are ever
// fetched.
func (p *Provider) ColumnMetadata(ctx context.Context, sql string) ([]typemap.ColumnMeta, error) {
	rows, err := p.mgr.Query(ctx, probeSQL(sql))
	if err != nil {
		return nil, checkerr.NewQueryError(err)
	}
	defer func() { _ = rows.Close() }()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, checkerr.NewQueryError(err)
	}

	columns := make([]typemap.ColumnMeta, len(columnTypes))
	for i, ct := range columnTypes {
		meta := typemap.ColumnMeta{
			Name:        ct.Name(),
			StorageType: ct.DatabaseTypeName(),
		}
		if nullable, ok := ct.Nullable(); ok {
			meta.IsNullableFlag = nullable
		}
		columns[i] = meta
	}
	if err := rows.Err(); err != nil {
		return nil, checkerr.NewQueryError(err)
	}
	return columns, nil
}

// EnumValues returns the ordered member list of an ENUM column, or an
// empty list when the column is not an enum or not found. Implements
// typemap.EnumLookup.
func (p *Provider) EnumValues(ctx context.Context, table, column string) ([]string, error) {
	dataType, columnType, _, err := p.columnCatalog(ctx, table, column)
	if err != nil {
		return nil, checkerr.NewEnumLookupError(table, column, err)
	}
	if !strings.EqualFold(dataType, "enum") {
		return nil, nil
	}
	return ParseEnumColumnType(columnType), nil
}

// Charset returns the character set of a column, empty when the column
// has none (numeric columns) or is not found. Binary columns report the
// "binary" character set, which is what disambiguates BLOB from TEXT.
func (p *Provider) Charset(ctx context.Context, table, column string) (string, error) {
	_, _, charset, err := p.columnCatalog(ctx, table, column)
	if err != nil {
		return "", checkerr.NewQueryError(err)
	}
	return charset, nil
}

// SchemaVersion returns a token that changes whenever any column
// definition in the schema changes. Results cached under a version stay
// valid for as long as the version holds.
func (p *Provider) SchemaVersion(ctx context.Context) (string, error) {
	var count int64
	var checksum int64
	err := p.mgr.QueryRow(ctx, schemaVersionQuery, p.schema).Scan(&count, &checksum)
	if err != nil {
		return "", checkerr.NewQueryError(err)
	}
	return formatVersion(count, checksum), nil
}

const columnCatalogQuery = `SELECT DATA_TYPE, COLUMN_TYPE, IFNULL(CHARACTER_SET_NAME, '')
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND COLUMN_NAME = ?`

const schemaVersionQuery = `SELECT COUNT(*), IFNULL(SUM(CRC32(CONCAT(TABLE_NAME, '.', COLUMN_NAME, ':', COLUMN_TYPE))), 0)
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = ?`

// columnCatalog reads one column's catalog row. A missing row is not an
// error: all three results come back empty.
func (p *Provider) columnCatalog(ctx context.Context, table, column string) (dataType, columnType, charset string, err error) {
	rows, err := p.mgr.Query(ctx, columnCatalogQuery, p.schema, table, column)
	if err != nil {
		return "", "", "", err
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		if err := rows.Scan(&dataType, &columnType, &charset); err != nil {
			return "", "", "", err
		}
	}
	return dataType, columnType, charset, rows.Err()
}
