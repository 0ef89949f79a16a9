package typemap

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeEnumLookup serves canned enum member lists keyed by "table.column".
type fakeEnumLookup struct {
	values map[string][]string
	err    error
}

func (f *fakeEnumLookup) EnumValues(_ context.Context, table, column string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.values[table+"."+column], nil
}

func TestNormalizer_StorageTypeMapping(t *testing.T) {
	n := NewNormalizer(nil)

	testCases := []struct {
		storageType string
		expected    BaseType
	}{
		{"TINYINT", BaseNumber},
		{"SMALLINT", BaseNumber},
		{"MEDIUMINT", BaseNumber},
		{"INT", BaseNumber},
		{"YEAR", BaseNumber},
		{"FLOAT", BaseNumber},
		{"DOUBLE", BaseNumber},
		{"BIGINT", BaseString},
		{"DECIMAL", BaseString},
		{"NEWDECIMAL", BaseString},
		{"VARCHAR", BaseString},
		{"CHAR", BaseString},
		{"TEXT", BaseString},
		{"LONGTEXT", BaseString},
		{"TIME", BaseString},
		{"DATE", BaseDate},
		{"DATETIME", BaseDate},
		{"TIMESTAMP", BaseDate},
		{"BINARY", BaseBuffer},
		{"VARBINARY", BaseBuffer},
		{"JSON", BaseUnknown},
		{"GEOMETRY", BaseUnknown}, // unmapped, never an error
		{"varchar", BaseString},   // case-insensitive
	}

	for _, tc := range testCases {
		t.Run(tc.storageType, func(t *testing.T) {
			desc := n.Normalize(context.Background(), ColumnMeta{
				Name:        "c",
				StorageType: tc.storageType,
			})
			if diff := cmp.Diff(tc.expected, desc.Base); diff != "" {
				t.Errorf("Normalize(%s) base mismatch (-want +got):\n%s", tc.storageType, diff)
			}
		})
	}
}

func TestNormalizer_BlobCharsetDisambiguation(t *testing.T) {
	n := NewNormalizer(nil)

	testCases := []struct {
		name     string
		col      ColumnMeta
		expected BaseType
	}{
		{
			name:     "binary charset stays buffer",
			col:      ColumnMeta{Name: "payload", StorageType: "BLOB", Charset: "binary"},
			expected: BaseBuffer,
		},
		{
			name:     "text charset becomes string",
			col:      ColumnMeta{Name: "body", StorageType: "BLOB", Charset: "utf8mb4"},
			expected: BaseString,
		},
		{
			name:     "no charset information stays buffer",
			col:      ColumnMeta{Name: "raw", StorageType: "BLOB"},
			expected: BaseBuffer,
		},
		{
			name:     "explicit VARBINARY is never reinterpreted",
			col:      ColumnMeta{Name: "hash", StorageType: "VARBINARY", Charset: "utf8mb4"},
			expected: BaseBuffer,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			desc := n.Normalize(context.Background(), tc.col)
			if desc.Base != tc.expected {
				t.Errorf("expected base %s, got %s", tc.expected, desc.Base)
			}
		})
	}
}

func TestNormalizer_EnumProbe(t *testing.T) {
	lookup := &fakeEnumLookup{values: map[string][]string{
		"users.status": {"pending", "active", "inactive"},
	}}
	n := NewNormalizer(lookup)

	desc := n.Normalize(context.Background(), ColumnMeta{
		Name:        "status",
		Table:       "users",
		StorageType: "CHAR",
	})

	want := TypeDescriptor{
		Base:       BaseEnum,
		EnumValues: []string{"pending", "active", "inactive"},
		NullToken:  TokenNull,
	}
	if diff := cmp.Diff(want, desc); diff != "" {
		t.Errorf("enum probe mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizer_EnumProbeEmptyKeepsString(t *testing.T) {
	lookup := &fakeEnumLookup{values: map[string][]string{}}
	n := NewNormalizer(lookup)

	desc := n.Normalize(context.Background(), ColumnMeta{
		Name:        "code",
		Table:       "users",
		StorageType: "CHAR",
	})
	if desc.Base != BaseString {
		t.Errorf("expected string when lookup finds no enum, got %s", desc.Base)
	}
}

func TestNormalizer_EnumProbeErrorDegrades(t *testing.T) {
	lookup := &fakeEnumLookup{err: errors.New("connection lost")}
	n := NewNormalizer(lookup)

	desc := n.Normalize(context.Background(), ColumnMeta{
		Name:        "status",
		Table:       "users",
		StorageType: "CHAR",
	})
	if desc.Base != BaseString {
		t.Errorf("expected string fallback on lookup error, got %s", desc.Base)
	}
}

func TestNormalizer_EnumProbeSkippedWithoutTable(t *testing.T) {
	lookup := &fakeEnumLookup{values: map[string][]string{
		".status": {"a", "b"},
	}}
	n := NewNormalizer(lookup)

	// Computed columns have no table reference; no probe happens.
	desc := n.Normalize(context.Background(), ColumnMeta{
		Name:        "status",
		StorageType: "CHAR",
	})
	if desc.Base != BaseString {
		t.Errorf("expected string without table reference, got %s", desc.Base)
	}
}

func TestNormalizer_ReportedEnumKeepsValues(t *testing.T) {
	n := NewNormalizer(nil)

	desc := n.Normalize(context.Background(), ColumnMeta{
		Name:        "status",
		StorageType: "ENUM",
		EnumValues:  []string{"on", "off"},
	})

	want := TypeDescriptor{
		Base:       BaseEnum,
		EnumValues: []string{"on", "off"},
		NullToken:  TokenNull,
	}
	if diff := cmp.Diff(want, desc); diff != "" {
		t.Errorf("reported enum mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizer_Nullability(t *testing.T) {
	n := NewNormalizer(nil)

	testCases := []struct {
		name     string
		col      ColumnMeta
		nullable bool
	}{
		{
			name:     "engine flag passes through",
			col:      ColumnMeta{Name: "email", StorageType: "VARCHAR", IsNullableFlag: true},
			nullable: true,
		},
		{
			name:     "not null flag passes through",
			col:      ColumnMeta{Name: "id", StorageType: "INT"},
			nullable: false,
		},
		{
			name: "SUM aggregate forces nullable",
			col: ColumnMeta{
				Name: "total", StorageType: "BIGINT",
				IsAggregate: true, AggregateKind: AggregateSum,
			},
			nullable: true,
		},
		{
			name: "COUNT never returns null",
			col: ColumnMeta{
				Name: "n", StorageType: "BIGINT",
				IsAggregate: true, AggregateKind: AggregateCount,
			},
			nullable: false,
		},
		{
			name: "MIN over nullable flag still nullable",
			col: ColumnMeta{
				Name: "oldest", StorageType: "DATETIME",
				IsAggregate: true, AggregateKind: AggregateMin,
			},
			nullable: true,
		},
		{
			name: "coalesce wins over aggregate",
			col: ColumnMeta{
				Name: "total", StorageType: "BIGINT",
				IsAggregate: true, AggregateKind: AggregateSum,
				HasNullCoalesce: true,
			},
			nullable: false,
		},
		{
			name: "coalesce wins over engine flag",
			col: ColumnMeta{
				Name: "nickname", StorageType: "VARCHAR",
				IsNullableFlag: true, HasNullCoalesce: true,
			},
			nullable: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			desc := n.Normalize(context.Background(), tc.col)
			if desc.Nullable != tc.nullable {
				t.Errorf("expected nullable=%v, got %v", tc.nullable, desc.Nullable)
			}
		})
	}
}

func TestNormalizer_FreshDescriptorsUseNullToken(t *testing.T) {
	n := NewNormalizer(nil)
	desc := n.Normalize(context.Background(), ColumnMeta{
		Name: "email", StorageType: "VARCHAR", IsNullableFlag: true,
	})
	if desc.NullToken != TokenNull {
		t.Errorf("inference must always produce the null token, got %q", desc.NullToken)
	}
}
