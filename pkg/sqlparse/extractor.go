// Package sqlparse inspects SELECT statements to enrich column metadata
// with information only the SQL text can provide: aliases, aggregate
// origin, and null-coalescing wrappers.
package sqlparse

import (
	"fmt"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"

	"github.com/querylint/querylint/pkg/typemap"
)

// Column describes one output column of a SELECT list as seen by the
// parser, before any database metadata is attached.
type Column struct {
	Name            string
	Alias           string
	Table           string
	IsAggregate     bool
	AggregateKind   typemap.AggregateKind
	HasNullCoalesce bool
}

// aggregateKinds maps aggregate function names to their kind. Anything in
// this map forces nullable results over empty groupings, except COUNT.
var aggregateKinds = map[string]typemap.AggregateKind{
	"COUNT":          typemap.AggregateCount,
	"SUM":            typemap.AggregateSum,
	"AVG":            typemap.AggregateAvg,
	"MIN":            typemap.AggregateMin,
	"MAX":            typemap.AggregateMax,
	"GROUP_CONCAT":   typemap.AggregateOther,
	"STD":            typemap.AggregateOther,
	"STDDEV":         typemap.AggregateOther,
	"STDDEV_POP":     typemap.AggregateOther,
	"STDDEV_SAMP":    typemap.AggregateOther,
	"VARIANCE":       typemap.AggregateOther,
	"VAR_POP":        typemap.AggregateOther,
	"VAR_SAMP":       typemap.AggregateOther,
	"BIT_AND":        typemap.AggregateOther,
	"BIT_OR":         typemap.AggregateOther,
	"BIT_XOR":        typemap.AggregateOther,
	"JSON_ARRAYAGG":  typemap.AggregateOther,
	"JSON_OBJECTAGG": typemap.AggregateOther,
}

// coalescingFunctions guarantee a non-null fallback value.
var coalescingFunctions = map[string]bool{
	"COALESCE": true,
	"IFNULL":   true,
	"NVL":      true,
}

// Extractor parses SELECT statements into per-column shape information.
type Extractor struct{}

// NewExtractor creates a new column extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Columns parses the SQL and reports one entry per SELECT-list column in
// order. It fails on statements it cannot see through (parse errors,
// star expansions, non-SELECT statements); callers degrade to defaults in
// that case rather than failing the whole check.
func (e *Extractor) Columns(sql string) ([]Column, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("parse select: %w", err)
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, fmt.Errorf("not a select statement")
	}

	tables := tableScope(sel.From)

	columns := make([]Column, 0, len(sel.SelectExprs))
	for _, expr := range sel.SelectExprs {
		aliased, ok := expr.(*sqlparser.AliasedExpr)
		if !ok {
			// Star expansion: the column list is only known to the
			// database, not to the parser.
			return nil, fmt.Errorf("select list contains a star expression")
		}
		columns = append(columns, e.column(aliased, tables))
	}
	return columns, nil
}

// column derives the shape of a single SELECT-list expression.
func (e *Extractor) column(aliased *sqlparser.AliasedExpr, tables scope) Column {
	col := Column{Alias: aliased.As.String()}

	switch expr := aliased.Expr.(type) {
	case *sqlparser.ColName:
		col.Name = expr.Name.String()
		col.Table = tables.resolve(expr.Qualifier.Name.String())
	case *sqlparser.FuncExpr:
		funcName := strings.ToUpper(expr.Name.String())
		col.Name = sqlparser.String(aliased.Expr)
		if kind, ok := aggregateKinds[funcName]; ok {
			col.IsAggregate = true
			col.AggregateKind = kind
		}
		if coalescingFunctions[funcName] {
			col.HasNullCoalesce = true
			// The wrapped column reference still names a table, which
			// keeps the enum probe possible for COALESCE(status, ...).
			if _, table, ok := innerColumn(expr, tables); ok {
				col.Table = table
			}
		}
	default:
		col.Name = sqlparser.String(aliased.Expr)
	}

	return col
}

// innerColumn finds the first plain column reference inside a function's
// arguments.
func innerColumn(fn *sqlparser.FuncExpr, tables scope) (name, table string, ok bool) {
	for _, arg := range fn.Exprs {
		aliased, isAliased := arg.(*sqlparser.AliasedExpr)
		if !isAliased {
			continue
		}
		if colName, isCol := aliased.Expr.(*sqlparser.ColName); isCol {
			return colName.Name.String(), tables.resolve(colName.Qualifier.Name.String()), true
		}
	}
	return "", "", false
}

// scope maps table aliases to physical table names for one statement.
type scope struct {
	byAlias map[string]string
	// only holds the single physical table when the FROM clause has
	// exactly one, letting unqualified columns resolve to it.
	only string
}

// resolve maps a (possibly empty) qualifier to a physical table name.
func (s scope) resolve(qualifier string) string {
	if qualifier == "" {
		return s.only
	}
	if table, ok := s.byAlias[qualifier]; ok {
		return table
	}
	return qualifier
}

// tableScope collects the physical tables and aliases of a FROM clause,
// walking through joins and parenthesized groups.
func tableScope(from sqlparser.TableExprs) scope {
	s := scope{byAlias: make(map[string]string)}
	var names []string

	var walk func(expr sqlparser.TableExpr)
	walk = func(expr sqlparser.TableExpr) {
		switch node := expr.(type) {
		case *sqlparser.AliasedTableExpr:
			table, ok := node.Expr.(sqlparser.TableName)
			if !ok {
				return // subquery in FROM: no physical table to resolve
			}
			name := table.Name.String()
			names = append(names, name)
			if alias := node.As.String(); alias != "" {
				s.byAlias[alias] = name
			}
		case *sqlparser.JoinTableExpr:
			walk(node.LeftExpr)
			walk(node.RightExpr)
		case *sqlparser.ParenTableExpr:
			for _, inner := range node.Exprs {
				walk(inner)
			}
		}
	}
	for _, expr := range from {
		walk(expr)
	}

	if len(names) == 1 {
		s.only = names[0]
	}
	return s
}
