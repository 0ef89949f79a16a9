// Package check orchestrates the full pipeline for one call site: infer
// the query's result shape from live metadata, compare it against the
// declared annotation, and plan the edits that reconcile the two.
package check

import (
	"context"
	"log"
	"strings"

	"github.com/querylint/querylint/pkg/autofix"
	"github.com/querylint/querylint/pkg/cache"
	"github.com/querylint/querylint/pkg/checkerr"
	"github.com/querylint/querylint/pkg/diff"
	"github.com/querylint/querylint/pkg/render"
	"github.com/querylint/querylint/pkg/sqlparse"
	"github.com/querylint/querylint/pkg/typemap"
)

// Request is one call site to check.
type Request struct {
	// SQL is the query text.
	SQL string
	// Format selects how the inferred shape is rendered.
	Format render.Format
	// Source is the surrounding source text, used for annotation spans
	// and marker import placement. May be empty when no fixes are wanted.
	Source string
	// Annotation locates the declared type-argument span inside Source.
	Annotation autofix.Annotation
	// AnnotationText is the declared annotation, empty when absent.
	AnnotationText string
}

// Result is the outcome of checking one call site.
type Result struct {
	// Registry is the inferred result shape. Nil when Skipped.
	Registry *typemap.Registry
	// Rendered is the inferred shape in the requested format.
	Rendered string
	// Discrepancies lists the differences against the declared
	// annotation, empty when the annotation agrees or is absent.
	Discrepancies []diff.Discrepancy
	// Fixes are the planned text edits. Apply one, re-check, repeat.
	Fixes []autofix.TextEdit
	// Skipped is set when the call site cannot be checked (non-SELECT
	// statement, unreachable database, rejected probe). SkipReason says why.
	Skipped    bool
	SkipReason string
}

// Checker runs the inference and comparison pipeline.
type Checker struct {
	provider   MetadataProvider
	extractor  ColumnExtractor
	builder    *typemap.Builder
	registries *cache.ResultCache[*typemap.Registry]
	// markerImport is the declaration inserted when a synthesized
	// annotation references a marker the source does not import yet.
	markerImport string
	logger       *log.Logger
}

// NewChecker creates a checker over the given metadata provider.
// markerImport may be empty when no import insertion is wanted.
func NewChecker(provider MetadataProvider, markerImport string, cacheSize int) (*Checker, error) {
	registries, err := cache.New[*typemap.Registry](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Checker{
		provider:     provider,
		extractor:    sqlparse.NewExtractor(),
		builder:      typemap.NewBuilder(typemap.NewNormalizer(provider)),
		registries:   registries,
		markerImport: markerImport,
		logger:       log.Default(),
	}, nil
}

// Check runs the full pipeline for one call site.
//
// Infrastructure failures (unreachable database, rejected probe) degrade
// to a skipped result rather than an error: a linting pass over many call
// sites must not abort on the first broken one. Only non-recoverable
// failures, such as an unusable request, surface as errors.
func (c *Checker) Check(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.SQL) == "" {
		return nil, checkerr.NewInvalidParameterError("sql", "empty query")
	}
	if !sqlparse.IsSelect(req.SQL) {
		return &Result{
			Skipped:    true,
			SkipReason: "statement is not a SELECT query",
		}, nil
	}

	expected, err := c.inferRegistry(ctx, req.SQL)
	if err != nil {
		ce := checkerr.FromError(err)
		if ce.Recoverable() {
			c.logger.Printf("skipping check: %v", ce)
			return &Result{Skipped: true, SkipReason: ce.Error()}, nil
		}
		return nil, ce
	}

	result := &Result{
		Registry: expected,
		Rendered: render.Render(expected, req.Format),
	}

	var actual *typemap.Registry
	if req.Annotation.Present {
		actual = render.Parse(req.AnnotationText)
	}
	if actual != nil {
		result.Discrepancies = diff.Compare(expected, actual)
		if len(result.Discrepancies) == 0 {
			return result, nil
		}
	}

	planner := autofix.NewPlanner(req.Format, c.markerImport)
	result.Fixes = planner.Plan(result.Discrepancies, expected, actual, req.Annotation, req.Source)
	return result, nil
}

// InvalidateCache drops all cached registries. Callers use this after an
// out-of-band schema migration.
func (c *Checker) InvalidateCache() {
	c.registries.Clear()
}

// inferRegistry computes the expected result shape for a query, serving
// repeated queries from the cache for as long as the schema version holds.
func (c *Checker) inferRegistry(ctx context.Context, sql string) (*typemap.Registry, error) {
	key := ""
	if version, err := c.provider.SchemaVersion(ctx); err == nil {
		key = cache.Key(version, sql)
		if registry, ok := c.registries.Get(key); ok {
			return registry.Clone(), nil
		}
	} else {
		c.logger.Printf("schema version unavailable, bypassing cache: %v", err)
	}

	columns, err := c.provider.ColumnMetadata(ctx, sql)
	if err != nil {
		return nil, err
	}
	c.enrich(ctx, sql, columns)

	registry := c.builder.Build(ctx, columns)
	if key != "" {
		c.registries.Put(key, registry.Clone())
	}
	return registry, nil
}

// enrich overlays extractor-derived shape information onto the driver
// metadata. Extraction failure is not fatal: the driver metadata alone
// still yields correct base types, just without table attribution,
// aggregate nullability overrides or enum probing.
func (c *Checker) enrich(ctx context.Context, sql string, columns []typemap.ColumnMeta) {
	parsed, err := c.extractor.Columns(sql)
	if err != nil {
		c.logger.Printf("column extraction degraded to driver metadata: %v", err)
	} else if len(parsed) == len(columns) {
		for i := range columns {
			// The driver reports the output label; the extractor recovers
			// the physical column name behind it, which the catalog
			// lookups need.
			columns[i].AliasName = columns[i].Name
			if parsed[i].Name != "" {
				columns[i].Name = parsed[i].Name
			}
			columns[i].Table = parsed[i].Table
			columns[i].IsAggregate = parsed[i].IsAggregate
			columns[i].AggregateKind = parsed[i].AggregateKind
			columns[i].HasNullCoalesce = parsed[i].HasNullCoalesce
		}
	}

	for i := range columns {
		if !isBlobStorage(columns[i].StorageType) || columns[i].Table == "" {
			continue
		}
		charset, err := c.provider.Charset(ctx, columns[i].Table, columns[i].Name)
		if err != nil {
			c.logger.Printf("charset lookup degraded for %s.%s: %v", columns[i].Table, columns[i].Name, err)
			continue
		}
		columns[i].Charset = charset
	}
}

// isBlobStorage reports whether the driver storage type is one of the
// large-object codes that need a charset lookup to split TEXT from BLOB.
func isBlobStorage(storage string) bool {
	switch strings.ToUpper(storage) {
	case "TINYBLOB", "BLOB", "MEDIUMBLOB", "LONGBLOB":
		return true
	}
	return false
}
