package metadata

import (
	"fmt"
	"strings"
)

// probeSQL wraps a query as a zero-row derived table. The wrapper keeps
// the original result shape (names, types, nullability) while guaranteeing
// the server never materializes user rows.
func probeSQL(query string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(query), "; \t\r\n")
	return "SELECT * FROM (" + trimmed + ") AS `querylint_probe` LIMIT 0"
}

// ParseEnumColumnType extracts the member literals from an
// INFORMATION_SCHEMA COLUMN_TYPE value such as enum('a','b','c').
// MySQL escapes embedded quotes by doubling them. Returns nil when the
// value is not an enum definition.
func ParseEnumColumnType(columnType string) []string {
	trimmed := strings.TrimSpace(columnType)
	open := strings.IndexByte(trimmed, '(')
	end := strings.LastIndexByte(trimmed, ')')
	if open < 0 || end < open || !strings.EqualFold(trimmed[:open], "enum") {
		return nil
	}

	var values []string
	body := trimmed[open+1 : end]
	for i := 0; i < len(body); {
		if body[i] != '\'' {
			i++
			continue
		}
		i++
		var b strings.Builder
		for i < len(body) {
			if body[i] == '\'' {
				if i+1 < len(body) && body[i+1] == '\'' {
					b.WriteByte('\'')
					i += 2
					continue
				}
				i++
				break
			}
			b.WriteByte(body[i])
			i++
		}
		values = append(values, b.String())
	}
	return values
}

// formatVersion renders the schema version token.
func formatVersion(count, checksum int64) string {
	return fmt.Sprintf("%d-%d", count, checksum)
}
