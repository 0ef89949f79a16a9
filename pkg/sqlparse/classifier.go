package sqlparse

import "strings"

// StatementType represents the category of a SQL statement.
type StatementType int

// Statement types.
const (
	StatementTypeQuery       StatementType = iota // SELECT, SHOW, DESCRIBE, EXPLAIN
	StatementTypeDML                              // INSERT, UPDATE, DELETE, REPLACE
	StatementTypeDDL                              // CREATE, DROP, ALTER, TRUNCATE
	StatementTypeTransaction                      // BEGIN, COMMIT, ROLLBACK
	StatementTypeOther                            // unknown or unsupported
)

// Classify categorizes a SQL statement by its leading keyword. Only
// StatementTypeQuery statements have a checkable result shape; everything
// else is skipped by the checker without touching the database.
func Classify(sql string) StatementType {
	upperSQL := strings.ToUpper(strings.TrimSpace(sql))

	switch {
	case hasAnyPrefix(upperSQL, "SELECT", "SHOW", "DESCRIBE", "DESC ", "EXPLAIN"):
		return StatementTypeQuery
	case hasAnyPrefix(upperSQL, "INSERT", "UPDATE", "DELETE", "REPLACE"):
		return StatementTypeDML
	case hasAnyPrefix(upperSQL, "CREATE", "DROP", "ALTER", "TRUNCATE"):
		return StatementTypeDDL
	case hasAnyPrefix(upperSQL, "BEGIN", "START TRANSACTION", "COMMIT", "ROLLBACK"):
		return StatementTypeTransaction
	}
	return StatementTypeOther
}

// IsSelect reports whether the statement is a plain SELECT, the only
// statement family whose result rows this tool types.
func IsSelect(sql string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sql)), "SELECT")
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
