package security

import (
	"errors"
	"strings"
)

var (
	ErrMultipleStatements = errors.New("multi-statement queries are not allowed")
	ErrNotSelect          = errors.New("only SELECT statements are allowed")
)

// ValidateStatement adheres to the Principle of Least Privilege for the
// export path. It enforces strict rules before a statement reaches a backend:
//  1. Must be a SELECT statement.
//  2. Must not contain multiple statements (semicolons).
//  3. Must not contain destructive keywords (DELETE, DROP, UPDATE, etc.).
//  4. Must not access restricted system catalogs.
func ValidateStatement(statement string) error {
	q := strings.TrimSpace(statement)
	qUpper := strings.ToUpper(q)

	// Rule 1: Must start with SELECT
	if !strings.HasPrefix(qUpper, "SELECT") {
		return ErrNotSelect
	}

	// Rule 2: No semicolons (prevent stacking)
	if strings.Contains(q, ";") {
		return ErrMultipleStatements
	}

	// Rule 3: Deny list of DML/DDL keywords and leakage vectors
	forbidden := []string{
		"DELETE", "DROP", "INSERT", "UPDATE", "ALTER", "TRUNCATE", "GRANT", "REVOKE",
		"CREATE", "REPLACE", "CALL", "DO", "HANDLER", "LOAD", "UNION",
		"USER(", "VERSION(", "DATABASE(", "LOAD_FILE(", "@@VERSION", "@@HOSTNAME",
	}

	for _, word := range forbidden {
		if containsWord(qUpper, word) {
			return errors.New("forbidden keyword detected: " + word)
		}
	}

	// Rule 4: Prevent access to system catalogs on either backend
	systemTables := []string{
		"INFORMATION_SCHEMA", "MYSQL", "PERFORMANCE_SCHEMA", "SYS",
		"PG_CATALOG", "PG_SHADOW", "PG_AUTHID",
	}
	for _, table := range systemTables {
		if containsWord(qUpper, table) {
			return errors.New("access to system table blocked: " + table)
		}
	}

	return nil
}

// containsWord checks if the word exists in s as a standalone word.
// It assumes s is already uppercase. Matching on word boundaries keeps
// common column names like "deleted_at" from tripping the "DELETE" rule.
func containsWord(s, word string) bool {
	if !strings.Contains(s, word) {
		return false
	}

	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i == -1 {
			return false
		}
		start := idx + i
		end := start + len(word)

		isStartValid := start == 0 || isBoundary(s[start-1])
		isEndValid := end == len(s) || isBoundary(s[end])

		if isStartValid && isEndValid {
			return true
		}

		idx = start + 1
	}
}

func isBoundary(b byte) bool {
	// Standard SQL delimiters
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' ||
		b == '(' || b == ')' || b == ',' || b == '=' ||
		b == '<' || b == '>' || b == '`' || b == '.' ||
		b == '"' || b == '[' || b == ']'
}
