package db

import "strings"

// IsUniqueViolation reports whether the error references a SQLite unique
// constraint failure. When columnName is provided, the helper checks the
// constraint text mentions that column.
func IsUniqueViolation(err error, columnName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if columnName == "" {
		return true
	}
	return strings.Contains(msg, columnName)
}
