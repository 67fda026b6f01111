package sqlite

import (
	"database/sql"
	"strings"
)

// Null conversion helpers between row structs and the catalog types.

func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullToStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullToInt64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

// nullToBool treats NULL and 0 as false.
func nullToBool(ni sql.NullInt64) bool {
	return ni.Valid && ni.Int64 != 0
}

func nullToBoolPtr(ni sql.NullInt64) *bool {
	if !ni.Valid {
		return nil
	}
	b := ni.Int64 != 0
	return &b
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// boolPtrToNull stores a nullable flag as 0/1 or NULL.
func boolPtrToNull(b *bool) sql.NullInt64 {
	if b == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(boolToInt(*b)), Valid: true}
}

// joinColumns joins column names with commas.
func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// placeholders returns n comma-separated bind markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
