package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// ErrCatalogNotEmpty is returned by LoadJSONL when the target already holds rows.
var ErrCatalogNotEmpty = errors.New("catalog is not empty")

// jsonlTableMapping maps catalog tables to the columns read from their JSONL
// files. Tables with foreign keys load after the tables they reference.
var jsonlTableMapping = []struct {
	table   string
	columns []string
}{
	{"series", seriesColumns},
	{"sets", setColumns},
	{"canvas", []string{"id", "name"}},
	{"frames", []string{"id", "name"}},
	{"subclasses", []string{"id", "name"}},
	{"effects", []string{"id", "effect"}},
	{"cards", cardColumns},
	{"variants", variantColumns},
}

// LoadJSONL reads the files written by ExportJSONL from dir into an empty
// catalog. Loading is transactional: all tables load or none do. Missing
// files count as empty tables, malformed lines are skipped, and unknown
// fields are ignored.
func (s *Store) LoadJSONL(ctx context.Context, dir string) (map[string]int, error) {
	counts, err := s.Counts(ctx)
	if err != nil {
		return nil, err
	}
	for table, n := range counts {
		if n > 0 {
			return nil, fmt.Errorf("load %s: %w", table, ErrCatalogNotEmpty)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	// Foreign keys are checked at commit instead of per row.
	if _, err := tx.ExecContext(ctx, "PRAGMA defer_foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("deferring foreign keys for load: %w", err)
	}

	loaded := make(map[string]int, len(jsonlTableMapping))
	for _, mapping := range jsonlTableMapping {
		path := filepath.Join(dir, jsonlFile(mapping.table))
		records, err := readJSONL(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", jsonlFile(mapping.table), err)
		}

		n, err := insertRecords(ctx, tx, mapping.table, mapping.columns, records)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", jsonlFile(mapping.table), err)
		}
		loaded[mapping.table] = n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing load transaction: %w", err)
	}
	return loaded, nil
}

// insertRecords inserts parsed JSONL records into table and returns how many
// rows were written. Only the listed columns are read; records that fail to
// decode are skipped.
func insertRecords(ctx context.Context, tx *sql.Tx, table string, columns []string, records []json.RawMessage) (int, error) {
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, joinColumns(columns), placeholders(len(columns)),
	))
	if err != nil {
		return 0, fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	n := 0
	for _, rec := range records {
		dec := json.NewDecoder(bytes.NewReader(rec))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			switch v := obj[col].(type) {
			case json.Number:
				args[i] = numberArg(v)
			case bool:
				args[i] = boolToInt(v)
			default:
				args[i] = v
			}
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return n, fmt.Errorf("insert into %s: %w", table, err)
		}
		n++
	}
	return n, nil
}

// numberArg binds integral JSON numbers as int64 and the rest as float64.
func numberArg(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
