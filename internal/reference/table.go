package reference

import (
	"fmt"
	"strings"

	"ndisfraud/internal/config"
)

// Columns names the reference table columns the verification tools read.
type Columns struct {
	ItemCode   string
	Standard   string
	Remote     string
	VeryRemote string
}

// DefaultColumns returns the column names used by the published NDIS schedules.
func DefaultColumns() Columns {
	return Columns{
		ItemCode:   "Support Item Number",
		Standard:   "ACT",
		Remote:     "Remote",
		VeryRemote: "Very Remote",
	}
}

// ColumnsFromConfig builds Columns from configuration, keeping defaults for blanks.
func ColumnsFromConfig(cfg *config.ReferenceConfig) Columns {
	cols := DefaultColumns()
	if cfg.ItemCodeColumn != "" {
		cols.ItemCode = strings.TrimSpace(cfg.ItemCodeColumn)
	}
	if cfg.StandardColumn != "" {
		cols.Standard = strings.TrimSpace(cfg.StandardColumn)
	}
	if cfg.RemoteColumn != "" {
		cols.Remote = strings.TrimSpace(cfg.RemoteColumn)
	}
	if cfg.VeryRemoteColumn != "" {
		cols.VeryRemote = strings.TrimSpace(cfg.VeryRemoteColumn)
	}
	return cols
}

// Record is one support item row. Columns other than the item code are
// carried as raw cell text.
type Record struct {
	ItemCode string
	values   map[string]string
}

// Value returns the raw cell for column. ok is false if the table has no such column.
func (r *Record) Value(column string) (value string, ok bool) {
	value, ok = r.values[column]
	return value, ok
}

// Table is an in-memory support item schedule.
// It is immutable after construction and safe for concurrent access.
type Table struct {
	name    string
	columns Columns
	header  []string
	records []Record
	byCode  map[string]int
}

// NewTable builds a Table from a header row and data rows. Header names and
// item codes are whitespace-trimmed; rows shorter than the header are padded.
// Duplicate codes are kept and the first occurrence answers lookups.
func NewTable(name string, header []string, rows [][]string, cols Columns) (*Table, error) {
	trimmed := make([]string, len(header))
	codeIdx := -1
	for i, h := range header {
		trimmed[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if codeIdx < 0 && trimmed[i] == cols.ItemCode {
			codeIdx = i
		}
	}
	if codeIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, cols.ItemCode)
	}

	t := &Table{
		name:    name,
		columns: cols,
		header:  trimmed,
		records: make([]Record, 0, len(rows)),
		byCode:  make(map[string]int, len(rows)),
	}
	for _, row := range rows {
		values := make(map[string]string, len(trimmed))
		for i, h := range trimmed {
			if _, dup := values[h]; dup {
				continue
			}
			if i < len(row) {
				values[h] = row[i]
			} else {
				values[h] = ""
			}
		}
		code := strings.TrimSpace(values[cols.ItemCode])
		values[cols.ItemCode] = code

		t.records = append(t.records, Record{ItemCode: code, values: values})
		if code == "" {
			continue
		}
		if _, seen := t.byCode[code]; !seen {
			t.byCode[code] = len(t.records) - 1
		}
	}
	return t, nil
}

// Name returns the table's label, e.g. "active".
func (t *Table) Name() string { return t.name }

// Columns returns the column mapping the table was loaded with.
func (t *Table) Columns() Columns { return t.columns }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.records) }

// Header returns a copy of the trimmed header row.
func (t *Table) Header() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// HasColumn reports whether the table has a column with the given trimmed name.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.header {
		if h == name {
			return true
		}
	}
	return false
}

// Exists reports whether itemCode is present. Matching is exact and
// case-sensitive after trimming the input.
func (t *Table) Exists(itemCode string) bool {
	_, ok := t.byCode[strings.TrimSpace(itemCode)]
	return ok
}

// Lookup returns the first record for itemCode.
func (t *Table) Lookup(itemCode string) (*Record, bool) {
	idx, ok := t.byCode[strings.TrimSpace(itemCode)]
	if !ok {
		return nil, false
	}
	return &t.records[idx], true
}
