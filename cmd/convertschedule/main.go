// Command convertschedule converts the published NDIS Support Catalogue
// workbook into the trimmed CSV read by the reference loader.
// Usage: go run ./cmd/convertschedule --in catalogue.xlsx --out data/nids_source_active.csv
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"ndisfraud/internal/tools"
)

// headerScanRows bounds how far down the sheet the header row may appear.
const headerScanRows = 20

// keptColumns are copied to the output in this order. Columns absent from
// the workbook are skipped.
var keptColumns = []string{
	"Support Item Number",
	"Support Item Name",
	"Unit",
	"ACT", "NSW", "NT", "QLD", "SA", "TAS", "VIC", "WA",
	"Remote",
	"Very Remote",
}

// priceColumns are normalised to two decimal places.
var priceColumns = map[string]bool{
	"ACT": true, "NSW": true, "NT": true, "QLD": true, "SA": true,
	"TAS": true, "VIC": true, "WA": true, "Remote": true, "Very Remote": true,
}

var errNoHeader = errors.New("no header row containing \"Support Item Number\"")

func main() {
	if err := newCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newCmd() *cobra.Command {
	var in, out, sheet string
	cmd := &cobra.Command{
		Use:          "convertschedule",
		Short:        "Convert the NDIS Support Catalogue workbook to CSV",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := excelize.OpenFile(in)
			if err != nil {
				return fmt.Errorf("open Excel file: %w", err)
			}
			defer func() { _ = f.Close() }()

			dst, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer func() { _ = dst.Close() }()

			n, err := convert(f, sheet, dst)
			if err != nil {
				return err
			}
			log.Printf("Wrote %d support items to %s", n, out)
			return dst.Close()
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "catalogue workbook (.xlsx)")
	cmd.Flags().StringVar(&out, "out", "data/nids_source_active.csv", "output CSV path")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name (default: first sheet)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

// convert writes the kept columns of sheet to w and returns the number of
// items written. Rows without an item code and repeated codes are dropped.
func convert(f *excelize.File, sheet string, w io.Writer) (int, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	headerIdx := -1
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		for _, cell := range rows[i] {
			if strings.TrimSpace(cell) == keptColumns[0] {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return 0, errNoHeader
	}

	positions := make(map[string]int)
	for i, cell := range rows[headerIdx] {
		name := strings.TrimSpace(cell)
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}
	var header []string
	var idx []int
	for _, col := range keptColumns {
		if p, ok := positions[col]; ok {
			header = append(header, col)
			idx = append(idx, p)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	seen := make(map[string]bool)
	written := 0
	for _, row := range rows[headerIdx+1:] {
		code := strings.TrimSpace(cellVal(row, idx[0]))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		record := make([]string, len(idx))
		for i, p := range idx {
			record[i] = strings.TrimSpace(cellVal(row, p))
			if priceColumns[header[i]] {
				record[i] = normalizePrice(record[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return written, fmt.Errorf("write row %s: %w", code, err)
		}
		written++
	}
	cw.Flush()
	return written, cw.Error()
}

// normalizePrice rewrites "$1,234.5" as "1234.50". Blank and unparseable
// cells are passed through unchanged.
func normalizePrice(cell string) string {
	d, err := tools.ParsePrice(cell)
	if err != nil {
		return cell
	}
	return d.StringFixed(2)
}

func cellVal(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
