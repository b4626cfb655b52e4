package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ndisfraud/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (13 columns).
var columns = []string{
	"Analysis ID",
	"Agent",
	"Model",
	"Is Valid",
	"Using Old Pricing",
	"Reason",
	"Call",
	"Tool",
	"Item Code",
	"Price",
	"Location",
	"Is Error",
	"Result",
}

// Writer wraps csv.Writer for exporting the tool-call trail of analyses.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteAnalysis writes one row per tool call. An analysis that made no tool
// calls still gets a single row carrying its verdict.
func (w *Writer) WriteAnalysis(a *domain.Analysis) error {
	if len(a.ToolCalls) == 0 {
		return w.csv.Write(verdictRow(a))
	}
	for i := range a.ToolCalls {
		row := verdictRow(a)
		fillCall(row, i+1, &a.ToolCalls[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// verdictRow fills the analysis-level columns and leaves the call columns empty.
func verdictRow(a *domain.Analysis) []string {
	row := make([]string, len(columns))
	row[0] = a.ID.String()
	row[1] = string(a.Agent)
	row[2] = a.Model
	row[3] = formatBool(a.Response.IsValid)
	if a.Response.IsUsingOldPricing != nil {
		row[4] = formatBool(*a.Response.IsUsingOldPricing)
	}
	row[5] = a.Response.Reason
	return row
}

func fillCall(row []string, n int, call *domain.ToolInvocation) {
	row[6] = strconv.Itoa(n)
	row[7] = call.Name
	row[8] = argString(call.Arguments, "item_code")
	row[9] = argString(call.Arguments, "price")
	row[10] = argString(call.Arguments, "location_type")
	row[11] = formatBool(call.IsError)
	row[12] = call.Result
}

func argString(args map[string]interface{}, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a document name for use as an output file name.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns the default trace file name for an analysed document.
// Format: {sanitized_document_name}_trace_{YYYY-MM-DD}.csv
func BuildFilename(documentName string, now time.Time) string {
	return fmt.Sprintf("%s_trace_%s.csv", SanitizeFilename(documentName), now.Format("2006-01-02"))
}
