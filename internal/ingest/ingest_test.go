package ingest_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ndisfraud/internal/domain"
	"ndisfraud/internal/ingest"
)

const invoiceCSV = `Support Item Number,Description,Qty,Unit Price
01_002_0107_1_1,Self-care weekday night,2,78.81
01_011_0107_1_1,Self-care weekday daytime,1,70.23
01_020_0120_1_1,House cleaning,3,58.03
01_019_0120_1_1,House and yard maintenance,1,56.98
01_004_0107_1_1,Self-care public holiday,1,59.06
01_013_0107_1_1,Self-care saturday,1,98.83
01_014_0107_1_1,Self-care sunday,1,127.43
`

func newParser() *ingest.Parser {
	return ingest.NewParser(ingest.DefaultOptions())
}

func TestDetectType(t *testing.T) {
	tests := map[string]domain.DocumentType{
		"invoice.csv":  domain.DocumentTypeCSV,
		"INVOICE.CSV":  domain.DocumentTypeCSV,
		"book.xls":     domain.DocumentTypeExcel,
		"book.xlsx":    domain.DocumentTypeExcel,
		"data.json":    domain.DocumentTypeJSON,
		"scan.PDF":     domain.DocumentTypePDF,
		"notes.txt":    domain.DocumentTypeText,
		"server.log":   domain.DocumentTypeText,
		"photo.png":    domain.DocumentTypeUnknown,
		"no_extension": domain.DocumentTypeUnknown,
	}
	for name, want := range tests {
		assert.Equal(t, want, ingest.DetectType(name), name)
	}
}

func TestParse_CSV_PreviewRows(t *testing.T) {
	doc, err := newParser().Parse("invoice.csv", []byte(invoiceCSV))
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentTypeCSV, doc.Type)
	assert.Equal(t, "invoice.csv", doc.Filename)
	records, ok := doc.Data.([]map[string]string)
	require.True(t, ok)
	require.Len(t, records, 5)
	assert.Equal(t, "01_002_0107_1_1", records[0]["Support Item Number"])
	assert.Equal(t, "78.81", records[0]["Unit Price"])
	assert.Equal(t, "01_004_0107_1_1", records[4]["Support Item Number"])
}

func TestParse_CSV_CustomPreviewRows(t *testing.T) {
	p := ingest.NewParser(ingest.Options{PreviewRows: 2})

	doc, err := p.Parse("invoice.csv", []byte(invoiceCSV))
	require.NoError(t, err)
	assert.Len(t, doc.Data, 2)
}

func TestParse_CSV_HeaderNormalisation(t *testing.T) {
	doc, err := newParser().Parse("x.csv", []byte("\ufeffCode,,Code\nA,B,C\nD\n"))
	require.NoError(t, err)

	records := doc.Data.([]map[string]string)
	require.Len(t, records, 2)
	assert.Equal(t, map[string]string{"Code": "A", "Unnamed: 1": "B", "Code.1": "C"}, records[0])
	assert.Equal(t, "", records[1]["Code.1"])
}

func TestParse_CSV_Empty(t *testing.T) {
	doc, err := newParser().Parse("empty.csv", nil)
	require.NoError(t, err)
	assert.True(t, ingest.IsEmpty(doc))
}

func TestParse_Excel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Support Item Number", "Unit Price"}))
	for i := 0; i < 7; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &[]interface{}{"01_002_0107_1_1", "78.81"}))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	doc, err := newParser().Parse("invoice.xlsx", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentTypeExcel, doc.Type)
	records := doc.Data.([]map[string]string)
	require.Len(t, records, 5)
	assert.Equal(t, "78.81", records[0]["Unit Price"])
}

func TestParse_Excel_Corrupt(t *testing.T) {
	_, err := newParser().Parse("invoice.xlsx", []byte("not a workbook"))
	assert.ErrorIs(t, err, domain.ErrUnreadableDocument)
}

func TestParse_JSON(t *testing.T) {
	doc, err := newParser().Parse("invoice.json", []byte(`{"provider":"Acme Care","items":[{"code":"01_002_0107_1_1","price":78.81}]}`))
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentTypeJSON, doc.Type)
	data := doc.Data.(map[string]interface{})
	assert.Equal(t, "Acme Care", data["provider"])
	assert.Len(t, data["items"], 1)
}

func TestParse_JSON_Malformed(t *testing.T) {
	_, err := newParser().Parse("invoice.json", []byte(`{"provider":`))
	assert.ErrorIs(t, err, domain.ErrUnreadableDocument)
}

func TestParse_Text_TruncatesByCharacter(t *testing.T) {
	body := strings.Repeat("é", 1500)

	doc, err := newParser().Parse("notes.txt", []byte(body))
	require.NoError(t, err)

	text := doc.Data.(string)
	assert.Equal(t, 1000, len([]rune(text)))
}

func TestParse_Text_DropsInvalidUTF8(t *testing.T) {
	doc, err := newParser().Parse("server.log", []byte("item \xff01_002_0107_1_1\xfe ok"))
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentTypeText, doc.Type)
	assert.Equal(t, "item 01_002_0107_1_1 ok", doc.Data)
}

func TestParse_PDF_Malformed(t *testing.T) {
	_, err := newParser().Parse("invoice.pdf", []byte("%PDF-1.4 garbage"))
	assert.ErrorIs(t, err, domain.ErrUnreadableDocument)
}

func TestParse_Unknown(t *testing.T) {
	doc, err := newParser().Parse("photo.png", []byte{0x89, 0x50})
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentTypeUnknown, doc.Type)
	assert.Nil(t, doc.Data)
	assert.True(t, ingest.IsEmpty(doc))
}

func TestContent(t *testing.T) {
	text, err := ingest.Content(&domain.ParsedDocument{Type: domain.DocumentTypeText, Data: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	rendered, err := ingest.Content(&domain.ParsedDocument{
		Type: domain.DocumentTypeCSV,
		Data: []map[string]string{{"Support Item Number": "01_002_0107_1_1"}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Support Item Number":"01_002_0107_1_1"}]`, rendered)
	assert.Contains(t, rendered, "\n  ")

	empty, err := ingest.Content(&domain.ParsedDocument{Type: domain.DocumentTypeUnknown})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, ingest.IsEmpty(&domain.ParsedDocument{Data: "  \n "}))
	assert.True(t, ingest.IsEmpty(&domain.ParsedDocument{Data: []interface{}{}}))
	assert.True(t, ingest.IsEmpty(&domain.ParsedDocument{Data: map[string]interface{}{}}))
	assert.False(t, ingest.IsEmpty(&domain.ParsedDocument{Data: "x"}))
	assert.False(t, ingest.IsEmpty(&domain.ParsedDocument{Data: float64(0)}))
}
