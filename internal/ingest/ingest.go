package ingest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"ndisfraud/internal/domain"
)

// Options controls how much of a document is kept for the agent.
type Options struct {
	PreviewRows int // rows kept from tabular files
	TextLimit   int // characters kept from pdf and text files
}

// DefaultOptions returns the preview sizes used when none are configured.
func DefaultOptions() Options {
	return Options{PreviewRows: 5, TextLimit: 1000}
}

// Parser turns uploaded bytes into a ParsedDocument preview.
type Parser struct {
	opts Options
}

// NewParser creates a Parser. Non-positive option values fall back to defaults.
func NewParser(opts Options) *Parser {
	def := DefaultOptions()
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = def.PreviewRows
	}
	if opts.TextLimit <= 0 {
		opts.TextLimit = def.TextLimit
	}
	return &Parser{opts: opts}
}

// DetectType returns the document type for filename's extension.
func DetectType(filename string) domain.DocumentType {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if t, ok := domain.AllowedExtensions[ext]; ok {
		return t
	}
	return domain.DocumentTypeUnknown
}

// Parse dispatches on the file extension. Unknown extensions yield a
// document of type unknown with nil data and no error.
func (p *Parser) Parse(filename string, data []byte) (*domain.ParsedDocument, error) {
	doc := &domain.ParsedDocument{Type: DetectType(filename), Filename: filename}

	var err error
	switch doc.Type {
	case domain.DocumentTypeCSV:
		doc.Data, err = previewCSV(data, p.opts.PreviewRows)
	case domain.DocumentTypeExcel:
		doc.Data, err = previewExcel(data, p.opts.PreviewRows)
	case domain.DocumentTypeJSON:
		doc.Data, err = decodeJSON(data)
	case domain.DocumentTypePDF:
		doc.Data, err = extractPDFText(data, p.opts.TextLimit)
	case domain.DocumentTypeText:
		doc.Data = truncateRunes(strings.ToValidUTF8(string(data), ""), p.opts.TextLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableDocument, filename, err)
	}
	return doc, nil
}

// Content renders a document's data as the text handed to an agent.
func Content(doc *domain.ParsedDocument) (string, error) {
	switch d := doc.Data.(type) {
	case nil:
		return "", nil
	case string:
		return d, nil
	default:
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return "", fmt.Errorf("rendering %s document: %w", doc.Type, err)
		}
		return string(out), nil
	}
}

// IsEmpty reports whether a document carries nothing worth analysing.
func IsEmpty(doc *domain.ParsedDocument) bool {
	switch d := doc.Data.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(d) == ""
	case []map[string]string:
		return len(d) == 0
	case []interface{}:
		return len(d) == 0
	case map[string]interface{}:
		return len(d) == 0
	default:
		return false
	}
}

func decodeJSON(data []byte) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func truncateRunes(s string, limit int) string {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
