package domain

// DocumentType identifies how an uploaded file was interpreted.
type DocumentType string

const (
	DocumentTypeCSV     DocumentType = "csv"
	DocumentTypeExcel   DocumentType = "excel"
	DocumentTypeJSON    DocumentType = "json"
	DocumentTypePDF     DocumentType = "pdf"
	DocumentTypeText    DocumentType = "text"
	DocumentTypeUnknown DocumentType = "unknown"
)

// AllowedExtensions maps file extensions (without dot) to DocumentType.
var AllowedExtensions = map[string]DocumentType{
	"csv":  DocumentTypeCSV,
	"xls":  DocumentTypeExcel,
	"xlsx": DocumentTypeExcel,
	"json": DocumentTypeJSON,
	"pdf":  DocumentTypePDF,
	"txt":  DocumentTypeText,
	"log":  DocumentTypeText,
}

// AgentKind selects one of the agent strategies.
type AgentKind string

const (
	AgentBasic           AgentKind = "basic"
	AgentLineVerifier    AgentKind = "line_verifier"
	AgentPricingVerifier AgentKind = "pricing_verifier"
)

// AgentKinds lists every supported strategy in display order.
var AgentKinds = []AgentKind{AgentLineVerifier, AgentPricingVerifier, AgentBasic}

// Valid reports whether k names a known strategy.
func (k AgentKind) Valid() bool {
	switch k {
	case AgentBasic, AgentLineVerifier, AgentPricingVerifier:
		return true
	}
	return false
}

// LocationType is the NDIS pricing tier applied to a support item.
type LocationType string

const (
	LocationStandard   LocationType = "standard"
	LocationRemote     LocationType = "remote"
	LocationVeryRemote LocationType = "very_remote"
)
