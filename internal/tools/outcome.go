package tools

// Status classifies a verification outcome.
type Status string

const (
	// Existence
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"

	// Pricing
	StatusMatch      Status = "match"
	StatusMismatch   Status = "mismatch"
	StatusQuotable   Status = "quotable"
	StatusParseError Status = "parse_error"

	// Active/inactive cross-reference
	StatusSuperseded   Status = "superseded"
	StatusDiscontinued Status = "discontinued"
	StatusCurrent      Status = "current"
	StatusAbsent       Status = "absent"
)

// Outcome is the result of one tool invocation. Message is the text handed
// back to the model; the other fields expose the same verdict to Go callers.
type Outcome struct {
	ItemCode      string `json:"item_code"`
	Status        Status `json:"status"`
	Message       string `json:"message"`
	Outdated      bool   `json:"outdated,omitempty"`
	Location      string `json:"location,omitempty"`
	PriceColumn   string `json:"price_column,omitempty"`
	ExpectedPrice string `json:"expected_price,omitempty"`
}

func (o Outcome) String() string {
	return o.Message
}
