// internal/catalog/catalog.go
//
// The fixed document-type catalog. Codes are split by party mode: seller
// codes feed the listing-documents mutation, buyer codes feed either the
// counter-offer or the supporting-document mutation. The tables are the
// contract; do not reorder them, the pickers render in this order.

package catalog

// Mode says which party the form is composing for.
type Mode int

const (
	ModeSeller Mode = iota
	ModeBuyer
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeSeller:
		return "seller"
	case ModeBuyer:
		return "buyer"
	default:
		return "unknown"
	}
}

// Option is one selectable document type.
type Option struct {
	Label string
	Code  string
}

var sellerOptions = []Option{
	{Label: "Seller Property Questionnaire", Code: "SPQ"},
	{Label: "Residential Purchase Agreement", Code: "RPA"},
	{Label: "Purchase Agreement Counter", Code: "RPAC"},
	{Label: "Transfer Disclosure Statement", Code: "TDS"},
	{Label: "Statewide Buyer and Seller Advisory", Code: "SBSA"},
	{Label: "Buyer Election for Repairs Disclosure", Code: "BERD"},
	{Label: "Water Conserving Carbon Monoxide", Code: "WCCM"},
	{Label: "Water Heater and Smoke Detector", Code: "WHSD"},
	{Label: "Environmental Hazards Disclosure", Code: "EHD"},
	{Label: "Exempt Seller Disclosure", Code: "EEBR"},
	{Label: "Lead Paint Disclosure", Code: "LPD"},
	{Label: "Market Conditions Advisory", Code: "MCA"},
	{Label: "Agent Visual Inspection Disclosure", Code: "AVID"},
	{Label: "Natural Hazard Disclosure", Code: "NHD"},
	{Label: "Preliminary Title Report", Code: "PRET"},
}

var buyerOptions = []Option{
	{Label: "Buyer Counter Offer", Code: "BCO"},
	{Label: "Request for Repair", Code: "RR"},
	{Label: "Repair Request Counter Offer", Code: "RRCO"},
	{Label: "Earnest Money Deposit", Code: "EMD"},
	{Label: "Property Inspection Contingency Removal", Code: "PICR"},
	{Label: "Contingency Liquidation Addendum", Code: "CLA"},
	{Label: "Loan Contingency Removal", Code: "LCR"},
	{Label: "Escrow Settlement Statement", Code: "ESS"},
	{Label: "Pre-Deposit Proof of Funds", Code: "PDPF"},
}

// supportingCodes are the buyer codes that carry no signature workflow and
// route to the supporting-document mutation instead of the counter-offer one.
var supportingCodes = map[string]struct{}{
	"PDPF": {},
	"EMD":  {},
	"RPAC": {},
	"PICR": {},
	"CLA":  {},
	"LCR":  {},
	"ESS":  {},
}

// Options returns the selectable types for a mode, in catalog order.
func Options(mode Mode) []Option {
	if mode == ModeBuyer {
		return buyerOptions
	}
	return sellerOptions
}

// Lookup finds an option by code within a mode's catalog.
func Lookup(mode Mode, code string) (Option, bool) {
	for _, opt := range Options(mode) {
		if opt.Code == code {
			return opt, true
		}
	}
	return Option{}, false
}

// IsSupporting reports whether a code routes to addSupportingDocument.
func IsSupporting(code string) bool {
	_, ok := supportingCodes[code]
	return ok
}

// SupportsExpiration reports whether an expiration is meaningful for the
// code. Supporting documents are upload-only; everything else may expire.
func SupportsExpiration(code string) bool {
	return !IsSupporting(code)
}
