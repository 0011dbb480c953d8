package documents

// DocTypeMapping maps a document file name stem to the logical doc_type used in
// validation rules.
var DocTypeMapping = map[string]string{
	"VAT":                  "vat_certificate",
	"IBAN":                 "iban_letter",
	"chamber_of_commerce":  "chamber_certificate",
	"code_of_conduct":      "code_of_conduct",
	"nda":                  "nda",
	"zatca":                "zatca_certificate",
	"GOSI":                 "gosi_certificate",
	"nationalization":      "nationalization_certificate",
	"portal_excel_quality": "portal_excel_quality",
}

// Logical document types produced outside OCR
const (
	// DefaultDocType is used when a stem has no mapping and no override is given
	DefaultDocType        = "generic_document"
	MocCertificateDocType = "moc_certificate"
	VendorMasterDocType   = "oracle.vendor"
	// OCRDocPrefix prefixes the file stem of OCR documents loaded from folders
	OCRDocPrefix = "ocr."
)

// OCRDocType returns the doc type key of an OCR document file stem
func OCRDocType(stem string) string {
	return OCRDocPrefix + stem
}

// MapDocType returns the logical doc type of a file stem, or the stem itself when
// it has no mapping.
func MapDocType(stem string) string {
	if docType, ok := DocTypeMapping[stem]; ok {
		return docType
	}
	return stem
}

// ResolveDocType picks the doc type for a converted file: an explicit override
// wins, then the mapping, then DefaultDocType.
func ResolveDocType(stem, override string) string {
	if override != "" {
		return override
	}
	if docType, ok := DocTypeMapping[stem]; ok {
		return docType
	}
	return DefaultDocType
}
