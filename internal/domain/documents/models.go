package documents

// StructuredDocument is the normalized form of an extracted document
type StructuredDocument struct {
	DocType   string         `json:"doc_type"`
	PageCount *int           `json:"page_count"`
	Fields    map[string]any `json:"fields"`
}

// AsMap returns the document in the shape the rule engine reads
func (d *StructuredDocument) AsMap() map[string]any {
	m := map[string]any{
		"doc_type": d.DocType,
		"fields":   d.Fields,
	}
	if d.PageCount != nil {
		m["page_count"] = *d.PageCount
	} else {
		m["page_count"] = nil
	}
	return m
}

// VendorContext is everything known about one vendor before validation
type VendorContext struct {
	VendorID string
	// Portal is the registration portal submission
	Portal map[string]any
	// VendorMaster is the ERP vendor master record, nil when absent
	VendorMaster map[string]any
	// Documents maps a logical doc type to the extracted document JSON
	Documents map[string]map[string]any
}

// NewVendorContext returns an empty context for vendorID
func NewVendorContext(vendorID string) *VendorContext {
	return &VendorContext{
		VendorID:  vendorID,
		Portal:    map[string]any{},
		Documents: map[string]map[string]any{},
	}
}

// DocsByType returns the documents keyed by doc type, including the vendor
// master record under VendorMasterDocType when present.
func (c *VendorContext) DocsByType() map[string]map[string]any {
	docs := make(map[string]map[string]any, len(c.Documents)+1)
	for docType, doc := range c.Documents {
		docs[docType] = doc
	}
	if c.VendorMaster != nil {
		docs[VendorMasterDocType] = c.VendorMaster
	}
	return docs
}
