//go:build unit
// +build unit

package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapDocType(t *testing.T) {
	assert.Equal(t, "vat_certificate", MapDocType("VAT"))
	assert.Equal(t, "gosi_certificate", MapDocType("GOSI"))
	assert.Equal(t, "CR", MapDocType("CR"))
}

func TestOCRDocType(t *testing.T) {
	assert.Equal(t, "ocr.CR", OCRDocType("CR"))
}

func TestResolveDocType(t *testing.T) {
	assert.Equal(t, "nda", ResolveDocType("nda", ""))
	assert.Equal(t, DefaultDocType, ResolveDocType("unknown", ""))
	assert.Equal(t, "custom", ResolveDocType("VAT", "custom"))
}

func TestVendorContext_DocsByType(t *testing.T) {
	c := NewVendorContext("V-1")
	c.Documents["nda"] = map[string]any{"fields": map[string]any{"signed": true}}

	docs := c.DocsByType()
	assert.Len(t, docs, 1)
	assert.NotContains(t, docs, VendorMasterDocType)

	c.VendorMaster = map[string]any{"name": "Acme"}
	docs = c.DocsByType()
	assert.Len(t, docs, 2)
	assert.Equal(t, "Acme", docs[VendorMasterDocType]["name"])
}

func TestStructuredDocument_AsMap(t *testing.T) {
	one := 1
	doc := &StructuredDocument{DocType: MocCertificateDocType, PageCount: &one, Fields: map[string]any{"cr_number": "1010"}}

	m := doc.AsMap()
	assert.Equal(t, MocCertificateDocType, m["doc_type"])
	assert.Equal(t, 1, m["page_count"])
	assert.Equal(t, "1010", m["fields"].(map[string]any)["cr_number"])
}

func TestValidateVendorID(t *testing.T) {
	for _, id := range []string{"V-1", "1010123456", "vendor.name"} {
		assert.NoError(t, ValidateVendorID(id), id)
	}
	for _, id := range []string{"", ".", "..", "../V-1", "V-1/..", "a/b", `a\b`, "/abs"} {
		assert.ErrorIs(t, ValidateVendorID(id), ErrInvalidVendorID, id)
	}
}
