package connector

import (
	"path"
	"strings"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
)

// Default folder (or object prefix) names of the vendor document layout
const (
	DefaultPortalDir = "portal"
	DefaultOCRDir    = "ocr"
	DefaultMasterDir = "master"

	VendorMasterFileName = "vendor_master.json"
	jsonExt              = ".json"
)

// documentLayout resolves where a vendor's files live:
//
//	<portal>/<vendor_id>.json
//	<ocr>/<vendor_id>/<DOC>.json
//	<master>/<vendor_id>/vendor_master.json
type documentLayout struct {
	portal string
	ocr    string
	master string
}

func newDocumentLayout(portal, ocr, master string) documentLayout {
	return documentLayout{
		portal: withDefault(portal, DefaultPortalDir),
		ocr:    withDefault(ocr, DefaultOCRDir),
		master: withDefault(master, DefaultMasterDir),
	}
}

func withDefault(v, def string) string {
	v = strings.TrimSuffix(v, "/")
	if v == "" {
		return def
	}
	return v
}

func (l documentLayout) portalKey(vendorID string) string {
	return path.Join(l.portal, vendorID+jsonExt)
}

func (l documentLayout) ocrDir(vendorID string) string {
	return path.Join(l.ocr, vendorID)
}

func (l documentLayout) masterKey(vendorID string) string {
	return path.Join(l.master, vendorID, VendorMasterFileName)
}

// ocrDocType keys an OCR file by its embedded doc_type when it is a structured
// document, else by its file stem.
func ocrDocType(fileName string, doc map[string]any) string {
	if docType, ok := doc["doc_type"].(string); ok && docType != "" {
		return docType
	}
	return documents.OCRDocType(strings.TrimSuffix(path.Base(fileName), jsonExt))
}

func isJSONFile(name string) bool {
	return strings.HasSuffix(name, jsonExt)
}
