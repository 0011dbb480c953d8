// Package docutil converts raw OCR output into structured documents and finds
// the supplier identifiers the registry lookup needs.
package docutil

import (
	"encoding/json"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"
)

// RawResponseSuffix marks the raw model output files among OCR results
const RawResponseSuffix = "_raw.json"

// embeddedObject matches the shortest {...} spans of free text
var embeddedObject = regexp.MustCompile(`(?s)\{.*?\}`)

// crCandidateKeys are the portal keys that may carry the CR number, in lookup order
var crCandidateKeys = []string{
	"CR Number",
	"Cr Number",
	"cr_number",
	"crNumber",
	"commercial_registration_number",
	"commercialRegistrationNumber",
}

// crSections are the nested portal sections searched after the top level
var crSections = []string{"basic_info", "basicInfo", "Basic Information"}

// ParseResponseJSON returns the fields held in raw["response"]. The response may
// be an object, a JSON string, or free text with embedded objects, in which case
// the last parseable object wins. Anything else yields an empty map.
func ParseResponseJSON(raw map[string]any) map[string]any {
	switch resp := raw["response"].(type) {
	case map[string]any:
		return resp
	case string:
		text := strings.TrimSpace(resp)

		var obj map[string]any
		if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
			return obj
		}

		var last map[string]any
		for _, snippet := range embeddedObject.FindAllString(text, -1) {
			var candidate map[string]any
			if err := json.Unmarshal([]byte(snippet), &candidate); err != nil || candidate == nil {
				continue
			}
			last = candidate
		}
		if last != nil {
			return last
		}
	}
	return map[string]any{}
}

// ConvertSimpleDoc wraps a raw OCR result {pages_count, response} as a
// structured document of docType.
func ConvertSimpleDoc(raw map[string]any, docType string) *documents.StructuredDocument {
	doc := &documents.StructuredDocument{
		DocType: docType,
		Fields:  ParseResponseJSON(raw),
	}
	if pages, ok := raw["pages_count"]; ok && pages != nil {
		if n, err := validation.ToInt(pages); err == nil {
			doc.PageCount = &n
		}
	}
	return doc
}

// ExtractCRFromPortal returns the trimmed CR number of a portal submission, or
// "" when none of the known keys carries a value.
func ExtractCRFromPortal(portal map[string]any) string {
	if cr := findCR(portal); cr != "" {
		return cr
	}
	for _, section := range crSections {
		if nested, ok := portal[section].(map[string]any); ok {
			if cr := findCR(nested); cr != "" {
				return cr
			}
		}
	}
	return ""
}

func findCR(m map[string]any) string {
	for _, key := range crCandidateKeys {
		if v, ok := m[key]; ok && validation.Truthy(v) {
			return strings.TrimSpace(validation.Stringify(v))
		}
	}
	return ""
}

// ListFilesWithSuffix walks root recursively and returns the files whose
// extension is one of suffixes, sorted.
func ListFilesWithSuffix(root string, suffixes ...string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		for _, suffix := range suffixes {
			if ext == suffix {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ListPDFs returns all PDF files under root, sorted
func ListPDFs(root string) ([]string, error) {
	return ListFilesWithSuffix(root, ".pdf", ".PDF")
}

// ListJSONs returns all JSON files under root, sorted. With rawOnly only files
// ending in _raw.json are returned.
func ListJSONs(root string, rawOnly bool) ([]string, error) {
	files, err := ListFilesWithSuffix(root, ".json")
	if err != nil || !rawOnly {
		return files, err
	}

	raw := files[:0]
	for _, f := range files {
		if strings.HasSuffix(filepath.Base(f), RawResponseSuffix) {
			raw = append(raw, f)
		}
	}
	return raw, nil
}

// DocTypeFromFileName maps a raw OCR file name such as VAT_raw.json to its
// logical doc type.
func DocTypeFromFileName(name, override string) string {
	stem := strings.TrimSuffix(filepath.Base(name), RawResponseSuffix)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	return documents.ResolveDocType(stem, override)
}
