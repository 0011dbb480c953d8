//go:build unit
// +build unit

package docutil

import (
	"path/filepath"
	"testing"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseJSON(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		expected map[string]any
	}{
		{
			name:     "object",
			raw:      map[string]any{"response": map[string]any{"vat_number": "300"}},
			expected: map[string]any{"vat_number": "300"},
		},
		{
			name:     "json string",
			raw:      map[string]any{"response": ` {"vat_number": "300"} `},
			expected: map[string]any{"vat_number": "300"},
		},
		{
			name:     "embedded objects, last wins",
			raw:      map[string]any{"response": "first {\"a\": 1} then {not json} and finally\n{\"b\": \"two\"} done"},
			expected: map[string]any{"b": "two"},
		},
		{
			name:     "json array",
			raw:      map[string]any{"response": `[1, 2]`},
			expected: map[string]any{},
		},
		{
			name:     "no response",
			raw:      map[string]any{},
			expected: map[string]any{},
		},
		{
			name:     "number response",
			raw:      map[string]any{"response": float64(3)},
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseResponseJSON(tt.raw))
		})
	}
}

func TestConvertSimpleDoc(t *testing.T) {
	doc := ConvertSimpleDoc(map[string]any{
		"pages_count": float64(2),
		"response":    `{"iban": "SA03"}`,
	}, "iban_letter")

	assert.Equal(t, "iban_letter", doc.DocType)
	require.NotNil(t, doc.PageCount)
	assert.Equal(t, 2, *doc.PageCount)
	assert.Equal(t, "SA03", doc.Fields["iban"])

	doc = ConvertSimpleDoc(map[string]any{"response": "nothing here"}, "nda")
	assert.Nil(t, doc.PageCount)
	assert.Empty(t, doc.Fields)
}

func TestExtractCRFromPortal(t *testing.T) {
	tests := []struct {
		name     string
		portal   map[string]any
		expected string
	}{
		{"top level", map[string]any{"CR Number": " 1010123456 "}, "1010123456"},
		{"numeric", map[string]any{"cr_number": float64(1010123456)}, "1010123456"},
		{"empty value skipped", map[string]any{"CR Number": "", "crNumber": "2020"}, "2020"},
		{"basic info", map[string]any{"basic_info": map[string]any{"commercialRegistrationNumber": "3030"}}, "3030"},
		{"basic information section", map[string]any{"Basic Information": map[string]any{"Cr Number": "4040"}}, "4040"},
		{"top level wins", map[string]any{"cr_number": "1", "basicInfo": map[string]any{"cr_number": "2"}}, "1"},
		{"absent", map[string]any{"name": "Acme"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractCRFromPortal(tt.portal))
		})
	}
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"b/VAT_raw.json", "a/IBAN_raw.json", "a/IBAN.json", "a/scan.pdf", "c/SCAN.PDF", "c/notes.txt"} {
		require.NoError(t, testutil.CreateTestFile(filepath.Join(root, rel), []byte("{}")))
	}

	pdfs, err := ListPDFs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a/scan.pdf"), filepath.Join(root, "c/SCAN.PDF")}, pdfs)

	jsons, err := ListJSONs(root, false)
	require.NoError(t, err)
	assert.Len(t, jsons, 3)

	raw, err := ListJSONs(root, true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a/IBAN_raw.json"), filepath.Join(root, "b/VAT_raw.json")}, raw)

	_, err = ListPDFs(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestDocTypeFromFileName(t *testing.T) {
	assert.Equal(t, "vat_certificate", DocTypeFromFileName("/x/VAT_raw.json", ""))
	assert.Equal(t, "iban_letter", DocTypeFromFileName("IBAN.json", ""))
	assert.Equal(t, documents.DefaultDocType, DocTypeFromFileName("misc_raw.json", ""))
	assert.Equal(t, "custom", DocTypeFromFileName("VAT_raw.json", "custom"))
}
