//go:build unit
// +build unit

package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/testutil"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRules = `
portal_field_validations:
  cr_number:
    pattern: '\d{10}'
cross_source_rules:
  - id: CR_MATCH
    description: Portal CR matches the certificate
    rule_type: equality
    left: {source: portal, field: cr_number}
    right: {source: doc, doc_type: ocr.cr_certificate, field: cr_number}
`

func newTestRoot(t *testing.T, init func(*cobra.Command) error, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	root := &cobra.Command{Use: "portal-validation-cli", SilenceUsage: true, SilenceErrors: true}
	require.NoError(t, init(root))

	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs(args)
	return root, out
}

func TestRunBatch(t *testing.T) {
	var calls atomic.Int32
	err := runBatch(context.Background(), []string{"a", "b", "c"}, 2, func(ctx context.Context, id string) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	boom := errors.New("boom")
	err = runBatch(context.Background(), []string{"a", "b"}, 0, func(ctx context.Context, id string) error {
		if id == "a" {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestValidatePortalCmd(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, testutil.CreateTestFile(rulesPath, []byte(testRules)))
	testutil.WriteJSONFile(t, dir, "portal/V-1.json", map[string]any{"cr_number": "1010123456"})
	testutil.WriteJSONFile(t, dir, "portal/V-2.json", map[string]any{"cr_number": "12"})

	outputRoot := filepath.Join(dir, "out")
	root, _ := newTestRoot(t, InitPortalCommands, "portal", "validate",
		"--config", rulesPath,
		"--portal-root", filepath.Join(dir, "portal"),
		"--output-root", outputRoot,
	)
	require.NoError(t, root.ExecuteContext(context.Background()))

	report := testutil.ReadJSONFile(t, filepath.Join(outputRoot, "V-1_portal_report.json"))
	assert.Equal(t, "FAIL", report["summary_status"])
	results := report["results"].([]any)
	require.Len(t, results, 2)
	assert.Equal(t, "PASS", results[0].(map[string]any)["status"])

	assert.FileExists(t, filepath.Join(outputRoot, "V-2_portal_report.json"))
}

func TestValidatePortalCmd_UnknownVendor(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, testutil.CreateTestFile(rulesPath, []byte(testRules)))

	root, _ := newTestRoot(t, InitPortalCommands, "portal", "validate",
		"--config", rulesPath,
		"--portal-root", filepath.Join(dir, "portal"),
		"--vendor-id", "V-9",
		"--output-root", filepath.Join(dir, "out"),
	)
	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestValidateVendorCmd(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, testutil.CreateTestFile(rulesPath, []byte(testRules)))
	testutil.WriteJSONFile(t, dir, "portal/V-1.json", map[string]any{"cr_number": "1010123456"})
	testutil.WriteJSONFile(t, dir, "ocr/V-1/cr_certificate.json", map[string]any{"cr_number": "1010123456"})

	outputRoot := filepath.Join(dir, "out")
	root, _ := newTestRoot(t, InitVendorCommands, "vendor", "validate",
		"--config", rulesPath,
		"--portal-root", filepath.Join(dir, "portal"),
		"--ocr-root", filepath.Join(dir, "ocr"),
		"--master-root", filepath.Join(dir, "master"),
		"--output-root", outputRoot,
	)
	require.NoError(t, root.ExecuteContext(context.Background()))

	report := testutil.ReadJSONFile(t, filepath.Join(outputRoot, "V-1_validation_report.json"))
	assert.Equal(t, "V-1", report["vendor_id"])
	assert.Equal(t, "PASS", report["summary_status"])
	assert.Equal(t, float64(2), report["summary"].(map[string]any)["total_rules"])
}

func TestDocsConvertAndList(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteJSONFile(t, dir, "raw/VAT_raw.json", map[string]any{
		"pages_count": 2,
		"response":    `{"vat_number": "300"}`,
	})
	testutil.WriteJSONFile(t, dir, "raw/notes.json", map[string]any{})

	outputRoot := filepath.Join(dir, "structured")
	root, _ := newTestRoot(t, InitDocsCommands, "docs", "convert",
		"--input", filepath.Join(dir, "raw"),
		"--output-root", outputRoot,
		"--vendor-id", "V-1",
	)
	require.NoError(t, root.ExecuteContext(context.Background()))

	doc := testutil.ReadJSONFile(t, filepath.Join(outputRoot, "V-1", "vat_certificate.json"))
	assert.Equal(t, "vat_certificate", doc["doc_type"])
	assert.Equal(t, float64(2), doc["page_count"])
	assert.Equal(t, "300", doc["fields"].(map[string]any)["vat_number"])

	root, out := newTestRoot(t, InitDocsCommands, "docs", "list", "--root", filepath.Join(dir, "raw"), "--raw-only")
	require.NoError(t, root.ExecuteContext(context.Background()))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{filepath.Join(dir, "raw", "VAT_raw.json")}, lines)
}

func TestWriteJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	outPath, err := writeJSON(dir, "r.json", map[string]any{"name": "<Acme & Co>"})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<Acme & Co>")
}
