//go:build integration
// +build integration

package connector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGCSConnectorTest(t *testing.T) (*GCSDocumentConnector, string) {
	t.Helper()
	if os.Getenv("STORAGE_EMULATOR_HOST") == "" {
		t.Skip("STORAGE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	prefix := "run-" + uuid.NewString()

	c, err := NewGCSDocumentConnector(ctx, &config.GCSSettings{
		ProjectID:    TestProjectID,
		Bucket:       TestBucket,
		PortalPrefix: prefix + "/portal",
		OCRPrefix:    prefix + "/ocr",
		MasterPrefix: prefix + "/master",
	}, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	// the emulator answers 409 for an existing bucket
	_ = c.client.Bucket(TestBucket).Create(ctx, TestProjectID, &storage.BucketAttrs{})

	return c, prefix
}

func putObject(t *testing.T, c *GCSDocumentConnector, object, content string) {
	t.Helper()
	w := c.client.Bucket(TestBucket).Object(object).NewWriter(context.Background())
	_, err := w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestGCSDocumentConnector_LoadVendorContext(t *testing.T) {
	c, prefix := newGCSConnectorTest(t)
	ctx := context.Background()

	putObject(t, c, prefix+"/portal/V-1.json", `{"cr_number": "1010"}`)
	putObject(t, c, prefix+"/master/V-1/vendor_master.json", `{"name": "Acme"}`)
	putObject(t, c, prefix+"/ocr/V-1/VAT.json", `{"vat_number": "300"}`)

	ids, err := c.ListVendorIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"V-1"}, ids)

	vc, err := c.LoadVendorContext(ctx, "V-1")
	require.NoError(t, err)
	assert.Equal(t, "1010", vc.Portal["cr_number"])
	assert.Equal(t, "Acme", vc.VendorMaster["name"])
	assert.Equal(t, "300", vc.Documents["ocr.VAT"]["vat_number"])

	_, err = c.LoadVendorContext(ctx, "V-404")
	assert.ErrorIs(t, err, documents.ErrNotFound)
}

func TestGCSDocumentConnector_SaveAndDownload(t *testing.T) {
	c, prefix := newGCSConnectorTest(t)
	ctx := context.Background()

	pages := 1
	uri, err := c.Save(ctx, "V-1", &documents.StructuredDocument{
		DocType:   documents.MocCertificateDocType,
		PageCount: &pages,
		Fields:    map[string]any{"cr_number": "1010"},
	})
	require.NoError(t, err)
	assert.Equal(t, "gs://"+TestBucket+"/"+prefix+"/ocr/V-1/moc_certificate.json", uri)

	var doc map[string]any
	require.NoError(t, c.ReadJSON(ctx, TestBucket, prefix+"/ocr/V-1/moc_certificate.json", &doc))
	assert.Equal(t, documents.MocCertificateDocType, doc["doc_type"])

	dest := filepath.Join(t.TempDir(), "nested", "moc.json")
	require.NoError(t, c.DownloadToFile(ctx, TestBucket, prefix+"/ocr/V-1/moc_certificate.json", dest))
	assert.Equal(t, "1010", testutil.ReadJSONFile(t, dest)["fields"].(map[string]any)["cr_number"])
}
