package connector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const jsonContentType = "application/json; charset=utf-8"

// GCSDocumentConnector reads and writes vendor documents in a Cloud Storage bucket
type GCSDocumentConnector struct {
	client *storage.Client
	bucket string
	layout documentLayout
	logger logger.Logger
}

// NewGCSDocumentConnector creates a connector for the bucket of settings. A
// credentials file is used when configured, else Application Default Credentials.
// STORAGE_EMULATOR_HOST is honoured by the client library.
func NewGCSDocumentConnector(ctx context.Context, settings *config.GCSSettings, logger logger.Logger) (*GCSDocumentConnector, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if settings.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(settings.CredentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSDocumentConnector{
		client: client,
		bucket: settings.Bucket,
		layout: newDocumentLayout(settings.PortalPrefix, settings.OCRPrefix, settings.MasterPrefix),
		logger: logger,
	}, nil
}

// Close releases the storage client
func (c *GCSDocumentConnector) Close() error {
	return c.client.Close()
}

// ReadJSON decodes the object into v. A missing object yields documents.ErrNotFound.
func (c *GCSDocumentConnector) ReadJSON(ctx context.Context, bucket, object string, v any) error {
	reader, err := c.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("gs://%s/%s: %w", bucket, object, documents.ErrNotFound)
		}
		return fmt.Errorf("failed to open gs://%s/%s: %w", bucket, object, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read gs://%s/%s: %w", bucket, object, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode gs://%s/%s: %w", bucket, object, err)
	}
	return nil
}

// DownloadToFile copies the object to dest, creating parent directories
func (c *GCSDocumentConnector) DownloadToFile(ctx context.Context, bucket, object, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}

	reader, err := c.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to open gs://%s/%s: %w", bucket, object, err)
	}
	defer reader.Close()

	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		return fmt.Errorf("failed to download gs://%s/%s: %w", bucket, object, err)
	}
	return file.Close()
}

// listJSONObjects returns the JSON objects directly under prefix
func (c *GCSDocumentConnector) listJSONObjects(ctx context.Context, prefix string) ([]string, error) {
	it := c.client.Bucket(c.bucket).Objects(ctx, &storage.Query{Prefix: prefix + "/", Delimiter: "/"})

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list gs://%s/%s: %w", c.bucket, prefix, err)
		}
		// entries with only Prefix set are sub folders
		if attrs.Name == "" || !isJSONFile(attrs.Name) {
			continue
		}
		names = append(names, attrs.Name)
	}
	sort.Strings(names)
	return names, nil
}

// ListVendorIDs returns the vendor IDs of the portal objects, sorted
func (c *GCSDocumentConnector) ListVendorIDs(ctx context.Context) ([]string, error) {
	names, err := c.listJSONObjects(ctx, c.layout.portal)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		ids = append(ids, strings.TrimSuffix(path.Base(name), jsonExt))
	}
	return ids, nil
}

// LoadVendorContext reads the portal submission, vendor master and OCR
// documents of vendorID. Only the portal submission is mandatory.
func (c *GCSDocumentConnector) LoadVendorContext(ctx context.Context, vendorID string) (*documents.VendorContext, error) {
	if err := documents.ValidateVendorID(vendorID); err != nil {
		return nil, err
	}
	vc := documents.NewVendorContext(vendorID)

	if err := c.ReadJSON(ctx, c.bucket, c.layout.portalKey(vendorID), &vc.Portal); err != nil {
		return nil, err
	}

	var master map[string]any
	switch err := c.ReadJSON(ctx, c.bucket, c.layout.masterKey(vendorID), &master); {
	case err == nil:
		vc.VendorMaster = master
	case !errors.Is(err, documents.ErrNotFound):
		return nil, err
	}

	names, err := c.listJSONObjects(ctx, c.layout.ocrDir(vendorID))
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		var doc map[string]any
		if err := c.ReadJSON(ctx, c.bucket, name, &doc); err != nil {
			return nil, err
		}
		vc.Documents[ocrDocType(name, doc)] = doc
	}

	c.logger.Debug(fmt.Sprintf("Loaded vendor %s from gs://%s: %d documents", vendorID, c.bucket, len(vc.Documents)))
	return vc, nil
}

// Save writes doc next to the vendor's OCR documents and returns its gs:// URI
func (c *GCSDocumentConnector) Save(ctx context.Context, vendorID string, doc *documents.StructuredDocument) (string, error) {
	if doc.DocType == "" {
		return "", fmt.Errorf("document has no doc_type")
	}
	if err := documents.ValidateVendorID(vendorID); err != nil {
		return "", err
	}

	data, err := MarshalDocument(doc)
	if err != nil {
		return "", err
	}

	object := path.Join(c.layout.ocrDir(vendorID), doc.DocType+jsonExt)
	writer := c.client.Bucket(c.bucket).Object(object).NewWriter(ctx)
	writer.ContentType = jsonContentType

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return "", fmt.Errorf("failed to write gs://%s/%s: %w", c.bucket, object, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to write gs://%s/%s: %w", c.bucket, object, err)
	}

	uri := fmt.Sprintf("gs://%s/%s", c.bucket, object)
	c.logger.Info(fmt.Sprintf("Saved %s document of vendor %s to %s", doc.DocType, vendorID, uri))
	return uri, nil
}
