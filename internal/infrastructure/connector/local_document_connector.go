package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"
)

// LocalDocumentConnector reads vendor data from folders on disk
type LocalDocumentConnector struct {
	layout documentLayout
	logger logger.Logger
}

// NewLocalDocumentConnector creates a DocumentSource over the folders of settings
func NewLocalDocumentConnector(settings *config.DocumentSourceSettings, logger logger.Logger) (*LocalDocumentConnector, error) {
	if settings == nil {
		return nil, fmt.Errorf("document source settings are required")
	}
	return &LocalDocumentConnector{
		layout: newDocumentLayout(
			filepath.ToSlash(settings.PortalRoot),
			filepath.ToSlash(settings.OCRRoot),
			filepath.ToSlash(settings.MasterRoot),
		),
		logger: logger,
	}, nil
}

// ListVendorIDs returns the stems of the portal JSON files, sorted
func (c *LocalDocumentConnector) ListVendorIDs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.FromSlash(c.layout.portal))
	if err != nil {
		return nil, fmt.Errorf("failed to list portal folder %s: %w", c.layout.portal, err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !isJSONFile(e.Name()) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), jsonExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// LoadPortal reads only the portal submission of vendorID
func (c *LocalDocumentConnector) LoadPortal(ctx context.Context, vendorID string) (map[string]any, error) {
	if err := documents.ValidateVendorID(vendorID); err != nil {
		return nil, err
	}
	portalPath := filepath.FromSlash(c.layout.portalKey(vendorID))

	var portal map[string]any
	if err := readJSONFile(portalPath, &portal); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("portal file %s: %w", portalPath, documents.ErrNotFound)
		}
		return nil, err
	}
	if portal == nil {
		portal = map[string]any{}
	}
	return portal, nil
}

// LoadVendorContext reads the portal submission, vendor master and OCR
// documents of vendorID. Only the portal submission is mandatory.
func (c *LocalDocumentConnector) LoadVendorContext(ctx context.Context, vendorID string) (*documents.VendorContext, error) {
	portal, err := c.LoadPortal(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	vc := documents.NewVendorContext(vendorID)
	vc.Portal = portal

	masterPath := filepath.FromSlash(c.layout.masterKey(vendorID))
	var master map[string]any
	switch err := readJSONFile(masterPath, &master); {
	case err == nil:
		vc.VendorMaster = master
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	ocrDir := filepath.FromSlash(c.layout.ocrDir(vendorID))
	entries, err := os.ReadDir(ocrDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to list OCR folder %s: %w", ocrDir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !isJSONFile(e.Name()) {
			continue
		}
		var doc map[string]any
		if err := readJSONFile(filepath.Join(ocrDir, e.Name()), &doc); err != nil {
			return nil, err
		}
		vc.Documents[ocrDocType(e.Name(), doc)] = doc
	}

	c.logger.Debug(fmt.Sprintf("Loaded vendor %s: %d documents, vendor master present: %t", vendorID, len(vc.Documents), vc.VendorMaster != nil))
	return vc, nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// LocalDocumentWriter saves structured documents as <root>/<vendor_id>/<doc_type>.json
type LocalDocumentWriter struct {
	root   string
	logger logger.Logger
}

// NewLocalDocumentWriter creates a DocumentWriter rooted at root
func NewLocalDocumentWriter(root string, logger logger.Logger) (*LocalDocumentWriter, error) {
	if root == "" {
		return nil, fmt.Errorf("output root is required")
	}
	return &LocalDocumentWriter{root: root, logger: logger}, nil
}

// Save writes doc as indented UTF-8 JSON and returns the file path
func (w *LocalDocumentWriter) Save(ctx context.Context, vendorID string, doc *documents.StructuredDocument) (string, error) {
	if doc.DocType == "" {
		return "", fmt.Errorf("document has no doc_type")
	}

	if err := documents.ValidateVendorID(vendorID); err != nil {
		return "", err
	}

	dir := filepath.Join(w.root, vendorID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := MarshalDocument(doc)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(dir, doc.DocType+jsonExt)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	w.logger.Debug(fmt.Sprintf("Wrote %s document of vendor %s to %s", doc.DocType, vendorID, outPath))
	return outPath, nil
}

// MarshalDocument renders v as two-space indented JSON without HTML escaping
func MarshalDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}
