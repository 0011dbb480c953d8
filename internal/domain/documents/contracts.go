package documents

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned when a vendor's portal submission does not exist
	ErrNotFound = errors.New("document not found")
	// ErrInvalidVendorID is returned for vendor IDs that are not a single path element
	ErrInvalidVendorID = errors.New("invalid vendor id")
)

// ValidateVendorID checks that vendorID names exactly one file or folder below a
// document root, so it can be joined into local paths and object names.
func ValidateVendorID(vendorID string) error {
	if vendorID == "" || vendorID == "." ||
		strings.ContainsAny(vendorID, `/\`) || !filepath.IsLocal(vendorID) {
		return fmt.Errorf("%w: %q", ErrInvalidVendorID, vendorID)
	}
	return nil
}

// DocumentSource reads vendor submissions and extracted documents
type DocumentSource interface {
	// ListVendorIDs returns the IDs of all vendors with a portal submission, sorted
	ListVendorIDs(ctx context.Context) ([]string, error)
	// LoadVendorContext returns the portal submission, vendor master and documents of
	// one vendor. A missing portal submission yields ErrNotFound.
	LoadVendorContext(ctx context.Context, vendorID string) (*VendorContext, error)
}

// DocumentWriter stores structured documents next to the extracted ones
type DocumentWriter interface {
	// Save writes doc for vendorID and returns where it was written
	Save(ctx context.Context, vendorID string, doc *StructuredDocument) (string, error)
}
