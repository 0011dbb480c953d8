// Package documents models the extracted supplier documents (OCR output, vendor
// master data, registry certificates) that cross source rules read from.
package documents
