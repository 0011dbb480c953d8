//go:build unit
// +build unit

package registry

import (
	"testing"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommercialRegistration_ToDocument(t *testing.T) {
	cr := "1010123456"
	name := "Acme Trading"
	reg := &CommercialRegistration{CRNumber: &cr, CompanyName: &name}

	doc := reg.ToDocument()
	require.NotNil(t, doc.PageCount)
	assert.Equal(t, documents.MocCertificateDocType, doc.DocType)
	assert.Equal(t, 1, *doc.PageCount)
	assert.Equal(t, "1010123456", doc.Fields["cr_number"])
	assert.Equal(t, "Acme Trading", doc.Fields["company_name"])
	assert.Contains(t, doc.Fields, "issue_date_gregorian")
	assert.Nil(t, doc.Fields["issue_date_gregorian"])
}
