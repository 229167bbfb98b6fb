package invoicing_test

import (
	"errors"
	"testing"

	"billing-backend/invoicing"
	"billing-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performaFields() invoicing.Fields {
	return invoicing.Fields{
		"customerId":              "c-1",
		"productIds":              `["p-1","p-2"]`,
		"date":                    "2024-05-01",
		"modeOrTermsOfPayment":    "30 days",
		"salesPerson":             "Asha",
		"dispatchedThrough":       "Road",
		"destination":             "Pune",
		"termsOfDelivery":         "FOB",
		"taxType":                 "GST",
		"freightAndCartageAmount": "125.50",
	}
}

func validationError(t *testing.T, err error) *invoicing.ValidationError {
	t.Helper()
	var ve *invoicing.ValidationError
	require.True(t, errors.As(err, &ve), "want *ValidationError, got %v", err)
	return ve
}

func TestDecode_Performa(t *testing.T) {
	doc, err := invoicing.Decode(models.ModulePerforma, performaFields())
	require.NoError(t, err)

	p, ok := doc.(*models.Performa)
	require.True(t, ok)
	assert.Equal(t, "c-1", p.CustomerID)
	assert.Equal(t, []string{"p-1", "p-2"}, []string(p.ProductIDs))
	assert.Equal(t, "125.5", p.FreightAndCartageAmount.String())
	assert.Equal(t, 2024, p.Date.Year())
	assert.Empty(t, p.InvoiceNo)
}

func TestDecode_ReportsAllMissingFields(t *testing.T) {
	f := performaFields()
	delete(f, "customerId")
	delete(f, "productIds")

	_, err := invoicing.Decode(models.ModulePerforma, f)
	ve := validationError(t, err)
	assert.ElementsMatch(t, []string{"customerId", "productIds"}, ve.Missing)
	assert.Contains(t, ve.Error(), "customerId")
	assert.Contains(t, ve.Error(), "productIds")
}

func TestDecode_BlankValuesAreMissing(t *testing.T) {
	f := performaFields()
	f["salesPerson"] = "   "
	f["productIds"] = `[]`

	_, err := invoicing.Decode(models.ModulePerforma, f)
	ve := validationError(t, err)
	assert.ElementsMatch(t, []string{"salesPerson", "productIds"}, ve.Missing)
}

func TestDecode_ProductIDsOfBlankStringsAreMissing(t *testing.T) {
	f := performaFields()
	f["productIds"] = `[" ", ""]`

	_, err := invoicing.Decode(models.ModulePerforma, f)
	ve := validationError(t, err)
	assert.Equal(t, []string{"productIds"}, ve.Missing)
}

func TestDecode_InvalidValues(t *testing.T) {
	f := performaFields()
	f["date"] = "next tuesday"
	f["freightAndCartageAmount"] = "-3"
	f["productIds"] = "p-1"

	_, err := invoicing.Decode(models.ModulePerforma, f)
	ve := validationError(t, err)
	assert.Empty(t, ve.Missing)
	assert.Contains(t, ve.Invalid, "date")
	assert.Contains(t, ve.Invalid, "freightAndCartageAmount")
	assert.Contains(t, ve.Invalid, "productIds")
}

func TestDecode_QuotationEmail(t *testing.T) {
	f := invoicing.Fields{
		"customerId":         "c-1",
		"productId":          "p-1",
		"kindAttentionName":  "R. Mehta",
		"kindAttentionEmail": "not-an-email",
		"subject":            "Valves",
		"openDate":           "2024-05-01",
		"printDate":          "2024-05-02",
		"dispatchedThrough":  "Road",
		"modeOfPayment":      "NEFT",
		"deliveryNoteDate":   "2024-05-03",
		"destination":        "Pune",
		"salesPerson":        "Asha",
		"termsOfDelivery":    "FOB",
		"greetingNote":       "Dear Sir",
	}
	_, err := invoicing.Decode(models.ModuleQuotation, f)
	ve := validationError(t, err)
	assert.Contains(t, ve.Invalid, "kindAttentionEmail")

	f["kindAttentionEmail"] = "R.Mehta@Example.com"
	doc, err := invoicing.Decode(models.ModuleQuotation, f)
	require.NoError(t, err)
	assert.Equal(t, "r.mehta@example.com", doc.(*models.Quotation).KindAttentionEmail)
}

func TestDecode_UnknownModule(t *testing.T) {
	_, err := invoicing.Decode("invoice", performaFields())
	assert.ErrorIs(t, err, invoicing.ErrUnknownModule)
}
