package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"billing-backend/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumbering_ExposesCounters(t *testing.T) {
	n := metrics.New()
	n.Issued("performa")
	n.Issued("performa")
	n.Conflict("quotation")
	n.Inconsistent("purchase")

	rec := httptest.NewRecorder()
	n.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, `billing_invoice_numbers_issued_total{module="performa"} 2`)
	assert.Contains(t, out, `billing_invoice_number_conflicts_total{module="quotation"} 1`)
	assert.Contains(t, out, `billing_invoice_inconsistencies_total{module="purchase"} 1`)
}
