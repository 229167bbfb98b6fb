package invoicing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"billing-backend/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Fields is the raw form of a create request. Array fields hold JSON text,
// e.g. `["p1","p2"]`.
type Fields map[string]string

var validate = validator.New()

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

var decoders = map[string]func(r *fieldReader) models.Document{
	models.ModulePerforma:  decodePerforma,
	models.ModuleQuotation: decodeQuotation,
	models.ModulePurchase:  decodePurchaseOrder,
}

// Decode validates in against the required fields of module and builds the
// unnumbered record. Every missing or malformed field is reported in a
// single *ValidationError.
func Decode(module string, in Fields) (models.Document, error) {
	decode, ok := decoders[module]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, module)
	}
	r := &fieldReader{in: in, errs: &ValidationError{}}
	doc := decode(r)
	if !r.errs.empty() {
		return nil, r.errs
	}
	return doc, nil
}

func decodePerforma(r *fieldReader) models.Document {
	return &models.Performa{
		CustomerID:              r.text("customerId"),
		ProductIDs:              r.list("productIds"),
		Date:                    r.date("date"),
		ModeOrTermsOfPayment:    r.text("modeOrTermsOfPayment"),
		SalesPerson:             r.text("salesPerson"),
		DispatchedThrough:       r.text("dispatchedThrough"),
		Destination:             r.text("destination"),
		TermsOfDelivery:         r.text("termsOfDelivery"),
		TaxType:                 r.text("taxType"),
		FreightAndCartageAmount: r.amount("freightAndCartageAmount"),
	}
}

func decodeQuotation(r *fieldReader) models.Document {
	return &models.Quotation{
		CustomerID:         r.text("customerId"),
		ProductID:          r.text("productId"),
		KindAttentionName:  r.text("kindAttentionName"),
		KindAttentionEmail: r.email("kindAttentionEmail"),
		Subject:            r.text("subject"),
		OpenDate:           r.date("openDate"),
		PrintDate:          r.date("printDate"),
		DispatchedThrough:  r.text("dispatchedThrough"),
		ModeOfPayment:      r.text("modeOfPayment"),
		DeliveryNoteDate:   r.date("deliveryNoteDate"),
		Destination:        r.text("destination"),
		SalesPerson:        r.text("salesPerson"),
		TermsOfDelivery:    r.text("termsOfDelivery"),
		GreetingNote:       r.text("greetingNote"),
	}
}

func decodePurchaseOrder(r *fieldReader) models.Document {
	return &models.PurchaseOrder{
		SupplierID:        r.text("supplierId"),
		ProductID:         r.text("productId"),
		Date:              r.date("date"),
		DispatchedThrough: r.text("dispatchedThrough"),
		ModeOfPayment:     r.text("modeOfPayment"),
		SalesPerson:       r.text("salesPerson"),
		Destination:       r.text("destination"),
		TermsOfDelivery:   r.text("termsOfDelivery"),
		VoucherNo:         r.text("voucherNo"),
	}
}

type fieldReader struct {
	in   Fields
	errs *ValidationError
}

func (r *fieldReader) text(name string) string {
	v := strings.TrimSpace(r.in[name])
	if v == "" {
		r.errs.missing(name)
	}
	return v
}

func (r *fieldReader) list(name string) []string {
	raw := strings.TrimSpace(r.in[name])
	if raw == "" {
		r.errs.missing(name)
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		r.errs.invalid(name, "must be a JSON array of ids")
		return nil
	}
	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		r.errs.missing(name)
		return nil
	}
	return out
}

func (r *fieldReader) date(name string) time.Time {
	v := r.text(name)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	r.errs.invalid(name, "must be a date")
	return time.Time{}
}

func (r *fieldReader) amount(name string) decimal.Decimal {
	v := r.text(name)
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		r.errs.invalid(name, "must be a number")
		return decimal.Zero
	}
	if d.IsNegative() {
		r.errs.invalid(name, "must not be negative")
	}
	return d.Round(2)
}

func (r *fieldReader) email(name string) string {
	v := r.text(name)
	if v == "" {
		return v
	}
	if err := validate.Var(v, "email"); err != nil {
		r.errs.invalid(name, "must be an e-mail address")
	}
	return strings.ToLower(v)
}
