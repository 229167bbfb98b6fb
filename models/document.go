package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document is a business document carrying an invoice number.
type Document interface {
	Module() string
	DocumentID() string
	EnsureID()
	InvoiceNumber() string
	AssignInvoiceNo(no string)
	AttachmentPath() string
	SetAttachment(path string)
	SetCreatedBy(userID string)
}

// DocumentBase holds the columns shared by every document table.
// InvoiceNo is assigned once, at creation, and never updated.
type DocumentBase struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	InvoiceNo string    `json:"invoiceNo" gorm:"uniqueIndex;not null;size:64"`
	PdfFile   string    `json:"pdfFile"`
	CreatedBy string    `json:"createdBy" gorm:"size:64"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *DocumentBase) BeforeCreate(tx *gorm.DB) (err error) {
	d.EnsureID()
	return
}

// EnsureID assigns a UUID v4 unless the document already has an id.
func (d *DocumentBase) EnsureID() {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
}

func (d *DocumentBase) DocumentID() string        { return d.ID }
func (d *DocumentBase) InvoiceNumber() string     { return d.InvoiceNo }
func (d *DocumentBase) AssignInvoiceNo(no string) { d.InvoiceNo = no }
func (d *DocumentBase) AttachmentPath() string    { return d.PdfFile }
func (d *DocumentBase) SetAttachment(path string) { d.PdfFile = path }
func (d *DocumentBase) SetCreatedBy(userID string) {
	d.CreatedBy = userID
}

type Performa struct {
	DocumentBase
	CustomerID              string                      `json:"customerId" gorm:"not null;size:64;index"`
	ProductIDs              datatypes.JSONSlice[string] `json:"productIds" gorm:"not null"`
	Date                    time.Time                   `json:"date" gorm:"not null"`
	ModeOrTermsOfPayment    string                      `json:"modeOrTermsOfPayment" gorm:"not null"`
	SalesPerson             string                      `json:"salesPerson" gorm:"not null"`
	DispatchedThrough       string                      `json:"dispatchedThrough" gorm:"not null"`
	Destination             string                      `json:"destination" gorm:"not null"`
	TermsOfDelivery         string                      `json:"termsOfDelivery" gorm:"not null"`
	TaxType                 string                      `json:"taxType" gorm:"not null"`
	FreightAndCartageAmount decimal.Decimal             `json:"freightAndCartageAmount" gorm:"type:numeric(12,2);not null"`
}

func (*Performa) Module() string { return ModulePerforma }

type Quotation struct {
	DocumentBase
	CustomerID         string    `json:"customerId" gorm:"not null;size:64;index"`
	ProductID          string    `json:"productId" gorm:"not null;size:64"`
	KindAttentionName  string    `json:"kindAttentionName"`
	KindAttentionEmail string    `json:"kindAttentionEmail"`
	Subject            string    `json:"subject"`
	OpenDate           time.Time `json:"openDate"`
	PrintDate          time.Time `json:"printDate"`
	DispatchedThrough  string    `json:"dispatchedThrough"`
	ModeOfPayment      string    `json:"modeOfPayment"`
	DeliveryNoteDate   time.Time `json:"deliveryNoteDate"`
	Destination        string    `json:"destination"`
	SalesPerson        string    `json:"salesPerson"`
	TermsOfDelivery    string    `json:"termsOfDelivery"`
	GreetingNote       string    `json:"greetingNote"`
}

func (*Quotation) Module() string { return ModuleQuotation }

type PurchaseOrder struct {
	DocumentBase
	SupplierID        string    `json:"supplierId" gorm:"not null;size:64;index"`
	VoucherNo         string    `json:"voucherNo" gorm:"not null"`
	ProductID         string    `json:"productId" gorm:"not null;size:64"`
	DispatchedThrough string    `json:"dispatchedThrough" gorm:"not null"`
	ModeOfPayment     string    `json:"modeOfPayment" gorm:"not null"`
	SalesPerson       string    `json:"salesPerson" gorm:"not null"`
	Date              time.Time `json:"date" gorm:"not null"`
	Destination       string    `json:"destination" gorm:"not null"`
	TermsOfDelivery   string    `json:"termsOfDelivery" gorm:"not null"`
}

func (*PurchaseOrder) Module() string { return ModulePurchase }

// NewDocument returns an empty record for module, or nil when the module is unknown.
func NewDocument(module string) Document {
	switch module {
	case ModulePerforma:
		return &Performa{}
	case ModuleQuotation:
		return &Quotation{}
	case ModulePurchase:
		return &PurchaseOrder{}
	}
	return nil
}
