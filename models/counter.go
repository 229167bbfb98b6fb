package models

import (
	"fmt"
	"time"
)

// Document modules. Each module owns exactly one InvoiceCounter.
const (
	ModulePerforma  = "performa"
	ModuleQuotation = "quotation"
	ModulePurchase  = "purchase"
)

// Modules lists every module that issues invoice numbers.
var Modules = []string{ModulePerforma, ModuleQuotation, ModulePurchase}

// InvoiceCounter is the persisted numbering state of a module.
// CurrentNumber is the next number to be issued, not the last issued one.
type InvoiceCounter struct {
	Module        string    `json:"module" gorm:"primaryKey;size:32"`
	Prefix        string    `json:"prefix" gorm:"not null;size:32"`
	CurrentNumber int64     `json:"currentNumber" gorm:"not null"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// InvoiceNo formats n with the counter's prefix, e.g. "PI-7".
func (c InvoiceCounter) InvoiceNo(n int64) string {
	return FormatInvoiceNo(c.Prefix, n)
}

// NextInvoiceNo is the number the next allocation will issue.
func (c InvoiceCounter) NextInvoiceNo() string {
	return c.InvoiceNo(c.CurrentNumber)
}

func FormatInvoiceNo(prefix string, n int64) string {
	return fmt.Sprintf("%s-%d", prefix, n)
}

// IsModule reports whether m is a known document module.
func IsModule(m string) bool {
	for _, known := range Modules {
		if m == known {
			return true
		}
	}
	return false
}
