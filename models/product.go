package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	Id          string          `json:"id" gorm:"primaryKey;size:36"`
	Description string          `json:"description" gorm:"not null"`
	HsnUom      string          `json:"hsn_uom" gorm:"not null"`
	Uom         string          `json:"uom" gorm:"not null"`
	Rate        decimal.Decimal `json:"rate" gorm:"type:numeric(12,2);not null"`
	ImagePath   string          `json:"imagePath"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (product *Product) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if product.Id == "" {
		product.Id = uuid.NewString()
	}
	return
}
