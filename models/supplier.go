package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Supplier struct {
	Id        string                      `json:"id" gorm:"primaryKey;size:36"`
	Name      string                      `json:"name"`
	Phone     string                      `json:"phone"`
	Names     datatypes.JSONSlice[string] `json:"names"`
	Phones    datatypes.JSONSlice[string] `json:"phones"`
	ShipTo    string                      `json:"shipTo"`
	BillTo    string                      `json:"billTo"`
	Status    string                      `json:"status" gorm:"not null;default:'New lead'"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

func (supplier *Supplier) BeforeCreate(tx *gorm.DB) (err error) {
	if supplier.Id == "" {
		supplier.Id = uuid.NewString()
	}
	if supplier.Status == "" {
		supplier.Status = DefaultLeadStatus
	}
	return
}
