package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lead statuses shared by customers and suppliers.
const DefaultLeadStatus = "New lead"

var LeadStatuses = []string{
	"New lead",
	"Not Started",
	"Interested",
	"Checklist Shared",
	"Ringing",
	"Switched Off",
	"Call Back",
	"Not Interested",
}

type Customer struct {
	Id        string                      `json:"id" gorm:"primaryKey;size:36"`
	Name      string                      `json:"name"`
	Phone     string                      `json:"phone"`
	Names     datatypes.JSONSlice[string] `json:"names"`
	Phones    datatypes.JSONSlice[string] `json:"phones"`
	ShipTo    string                      `json:"shipTo"`
	BillTo    string                      `json:"billTo"`
	Status    string                      `json:"status" gorm:"not null;default:'New lead'"`
	CreatedAt time.Time                   `json:"createdAt"`
}

func (customer *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if customer.Id == "" {
		customer.Id = uuid.NewString()
	}
	if customer.Status == "" {
		customer.Status = DefaultLeadStatus
	}
	return
}
