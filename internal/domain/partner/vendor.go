package partner

import (
	"time"

	"github.com/rentaldocs/backend/internal/domain/shared"
)

// Vendor is the counterparty of purchase orders
type Vendor struct {
	shared.BaseEntity
	Contact
	BankName    string `json:"bankName"`
	BankAccount string `json:"bankAccount"`
	Notes       string `json:"notes"`
}

// NewVendor creates a new vendor
func NewVendor(contact Contact) (*Vendor, error) {
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	return &Vendor{
		BaseEntity: shared.NewBaseEntity(),
		Contact:    contact,
	}, nil
}

// Update replaces the vendor's contact details
func (v *Vendor) Update(contact Contact) error {
	if err := contact.Validate(); err != nil {
		return err
	}
	v.Contact = contact
	v.UpdatedAt = time.Now()
	return nil
}
