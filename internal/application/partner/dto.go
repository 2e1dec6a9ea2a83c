package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/partner"
)

// =============================================================================
// Request DTOs
// =============================================================================

// ContactRequest holds the contact fields shared by customers and vendors
type ContactRequest struct {
	Name    string `json:"name" binding:"max=200"`
	Company string `json:"company" binding:"max=200"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
	TRN     string `json:"trn" binding:"max=50"`
}

func (r ContactRequest) toContact() partner.Contact {
	return partner.Contact{
		Name:    r.Name,
		Company: r.Company,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		TRN:     r.TRN,
	}
}

// CustomerRequest creates or updates a customer
type CustomerRequest struct {
	ContactRequest
	Notes string `json:"notes"`
}

// VendorRequest creates or updates a vendor
type VendorRequest struct {
	ContactRequest
	BankName    string `json:"bank_name" binding:"max=200"`
	BankAccount string `json:"bank_account" binding:"max=100"`
	Notes       string `json:"notes"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// ContactResponse is the contact block of a counterparty response
type ContactResponse struct {
	Name        string `json:"name"`
	Company     string `json:"company"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	TRN         string `json:"trn"`
}

func toContactResponse(c partner.Contact) ContactResponse {
	return ContactResponse{
		Name:        c.Name,
		Company:     c.Company,
		DisplayName: c.DisplayName(),
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		TRN:         c.TRN,
	}
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID uuid.UUID `json:"id"`
	ContactResponse
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a domain Customer to a response
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		ContactResponse: toContactResponse(c.Contact),
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// VendorResponse represents a vendor in API responses
type VendorResponse struct {
	ID uuid.UUID `json:"id"`
	ContactResponse
	BankName    string    `json:"bank_name"`
	BankAccount string    `json:"bank_account"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToVendorResponse converts a domain Vendor to a response
func ToVendorResponse(v *partner.Vendor) VendorResponse {
	return VendorResponse{
		ID:              v.ID,
		ContactResponse: toContactResponse(v.Contact),
		BankName:        v.BankName,
		BankAccount:     v.BankAccount,
		Notes:           v.Notes,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}
