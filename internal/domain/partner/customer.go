package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/rentaldocs/backend/internal/domain/shared"
)

// Contact holds the identifying fields shared by customers and vendors.
// A counterparty is minimally identified when it has a name or a company.
type Contact struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	TRN     string `json:"trn"` // Tax registration number
}

// DisplayName returns the company when set, the person's name otherwise
func (c Contact) DisplayName() string {
	if company := strings.TrimSpace(c.Company); company != "" {
		return company
	}
	return strings.TrimSpace(c.Name)
}

// IsIdentified reports whether the contact carries a name or a company
func (c Contact) IsIdentified() bool {
	return strings.TrimSpace(c.Name) != "" || strings.TrimSpace(c.Company) != ""
}

// Validate checks the optional contact fields
func (c Contact) Validate() error {
	if !c.IsIdentified() {
		return shared.NewDomainError("INVALID_NAME", "Name or company is required")
	}
	if len(c.Name) > 200 || len(c.Company) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name and company cannot exceed 200 characters")
	}
	if c.Phone != "" {
		if err := validatePhone(c.Phone); err != nil {
			return err
		}
	}
	if c.Email != "" {
		if err := validateEmail(c.Email); err != nil {
			return err
		}
	}
	return nil
}

// Customer is the counterparty of quotes and invoices
type Customer struct {
	shared.BaseEntity
	Contact
	Notes string `json:"notes"`
}

// NewCustomer creates a new customer
func NewCustomer(contact Contact) (*Customer, error) {
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Contact:    contact,
	}, nil
}

// Update replaces the customer's contact details
func (c *Customer) Update(contact Contact) error {
	if err := contact.Validate(); err != nil {
		return err
	}
	c.Contact = contact
	c.UpdatedAt = time.Now()
	return nil
}

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
