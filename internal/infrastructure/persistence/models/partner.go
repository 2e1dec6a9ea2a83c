package models

import (
	"github.com/rentaldocs/backend/internal/domain/partner"
)

// ContactColumns embeds the shared contact fields of customers and vendors
type ContactColumns struct {
	Name    string `gorm:"type:varchar(200)"`
	Company string `gorm:"type:varchar(200);index"`
	Email   string `gorm:"type:varchar(200)"`
	Phone   string `gorm:"type:varchar(50)"`
	Address string `gorm:"type:text"`
	TRN     string `gorm:"column:trn;type:varchar(50)"`
}

func contactColumnsFrom(c partner.Contact) ContactColumns {
	return ContactColumns{
		Name:    c.Name,
		Company: c.Company,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		TRN:     c.TRN,
	}
}

func (c ContactColumns) toContact() partner.Contact {
	return partner.Contact{
		Name:    c.Name,
		Company: c.Company,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		TRN:     c.TRN,
	}
}

// CustomerModel is the persistence model for partner.Customer
type CustomerModel struct {
	BaseModel
	ContactColumns
	Notes string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Contact:    m.ContactColumns.toContact(),
		Notes:      m.Notes,
	}
}

// CustomerModelFromDomain creates a model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		ContactColumns: contactColumnsFrom(c.Contact),
		Notes:          c.Notes,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// VendorModel is the persistence model for partner.Vendor
type VendorModel struct {
	BaseModel
	ContactColumns
	BankName    string `gorm:"type:varchar(200)"`
	BankAccount string `gorm:"type:varchar(100)"`
	Notes       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (VendorModel) TableName() string {
	return "vendors"
}

// ToDomain converts the model to a domain Vendor
func (m *VendorModel) ToDomain() *partner.Vendor {
	return &partner.Vendor{
		BaseEntity:  m.BaseModel.ToDomain(),
		Contact:     m.ContactColumns.toContact(),
		BankName:    m.BankName,
		BankAccount: m.BankAccount,
		Notes:       m.Notes,
	}
}

// VendorModelFromDomain creates a model from a domain Vendor
func VendorModelFromDomain(v *partner.Vendor) *VendorModel {
	m := &VendorModel{
		ContactColumns: contactColumnsFrom(v.Contact),
		BankName:       v.BankName,
		BankAccount:    v.BankAccount,
		Notes:          v.Notes,
	}
	m.FromDomainBaseEntity(v.BaseEntity)
	return m
}
