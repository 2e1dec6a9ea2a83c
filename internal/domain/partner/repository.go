package partner

import "github.com/rentaldocs/backend/internal/domain/shared"

// CustomerRepository is the persistence contract for customers
type CustomerRepository interface {
	shared.Repository[Customer]
}

// VendorRepository is the persistence contract for vendors
type VendorRepository interface {
	shared.Repository[Vendor]
}
