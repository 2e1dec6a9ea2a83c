package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/partner"
	"github.com/rentaldocs/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVendorService_Create(t *testing.T) {
	repo := new(MockVendorRepository)
	svc := NewVendorService(repo, nil)
	var saved *partner.Vendor
	repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Vendor")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*partner.Vendor) }).
		Return(nil)

	got, err := svc.Create(context.Background(), VendorRequest{
		ContactRequest: ContactRequest{Company: "Desert Fleet Rentals"},
		BankName:       "  Emirates NBD ",
		BankAccount:    "AE070331234567890123456",
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Emirates NBD", got.BankName)
	assert.Equal(t, "AE070331234567890123456", saved.BankAccount)
}

func TestVendorService_CreateRejectsInvalidEmail(t *testing.T) {
	repo := new(MockVendorRepository)
	svc := NewVendorService(repo, nil)

	_, err := svc.Create(context.Background(), VendorRequest{
		ContactRequest: ContactRequest{Company: "Desert Fleet Rentals", Email: "not-an-email"},
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestVendorService_GetByID(t *testing.T) {
	repo := new(MockVendorRepository)
	svc := NewVendorService(repo, nil)
	vendor, err := partner.NewVendor(partner.Contact{Company: "Desert Fleet Rentals"})
	require.NoError(t, err)
	missing := uuid.New()
	repo.On("FindByID", mock.Anything, vendor.ID).Return(vendor, nil)
	repo.On("FindByID", mock.Anything, missing).Return(nil, nil)

	got, err := svc.GetByID(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desert Fleet Rentals", got.DisplayName)

	_, err = svc.GetByID(context.Background(), missing)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestVendorService_ListAndDelete(t *testing.T) {
	repo := new(MockVendorRepository)
	svc := NewVendorService(repo, nil)
	b, _ := partner.NewVendor(partner.Contact{Company: "Blue Line"})
	a, _ := partner.NewVendor(partner.Contact{Company: "Atlas Cars"})
	repo.On("FindAll", mock.Anything).Return([]partner.Vendor{*b, *a}, nil)
	repo.On("FindByID", mock.Anything, a.ID).Return(a, nil)
	repo.On("Delete", mock.Anything, a.ID).Return(nil)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Atlas Cars", list[0].DisplayName)

	require.NoError(t, svc.Delete(context.Background(), a.ID))
	repo.AssertExpectations(t)
}
