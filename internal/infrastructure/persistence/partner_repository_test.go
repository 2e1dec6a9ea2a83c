package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/partner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCustomerRepository(newTestDatabase(t).DB)

	customer, err := partner.NewCustomer(partner.Contact{
		Name:    "Ahmed Ali",
		Company: "Gulf Logistics LLC",
		Email:   "ahmed@gulflogistics.ae",
		TRN:     "100987654300003",
	})
	require.NoError(t, err)
	customer.Notes = "Corporate account"
	require.NoError(t, repo.Save(ctx, customer))

	found, err := repo.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, customer.Contact, found.Contact)
	assert.Equal(t, "Corporate account", found.Notes)

	require.NoError(t, found.Update(partner.Contact{Name: "Ahmed Ali", Company: "Gulf Logistics FZE"}))
	require.NoError(t, repo.Save(ctx, found))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Gulf Logistics FZE", all[0].Company)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Delete(ctx, customer.ID))
	gone, err := repo.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestGormVendorRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormVendorRepository(newTestDatabase(t).DB)

	vendor, err := partner.NewVendor(partner.Contact{Company: "Emirates Fleet Parts"})
	require.NoError(t, err)
	vendor.BankName = "Emirates NBD"
	vendor.BankAccount = "AE070331234567890123456"
	require.NoError(t, repo.Save(ctx, vendor))

	found, err := repo.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Emirates Fleet Parts", found.DisplayName())
	assert.Equal(t, "Emirates NBD", found.BankName)
	assert.Equal(t, "AE070331234567890123456", found.BankAccount)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, vendor.ID))
	gone, err := repo.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
