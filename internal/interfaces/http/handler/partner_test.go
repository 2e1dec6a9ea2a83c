package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apppartner "github.com/rentaldocs/backend/internal/application/partner"
	"github.com/rentaldocs/backend/internal/domain/shared"
	"github.com/rentaldocs/backend/internal/interfaces/http/dto"
	"github.com/rentaldocs/backend/internal/interfaces/http/middleware"
	"github.com/rentaldocs/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type partnerFixture struct {
	documentFixture
	customers *MockCustomerUseCases
	vendors   *MockVendorUseCases
}

func newPartnerFixture() partnerFixture {
	customers := new(MockCustomerUseCases)
	vendors := new(MockVendorUseCases)
	h := NewPartnerHandler(customers, vendors)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.NewRouter(engine).
		Register(CustomerRoutes(h)).
		Register(VendorRoutes(h)).
		Setup()

	return partnerFixture{
		documentFixture: documentFixture{engine: engine},
		customers:       customers,
		vendors:         vendors,
	}
}

func TestPartnerHandler_Customers(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		f := newPartnerFixture()
		f.customers.On("List", mock.Anything).Return([]apppartner.CustomerResponse{
			{ID: uuid.New(), ContactResponse: apppartner.ContactResponse{DisplayName: "Gulf Logistics LLC"}},
		}, nil)

		w := f.do(http.MethodGet, "/api/v1/customers", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		list, ok := decodeResponse(t, w).Data.([]any)
		require.True(t, ok)
		assert.Len(t, list, 1)
	})

	t.Run("create", func(t *testing.T) {
		f := newPartnerFixture()
		id := uuid.New()
		f.customers.On("Create", mock.Anything, mock.MatchedBy(func(req apppartner.CustomerRequest) bool {
			return req.Company == "Gulf Logistics LLC" && req.TRN == "100987654300003"
		})).Return(&apppartner.CustomerResponse{ID: id}, nil)

		w := f.do(http.MethodPost, "/api/v1/customers", map[string]any{
			"company": "Gulf Logistics LLC",
			"trn":     "100987654300003",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, id.String(), responseData(t, w)["id"])
	})

	t.Run("create rejects bad email", func(t *testing.T) {
		f := newPartnerFixture()

		w := f.do(http.MethodPost, "/api/v1/customers", map[string]any{"name": "Ahmed", "email": "nope"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("domain validation error", func(t *testing.T) {
		f := newPartnerFixture()
		f.customers.On("Create", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_NAME", "Name or company is required"))

		w := f.do(http.MethodPost, "/api/v1/customers", map[string]any{"email": "ops@gulf.ae"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)
	})

	t.Run("get not found", func(t *testing.T) {
		f := newPartnerFixture()
		id := uuid.New()
		f.customers.On("GetByID", mock.Anything, id).Return(nil, shared.NewDomainError("NOT_FOUND", "Customer not found"))

		w := f.do(http.MethodGet, "/api/v1/customers/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		f := newPartnerFixture()

		w := f.do(http.MethodDelete, "/api/v1/customers/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPartnerHandler_Vendors(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		f := newPartnerFixture()
		id := uuid.New()
		f.vendors.On("Update", mock.Anything, id, mock.MatchedBy(func(req apppartner.VendorRequest) bool {
			return req.BankName == "Emirates NBD"
		})).Return(&apppartner.VendorResponse{ID: id, BankName: "Emirates NBD"}, nil)

		w := f.do(http.MethodPut, "/api/v1/vendors/"+id.String(), map[string]any{
			"company":   "Desert Fleet Rentals",
			"bank_name": "Emirates NBD",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Emirates NBD", responseData(t, w)["bank_name"])
	})

	t.Run("delete", func(t *testing.T) {
		f := newPartnerFixture()
		id := uuid.New()
		f.vendors.On("Delete", mock.Anything, id).Return(nil)

		w := f.do(http.MethodDelete, "/api/v1/vendors/"+id.String(), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		f.vendors.AssertExpectations(t)
	})

	t.Run("store unavailable", func(t *testing.T) {
		f := newPartnerFixture()
		f.vendors.On("List", mock.Anything).Return(nil, shared.ErrUnavailable)

		w := f.do(http.MethodGet, "/api/v1/vendors", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
