package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apppartner "github.com/rentaldocs/backend/internal/application/partner"
	"github.com/rentaldocs/backend/internal/interfaces/http/dto"
	"github.com/rentaldocs/backend/internal/interfaces/http/router"
)

// CustomerUseCases is the customer side of the counterparty API
type CustomerUseCases interface {
	List(ctx context.Context) ([]apppartner.CustomerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*apppartner.CustomerResponse, error)
	Create(ctx context.Context, req apppartner.CustomerRequest) (*apppartner.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req apppartner.CustomerRequest) (*apppartner.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// VendorUseCases is the vendor side of the counterparty API
type VendorUseCases interface {
	List(ctx context.Context) ([]apppartner.VendorResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*apppartner.VendorResponse, error)
	Create(ctx context.Context, req apppartner.VendorRequest) (*apppartner.VendorResponse, error)
	Update(ctx context.Context, id uuid.UUID, req apppartner.VendorRequest) (*apppartner.VendorResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PartnerHandler serves the customers and vendors that documents are
// addressed to
type PartnerHandler struct {
	BaseHandler
	customers CustomerUseCases
	vendors   VendorUseCases
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(customers CustomerUseCases, vendors VendorUseCases) *PartnerHandler {
	return &PartnerHandler{
		customers: customers,
		vendors:   vendors,
	}
}

// CustomerRoutes creates the /customers route group
func CustomerRoutes(h *PartnerHandler) *router.DomainGroup {
	group := router.NewDomainGroup("customers", "/customers")
	group.GET("", h.ListCustomers)
	group.POST("", h.CreateCustomer)
	group.GET("/:id", h.GetCustomer)
	group.PUT("/:id", h.UpdateCustomer)
	group.DELETE("/:id", h.DeleteCustomer)
	return group
}

// VendorRoutes creates the /vendors route group
func VendorRoutes(h *PartnerHandler) *router.DomainGroup {
	group := router.NewDomainGroup("vendors", "/vendors")
	group.GET("", h.ListVendors)
	group.POST("", h.CreateVendor)
	group.GET("/:id", h.GetVendor)
	group.PUT("/:id", h.UpdateVendor)
	group.DELETE("/:id", h.DeleteVendor)
	return group
}

// ListCustomers godoc
// @ID           listCustomers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Success      200 {object} dto.Response{data=[]apppartner.CustomerResponse}
// @Router       /customers [get]
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// GetCustomer godoc
// @ID           getCustomer
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} dto.Response{data=apppartner.CustomerResponse}
// @Failure      404 {object} dto.Response
// @Router       /customers/{id} [get]
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	id, ok := h.partnerIDParam(c)
	if !ok {
		return
	}
	customer, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// CreateCustomer godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body apppartner.CustomerRequest true "Customer"
// @Success      201 {object} dto.Response{data=apppartner.CustomerResponse}
// @Failure      400 {object} dto.Response
// @Router       /customers [post]
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var req apppartner.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	customer, err := h.customers.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// UpdateCustomer godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body apppartner.CustomerRequest true "Customer"
// @Success      200 {object} dto.Response{data=apppartner.CustomerResponse}
// @Failure      404 {object} dto.Response
// @Router       /customers/{id} [put]
func (h *PartnerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := h.partnerIDParam(c)
	if !ok {
		return
	}
	var req apppartner.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	customer, err := h.customers.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// DeleteCustomer godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Tags         customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /customers/{id} [delete]
func (h *PartnerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := h.partnerIDParam(c)
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListVendors godoc
// @ID           listVendors
// @Summary      List vendors
// @Tags         vendors
// @Produce      json
// @Success      200 {object} dto.Response{data=[]apppartner.VendorResponse}
// @Router       /vendors [get]
func (h *PartnerHandler) ListVendors(c *gin.Context) {
	vendors, err := h.vendors.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendors)
}

// GetVendor godoc
// @ID           getVendor
// @Summary      Get a vendor
// @Tags         vendors
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      200 {object} dto.Response{data=apppartner.VendorResponse}
// @Failure      404 {object} dto.Response
// @Router       /vendors/{id} [get]
func (h *PartnerHandler) GetVendor(c *gin.Context) {
	id, ok := h.partnerIDParam(c)
	if !ok {
		return
	}
	vendor, err := h.vendors.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// CreateVendor godoc
// @ID           createVendor
// @Summary      Create a vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        request body apppartner.VendorRequest true "Vendor"
// @Success      201 {object} dto.Response{data=apppartner.VendorResponse}
// @Failure      400 {object} dto.Response
// @Router       /vendors [post]
func (h *PartnerHandler) CreateVendor(c *gin.Context) {
	var req apppartner.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	vendor, err := h.vendors.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, vendor)
}

// UpdateVendor godoc
// @ID           updateVendor
// @Summary      Update a vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Param        request body apppartner.VendorRequest true "Vendor"
// @Success      200 {object} dto.Response{data=apppartner.VendorResponse}
// @Failure      404 {object} dto.Response
// @Router       /vendors/{id} [put]
func (h *PartnerHandler) UpdateVendor(c *gin.Context) {
	id, ok := h.partnerIDParam(c)
	if !ok {
		return
	}
	var req apppartner.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	vendor, err := h.vendors.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// DeleteVendor godoc
// @ID           deleteVendor
// @Summary      Delete a vendor
// @Tags         vendors
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /vendors/{id} [delete]
func (h *PartnerHandler) DeleteVendor(c *gin.Context) {
	id, ok := h.partnerIDParam(c)
	if !ok {
		return
	}
	if err := h.vendors.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *PartnerHandler) partnerIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
