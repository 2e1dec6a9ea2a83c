package partner

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/partner"
	"github.com/rentaldocs/backend/internal/domain/shared"
	"github.com/rentaldocs/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CustomerService manages the customers that quotes and invoices are
// addressed to
type CustomerService struct {
	customers partner.CustomerRepository
	logger    *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customers partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customers: customers,
		logger:    logger,
	}
}

// List returns all customers ordered by display name
func (s *CustomerService) List(ctx context.Context) ([]CustomerResponse, error) {
	customers, err := s.customers.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(customers, func(i, j int) bool {
		return strings.ToLower(customers[i].DisplayName()) < strings.ToLower(customers[j].DisplayName())
	})

	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out, nil
}

// GetByID returns a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "create")
	defer span.End()

	customer, err := partner.NewCustomer(req.toContact())
	if err != nil {
		return nil, err
	}
	customer.Notes = req.Notes

	if err := s.customers.Save(ctx, customer); err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.WrapDomainError("SAVE_FAILED", "Customer could not be saved", err)
	}

	s.logger.Info("customer created",
		zap.String("id", customer.ID.String()),
		zap.String("name", customer.DisplayName()))

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Update replaces a customer's details
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*CustomerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "update")
	defer span.End()

	customer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(req.toContact()); err != nil {
		return nil, err
	}
	customer.Notes = req.Notes

	if err := s.customers.Save(ctx, customer); err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.WrapDomainError("SAVE_FAILED", "Customer could not be saved", err)
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete removes a customer. Documents keep their counterparty snapshot.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("customer deleted", zap.String("id", id.String()))
	return nil
}

func (s *CustomerService) find(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	return customer, nil
}
