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

// VendorService manages the vendors that purchase orders are placed with
type VendorService struct {
	vendors partner.VendorRepository
	logger  *zap.Logger
}

// NewVendorService creates a new VendorService
func NewVendorService(vendors partner.VendorRepository, logger *zap.Logger) *VendorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VendorService{
		vendors: vendors,
		logger:  logger,
	}
}

// List returns all vendors ordered by display name
func (s *VendorService) List(ctx context.Context) ([]VendorResponse, error) {
	vendors, err := s.vendors.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(vendors, func(i, j int) bool {
		return strings.ToLower(vendors[i].DisplayName()) < strings.ToLower(vendors[j].DisplayName())
	})

	out := make([]VendorResponse, len(vendors))
	for i := range vendors {
		out[i] = ToVendorResponse(&vendors[i])
	}
	return out, nil
}

// GetByID returns a vendor by ID
func (s *VendorService) GetByID(ctx context.Context, id uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// Create creates a new vendor
func (s *VendorService) Create(ctx context.Context, req VendorRequest) (*VendorResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "vendor", "create")
	defer span.End()

	vendor, err := partner.NewVendor(req.toContact())
	if err != nil {
		return nil, err
	}
	applyVendorDetails(vendor, req)

	if err := s.vendors.Save(ctx, vendor); err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.WrapDomainError("SAVE_FAILED", "Vendor could not be saved", err)
	}

	s.logger.Info("vendor created",
		zap.String("id", vendor.ID.String()),
		zap.String("name", vendor.DisplayName()))

	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// Update replaces a vendor's details
func (s *VendorService) Update(ctx context.Context, id uuid.UUID, req VendorRequest) (*VendorResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "vendor", "update")
	defer span.End()

	vendor, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := vendor.Update(req.toContact()); err != nil {
		return nil, err
	}
	applyVendorDetails(vendor, req)

	if err := s.vendors.Save(ctx, vendor); err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.WrapDomainError("SAVE_FAILED", "Vendor could not be saved", err)
	}

	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// Delete removes a vendor. Purchase orders keep their counterparty snapshot.
func (s *VendorService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.vendors.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("vendor deleted", zap.String("id", id.String()))
	return nil
}

func (s *VendorService) find(ctx context.Context, id uuid.UUID) (*partner.Vendor, error) {
	vendor, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Vendor not found")
	}
	return vendor, nil
}

func applyVendorDetails(v *partner.Vendor, req VendorRequest) {
	v.BankName = strings.TrimSpace(req.BankName)
	v.BankAccount = strings.TrimSpace(req.BankAccount)
	v.Notes = req.Notes
}
