package document_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/branding"
	domain "github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/domain/partner"
	"github.com/rentaldocs/backend/internal/infrastructure/render"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, docType domain.DocType) ([]domain.Document, error) {
	args := m.Called(ctx, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, docType domain.DocType, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, docType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) SaveAll(ctx context.Context, docs ...*domain.Document) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, docType domain.DocType, id uuid.UUID) error {
	args := m.Called(ctx, docType, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) ExistsByNumber(ctx context.Context, docType domain.DocType, number string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, docType, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) ListNumbers(ctx context.Context, docType domain.DocType) ([]string, error) {
	args := m.Called(ctx, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindAll(ctx context.Context) ([]partner.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) FindAll(ctx context.Context) ([]partner.Vendor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Vendor), args.Error(1)
}

func (m *MockVendorRepository) Save(ctx context.Context, vendor *partner.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, doc *domain.Document, settings branding.Settings, counterpartyName string, format render.Format) (*render.Artifact, error) {
	args := m.Called(ctx, doc, settings, counterpartyName, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*render.Artifact), args.Error(1)
}

type MockSettingsProvider struct {
	mock.Mock
}

func (m *MockSettingsProvider) Settings(ctx context.Context) (branding.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(branding.Settings), args.Error(1)
}
