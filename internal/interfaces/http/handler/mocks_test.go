package handler

import (
	"context"

	"github.com/google/uuid"
	appdocument "github.com/rentaldocs/backend/internal/application/document"
	apppartner "github.com/rentaldocs/backend/internal/application/partner"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/infrastructure/render"
	"github.com/stretchr/testify/mock"
)

type MockDocumentUseCases struct {
	mock.Mock
}

func (m *MockDocumentUseCases) Create(ctx context.Context, docType document.DocType, req appdocument.DocumentRequest) (*document.Document, error) {
	args := m.Called(ctx, docType, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentUseCases) Update(ctx context.Context, docType document.DocType, id uuid.UUID, req appdocument.DocumentRequest) (*document.Document, error) {
	args := m.Called(ctx, docType, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentUseCases) Get(ctx context.Context, docType document.DocType, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, docType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentUseCases) List(ctx context.Context, docType document.DocType) ([]document.Document, error) {
	args := m.Called(ctx, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockDocumentUseCases) Delete(ctx context.Context, docType document.DocType, id uuid.UUID) error {
	args := m.Called(ctx, docType, id)
	return args.Error(0)
}

func (m *MockDocumentUseCases) NextNumber(ctx context.Context, docType document.DocType) (string, error) {
	args := m.Called(ctx, docType)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentUseCases) ValidateRequest(ctx context.Context, docType document.DocType, id uuid.UUID, req appdocument.DocumentRequest) (document.ValidationResult, error) {
	args := m.Called(ctx, docType, id, req)
	return args.Get(0).(document.ValidationResult), args.Error(1)
}

func (m *MockDocumentUseCases) ConvertQuoteToInvoice(ctx context.Context, quoteID uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentUseCases) RecordPayment(ctx context.Context, id uuid.UUID, req appdocument.PaymentRequest) (*document.Document, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

type MockExportUseCases struct {
	mock.Mock
}

func (m *MockExportUseCases) Export(ctx context.Context, docType document.DocType, id uuid.UUID, format render.Format) (*render.Artifact, error) {
	args := m.Called(ctx, docType, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*render.Artifact), args.Error(1)
}

func (m *MockExportUseCases) ExportNew(ctx context.Context, docType document.DocType, req appdocument.DocumentRequest, format render.Format) (*render.Artifact, *document.Document, error) {
	args := m.Called(ctx, docType, req, format)
	var artifact *render.Artifact
	if a := args.Get(0); a != nil {
		artifact = a.(*render.Artifact)
	}
	var doc *document.Document
	if d := args.Get(1); d != nil {
		doc = d.(*document.Document)
	}
	return artifact, doc, args.Error(2)
}

func (m *MockExportUseCases) CheckExport(ctx context.Context, docType document.DocType, req appdocument.DocumentRequest) (document.ValidationResult, error) {
	args := m.Called(ctx, docType, req)
	return args.Get(0).(document.ValidationResult), args.Error(1)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCustomerUseCases struct {
	mock.Mock
}

func (m *MockCustomerUseCases) List(ctx context.Context) ([]apppartner.CustomerResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]apppartner.CustomerResponse), args.Error(1)
}

func (m *MockCustomerUseCases) GetByID(ctx context.Context, id uuid.UUID) (*apppartner.CustomerResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppartner.CustomerResponse), args.Error(1)
}

func (m *MockCustomerUseCases) Create(ctx context.Context, req apppartner.CustomerRequest) (*apppartner.CustomerResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppartner.CustomerResponse), args.Error(1)
}

func (m *MockCustomerUseCases) Update(ctx context.Context, id uuid.UUID, req apppartner.CustomerRequest) (*apppartner.CustomerResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppartner.CustomerResponse), args.Error(1)
}

func (m *MockCustomerUseCases) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockVendorUseCases struct {
	mock.Mock
}

func (m *MockVendorUseCases) List(ctx context.Context) ([]apppartner.VendorResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]apppartner.VendorResponse), args.Error(1)
}

func (m *MockVendorUseCases) GetByID(ctx context.Context, id uuid.UUID) (*apppartner.VendorResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppartner.VendorResponse), args.Error(1)
}

func (m *MockVendorUseCases) Create(ctx context.Context, req apppartner.VendorRequest) (*apppartner.VendorResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppartner.VendorResponse), args.Error(1)
}

func (m *MockVendorUseCases) Update(ctx context.Context, id uuid.UUID, req apppartner.VendorRequest) (*apppartner.VendorResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppartner.VendorResponse), args.Error(1)
}

func (m *MockVendorUseCases) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
