package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appdocument "github.com/rentaldocs/backend/internal/application/document"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/infrastructure/logger"
	"github.com/rentaldocs/backend/internal/infrastructure/render"
	"github.com/rentaldocs/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// DocumentHeader carries the id of a document saved by an export request
const DocumentHeader = "X-Document-ID"

// DocumentUseCases is the persistence side of the document API
type DocumentUseCases interface {
	Create(ctx context.Context, docType document.DocType, req appdocument.DocumentRequest) (*document.Document, error)
	Update(ctx context.Context, docType document.DocType, id uuid.UUID, req appdocument.DocumentRequest) (*document.Document, error)
	Get(ctx context.Context, docType document.DocType, id uuid.UUID) (*document.Document, error)
	List(ctx context.Context, docType document.DocType) ([]document.Document, error)
	Delete(ctx context.Context, docType document.DocType, id uuid.UUID) error
	NextNumber(ctx context.Context, docType document.DocType) (string, error)
	ValidateRequest(ctx context.Context, docType document.DocType, id uuid.UUID, req appdocument.DocumentRequest) (document.ValidationResult, error)
	ConvertQuoteToInvoice(ctx context.Context, quoteID uuid.UUID) (*document.Document, error)
	RecordPayment(ctx context.Context, id uuid.UUID, req appdocument.PaymentRequest) (*document.Document, error)
}

// ExportUseCases is the rendering side of the document API
type ExportUseCases interface {
	Export(ctx context.Context, docType document.DocType, id uuid.UUID, format render.Format) (*render.Artifact, error)
	ExportNew(ctx context.Context, docType document.DocType, req appdocument.DocumentRequest, format render.Format) (*render.Artifact, *document.Document, error)
	CheckExport(ctx context.Context, docType document.DocType, req appdocument.DocumentRequest) (document.ValidationResult, error)
}

// DocumentHandler serves quotes, invoices and purchase orders
type DocumentHandler struct {
	BaseHandler
	documents DocumentUseCases
	exports   ExportUseCases
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documents DocumentUseCases, exports ExportUseCases) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		exports:   exports,
	}
}

// ExportCheckRequest is the body of the export-tier validation endpoint
type ExportCheckRequest struct {
	Type string `json:"type" binding:"required"`
	appdocument.DocumentRequest
}

// ValidateForExport godoc
// @ID           validateDocumentForExport
// @Summary      Check a document against the export rules
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        request body ExportCheckRequest true "Document with its type"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /documents/validate [post]
func (h *DocumentHandler) ValidateForExport(c *gin.Context) {
	var req ExportCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	docType, ok := document.ParseDocType(req.Type)
	if !ok {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Unknown document type: "+req.Type)
		return
	}

	result, err := h.exports.CheckExport(c.Request.Context(), docType, req.DocumentRequest)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appdocument.ToValidationResponse(result))
}

// ValidateForSave godoc
// @ID           validateDocumentForSave
// @Summary      Check a document against the save rules without saving it
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        type path string true "quote, invoice or purchase_order"
// @Param        id query string false "Document being updated"
// @Param        request body appdocument.DocumentRequest true "Document"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /documents/{type}/validate [post]
func (h *DocumentHandler) ValidateForSave(c *gin.Context) {
	docType, ok := h.docTypeParam(c)
	if !ok {
		return
	}
	id := uuid.Nil
	if raw := c.Query("id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid document ID format")
			return
		}
		id = parsed
	}

	var req appdocument.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.documents.ValidateRequest(c.Request.Context(), docType, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appdocument.ToValidationResponse(result))
}

// Create godoc
// @ID           createDocument
// @Summary      Create and save a document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        type path string true "quote, invoice or purchase_order"
// @Param        request body appdocument.DocumentRequest true "Document"
// @Success      201 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /documents/{type} [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	docType, ok := h.docTypeParam(c)
	if !ok {
		return
	}
	var req appdocument.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	doc, err := h.documents.Create(c.Request.Context(), docType, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appdocument.ToDocumentResponse(doc))
}

// Update godoc
// @ID           updateDocument
// @Summary      Update a saved document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        type path string true "quote, invoice or purchase_order"
// @Param        id path string true "Document ID"
// @Param        request body appdocument.DocumentRequest true "Document"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /documents/{type}/{id} [put]
func (h *DocumentHandler) Update(c *gin.Context) {
	docType, ok := h.docTypeParam(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req appdocument.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	doc, err := h.documents.Update(c.Request.Context(), docType, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appdocument.ToDocumentResponse(doc))
}

// Get godoc
// @ID           getDocument
// @Summary      Get a saved document
// @Tags         documents
// @Produce      json
// @Param        type path string true "quote, invoice or purchase_order"
// @Param        id path string true "Document ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /documents/{type}/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	docType, ok := h.docTypeParam(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	doc, err := h.documents.Get(c.Request.Context(), docType, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appdocument.ToDocumentResponse(doc))
}

// List godoc
// @ID           listDocuments
// @Summary      List the saved documents of a type
// @Tags         documents
// @Produce      json
// @Param        type path string true "quote, invoice or purchase_order"
// @Success      200 {object} dto.Response
// @Router       /documents/{type} [get]
func (h *DocumentHandler) List(c *gin.Context) {
	docType, ok := h.docTypeParam(c)
	if !ok {
		return
	}

	docs, err := h.documents.List(c.Request.Context(), docType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	responses := make([]*appdocument.DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = appdocument.ToDocumentResponse(&docs[i])
	}
	h.Success(c, responses)
}

// Delete godoc
// @ID           deleteDocument
// @Summary      Delete a saved document
// @Tags         documents
// @Param        type path string true "quote, invoice or purchase_order"
// @Param        id path string true "Document ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /documents/{type}/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	docType, ok := h.docTypeParam(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.documents.Delete(c.Request.Context(), docType, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// NextNumber godoc
// @ID           nextDocumentNumber
// @Summary      Suggest the next free document number
// @Tags         documents
// @Produce      json
// @Param        type path string true "quote, invoice or purchase_order"
// @Success      200 {object} dto.Response
// @Router       /documents/{type}/next-number [get]
func (h *DocumentHandler) NextNumber(c *gin.Context) {
	docType, ok := h.docTypeParam(c)
	if !ok {
		return
	}

	number, err := h.documents.NextNumber(c.Request.Context(), docType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appdocument.NextNumberResponse{Type: docType.String(), Number: number})
}

// Convert godoc
// @ID           convertQuote
// @Summary      Convert a quote into a draft invoice
// @Tags         documents
// @Produce      json
// @Param        id path string true "Quote ID"
// @Success      201 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /documents/quote/{id}/convert [post]
func (h *DocumentHandler) Convert(c *gin.Context) {
	docType, ok := h.docTypeParam(c)
	if !ok {
		return
	}
	if docType != document.DocTypeQuote {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Only quotes can be converted")
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	invoice, err := h.documents.ConvertQuoteToInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appdocument.ToDocumentResponse(invoice))
}

// RecordPayment godoc
// @ID           recordInvoicePayment
// @Summary      Record a payment against an invoice
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body appdocument.PaymentRequest true "Payment"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /documents/invoice/{id}/payments [post]
func (h *DocumentHandler) RecordPayment(c *gin.Context) {
	docType, ok := h.docTypeParam(c)
	if !ok {
		return
	}
	if docType != document.DocTypeInvoice {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Payments are recorded on invoices only")
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req appdocument.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	doc, err := h.documents.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appdocument.ToDocumentResponse(doc))
}

// Export godoc
// @ID           exportDocument
// @Summary      Download a saved document as XLSX, DOCX or PDF
// @Tags         documents
// @Produce      application/octet-stream
// @Param        type path string true "quote, invoice or purchase_order"
// @Param        id path string true "Document ID"
// @Param        format path string true "xlsx, docx or pdf"
// @Success      200 {file} file
// @Failure      422 {object} dto.Response
// @Router       /documents/{type}/{id}/export/{format} [get]
func (h *DocumentHandler) Export(c *gin.Context) {
	docType, ok := h.docTypeParam(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	format, ok := h.formatParam(c)
	if !ok {
		return
	}

	artifact, err := h.exports.Export(c.Request.Context(), docType, id, format)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.download(c, artifact)
}

// ExportNew godoc
// @ID           exportNewDocument
// @Summary      Save a new document and download it
// @Description  The document is saved before rendering. Its id is returned in the X-Document-ID header.
// @Tags         documents
// @Accept       json
// @Produce      application/octet-stream
// @Param        type path string true "quote, invoice or purchase_order"
// @Param        format path string true "xlsx, docx or pdf"
// @Param        request body appdocument.DocumentRequest true "Document"
// @Success      200 {file} file
// @Failure      422 {object} dto.Response
// @Router       /documents/{type}/export/{format} [post]
func (h *DocumentHandler) ExportNew(c *gin.Context) {
	docType, ok := h.docTypeParam(c)
	if !ok {
		return
	}
	format, ok := h.formatParam(c)
	if !ok {
		return
	}
	var req appdocument.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	artifact, doc, err := h.exports.ExportNew(c.Request.Context(), docType, req, format)
	if doc != nil {
		c.Header(DocumentHeader, doc.ID.String())
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.download(c, artifact)
}

func (h *DocumentHandler) download(c *gin.Context, artifact *render.Artifact) {
	if err := render.Download(c.Writer, artifact); err != nil {
		// Headers are already on the wire.
		logger.GetGinLogger(c).Warn("download interrupted", zap.Error(err))
		_ = c.Error(err)
	}
}
