package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDocumentRepository implements document.Repository using GORM.
// Every query is scoped to one document type.
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindAll returns every document of the type, newest first
func (r *GormDocumentRepository) FindAll(ctx context.Context, docType document.DocType) ([]document.Document, error) {
	var headers []models.DocumentModel
	if err := r.db.WithContext(ctx).
		Where("type = ?", docType).
		Order("date DESC, number DESC").
		Find(&headers).Error; err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return []document.Document{}, nil
	}

	ids := make([]uuid.UUID, len(headers))
	for i, h := range headers {
		ids[i] = h.ID
	}
	var rows []models.DocumentItemModel
	if err := r.db.WithContext(ctx).
		Where("document_id IN ?", ids).
		Order("position").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byDocument := make(map[uuid.UUID][]models.DocumentItemModel, len(headers))
	for _, row := range rows {
		byDocument[row.DocumentID] = append(byDocument[row.DocumentID], row)
	}

	docs := make([]document.Document, len(headers))
	for i := range headers {
		docs[i] = *headers[i].ToDomain(byDocument[headers[i].ID])
	}
	return docs, nil
}

// FindByID returns the document, or (nil, nil) when no document of the type
// has that id
func (r *GormDocumentRepository) FindByID(ctx context.Context, docType document.DocType, id uuid.UUID) (*document.Document, error) {
	var header models.DocumentModel
	if err := r.db.WithContext(ctx).
		Where("type = ? AND id = ?", docType, id).
		First(&header).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	items, err := r.findItems(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return header.ToDomain(items), nil
}

// Save creates or updates a document with its items in one transaction.
// Items no longer on the document are deleted.
func (r *GormDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveDocument(tx, doc)
	})
}

// SaveAll saves every document in one transaction
func (r *GormDocumentRepository) SaveAll(ctx context.Context, docs ...*document.Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, doc := range docs {
			if err := saveDocument(tx, doc); err != nil {
				return fmt.Errorf("save %s %s: %w", doc.Type, doc.Number, err)
			}
		}
		return nil
	})
}

func saveDocument(tx *gorm.DB, doc *document.Document) error {
	header, items := models.DocumentModelFromDomain(doc)

	if err := tx.Save(header).Error; err != nil {
		return fmt.Errorf("save document header: %w", err)
	}

	keep := make([]uuid.UUID, len(items))
	for i, item := range items {
		keep[i] = item.ID
	}
	stale := tx.Where("document_id = ?", doc.ID)
	if len(keep) > 0 {
		stale = stale.Where("id NOT IN ?", keep)
	}
	if err := stale.Delete(&models.DocumentItemModel{}).Error; err != nil {
		return fmt.Errorf("delete removed items: %w", err)
	}

	for i := range items {
		if err := tx.Save(&items[i]).Error; err != nil {
			return fmt.Errorf("save item %s: %w", items[i].ID, err)
		}
	}
	return nil
}

// Delete removes a document and its items
func (r *GormDocumentRepository) Delete(ctx context.Context, docType document.DocType, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("type = ? AND id = ?", docType, id).Delete(&models.DocumentModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Where("document_id = ?", id).Delete(&models.DocumentItemModel{}).Error
	})
}

// ExistsByNumber reports whether another document of the type uses number
func (r *GormDocumentRepository) ExistsByNumber(ctx context.Context, docType document.DocType, number string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Where("type = ? AND number = ?", docType, number)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListNumbers returns the numbers of every document of the type
func (r *GormDocumentRepository) ListNumbers(ctx context.Context, docType document.DocType) ([]string, error) {
	var numbers []string
	if err := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Where("type = ?", docType).
		Pluck("number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}

func (r *GormDocumentRepository) findItems(ctx context.Context, db *gorm.DB, documentID uuid.UUID) ([]models.DocumentItemModel, error) {
	var rows []models.DocumentItemModel
	if err := db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("position").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var _ document.Repository = (*GormDocumentRepository)(nil)
