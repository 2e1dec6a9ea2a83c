package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/partner"
	"github.com/rentaldocs/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormVendorRepository implements partner.VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindAll returns every vendor ordered by company and name
func (r *GormVendorRepository) FindAll(ctx context.Context) ([]partner.Vendor, error) {
	var rows []models.VendorModel
	if err := r.db.WithContext(ctx).Order("company, name").Find(&rows).Error; err != nil {
		return nil, err
	}
	vendors := make([]partner.Vendor, len(rows))
	for i := range rows {
		vendors[i] = *rows[i].ToDomain()
	}
	return vendors, nil
}

// FindByID returns the vendor, or (nil, nil) when it does not exist
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Vendor, error) {
	var row models.VendorModel
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// Save creates or updates a vendor
func (r *GormVendorRepository) Save(ctx context.Context, vendor *partner.Vendor) error {
	return r.db.WithContext(ctx).Save(models.VendorModelFromDomain(vendor)).Error
}

// Delete removes a vendor
func (r *GormVendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.VendorModel{}, "id = ?", id).Error
}

var _ partner.VendorRepository = (*GormVendorRepository)(nil)
