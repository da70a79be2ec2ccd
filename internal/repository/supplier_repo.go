package repository

import (
	"context"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context) ([]model.Supplier, error)
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *supplierRepo) List(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&suppliers).Error
	return suppliers, translate(err)
}

// ProcurementRepository writes procurement headers and lines separately so the
// caller controls ordering inside its unit of work.
type ProcurementRepository interface {
	Create(ctx context.Context, p *model.Procurement) error
	CreateLine(ctx context.Context, l *model.ProcurementLine) error
	// List returns procurements newest first with Supplier loaded.
	List(ctx context.Context) ([]model.Procurement, error)
}

type procurementRepo struct{ db *gorm.DB }

func NewProcurementRepository(db *gorm.DB) ProcurementRepository { return &procurementRepo{db: db} }

func (r *procurementRepo) Create(ctx context.Context, p *model.Procurement) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

func (r *procurementRepo) CreateLine(ctx context.Context, l *model.ProcurementLine) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error)
}

func (r *procurementRepo) List(ctx context.Context) ([]model.Procurement, error) {
	var procurements []model.Procurement
	err := r.db.WithContext(ctx).Preload("Supplier").
		Order("purchased_at DESC").
		Find(&procurements).Error
	return procurements, translate(err)
}
