package service

import (
	"context"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/dto"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/model"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	ListPurchases(ctx context.Context) ([]dto.ProcurementResponse, error)
}

type supplierService struct {
	store repository.Store
}

func NewSupplierService(store repository.Store) SupplierService {
	return &supplierService{store: store}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	sup := &model.Supplier{
		Name:     req.Name,
		Category: req.Category,
		Contact:  req.Contact,
		Address:  req.Address,
	}
	if err := s.store.Suppliers().Create(ctx, sup); err != nil {
		return nil, err
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.store.Suppliers().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, supplierToResponse(&suppliers[i]))
	}
	return out, nil
}

func (s *supplierService) ListPurchases(ctx context.Context) ([]dto.ProcurementResponse, error) {
	procurements, err := s.store.Procurements().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProcurementResponse, 0, len(procurements))
	for _, p := range procurements {
		r := dto.ProcurementResponse{
			ID:          p.ID.String(),
			SupplierID:  p.SupplierID.String(),
			TotalAmount: p.TotalAmount,
			Status:      p.Status,
			Notes:       p.Notes,
			PurchasedAt: p.PurchasedAt,
		}
		if p.Supplier != nil {
			r.SupplierName = p.Supplier.Name
		}
		out = append(out, r)
	}
	return out, nil
}

func supplierToResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:       s.ID.String(),
		Name:     s.Name,
		Category: s.Category,
		Contact:  s.Contact,
		Address:  s.Address,
	}
}
