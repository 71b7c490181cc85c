package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"github.com/Unchana19/songsarn-api/internal/oms/repository"
	"github.com/google/uuid"
)

// MaterialService master-data CRUD for the material catalog
type MaterialService struct {
	materialRepo *repository.MaterialRepository
}

func NewMaterialService(materialRepo *repository.MaterialRepository) *MaterialService {
	return &MaterialService{materialRepo: materialRepo}
}

type CreateMaterialRequest struct {
	Name      string  `json:"name" binding:"required"`
	Unit      string  `json:"unit" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"gte=0"`
	Threshold float64 `json:"threshold" binding:"gte=0"`
	Color     *string `json:"color"`
}

func (s *MaterialService) Create(ctx context.Context, req CreateMaterialRequest) (*entity.Material, error) {
	existing, err := s.materialRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check material name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("material %q: %w", req.Name, ErrAlreadyExists)
	}

	m := &entity.Material{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Unit:      req.Unit,
		Quantity:  req.Quantity,
		Threshold: req.Threshold,
		Color:     req.Color,
	}
	if err := s.materialRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}
	return m, nil
}

type UpdateMaterialRequest struct {
	Name      string  `json:"name" binding:"required"`
	Unit      string  `json:"unit" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"gte=0"`
	Threshold float64 `json:"threshold" binding:"gte=0"`
	Color     *string `json:"color"`
}

func (s *MaterialService) Update(ctx context.Context, id string, req UpdateMaterialRequest) (*entity.Material, error) {
	m, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", id, err)
	}

	if req.Name != m.Name {
		other, err := s.materialRepo.FindByName(ctx, req.Name)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("check material name: %w", err)
		}
		if other != nil {
			return nil, fmt.Errorf("material %q: %w", req.Name, ErrAlreadyExists)
		}
	}

	m.Name = req.Name
	m.Unit = req.Unit
	m.Quantity = req.Quantity
	m.Threshold = req.Threshold
	m.Color = req.Color
	if err := s.materialRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update material: %w", err)
	}
	return m, nil
}

// Delete refuses to remove a material still referenced by any BOM edge.
func (s *MaterialService) Delete(ctx context.Context, id string) error {
	if _, err := s.materialRepo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("material %s: %w", id, err)
	}
	refs, err := s.materialRepo.CountBOMReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("count references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("material %s has %d BOM references: %w", id, refs, ErrMaterialReferenced)
	}
	return s.materialRepo.Delete(ctx, id)
}

func (s *MaterialService) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	return s.materialRepo.FindByID(ctx, id)
}

func (s *MaterialService) ListAll(ctx context.Context) ([]entity.Material, error) {
	return s.materialRepo.FindAll(ctx)
}

func (s *MaterialService) ListLowStock(ctx context.Context) ([]entity.Material, error) {
	return s.materialRepo.FindLowStock(ctx)
}
