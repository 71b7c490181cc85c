package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"github.com/Unchana19/songsarn-api/internal/oms/repository"
	"gorm.io/gorm"
)

// ExplosionService walks the product→component→material graph and turns
// order line items into flat per-material required quantities. Pure
// read/aggregate, no side effects; depth is fixed at two levels so the walk
// is plain iteration over the two edge tables.
type ExplosionService struct {
	bomRepo *repository.BOMRepository
}

func NewExplosionService(bomRepo *repository.BOMRepository) *ExplosionService {
	return &ExplosionService{bomRepo: bomRepo}
}

// MaterialNeed aggregated requirement for one material
type MaterialNeed struct {
	MaterialID string  `json:"material_id"`
	Name       string  `json:"material_name"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity_needed"`
}

// ProductQuantity reusable (product, quantity) input pair
type ProductQuantity struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// ExplodeOrder per-order material usage for one CPO's line items.
func (s *ExplosionService) ExplodeOrder(ctx context.Context, tx *gorm.DB, cpoID string) ([]MaterialNeed, error) {
	lines, err := s.bomRepo.FindOrderLines(ctx, tx, cpoID)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	return s.Explode(ctx, tx, linesToPairs(lines))
}

// ExplodePaidAggregate live aggregate demand across every order currently in
// PAID status. This is the figure the reconciler compares against stock.
func (s *ExplosionService) ExplodePaidAggregate(ctx context.Context, tx *gorm.DB) ([]MaterialNeed, error) {
	lines, err := s.bomRepo.FindPaidOrderLines(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("load paid order lines: %w", err)
	}
	return s.Explode(ctx, tx, linesToPairs(lines))
}

// Explode aggregates material requirements for arbitrary (product, quantity)
// pairs. Color materials accumulate through the component color-use factors
// onto the colors assigned on each product edge; everything else accumulates
// edge quantity × component-per-product quantity × pair quantity. A product
// without BOM edges contributes nothing. An edge referencing a material that
// no longer exists is a data-integrity failure and aborts the whole run.
func (s *ExplosionService) Explode(ctx context.Context, tx *gorm.DB, pairs []ProductQuantity) ([]MaterialNeed, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	productIDs := make([]string, 0, len(pairs))
	for _, p := range pairs {
		productIDs = append(productIDs, p.ProductID)
	}

	productEdges, err := s.bomRepo.FindProductEdges(ctx, tx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load product edges: %w", err)
	}
	if len(productEdges) == 0 {
		return nil, nil
	}

	edgesByProduct := make(map[string][]entity.BOMProduct)
	componentIDs := make([]string, 0, len(productEdges))
	seenComponent := make(map[string]bool)
	for _, e := range productEdges {
		edgesByProduct[e.ProductID] = append(edgesByProduct[e.ProductID], e)
		if !seenComponent[e.ComponentID] {
			seenComponent[e.ComponentID] = true
			componentIDs = append(componentIDs, e.ComponentID)
		}
	}

	components, err := s.bomRepo.FindComponents(ctx, tx, componentIDs)
	if err != nil {
		return nil, fmt.Errorf("load components: %w", err)
	}
	componentEdges, err := s.bomRepo.FindComponentEdges(ctx, tx, componentIDs)
	if err != nil {
		return nil, fmt.Errorf("load component edges: %w", err)
	}
	edgesByComponent := make(map[string][]entity.BOMComponent)
	for _, e := range componentEdges {
		edgesByComponent[e.ComponentID] = append(edgesByComponent[e.ComponentID], e)
	}

	// every material id the BOM can touch, color slots included
	var materialIDs []string
	seenMaterial := make(map[string]bool)
	collect := func(id string) {
		if id != "" && !seenMaterial[id] {
			seenMaterial[id] = true
			materialIDs = append(materialIDs, id)
		}
	}
	for _, e := range productEdges {
		if e.PrimaryColorID != nil {
			collect(*e.PrimaryColorID)
		}
		if e.PatternColorID != nil {
			collect(*e.PatternColorID)
		}
	}
	for _, e := range componentEdges {
		collect(e.MaterialID)
	}

	materials, err := s.bomRepo.FindMaterials(ctx, tx, materialIDs)
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}
	for _, id := range materialIDs {
		if _, ok := materials[id]; !ok {
			return nil, fmt.Errorf("material %s: %w", id, ErrBOMIntegrity)
		}
	}

	needs := make(map[string]float64)
	for _, pair := range pairs {
		for _, edge := range edgesByProduct[pair.ProductID] {
			comp, ok := components[edge.ComponentID]
			if !ok {
				return nil, fmt.Errorf("component %s: %w", edge.ComponentID, ErrBOMIntegrity)
			}

			// color slots consume factor × line quantity, independent of the
			// edge's component count
			if edge.PrimaryColorID != nil {
				needs[*edge.PrimaryColorID] += comp.ColorPrimaryUse * pair.Quantity
			}
			if edge.PatternColorID != nil {
				needs[*edge.PatternColorID] += comp.ColorPatternUse * pair.Quantity
			}

			for _, me := range edgesByComponent[edge.ComponentID] {
				if materials[me.MaterialID].Color != nil {
					// color materials never count through generic BOM edges
					continue
				}
				needs[me.MaterialID] += me.Quantity * edge.Quantity * pair.Quantity
			}
		}
	}

	out := make([]MaterialNeed, 0, len(needs))
	for id, qty := range needs {
		if qty == 0 {
			continue
		}
		m := materials[id]
		out = append(out, MaterialNeed{
			MaterialID: id,
			Name:       m.Name,
			Unit:       m.Unit,
			Quantity:   qty,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MaterialID < out[j].MaterialID })
	return out, nil
}

func linesToPairs(lines []entity.OrderLine) []ProductQuantity {
	byProduct := make(map[string]float64)
	var order []string
	for _, l := range lines {
		if _, ok := byProduct[l.ProductID]; !ok {
			order = append(order, l.ProductID)
		}
		byProduct[l.ProductID] += l.Quantity
	}
	pairs := make([]ProductQuantity, 0, len(order))
	for _, id := range order {
		pairs = append(pairs, ProductQuantity{ProductID: id, Quantity: byProduct[id]})
	}
	return pairs
}
