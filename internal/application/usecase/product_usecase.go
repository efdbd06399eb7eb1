package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jfigueroa/stockcore/internal/application/dto"
	"github.com/jfigueroa/stockcore/internal/domain"
	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
)

// ProductUseCase product and variant CRUD. Stock never lives here; quantities
// belong to the ledger.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase builds the use case.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create validates and persists a product. A duplicate SKU surfaces as
// domain.ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.SKU == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	p := &entity.Product{
		ID:          uuid.NewString(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID returns the product or (nil, nil) when absent.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Update overwrites the descriptive fields only; identity and SKU stay fixed.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Category = in.Category
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List returns a page of products.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]*dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// CreateVariant attaches a passthrough variant record to an existing product.
func (uc *ProductUseCase) CreateVariant(ctx context.Context, productID string, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	if in.Name == "" || in.SKU == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	v := &entity.ProductVariant{
		ID:         uuid.NewString(),
		ProductID:  productID,
		Name:       in.Name,
		SKU:        in.SKU,
		Attributes: in.Attributes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.repo.CreateVariant(ctx, v); err != nil {
		return nil, err
	}
	return toVariantResponse(v), nil
}

// ListVariants returns the variants of one product.
func (uc *ProductUseCase) ListVariants(ctx context.Context, productID string) ([]*dto.VariantResponse, error) {
	list, err := uc.repo.ListVariants(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.VariantResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVariantResponse(v))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toVariantResponse(v *entity.ProductVariant) *dto.VariantResponse {
	return &dto.VariantResponse{
		ID:         v.ID,
		ProductID:  v.ProductID,
		Name:       v.Name,
		SKU:        v.SKU,
		Attributes: v.Attributes,
		CreatedAt:  v.CreatedAt,
	}
}
