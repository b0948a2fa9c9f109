package converter

import (
	"github.com/DRSN-tech/giftshop-backend/internal/domain"
)

// ProductConverter преобразует товары каталога в модели кэша и обратно.
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
	ToArrRedisModel(entities []domain.Product) []ProductRedisModel
	ToArrEntity(models []ProductRedisModel) []domain.Product
}

func NewProductConverter() ProductConverter {
	return productConverter{}
}

type productConverter struct{}

func (productConverter) ToRedisModel(p *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		OfferPrice:  p.OfferPrice,
		Images:      p.Images,
		Tags:        p.Tags,
		Status:      string(p.Status),
		CreatedBy:   p.CreatedBy,
		ApprovedBy:  p.ApprovedBy,
		ApprovedAt:  p.ApprovedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (productConverter) ToEntity(m *ProductRedisModel) *domain.Product {
	return &domain.Product{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		OfferPrice:  m.OfferPrice,
		Images:      m.Images,
		Tags:        m.Tags,
		Status:      domain.ProductStatus(m.Status),
		CreatedBy:   m.CreatedBy,
		ApprovedBy:  m.ApprovedBy,
		ApprovedAt:  m.ApprovedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (c productConverter) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	result := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		result = append(result, *c.ToRedisModel(&entities[i]))
	}

	return result
}

func (c productConverter) ToArrEntity(models []ProductRedisModel) []domain.Product {
	result := make([]domain.Product, 0, len(models))
	for i := range models {
		result = append(result, *c.ToEntity(&models[i]))
	}

	return result
}
