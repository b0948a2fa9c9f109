package converter

import (
	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/identity"
	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) (*domain.Product, error)
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToModel(entity *domain.Category) *CategoryModel
	ToEntity(model *CategoryModel) *domain.Category
}

type FeaturedItemConverter interface {
	ToEntity(model *FeaturedItemModel) *domain.FeaturedItem
}

type ProfileConverter interface {
	ToModel(entity *domain.Profile) *ProfileModel
	ToEntity(model *ProfileModel) *domain.Profile
}

type UserConverter interface {
	ToModel(entity *identity.User) *UserModel
	ToEntity(model *UserModel) *identity.User
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

func NewProductConverter() ProductConverter           { return productConverter{} }
func NewCategoryConverter() CategoryConverter         { return categoryConverter{} }
func NewFeaturedItemConverter() FeaturedItemConverter { return featuredItemConverter{} }
func NewProfileConverter() ProfileConverter           { return profileConverter{} }
func NewUserConverter() UserConverter                 { return userConverter{} }
func NewOutboxEventConverter() OutboxEventConverter   { return outboxEventConverter{} }

type productConverter struct{}

func (productConverter) ToModel(p *domain.Product) *ProductModel {
	m := &ProductModel{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Images:      nonNil(p.Images),
		Tags:        nonNil(p.Tags),
		Status:      string(p.Status),
		CreatedBy:   p.CreatedBy,
		ApprovedBy:  p.ApprovedBy,
		ApprovedAt:  p.ApprovedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.OfferPrice != nil {
		offer := p.OfferPrice.StringFixed(2)
		m.OfferPrice = &offer
	}

	return m
}

func (productConverter) ToEntity(m *ProductModel) (*domain.Product, error) {
	const op = "converter.Product.ToEntity"

	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	status, err := domain.ParseProductStatus(m.Status)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p := &domain.Product{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: m.Description,
		Price:       price,
		Images:      nonNil(m.Images),
		Tags:        nonNil(m.Tags),
		Status:      status,
		CreatedBy:   m.CreatedBy,
		ApprovedBy:  m.ApprovedBy,
		ApprovedAt:  m.ApprovedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}

	if m.OfferPrice != nil {
		offer, err := decimal.NewFromString(*m.OfferPrice)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		p.OfferPrice = &offer
	}

	if m.CreatorName != nil {
		p.CreatorName = *m.CreatorName
	}

	return p, nil
}

type categoryConverter struct{}

func (categoryConverter) ToModel(c *domain.Category) *CategoryModel {
	return &CategoryModel{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		DisplayOrder: c.DisplayOrder,
		CreatedAt:    c.CreatedAt,
	}
}

func (categoryConverter) ToEntity(m *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:           m.ID,
		Name:         m.Name,
		Slug:         m.Slug,
		Description:  m.Description,
		DisplayOrder: m.DisplayOrder,
		CreatedAt:    m.CreatedAt,
	}
}

type featuredItemConverter struct{}

func (featuredItemConverter) ToEntity(m *FeaturedItemModel) *domain.FeaturedItem {
	return &domain.FeaturedItem{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Title:        m.Title,
		Subtitle:     m.Subtitle,
		ImageURL:     m.ImageURL,
		Type:         domain.FeaturedType(m.Type),
		DisplayOrder: m.DisplayOrder,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
	}
}

type profileConverter struct{}

func (profileConverter) ToModel(p *domain.Profile) *ProfileModel {
	return &ProfileModel{
		ID:        p.ID,
		FullName:  p.FullName,
		Phone:     p.Phone,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToEntity: неизвестная роль в базе трактуется как customer.
func (profileConverter) ToEntity(m *ProfileModel) *domain.Profile {
	role := domain.Role(m.Role)
	if !role.Valid() {
		role = domain.RoleCustomer
	}

	return &domain.Profile{
		ID:        m.ID,
		FullName:  m.FullName,
		Phone:     m.Phone,
		Role:      role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type userConverter struct{}

func (userConverter) ToModel(u *identity.User) *UserModel {
	return &UserModel{
		ID:                u.ID,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		FullName:          u.FullName,
		Phone:             u.Phone,
		EmailConfirmed:    u.EmailConfirmed,
		ConfirmationToken: u.ConfirmationToken,
		CreatedAt:         u.CreatedAt,
	}
}

func (userConverter) ToEntity(m *UserModel) *identity.User {
	return &identity.User{
		ID:                m.ID,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		FullName:          m.FullName,
		Phone:             m.Phone,
		EmailConfirmed:    m.EmailConfirmed,
		ConfirmationToken: m.ConfirmationToken,
		CreatedAt:         m.CreatedAt,
	}
}

type outboxEventConverter struct{}

func (outboxEventConverter) ToModel(ev *usecase.OutboxEvent) *OutboxEventModel {
	payload := ev.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	return &OutboxEventModel{
		ID:          ev.ID,
		EventID:     ev.EventID,
		EventType:   string(ev.EventType),
		AggregateID: ev.AggregateID,
		ActorID:     ev.ActorID,
		Payload:     payload,
		Status:      string(ev.Status),
		CreatedAt:   ev.CreatedAt,
		ProcessedAt: ev.ProcessedAt,
	}
}

func (outboxEventConverter) ToEntity(m *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          m.ID,
		EventID:     m.EventID,
		EventType:   usecase.OutboxEventType(m.EventType),
		AggregateID: m.AggregateID,
		ActorID:     m.ActorID,
		Payload:     m.Payload,
		Status:      usecase.OutboxStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		ProcessedAt: m.ProcessedAt,
	}
}

func (c outboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToEntity(m))
	}

	return result
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
