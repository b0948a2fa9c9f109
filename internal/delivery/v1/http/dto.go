package http

import (
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/identity"
	"github.com/DRSN-tech/giftshop-backend/internal/orderlink"
	"github.com/DRSN-tech/giftshop-backend/internal/session"
	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/google/uuid"
)

// REQUESTS

type productRequest struct {
	CategoryID  *string     `json:"category_id" validate:"omitempty,uuid"`
	Name        string      `json:"name" validate:"max=200"`
	Description string      `json:"description" validate:"max=5000"`
	Price       flexString  `json:"price"`
	OfferPrice  *flexString `json:"offer_price"`
	Images      []string    `json:"images" validate:"max=20,dive,url"`
	Tags        []string    `json:"tags" validate:"max=20,dive,max=64"`
}

func (req *productRequest) toInput() (*domain.ProductInput, error) {
	categoryID, err := parseUUIDPtr("category_id", req.CategoryID)
	if err != nil {
		return nil, err
	}

	price, err := parsePrice("price", req.Price)
	if err != nil {
		return nil, err
	}

	offer, err := parseOptionalPrice("offer_price", req.OfferPrice)
	if err != nil {
		return nil, err
	}

	return &domain.ProductInput{
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		OfferPrice:  offer,
		Images:      req.Images,
		Tags:        req.Tags,
	}, nil
}

type categoryRequest struct {
	Name         string  `json:"name" validate:"max=100"`
	Slug         string  `json:"slug" validate:"max=100"`
	Description  *string `json:"description" validate:"omitempty,max=1000"`
	DisplayOrder int     `json:"display_order" validate:"gte=0"`
}

func (req *categoryRequest) toInput() *domain.CategoryInput {
	return &domain.CategoryInput{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	}
}

type batchProductsRequest struct {
	IDs []string `json:"ids" validate:"max=100,dive,uuid"`
}

type signUpRequest struct {
	Email    string  `json:"email" validate:"max=254"`
	Password string  `json:"password" validate:"max=72"`
	FullName string  `json:"full_name" validate:"max=200"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type confirmEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// RESPONSES

type listResponse[T any] struct {
	Items   []T  `json:"items"`
	Loading bool `json:"loading"`
	Failed  bool `json:"failed"`
}

func toListResponse[S, T any](state usecase.ListState[S], conv func(*S) T) listResponse[T] {
	items := make([]T, len(state.Items))
	for i := range state.Items {
		items[i] = conv(&state.Items[i])
	}

	return listResponse[T]{Items: items, Loading: state.Loading, Failed: state.Failed}
}

type productResponse struct {
	ID              uuid.UUID  `json:"id"`
	CategoryID      *uuid.UUID `json:"category_id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Price           string     `json:"price"`
	OfferPrice      *string    `json:"offer_price"`
	DiscountPercent int64      `json:"discount_percent"`
	MainImage       string     `json:"main_image"`
	Images          []string   `json:"images"`
	Tags            []string   `json:"tags"`
	Status          string     `json:"status"`
	CreatedBy       uuid.UUID  `json:"created_by"`
	CreatorName     string     `json:"creator_name,omitempty"`
	ApprovedBy      *uuid.UUID `json:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

func toProductResponse(p *domain.Product) productResponse {
	res := productResponse{
		ID:              p.ID,
		CategoryID:      p.CategoryID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price.StringFixed(2),
		DiscountPercent: p.Discount(),
		MainImage:       p.MainImage(),
		Images:          nonNilStrings(p.Images),
		Tags:            nonNilStrings(p.Tags),
		Status:          string(p.Status),
		CreatedBy:       p.CreatedBy,
		CreatorName:     p.CreatorName,
		ApprovedBy:      p.ApprovedBy,
		ApprovedAt:      p.ApprovedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.OfferPrice != nil {
		offer := p.OfferPrice.StringFixed(2)
		res.OfferPrice = &offer
	}

	return res
}

type batchProductsResponse struct {
	Products         []productResponse `json:"products"`
	NotFoundProducts []uuid.UUID       `json:"not_found_products"`
}

type categoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		DisplayOrder: c.DisplayOrder,
		CreatedAt:    c.CreatedAt,
	}
}

type featuredItemResponse struct {
	ID           uuid.UUID  `json:"id"`
	ProductID    *uuid.UUID `json:"product_id"`
	Title        string     `json:"title"`
	Subtitle     *string    `json:"subtitle"`
	ImageURL     *string    `json:"image_url"`
	Type         string     `json:"type"`
	DisplayOrder int        `json:"display_order"`
}

func toFeaturedItemResponse(f *domain.FeaturedItem) featuredItemResponse {
	return featuredItemResponse{
		ID:           f.ID,
		ProductID:    f.ProductID,
		Title:        f.Title,
		Subtitle:     f.Subtitle,
		ImageURL:     f.ImageURL,
		Type:         string(f.Type),
		DisplayOrder: f.DisplayOrder,
	}
}

type statsResponse struct {
	Total      int `json:"total"`
	Draft      int `json:"draft"`
	Live       int `json:"live"`
	OutOfStock int `json:"out_of_stock"`
}

type uploadImagesResponse struct {
	URLs []string `json:"urls"`
}

type orderLinkResponse struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

type contactResponse struct {
	ShopName     string `json:"shop_name"`
	Phone        string `json:"phone"`
	DisplayPhone string `json:"display_phone"`
	WhatsApp     string `json:"whatsapp"`
	WhatsAppLink string `json:"whatsapp_link"`
	MapsLink     string `json:"maps_link"`
	Email        string `json:"email"`
	Address      string `json:"address"`
}

func toContactResponse(c *orderlink.ContactInfo) contactResponse {
	return contactResponse{
		ShopName:     c.ShopName,
		Phone:        c.Phone,
		DisplayPhone: c.DisplayPhone,
		WhatsApp:     c.WhatsApp,
		WhatsAppLink: c.Link,
		MapsLink:     c.MapsLink,
		Email:        c.Email,
		Address:      c.Address,
	}
}

type userResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Phone    *string   `json:"phone"`
	Role     string    `json:"role"`
}

type sessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	AccessToken   string        `json:"access_token,omitempty"`
	ExpiresAt     *time.Time    `json:"expires_at,omitempty"`
	User          *userResponse `json:"user,omitempty"`
}

func toSessionResponse(c *session.Context, withToken bool) sessionResponse {
	if !c.Authenticated() {
		return sessionResponse{}
	}

	res := sessionResponse{
		Authenticated: true,
		ExpiresAt:     &c.Session.ExpiresAt,
		User:          toUserResponse(c.Session.User, c.Profile),
	}
	if withToken {
		res.AccessToken = c.Session.AccessToken
	}

	return res
}

func toUserResponse(u *identity.User, p *domain.Profile) *userResponse {
	res := &userResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
		Role:     string(domain.RoleCustomer),
	}
	if p != nil {
		res.FullName = p.FullName
		res.Role = string(p.Role)
	}

	return res
}

type signUpResponse struct {
	NeedsEmailConfirmation bool             `json:"needs_email_confirmation"`
	Session                *sessionResponse `json:"session,omitempty"`
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
