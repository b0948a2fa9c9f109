package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SuggestedTags — теги, которые админка предлагает по умолчанию.
// Хранилище принимает любые строки.
var SuggestedTags = []string{
	"Perfect for Birthday",
	"Best for Girlfriend",
	"Kids Favorite",
	"New Arrival",
	"Limited Stock",
}

// Product описывает товар каталога
type Product struct {
	ID          uuid.UUID
	CategoryID  *uuid.UUID // слабая ссылка: удаление категории не удаляет товар
	Name        string
	Description string
	Price       decimal.Decimal
	OfferPrice  *decimal.Decimal
	Images      []string // первый элемент: главное изображение
	Tags        []string
	Status      ProductStatus
	CreatedBy   uuid.UUID
	ApprovedBy  *uuid.UUID
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time

	CreatorName string // full_name создателя, заполняется только в админских выборках
}

// ProductInput — редактируемые поля товара.
type ProductInput struct {
	CategoryID  *uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	OfferPrice  *decimal.Decimal
	Images      []string
	Tags        []string
}

// NewProduct создаёт черновик товара. Статус всегда draft, независимо от роли создателя.
func NewProduct(in *ProductInput, createdBy uuid.UUID) *Product {
	p := &Product{
		ID:        uuid.New(),
		Status:    StatusDraft,
		CreatedBy: createdBy,
	}
	p.Apply(in)

	return p
}

// Apply переносит редактируемые поля. Статус, создатель и поля одобрения не трогаются.
func (p *Product) Apply(in *ProductInput) {
	p.CategoryID = in.CategoryID
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price
	p.OfferPrice = in.OfferPrice
	p.Images = NormalizeImages(in.Images)
	p.Tags = NormalizeTags(in.Tags)
}

// Validate проверяет поля товара перед сохранением.
func (in *ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return e.NewFieldError("name", e.ErrProductNameRequired)
	}

	if in.Price.IsNegative() {
		return e.NewFieldError("price", e.ErrPriceNegative)
	}

	if in.OfferPrice != nil && in.OfferPrice.IsNegative() {
		return e.NewFieldError("offer_price", e.ErrPriceNegative)
	}

	if len(NormalizeImages(in.Images)) == 0 {
		return e.NewFieldError("images", e.ErrNoImages)
	}

	return nil
}

// Fingerprint возвращает хэш нормализованных полей ввода. Одинаковые отправки формы
// дают одинаковый отпечаток, любое отличие в полях даёт другой.
func (in *ProductInput) Fingerprint() string {
	var p Product
	p.Apply(in)

	category := ""
	if p.CategoryID != nil {
		category = p.CategoryID.String()
	}
	offer := ""
	if p.OfferPrice != nil {
		offer = p.OfferPrice.String()
	}

	h := sha256.New()
	for _, field := range []string{category, p.Name, p.Description, p.Price.String(), offer} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	for _, list := range [][]string{p.Images, p.Tags} {
		for _, v := range list {
			h.Write([]byte(v))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}

	return hex.EncodeToString(h.Sum(nil))
}

// HasOffer сообщает, есть ли смысл показывать акционную цену.
func (p *Product) HasOffer() bool {
	return p.OfferPrice != nil && p.OfferPrice.IsPositive() && p.OfferPrice.LessThan(p.Price)
}

// Discount возвращает процент скидки для отображения; 0, если акции нет.
func (p *Product) Discount() int64 {
	if !p.HasOffer() {
		return 0
	}

	return DiscountPercent(p.Price, *p.OfferPrice)
}

// RoundedDiscount считает round((price - offer) / price * 100) без ограничения сверху:
// при почти нулевой акционной цене получается 100.
func RoundedDiscount(price, offer decimal.Decimal) int64 {
	if !price.IsPositive() || offer.IsNegative() || !offer.LessThan(price) {
		return 0
	}

	return price.Sub(offer).Div(price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// DiscountPercent ограничивает RoundedDiscount диапазоном [0, 99] для полей отображения.
func DiscountPercent(price, offer decimal.Decimal) int64 {
	pct := RoundedDiscount(price, offer)
	switch {
	case pct < 0:
		return 0
	case pct > 99:
		return 99
	default:
		return pct
	}
}

// MainImage возвращает каноническое изображение товара.
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}

	return p.Images[0]
}

// HasTag — проверка вхождения тега.
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}

	return false
}

// IsPublic сообщает, виден ли товар в витрине.
func (p *Product) IsPublic() bool {
	return p.Status == StatusLive
}

// NormalizeTags убирает пустые и повторяющиеся теги, сохраняя порядок.
func NormalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}

	return result
}

// NormalizeImages убирает пустые URL, сохраняя порядок.
func NormalizeImages(images []string) []string {
	result := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			result = append(result, img)
		}
	}

	return result
}
