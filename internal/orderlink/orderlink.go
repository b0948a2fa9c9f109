// Package orderlink собирает текст заказа и deep link в WhatsApp.
package orderlink

import (
	"strings"

	"github.com/DRSN-tech/giftshop-backend/internal/cfg"
	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const waBaseURL = "https://wa.me/"

// OrderItem — то, что покупатель хочет заказать.
type OrderItem struct {
	Name       string
	Price      decimal.Decimal
	OfferPrice *decimal.Decimal
}

func NewOrderItem(name string, price decimal.Decimal, offerPrice *decimal.Decimal) *OrderItem {
	return &OrderItem{
		Name:       name,
		Price:      price,
		OfferPrice: offerPrice,
	}
}

// ItemFromProduct берёт из товара поля, нужные для сообщения.
func ItemFromProduct(p *domain.Product) *OrderItem {
	return NewOrderItem(p.Name, p.Price, p.OfferPrice)
}

// ContactInfo — контакты магазина для страницы контактов и футера.
type ContactInfo struct {
	Phone        string
	DisplayPhone string
	WhatsApp     string
	ShopName     string
	MapsLink     string
	Email        string
	Address      string
	Link         string
}

// Formatter строит сообщения для конкретного магазина.
type Formatter struct {
	number   string
	shopName string
	mapsLink string
	phone    string
	email    string
	address  string
}

func NewFormatter(cfg *cfg.ShopCfg) *Formatter {
	return &Formatter{
		number:   cfg.WhatsAppNumber,
		shopName: cfg.ShopName,
		mapsLink: cfg.MapsLink,
		phone:    cfg.Phone,
		email:    cfg.Email,
		address:  cfg.Address,
	}
}

// Message возвращает текст сообщения. При item == nil пишется общий вопрос без товара.
func (f *Formatter) Message(item *OrderItem) string {
	var b strings.Builder

	b.WriteString("Hello " + f.shopName + "! 👋\n\n")

	if item != nil {
		b.WriteString("I'm interested in:\n")
		b.WriteString("📦 *" + item.Name + "*\n\n")
		b.WriteString("💰 Price: Rs. " + item.Price.String() + "\n")

		if item.hasOffer() {
			discount := domain.RoundedDiscount(item.Price, *item.OfferPrice)
			b.WriteString("🎉 Offer Price: Rs. " + item.OfferPrice.String() +
				" (" + decimal.NewFromInt(discount).String() + "% OFF)\n\n")
		} else {
			b.WriteString("\n")
		}
	} else {
		b.WriteString("I would like to know more about your products.\n\n")
	}

	b.WriteString("📍 Location: " + f.mapsLink + "\n\n")
	b.WriteString("Please confirm availability and delivery details. Thank you!")

	return b.String()
}

// Link возвращает https://wa.me/{number}?text={сообщение}.
func (f *Formatter) Link(item *OrderItem) string {
	return waBaseURL + f.number + "?text=" + EncodeURIComponent(f.Message(item))
}

// Contact возвращает контакты магазина со ссылкой на общий вопрос.
func (f *Formatter) Contact() *ContactInfo {
	return &ContactInfo{
		Phone:        f.phone,
		DisplayPhone: displayPhone(f.phone),
		WhatsApp:     f.number,
		ShopName:     f.shopName,
		MapsLink:     f.mapsLink,
		Email:        f.email,
		Address:      f.address,
		Link:         f.Link(nil),
	}
}

// hasOffer: акция только при 0 < offer < price.
func (i *OrderItem) hasOffer() bool {
	return i.OfferPrice != nil && i.OfferPrice.IsPositive() && i.OfferPrice.LessThan(i.Price)
}

// displayPhone убирает код страны: "+977 9815888721" -> "9815888721".
func displayPhone(phone string) string {
	if strings.HasPrefix(phone, "+") {
		if idx := strings.IndexByte(phone, ' '); idx > 0 {
			return strings.TrimSpace(phone[idx+1:])
		}
	}

	return phone
}

// EncodeURIComponent кодирует строку так же, как одноимённая функция браузера:
// без экранирования остаются только A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}

	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}

	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}

	return false
}
