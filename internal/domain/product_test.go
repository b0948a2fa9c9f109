package domain

import (
	"testing"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name  string
		price string
		offer string
		want  int64
	}{
		{"teddy bear", "1000", "800", 20},
		{"rounds half up", "3", "2", 33},
		{"rounds up", "3", "1", 67},
		{"offer equal to price", "500", "500", 0},
		{"offer above price", "500", "600", 0},
		{"zero price", "0", "0", 0},
		{"tiny offer clamped below 100", "1000", "1", 99},
		{"fractional", "999.99", "499.99", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountPercent(dec(tt.price), dec(tt.offer))
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, int64(0))
			assert.Less(t, got, int64(100))
		})
	}
}

func TestRoundedDiscountIsNotClamped(t *testing.T) {
	assert.Equal(t, int64(100), RoundedDiscount(dec("1000"), dec("4")))
	assert.Equal(t, int64(99), DiscountPercent(dec("1000"), dec("4")))
	assert.Equal(t, int64(20), RoundedDiscount(dec("1000"), dec("800")))
	assert.Equal(t, int64(0), RoundedDiscount(dec("500"), dec("600")))
	assert.Equal(t, int64(0), RoundedDiscount(dec("0"), dec("0")))
}

func TestProductDiscount(t *testing.T) {
	p := &Product{Price: dec("1000"), OfferPrice: decPtr("800")}
	assert.True(t, p.HasOffer())
	assert.Equal(t, int64(20), p.Discount())

	p.OfferPrice = decPtr("0")
	assert.False(t, p.HasOffer(), "zero offer price is not an offer")
	assert.Equal(t, int64(0), p.Discount())

	p.OfferPrice = nil
	assert.Equal(t, int64(0), p.Discount())
}

func TestNewProductStartsAsDraft(t *testing.T) {
	creator := uuid.New()
	p := NewProduct(&ProductInput{
		Name:   "  Teddy Bear L ",
		Price:  dec("1000"),
		Images: []string{"a.jpg", " ", "b.jpg"},
		Tags:   []string{"New Arrival", "New Arrival", ""},
	}, creator)

	assert.Equal(t, StatusDraft, p.Status)
	assert.Equal(t, creator, p.CreatedBy)
	assert.Nil(t, p.ApprovedBy)
	assert.Nil(t, p.ApprovedAt)
	assert.Equal(t, "Teddy Bear L", p.Name)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	assert.Equal(t, "a.jpg", p.MainImage())
	assert.Equal(t, []string{"New Arrival"}, p.Tags)
	assert.Nil(t, p.CategoryID)
}

func TestProductApplyKeepsWorkflowFields(t *testing.T) {
	approver := uuid.New()
	p := NewProduct(&ProductInput{Name: "Bear", Price: dec("10"), Images: []string{"a.jpg"}}, uuid.New())
	require.NoError(t, p.Approve(NewActor(approver, RoleAdmin), p.CreatedAt))
	creator := p.CreatedBy

	p.Apply(&ProductInput{Name: "Bigger Bear", Price: dec("20"), Images: []string{"b.jpg"}})

	assert.Equal(t, StatusLive, p.Status)
	assert.Equal(t, creator, p.CreatedBy)
	require.NotNil(t, p.ApprovedBy)
	assert.Equal(t, approver, *p.ApprovedBy)
}

func TestProductInputValidate(t *testing.T) {
	valid := func() *ProductInput {
		return &ProductInput{Name: "Bear", Price: dec("100"), Images: []string{"a.jpg"}}
	}

	tests := []struct {
		name   string
		mutate func(in *ProductInput)
		field  string
		err    error
	}{
		{"valid", func(in *ProductInput) {}, "", nil},
		{"blank name", func(in *ProductInput) { in.Name = "  " }, "name", e.ErrProductNameRequired},
		{"negative price", func(in *ProductInput) { in.Price = dec("-1") }, "price", e.ErrPriceNegative},
		{"negative offer", func(in *ProductInput) { in.OfferPrice = decPtr("-5") }, "offer_price", e.ErrPriceNegative},
		{"no images", func(in *ProductInput) { in.Images = nil }, "images", e.ErrNoImages},
		{"blank images only", func(in *ProductInput) { in.Images = []string{"", " "} }, "images", e.ErrNoImages},
		{"offer above price is tolerated", func(in *ProductInput) { in.OfferPrice = decPtr("500") }, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(in)
			err := in.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.err)
			var fieldErr *e.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestParseProductStatus(t *testing.T) {
	for _, s := range []string{"draft", "LIVE", " out_of_stock "} {
		_, err := ParseProductStatus(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseProductStatus("archived")
	assert.ErrorIs(t, err, e.ErrInvalidStatus)
}

func TestParseRoles(t *testing.T) {
	roles, err := ParseRoles("admin, staff,admin")
	require.NoError(t, err)
	assert.Equal(t, Roles{RoleAdmin, RoleStaff}, roles)
	assert.Equal(t, "admin,staff", roles.String())

	_, err = ParseRoles("admin,owner")
	assert.ErrorIs(t, err, e.ErrInvalidRole)

	_, err = ParseRoles(" , ")
	assert.ErrorIs(t, err, e.ErrInvalidRole)
}
