package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		code  int
		msg   string
		field string
	}{
		{"wrapped not found", e.Wrap("op", e.ErrProductNotFound), http.StatusNotFound, "product not found", ""},
		{"field error", e.Wrap("op", e.NewFieldError("price", e.ErrPricePrecision)), http.StatusBadRequest, e.ErrPricePrecision.Error(), "price"},
		{"forbidden", e.ErrForbidden, http.StatusForbidden, e.ErrForbidden.Error(), ""},
		{"conflict", e.ErrInvalidTransition, http.StatusConflict, e.ErrInvalidTransition.Error(), ""},
		{"too large", e.ErrFileTooLarge, http.StatusRequestEntityTooLarge, e.ErrFileTooLarge.Error(), ""},
		{"unknown is hidden", errors.New("pq: connection refused"), http.StatusInternalServerError, e.ErrInternalServerError.Error(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg, field := ToHTTPResponse(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.msg, msg)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{"599.99", "599.99", nil},
		{"600", "600", nil},
		{"0", "0", nil},
		{"12.50", "12.5", nil},
		{"12.500", "12.5", nil},
		{"12.345", "", e.ErrPricePrecision},
		{"-1", "", e.ErrPriceNegative},
		{"abc", "", e.ErrInvalidPrice},
		{"", "", e.ErrInvalidPrice},
		{"1000000001", "", e.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePrice("price", flexString(tt.in))
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFlexString(t *testing.T) {
	var v struct {
		A flexString  `json:"a"`
		B flexString  `json:"b"`
		C *flexString `json:"c"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"a":" 12.5 ","b":99.99,"c":null}`), &v))
	assert.Equal(t, flexString("12.5"), v.A)
	assert.Equal(t, flexString("99.99"), v.B)
	assert.Nil(t, v.C)
}

func TestBearerToken(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)

	assert.Empty(t, bearerToken(req))

	req.Header.Set("Authorization", "bearer abc ")
	assert.Equal(t, "abc", bearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, bearerToken(req))
}
