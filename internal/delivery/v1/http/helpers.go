package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func NewErrorResponse(code int, message, field string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Field:   field,
	}
}

var errorStatuses = []struct {
	err  error
	code int
}{
	{e.ErrStatusBadRequest, http.StatusBadRequest},
	{e.ErrExpectedMultipart, http.StatusBadRequest},
	{e.ErrMissingFields, http.StatusBadRequest},
	{e.ErrInvalidID, http.StatusBadRequest},
	{e.ErrProductNameRequired, http.StatusBadRequest},
	{e.ErrInvalidPrice, http.StatusBadRequest},
	{e.ErrPricePrecision, http.StatusBadRequest},
	{e.ErrPriceNegative, http.StatusBadRequest},
	{e.ErrNoImages, http.StatusBadRequest},
	{e.ErrTooManyImages, http.StatusBadRequest},
	{e.ErrInvalidStatus, http.StatusBadRequest},
	{e.ErrInvalidRole, http.StatusBadRequest},
	{e.ErrCategoryNameRequired, http.StatusBadRequest},
	{e.ErrInvalidSlug, http.StatusBadRequest},
	{e.ErrInvalidEmail, http.StatusBadRequest},
	{e.ErrPasswordTooShort, http.StatusBadRequest},
	{e.ErrFullNameRequired, http.StatusBadRequest},
	{e.ErrInvalidConfirmation, http.StatusBadRequest},
	{e.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{e.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
	{e.ErrUnauthenticated, http.StatusUnauthorized},
	{e.ErrInvalidCredentials, http.StatusUnauthorized},
	{e.ErrSessionExpired, http.StatusUnauthorized},
	{e.ErrForbidden, http.StatusForbidden},
	{e.ErrEmailNotConfirmed, http.StatusForbidden},
	{e.ErrProductNotFound, http.StatusNotFound},
	{e.ErrCategoryNotFound, http.StatusNotFound},
	{e.ErrProfileNotFound, http.StatusNotFound},
	{e.ErrUserNotFound, http.StatusNotFound},
	{e.ErrInvalidTransition, http.StatusConflict},
	{e.ErrSlugTaken, http.StatusConflict},
	{e.ErrEmailTaken, http.StatusConflict},
}

// ToHTTPResponse сопоставляет ошибку со статусом. Неизвестные ошибки скрываются за 500.
func ToHTTPResponse(err error) (int, string, string) {
	var field string
	var fieldErr *e.FieldError
	if errors.As(err, &fieldErr) {
		field = fieldErr.Field
	}

	for _, s := range errorStatuses {
		if errors.Is(err, s.err) {
			return s.code, s.err.Error(), field
		}
	}

	return http.StatusInternalServerError, e.ErrInternalServerError.Error(), ""
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg, field := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg, field))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// decodeJSON читает тело запроса в dst и проверяет теги validate.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	const maxBody = 1 << 20

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var fieldErr *e.FieldError
		if errors.As(err, &fieldErr) {
			return err
		}
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrStatusBadRequest, err))
	}

	if err := validate.Struct(dst); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			fe := vErrs[0]
			return e.NewFieldError(fe.Field(), fmt.Errorf("%w: failed on %s", e.ErrStatusBadRequest, fe.Tag()))
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, e.NewFieldError("id", e.ErrInvalidID)
	}

	return id, nil
}

// parseUUIDPtr разбирает необязательный идентификатор, для пустой строки nil.
func parseUUIDPtr(field string, s *string) (*uuid.UUID, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}

	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil, e.NewFieldError(field, e.ErrInvalidID)
	}

	return &id, nil
}

// flexString принимает значение формы как JSON-строку или число: "599.99", 599.99, "600".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(str))
		return nil
	}

	*f = flexString(s)
	return nil
}

// parsePrice разбирает цену: не больше двух знаков после точки, не отрицательная.
func parsePrice(field string, s flexString) (decimal.Decimal, error) {
	if strings.TrimSpace(string(s)) == "" {
		return decimal.Zero, e.NewFieldError(field, e.ErrInvalidPrice)
	}

	d, err := decimal.NewFromString(string(s))
	if err != nil {
		return decimal.Zero, e.NewFieldError(field, e.ErrInvalidPrice)
	}

	if d.IsNegative() {
		return decimal.Zero, e.NewFieldError(field, e.ErrPriceNegative)
	}

	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return decimal.Zero, e.NewFieldError(field, e.ErrInvalidPrice)
	}

	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return decimal.Zero, e.NewFieldError(field, e.ErrPricePrecision)
	}

	return d.Round(2), nil
}

// parseOptionalPrice: пустое значение: акции нет.
func parseOptionalPrice(field string, s *flexString) (*decimal.Decimal, error) {
	if s == nil || strings.TrimSpace(string(*s)) == "" {
		return nil, nil
	}

	d, err := parsePrice(field, *s)
	if err != nil {
		return nil, err
	}

	return &d, nil
}
