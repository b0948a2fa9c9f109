package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidID            = fmt.Errorf("invalid identifier")
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrPriceNegative        = fmt.Errorf("price must not be negative")
	ErrNoImages             = fmt.Errorf("please upload at least one image")
	ErrTooManyImages        = fmt.Errorf("too many images")
	ErrUnsupportedMediaType = fmt.Errorf("only JPEG, PNG, and WebP images are allowed")
	ErrFileTooLarge         = fmt.Errorf("image size must be less than 5MB")
	ErrInvalidStatus        = fmt.Errorf("invalid product status")
	ErrInvalidRole          = fmt.Errorf("invalid role")
	ErrInvalidFeaturedType  = fmt.Errorf("invalid featured item type")
	ErrCategoryNameRequired = fmt.Errorf("category name is required")
	ErrInvalidSlug          = fmt.Errorf("slug must be lowercase letters, digits and dashes")
	ErrInvalidEmail         = fmt.Errorf("invalid email")
	ErrPasswordTooShort     = fmt.Errorf("password must be at least 6 characters")
	ErrFullNameRequired     = fmt.Errorf("full name is required")

	// 401 Unauthorized
	ErrUnauthenticated     = fmt.Errorf("authentication required")
	ErrInvalidCredentials  = fmt.Errorf("invalid email or password")
	ErrSessionExpired      = fmt.Errorf("session expired")
	ErrEmailNotConfirmed   = fmt.Errorf("email not confirmed")
	ErrInvalidConfirmation = fmt.Errorf("invalid or used confirmation token")

	// 403 Forbidden
	ErrForbidden = fmt.Errorf("insufficient role")

	// 404 Not Found
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrCategoryNotFound = fmt.Errorf("category not found")
	ErrProfileNotFound  = fmt.Errorf("profile not found")
	ErrUserNotFound     = fmt.Errorf("user not found")

	// 409 Conflict
	ErrInvalidTransition = fmt.Errorf("status transition not allowed")
	ErrSlugTaken         = fmt.Errorf("category slug already exists")
	ErrEmailTaken        = fmt.Errorf("email already registered")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error, please try again")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// FieldError привязывает ошибку валидации к полю формы.
type FieldError struct {
	Field string
	Err   error
}

func NewFieldError(field string, err error) *FieldError {
	return &FieldError{Field: field, Err: err}
}

func (f *FieldError) Error() string {
	return f.Field + ": " + f.Err.Error()
}

func (f *FieldError) Unwrap() error {
	return f.Err
}
