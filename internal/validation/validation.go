package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"hannas-kitchen/internal/models"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// ItemForm is the raw multipart form submitted when adding a menu item.
type ItemForm struct {
	Name     string `form:"name" validate:"required"`
	Price    string `form:"price" validate:"required"`
	Category string `form:"category" validate:"required"`
	Tags     string `form:"tags"`
}

// ValidateItemForm checks presence of the required fields and converts the
// form into a menu item without id or image.
func ValidateItemForm(form ItemForm) (models.MenuItem, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Price = strings.TrimSpace(form.Price)

	if err := validate.Struct(form); err != nil {
		return models.MenuItem{}, translate(err)
	}

	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil {
		return models.MenuItem{}, ValidationError{
			Field:   "price",
			Message: "price must be a number",
		}
	}

	category := models.Category(form.Category)
	if !category.Valid() {
		return models.MenuItem{}, ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("category must be one of: %s", joinCategories(models.Categories)),
		}
	}

	return models.MenuItem{
		Name:     form.Name,
		Category: category,
		Price:    price,
		Tags:     models.ParseTags(form.Tags),
	}, nil
}

func translate(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ValidationError{Field: "body", Message: err.Error()}
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return ValidationError{Field: fe.Field(), Message: fmt.Sprintf("%s is required", fe.Field())}
	default:
		return ValidationError{Field: fe.Field(), Message: fmt.Sprintf("failed %s check", fe.Tag())}
	}
}

func joinCategories(categories []models.Category) string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
