package validator

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/poi-crawler/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// "all" и пустая строка допустимы как селектор города/района
	_ = validate.RegisterValidation("region_selector", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "" || v == "all" || strings.TrimSpace(v) == v
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.ErrInvalidRequest.Wrap(err)
	}

	details := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fmt.Sprintf("failed on '%s'", fe.Tag())
	}
	return errors.ErrInvalidRequest.WithDetails(details)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}
