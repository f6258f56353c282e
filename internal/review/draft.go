package review

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/sportshop/frontend/pkg/errors"
)

// Draft is the locally edited review before submission. Both fields are
// required; validation never reaches the server.
type Draft struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,notblank"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	// Whitespace-only comments count as empty.
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the draft locally and reports which fields are missing.
func (d Draft) Validate() error {
	if err := validate.Struct(d); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			details := map[string]string{}
			for _, fieldErr := range errs {
				details[fieldErr.Field()] = "is required"
			}
			return pkgerrors.New(pkgerrors.CodeValidation, msgValidation).WithDetails(details)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgValidation)
	}
	return nil
}
