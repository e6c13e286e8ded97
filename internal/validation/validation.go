// Package validation turns struct validation failures into per-field
// messages suitable for JSON error bodies and HTML forms.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// fieldMessages holds the human readable message for a failing field.
// Keys are JSON field names; "*" applies to every tag of that field.
var fieldMessages = map[string]map[string]string{
	"name": {
		"required": "Product name is required",
		"notblank": "Product name is required",
		"*":        "Name must be between 2 and 100 characters",
	},
	"description": {
		"required": "Description is required",
		"notblank": "Description is required",
		"*":        "Description must be between 10 and 500 characters",
	},
	"price": {
		"required": "Price is required",
		"*":        "Price must be between 0.01 and 999,999.99",
	},
	"quantity": {
		"*": "Quantity must be a positive number",
	},
}

// Validator validates models using their `validate` struct tags.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that reports JSON field names, understands
// decimal.Decimal values and supports the "notblank" tag for text that must
// not be whitespace only.
func New() *Validator {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &Validator{validate: v}
}

// Struct validates s and returns one message per failing field, or nil when
// s is valid.
func (v *Validator) Struct(s interface{}) map[string]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}

	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		if _, seen := errorMessages[e.Field()]; seen {
			continue
		}
		errorMessages[e.Field()] = message(e.Field(), e.Tag())
	}
	return errorMessages
}

func message(field, tag string) string {
	if byTag, ok := fieldMessages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
		if msg, ok := byTag["*"]; ok {
			return msg
		}
	}
	return fmt.Sprintf("Field '%s' failed on the '%s' tag", field, tag)
}
