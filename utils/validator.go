package utils

import (
	"reflect"

	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"
)

// Validate is shared by every handler; decimals are checked as float64.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}
