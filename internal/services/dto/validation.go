package dto

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// RegisterValidation lets validate tags on Optional fields apply to the
// wrapped value. An unset or null Optional validates as absent.
func RegisterValidation(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if o, ok := field.Interface().(Optional[string]); ok && o.Value != nil {
			return *o.Value
		}
		return nil
	}, Optional[string]{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if o, ok := field.Interface().(Optional[Date]); ok && o.Value != nil {
			return o.Value.Time
		}
		return nil
	}, Optional[Date]{})
}
