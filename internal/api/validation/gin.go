package validation

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// GinValidator lets gin's ShouldBind* use the same validator, tags and
// field names as the services.
type GinValidator struct {
	validate *validator.Validate
}

var _ binding.StructValidator = (*GinValidator)(nil)

func NewGinValidator() *GinValidator {
	return &GinValidator{validate: New()}
}

// ValidateStruct validates structs and pointers to structs, ignores the rest
func (g *GinValidator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	return g.validate.Struct(obj)
}

func (g *GinValidator) Engine() interface{} {
	return g.validate
}
