package transforms

import (
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"
)

// TransformDefinition rewrites the Data fields of every struct of the named
// Type whose Match fields all equal the given values.
type TransformDefinition struct {
	Type  string                 `yaml:"type"`
	Match map[string]string      `yaml:"match"`
	Data  map[string]interface{} `yaml:"data"`
}

func (t *TransformDefinition) matches(inputValue reflect.Value) bool {
	if t.Type != "" && t.Type != inputValue.Type().Name() && t.Type != inputValue.Type().String() {
		return false
	}

	for key, value := range t.Match {
		field := inputValue.FieldByName(key)
		if !field.IsValid() || field.Kind() != reflect.String {
			return false
		}

		if !strings.EqualFold(value, field.String()) {
			return false
		}
	}

	return true
}

func (t *TransformDefinition) apply(inputValue reflect.Value) {
	for key, value := range t.Data {
		field := inputValue.FieldByName(key)
		if !field.IsValid() || !field.CanSet() {
			continue
		}

		newValue := reflect.ValueOf(value)
		if !newValue.IsValid() {
			continue
		}

		switch {
		case newValue.Type().AssignableTo(field.Type()):
			field.Set(newValue)
		case newValue.Type().ConvertibleTo(field.Type()) && newValue.Kind() == field.Kind():
			field.Set(newValue.Convert(field.Type()))
		default:
			log.Warn().
				Str("field", key).
				Str("type", inputValue.Type().String()).
				Msg("Transform value does not fit field")
		}
	}
}

// Transform applies the set to input, walking pointers, slices and nested
// structs
func (s Set) Transform(input interface{}) {
	if len(s) == 0 || input == nil {
		return
	}

	s.transformValue(reflect.ValueOf(input))
}

func (s Set) transformValue(value reflect.Value) {
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return
		}
		s.transformValue(value.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			s.transformValue(value.Index(i))
		}
	case reflect.Struct:
		if !value.CanSet() {
			return
		}

		for _, transformDef := range s {
			if transformDef.matches(value) {
				transformDef.apply(value)
			}
		}

		for i := 0; i < value.NumField(); i++ {
			if !value.Type().Field(i).IsExported() {
				continue
			}

			switch value.Field(i).Kind() {
			case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Struct:
				s.transformValue(value.Field(i))
			}
		}
	}
}
