package movement

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// JSON numbers arrive as float64; coerce them into the integer fields of
// movementDoc.
func floatToUintHook() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.Float64 {
			return data, nil
		}
		v := data.(float64)
		switch t.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return uint64(v), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return int64(v), nil
		}
		return data, nil
	}
}
