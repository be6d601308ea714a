package toylang

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-reflect"
	"github.com/oarkflow/date"
)

// Decode stores a runtime value into the Go value pointed to by dst. Struct
// fields are matched by json tag or field name against instance fields;
// time.Time accepts a date string or Unix seconds.
func Decode(v Value, dst any) error {
	destVal := reflect.ValueOf(dst)
	if destVal.Kind() != reflect.Ptr || destVal.IsNil() {
		return errors.New("dst must be a non-nil pointer")
	}
	return assignValue(v, destVal.Elem())
}

var timeType = reflect.TypeOf(time.Time{})

func assignValue(src Value, dest reflect.Value) error {
	if !dest.IsValid() {
		return errors.New("invalid destination")
	}
	if _, isNull := src.(NullValue); isNull {
		dest.Set(reflect.Zero(dest.Type()))
		return nil
	}
	if dest.Kind() == reflect.Ptr {
		if dest.IsNil() {
			dest.Set(reflect.New(dest.Type().Elem()))
		}
		return assignValue(src, dest.Elem())
	}
	if dest.Type() == timeType {
		return assignTime(src, dest)
	}
	switch dest.Kind() {
	case reflect.Interface:
		g, err := ToGo(src)
		if err != nil {
			return err
		}
		if g == nil {
			dest.Set(reflect.Zero(dest.Type()))
			return nil
		}
		dest.Set(reflect.ValueOf(g))
	case reflect.Struct:
		fields, ok := instanceFields(src)
		if !ok {
			return fmt.Errorf("expected an instance for struct assignment but got %s", src.Kind())
		}
		destType := dest.Type()
		for i := 0; i < dest.NumField(); i++ {
			field := destType.Field(i)
			if field.PkgPath != "" {
				continue
			}
			fieldName := field.Name
			if tag := field.Tag.Get("json"); tag != "" {
				if name := strings.Split(tag, ",")[0]; name != "" {
					fieldName = name
				}
			}
			if value, exists := fields[fieldName]; exists {
				if err := assignValue(value, dest.Field(i)); err != nil {
					return fmt.Errorf("field %s: %w", field.Name, err)
				}
			}
		}
	case reflect.Map:
		fields, ok := instanceFields(src)
		if !ok {
			return fmt.Errorf("expected an instance for map assignment but got %s", src.Kind())
		}
		if dest.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("map keys must be strings, got %s", dest.Type().Key().Kind())
		}
		newMap := reflect.MakeMap(dest.Type())
		for key, fv := range fields {
			destKey := reflect.New(dest.Type().Key()).Elem()
			destKey.SetString(key)
			destVal := reflect.New(dest.Type().Elem()).Elem()
			if err := assignValue(fv, destVal); err != nil {
				return fmt.Errorf("key %s: %w", key, err)
			}
			newMap.SetMapIndex(destKey, destVal)
		}
		dest.Set(newMap)
	case reflect.Slice:
		arr, ok := src.(*ArrayValue)
		if !ok {
			return fmt.Errorf("expected an array for slice assignment but got %s", src.Kind())
		}
		slice := reflect.MakeSlice(dest.Type(), len(arr.Elements), len(arr.Elements))
		for i, item := range arr.Elements {
			if err := assignValue(item, slice.Index(i)); err != nil {
				return fmt.Errorf("slice index %d: %w", i, err)
			}
		}
		dest.Set(slice)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := src.(NumberValue)
		if !ok {
			return fmt.Errorf("cannot convert %s to int", src.Kind())
		}
		dest.SetInt(int64(n))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := src.(NumberValue)
		if !ok || n < 0 {
			return fmt.Errorf("cannot convert %s to uint", inspect(src))
		}
		dest.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		n, ok := src.(NumberValue)
		if !ok {
			return fmt.Errorf("cannot convert %s to float", src.Kind())
		}
		dest.SetFloat(float64(n))
	case reflect.Bool:
		dest.SetBool(Truthy(src))
	case reflect.String:
		dest.SetString(Stringify(src))
	default:
		return fmt.Errorf("unsupported destination type: %s", dest.Kind())
	}
	return nil
}

func assignTime(src Value, dest reflect.Value) error {
	switch t := src.(type) {
	case StringValue:
		parsed, err := date.Parse(string(t))
		if err != nil {
			return fmt.Errorf("cannot parse time: %w", err)
		}
		dest.Set(reflect.ValueOf(parsed))
	case NumberValue:
		dest.Set(reflect.ValueOf(time.Unix(int64(t), 0).UTC()))
	default:
		return fmt.Errorf("expected a string or number for time conversion but got %s", src.Kind())
	}
	return nil
}

func instanceFields(v Value) (map[string]Value, bool) {
	switch t := v.(type) {
	case *StructInstanceValue:
		return t.Fields, true
	case *ClassInstanceValue:
		return t.Fields, true
	}
	return nil, false
}
