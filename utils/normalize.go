package utils

import (
	"reflect"
	"strings"
)

// NormalizeDTO trims string fields and the elements of []string fields on a
// pointer-to-struct DTO, dropping elements that end up empty. Non-nil
// *string fields are trimmed as well.
func NormalizeDTO(dto any) {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr {
		return
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Ptr:
			if !f.IsNil() && f.Elem().Kind() == reflect.String {
				f.Elem().SetString(strings.TrimSpace(f.Elem().String()))
			}
		case reflect.Slice:
			if f.Type().Elem().Kind() != reflect.String {
				continue
			}
			out := reflect.MakeSlice(f.Type(), 0, f.Len())
			for j := 0; j < f.Len(); j++ {
				if item := strings.TrimSpace(f.Index(j).String()); item != "" {
					out = reflect.Append(out, reflect.ValueOf(item).Convert(f.Type().Elem()))
				}
			}
			f.Set(out)
		}
	}
}
