package utils

import (
	"reflect"
	"strconv"
	"strings"

	"gorm.io/gorm/schema"
)

var naming = schema.NamingStrategy{}

// UpdatesFromPtrDTO builds a column->value map from the non-nil pointer
// fields of a DTO. Column names follow GORM's naming of the Go field name,
// so a DTO field FreightAmount updates freight_amount. String values are
// trimmed.
func UpdatesFromPtrDTO(dto any) map[string]any {
	res := make(map[string]any)
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr {
		return res
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return res
	}
	t := s.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := s.Field(i)
		if fv.Kind() != reflect.Ptr || fv.IsNil() || sf.Tag.Get("json") == "-" {
			continue
		}
		val := fv.Elem().Interface()
		if str, ok := val.(string); ok {
			val = strings.TrimSpace(str)
		}
		res[naming.ColumnName("", sf.Name)] = val
	}
	return res
}

// ParseInt64 parses a base-10 integer, ignoring surrounding whitespace.
func ParseInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
