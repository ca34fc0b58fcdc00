// FILE: lixenwraith/config/register.go
package config

import (
	"encoding"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// AddStruct renders a struct holding default values into a mapping and
// merges it over the current tree. Keys come from the Options.TagName struct
// tag ("yaml" by default) or the field name; a tag of "-" skips the field.
// Nested structs become nested mappings and nil struct pointers are skipped.
func (c *Config) AddStruct(structWithDefaults any) error {
	v := reflect.ValueOf(structWithDefaults)

	// Handle pointer or direct struct value
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("AddStruct requires a non-nil struct pointer or value")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("AddStruct requires a struct or struct pointer, got %T", structWithDefaults)
	}

	var errs []string
	m := c.structFields(v, "", &errs)
	if len(errs) > 0 {
		return fmt.Errorf("failed to render %d field(s): %s", len(errs), strings.Join(errs, "; "))
	}

	c.merge(m, SourceRecord{Source: SourceStruct, Name: v.Type().String()})
	return nil
}

// structFields renders the exported fields of v in declaration order.
func (c *Config) structFields(v reflect.Value, fieldPath string, errs *[]string) *Map {
	t := v.Type()
	m := NewMap()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		key, skip := fieldKey(field, c.options.TagName)
		if skip {
			continue
		}

		// Nested structs, by value or pointer, become nested mappings
		if isNestedStruct(fieldValue.Type()) {
			nested := fieldValue
			if nested.Kind() == reflect.Ptr {
				if nested.IsNil() {
					continue
				}
				nested = nested.Elem()
			}
			m.put(key, c.structFields(nested, fieldPath+field.Name+".", errs))
			continue
		}

		if isLeafType(fieldValue.Type()) {
			if fieldValue.Kind() == reflect.Ptr && fieldValue.IsNil() {
				m.put(key, nil)
				continue
			}
			m.put(key, fieldValue.Interface())
			continue
		}

		nv, err := normalize(fieldValue.Interface())
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("field %s%s (key %s): %v", fieldPath, field.Name, key, err))
			continue
		}
		m.put(key, nv)
	}
	return m
}

// fieldKey returns the mapping key for a struct field.
func fieldKey(field reflect.StructField, tagName string) (key string, skip bool) {
	tag := field.Tag.Get(tagName)
	if tag == "-" {
		return "", true
	}

	key = field.Name
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		key = name
	}
	// Tag options such as omitempty are ignored when rendering defaults
	return key, false
}

var (
	timeType          = reflect.TypeOf(time.Time{})
	urlType           = reflect.TypeOf(url.URL{})
	ipNetType         = reflect.TypeOf(net.IPNet{})
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// isLeafType reports types that are stored as single values even though
// their kind is a struct or slice.
func isLeafType(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case timeType, urlType, ipNetType:
		return true
	}
	return t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
}

func isNestedStruct(t reflect.Type) bool {
	if isLeafType(t) {
		return false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
