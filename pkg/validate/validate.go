// Package validate provides declarative struct-tag validation.
//
// Rules are listed comma-separated in the `validate` tag and evaluated in
// field-declaration order; the first failing rule of a field wins for that
// field, and First returns the first failing field of the struct. Supported
// rules:
//
//	required            field must be present (non-nil pointer) and non-empty
//	gt=N                number > N
//	gte=N               number >= N
//	lt=N                number < N
//	lte=N               number <= N
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	in=a|b|c            value must be one of the listed items
//
// Pointer fields distinguish "absent" (nil) from the zero value, which is
// how a required stock of 0 passes while a missing stock fails.
//
// Example:
//
//	type ProductInput struct {
//	    Title string   `json:"title" validate:"required"`
//	    Price float64  `json:"price" validate:"required,gt=0"`
//	    Stock *int     `json:"stock" validate:"required,gte=0"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FieldError describes a single failed rule.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	for _, fe := range collect(v, true) {
		errs[fe.Field] = fe.Message
	}
	return errs
}

// First returns the first violation in field-declaration order, or nil when
// the struct is valid.
func First(v interface{}) *FieldError {
	if fes := collect(v, false); len(fes) > 0 {
		return &fes[0]
	}
	return nil
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func collect(v interface{}, all bool) []FieldError {
	var out []FieldError

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return out
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		for _, rule := range strings.Split(tag, ",") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				out = append(out, FieldError{Field: name, Message: msg})
				break // first failing rule per field
			}
		}
		if len(out) > 0 && !all {
			return out
		}
	}

	return out
}

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			if key == "required" {
				return fmt.Sprintf("The %s field is required.", field)
			}
			// Optional field left out: nothing further to check.
			return ""
		}
		v = v.Elem()
	}

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "gt":
		if n, ok := numeric(v); ok && !(n > mustFloat(param)) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if n, ok := numeric(v); ok && !(n >= mustFloat(param)) {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
	case "lt":
		if n, ok := numeric(v); ok && !(n < mustFloat(param)) {
			return fmt.Sprintf("The %s must be less than %s.", field, param)
		}
	case "lte":
		if n, ok := numeric(v); ok && !(n <= mustFloat(param)) {
			return fmt.Sprintf("The %s must be at most %s.", field, param)
		}

	case "min":
		if v.Kind() == reflect.String {
			if len([]rune(v.String())) < int(mustFloat(param)) {
				return fmt.Sprintf("The %s must be at least %s characters.", field, param)
			}
		} else if n, ok := numeric(v); ok && n < mustFloat(param) {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
	case "max":
		if v.Kind() == reflect.String {
			if len([]rune(v.String())) > int(mustFloat(param)) {
				return fmt.Sprintf("The %s may not be greater than %s characters.", field, param)
			}
		} else if n, ok := numeric(v); ok && n > mustFloat(param) {
			return fmt.Sprintf("The %s may not be greater than %s.", field, param)
		}

	case "in":
		raw := fmt.Sprintf("%v", v.Interface())
		for _, item := range strings.Split(param, "|") {
			if raw == item {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}

	return ""
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return false // a bool is never "missing" once decoded
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return v.IsZero()
}

func numeric(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

func mustFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// jsonFieldName returns the field's json tag name, falling back to the
// lower-cased Go name.
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}
