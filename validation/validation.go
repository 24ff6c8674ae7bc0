// Package validation holds the input schemas of the web shell: login,
// registration and equipment records. Each schema takes a raw Draft and
// returns either a normalized value or Errors keyed by field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar date format accepted for equipment dates.
const DateLayout = time.DateOnly

// passwordSymbols is the punctuation set a registration password must draw from.
const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// Draft is an unvalidated mapping of field name to raw input. Values are
// usually strings from a form; numbers are accepted where a field is numeric.
type Draft map[string]any

// Errors maps a field name to the message of the first rule it violated.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add records msg for field unless the field already has an error.
func (e Errors) add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e Errors) err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// messages maps field -> validator tag -> user-facing message.
type messages map[string]map[string]string

func (m messages) lookup(field, tag string) string {
	if msg, ok := m[field][tag]; ok {
		return msg
	}
	return "Invalid value"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "password_upper", containsAny("ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	mustRegister(v, "password_lower", containsAny("abcdefghijklmnopqrstuvwxyz"))
	mustRegister(v, "password_digit", containsAny("0123456789"))
	mustRegister(v, "password_symbol", containsAny(passwordSymbols))
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})

	v.RegisterStructValidation(warrantyAfterPurchase, equipmentInput{})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

func containsAny(chars string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.ContainsAny(fl.Field().String(), chars)
	}
}

// collect runs the validator over s and folds its findings into errs,
// keeping only the first message per field.
func collect(s any, msgs messages, errs Errors) {
	err := validate.Struct(s)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		panic(fmt.Sprintf("validation: %v", err))
	}
	for _, fe := range verrs {
		errs.add(fe.Field(), msgs.lookup(fe.Field(), fe.Tag()))
	}
}

// text reads a string field. A missing key reads as "", a non-string value
// is reported as a field error.
func (d Draft) text(field string, errs Errors) string {
	raw, ok := d[field]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		errs.add(field, "Must be text")
		return ""
	}
	return s
}

// optionalText is like text but distinguishes an absent field (nil) from an
// empty one.
func (d Draft) optionalText(field string, errs Errors) *string {
	if raw, ok := d[field]; !ok || raw == nil {
		return nil
	}
	s := d.text(field, errs)
	if _, failed := errs[field]; failed {
		return nil
	}
	return &s
}

// number reads an optional integer field from an int, a float without a
// fraction or a decimal string. Numbers with a fraction report notWhole,
// anything else that is not a number reports notNumber.
func (d Draft) number(field, notNumber, notWhole string, errs Errors) *int {
	raw, ok := d[field]
	if !ok || raw == nil {
		return nil
	}

	var n int
	switch v := raw.(type) {
	case int:
		n = v
	case int16:
		n = int(v)
	case int32:
		n = int(v)
	case int64:
		n = int(v)
	case float64:
		if v != float64(int(v)) {
			errs.add(field, notWhole)
			return nil
		}
		n = int(v)
	case string:
		v = strings.TrimSpace(v)
		parsed, err := strconv.Atoi(v)
		if err != nil {
			if _, ferr := strconv.ParseFloat(v, 64); ferr == nil {
				errs.add(field, notWhole)
			} else {
				errs.add(field, notNumber)
			}
			return nil
		}
		n = parsed
	default:
		errs.add(field, notNumber)
		return nil
	}
	return &n
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
