// AngelaMos | 2026
// validation.go

package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kenfackariol/ITCare/internal/core"
)

const maxBodyBytes = 1 << 20

const dateOnly = "2006-01-02"

// Partial is implemented by update payloads that must carry at least one field.
type Partial interface {
	IsEmpty() bool
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	//nolint:errcheck // static registrations
	_ = v.RegisterValidation("nonempty", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() != reflect.String || fl.Field().Len() > 0
	})
	//nolint:errcheck // static registrations
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() != reflect.String ||
			strings.TrimSpace(fl.Field().String()) != ""
	})
	//nolint:errcheck // static registrations
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// Struct validates s and returns a 400 AppError carrying the first failing
// rule's message.
func (v *Validator) Struct(s any) error {
	if err := v.rules(s); err != nil {
		return err
	}

	if p, ok := s.(Partial); ok && p.IsEmpty() {
		return core.ValidationError(`"value" must have at least 1 key`)
	}

	return nil
}

func (v *Validator) rules(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return core.ValidationError(message(verrs[0]))
		}
		return core.ValidationError("Invalid input")
	}
	return nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "nonempty", "notblank":
		return fmt.Sprintf("%q is not allowed to be empty", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "min":
		if isString(fe) {
			return fmt.Sprintf(
				"%q length must be at least %s characters long",
				field,
				fe.Param(),
			)
		}
		return fmt.Sprintf(
			"%q must be greater than or equal to %s",
			field,
			fe.Param(),
		)
	case "max":
		if isString(fe) {
			return fmt.Sprintf(
				"%q length must be less than or equal to %s characters long",
				field,
				fe.Param(),
			)
		}
		return fmt.Sprintf(
			"%q must be less than or equal to %s",
			field,
			fe.Param(),
		)
	case "oneof":
		return fmt.Sprintf(
			"%q must be one of [%s]",
			field,
			strings.Join(strings.Fields(fe.Param()), ", "),
		)
	case "gt":
		return fmt.Sprintf("%q must be a positive number", field)
	case "date":
		return fmt.Sprintf("%q must be a valid date", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

func isString(fe validator.FieldError) bool {
	return fe.Kind() == reflect.String
}

// Decode reads a JSON object into dst, rejecting unknown fields. An empty
// body decodes as an empty object. When the body carries an unknown field,
// the rules on the known fields are reported first.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return decodeError(err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		field, ok := unknownField(err)
		if !ok {
			return decodeError(err)
		}
		return decodeKnown(body, dst, field)
	}

	if dec.More() {
		return core.ValidationError("Invalid request body")
	}

	return nil
}

func decodeKnown(body []byte, dst any, field string) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return decodeError(err)
	}

	if reflect.Indirect(reflect.ValueOf(dst)).Kind() == reflect.Struct {
		if err := shared().rules(dst); err != nil {
			return err
		}
	}

	return core.ValidationError(fmt.Sprintf("%s is not allowed", field))
}

var shared = sync.OnceValue(New)

func unknownField(err error) (string, bool) {
	return strings.CutPrefix(err.Error(), "json: unknown field ")
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.As(err, &typeErr):
		return core.ValidationError(typeMessage(typeErr))
	case errors.As(err, &maxErr):
		return core.ValidationError("Request body too large")
	}

	if field, ok := unknownField(err); ok {
		return core.ValidationError(
			fmt.Sprintf("%s is not allowed", field),
		)
	}

	return core.ValidationError("Invalid request body")
}

func typeMessage(e *json.UnmarshalTypeError) string {
	field := e.Field
	if field == "" {
		return `"value" must be of type object`
	}

	t := e.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if e.Value == "number" || strings.HasPrefix(e.Value, "number ") {
			return fmt.Sprintf("%q must be an integer", field)
		}
		return fmt.Sprintf("%q must be a number", field)
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%q must be a number", field)
	case reflect.Bool:
		return fmt.Sprintf("%q must be a boolean", field)
	case reflect.String:
		return fmt.Sprintf("%q must be a string", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", core.ErrInvalidInput, s)
}
