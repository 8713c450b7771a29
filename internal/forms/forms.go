// Package forms validates create and edit forms before anything is sent to
// the backend. Validation failures are reported per field; a form that does
// not validate never produces a request.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/devnullvoid/shoptui/pkg/api"
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + " " + e.Message
}

// Errors collects every field that failed validation.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}

	return strings.Join(msgs, "; ")
}

// For returns the message of the first error on field, or "".
func (e Errors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}

	return ""
}

var accountStatuses = []string{api.AccountStatusActive, api.AccountStatusInactive, api.AccountStatusBlocked}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return strings.ToLower(f.Name)
			}

			return name
		})

		must(v.RegisterValidation("admin_role", func(fl validator.FieldLevel) bool {
			return api.ValidAdminRole(fl.Field().String())
		}))
		must(v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			return slices.Contains(api.OrderStatuses, fl.Field().String())
		}))
		must(v.RegisterValidation("account_status", func(fl validator.FieldLevel) bool {
			return slices.Contains(accountStatuses, fl.Field().String())
		}))

		validate = v
	})

	return validate
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("register validation: %v", err))
	}
}

// Struct validates s and translates failures into Errors. Other errors, such
// as a non-struct argument, are returned as they are.
func Struct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}

	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "eqfield":
		return "must match " + strings.ToLower(fe.Param())
	case "admin_role":
		return "must be one of: " + strings.Join(api.AdminRoles, ", ")
	case "order_status":
		return "must be one of: " + strings.Join(api.OrderStatuses, ", ")
	case "account_status":
		return "must be one of: " + strings.Join(accountStatuses, ", ")
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
