// Package checkout validates the delivery and payment form submitted at checkout.
//
// Rules are declared as struct tags on Submission and checked with
// go-playground/validator. Each failing field maps to one user-facing message.
package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/fooddash/api/internal/enum"
	"github.com/go-playground/validator/v10"
)

// postalCodePattern accepts US ZIP and ZIP+4.
var postalCodePattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// Submission is the checkout form. Card fields are only meaningful when
// PaymentMethod is "card" and are not checked.
type Submission struct {
	FullName      string `json:"full_name" mapstructure:"full_name" validate:"min=2"`
	Address       string `json:"address" mapstructure:"address" validate:"min=5"`
	City          string `json:"city" mapstructure:"city" validate:"min=2"`
	PostalCode    string `json:"postal_code" mapstructure:"postal_code" validate:"postal_code"`
	Country       string `json:"country" mapstructure:"country" validate:"min=2"`
	PaymentMethod string `json:"payment_method" mapstructure:"payment_method" validate:"oneof=card cod"`
	CardNumber    string `json:"card_number,omitempty" mapstructure:"card_number"`
	CardExpiry    string `json:"card_expiry,omitempty" mapstructure:"card_expiry"`
	CardCVC       string `json:"card_cvc,omitempty" mapstructure:"card_cvc"`
	AgreeTerms    bool   `json:"agree_terms" mapstructure:"agree_terms" validate:"eq=true"`
}

// Defaults returns the initial form values.
func Defaults() Submission {
	return Submission{
		Country:       enum.CountryUS,
		PaymentMethod: enum.PaymentMethodCard,
	}
}

// DeliveryAddress joins the address fields into one display line.
func (s Submission) DeliveryAddress() string {
	return s.Address + ", " + s.City + ", " + s.PostalCode
}

// messages holds the user-facing message for each validated field.
var messages = map[string]string{
	"full_name":      "Full name must be at least 2 characters.",
	"address":        "Address must be at least 5 characters.",
	"city":           "City must be at least 2 characters.",
	"postal_code":    "Invalid postal code format.",
	"country":        "Country is required.",
	"payment_method": "Please select a payment method.",
	"agree_terms":    "You must agree to the terms.",
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed, in form order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "invalid checkout fields: " + strings.Join(names, ", ")
}

// Map returns the field errors keyed by field name.
func (e *ValidationError) Map() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[f.Field] = f.Message
	}
	return m
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("postal_code", func(fl validator.FieldLevel) bool {
		return postalCodePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks every rule and returns a *ValidationError listing all
// failures, or nil when the submission is acceptable.
func Validate(s Submission) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ve := &ValidationError{}
	seen := make(map[string]bool)
	for _, fe := range verrs {
		field := fe.Field()
		if seen[field] {
			continue
		}
		seen[field] = true
		msg, ok := messages[field]
		if !ok {
			msg = "Invalid value."
		}
		ve.Fields = append(ve.Fields, FieldError{Field: field, Message: msg})
	}
	sort.SliceStable(ve.Fields, func(i, j int) bool {
		return fieldOrder[ve.Fields[i].Field] < fieldOrder[ve.Fields[j].Field]
	})
	return ve
}

// fieldOrder is the position of each field on the form.
var fieldOrder = func() map[string]int {
	t := reflect.TypeOf(Submission{})
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		m[name] = i
	}
	return m
}()
