// Package validation applies struct-tag input rules and converts the first
// violation into a domain.ValidationError with a client-facing message.
package validation

import (
	"delivery-tracking-service/internal/domain"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	businessNameRe = regexp.MustCompile(`^[a-zA-Z0-9\s.&\-']+$`)
	personNameRe   = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
	emailRe        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "bizname", matches(businessNameRe))
	mustRegister(v, "personname", matches(personNameRe))
	mustRegister(v, "mailaddr", matches(emailRe))
	mustRegister(v, "httpurl", isHTTPURL)

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func isHTTPURL(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return u.Host != ""
}

// Messager is implemented by inputs that word their own failures. Keys are the
// wire path of the field below the root plus the rule, e.g. "address.number.min".
type Messager interface {
	ValidationMessages() map[string]string
}

// Struct validates s and returns nil or a *domain.ValidationError describing the
// first violated constraint in field declaration order.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := message(fe)
		if m, ok := s.(Messager); ok {
			if override, ok := m.ValidationMessages()[messageKey(fe)]; ok {
				msg = override
			}
		}
		return &domain.ValidationError{Field: fe.Field(), Message: msg}
	}

	return fmt.Errorf("validate input: %w", err)
}

// messageKey drops the root struct name from the namespace.
func messageKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return ns + "." + fe.Tag()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isText := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		if isText {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if isText {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "bizname":
		return fmt.Sprintf("%s contains invalid characters", field)
	case "personname":
		return fmt.Sprintf("%s can only contain letters, spaces, hyphens, and apostrophes", field)
	case "mailaddr":
		return "Please enter a valid email address"
	case "httpurl":
		return fmt.Sprintf("%s must be a valid URL starting with http:// or https://", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", field)
	}

	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}
