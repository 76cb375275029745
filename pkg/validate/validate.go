// Package validate implements client-side form validation for the
// marketplace forms: sign-up, login, listing create/edit, profile edit,
// password change and ratings.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	domain "github.com/donaldgifford/clicklar/pkg/types"
)

// Validation errors.
var (
	ErrMissingFields = errors.New("please fill in all required fields")
	ErrInvalidPrice  = errors.New("please enter a valid price greater than zero")
	ErrNoChanges     = errors.New("no changes to save")
)

var (
	nameRegex  = regexp.MustCompile(`^[a-zA-ZÀ-ÿ ]{3,}$`)
	phoneRegex = regexp.MustCompile(`^\d{10,11}$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// FieldError reports a single invalid form field with a user-facing message.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// messages maps "<StructField>.<tag>" to the message shown to the user.
var messages = map[string]string{
	"Name.person_name":        "invalid name (at least 3 letters, no digits)",
	"Email.email_address":     "please enter a valid email address",
	"Phone.phone_br":          "invalid phone number (10 or 11 digits)",
	"Password.min":            "password must be at least 6 characters",
	"ConfirmPassword.eqfield": "passwords do not match",
	"New.min":                 "new password must be at least 6 characters",
	"New.nefield":             "new password must differ from the current password",
	"Confirm.eqfield":         "new password and confirmation do not match",
	"Price.gt":                ErrInvalidPrice.Error(),
	"Price.lte":               fmt.Sprintf("price cannot exceed R$ %s", formatThousands(domain.MaxPrice)),
	"Rating.min":              "select 1 to 5 stars",
	"Rating.max":              "select 1 to 5 stars",
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(val, "person_name", func(fl validator.FieldLevel) bool {
		return nameRegex.MatchString(fl.Field().String())
	})
	mustRegister(val, "phone_br", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(domain.Digits(fl.Field().String()))
	})
	mustRegister(val, "email_address", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	})
	return val
}

func mustRegister(val *validator.Validate, tag string, fn validator.Func) {
	if err := val.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// Registration validates the sign-up form.
func Registration(r *domain.Registration) error {
	return check(r)
}

// Credentials validates the login form. Only presence is checked; the
// server decides whether the pair is valid.
func Credentials(c *domain.Credentials) error {
	if c.Email == "" || c.Password == "" {
		return ErrMissingFields
	}
	return nil
}

// Service validates the create/edit listing form.
func Service(s *domain.ServiceInput) error {
	if s.Title == "" || s.Description == "" || s.Category == "" {
		return ErrMissingFields
	}
	return check(s)
}

// PasswordChange validates the change password form.
func PasswordChange(p *domain.PasswordChange) error {
	return check(p)
}

// ProfileUpdate validates the edit profile form against the profile it was
// loaded from. An update identical to the current profile is rejected with
// ErrNoChanges.
func ProfileUpdate(current *domain.Profile, u *domain.ProfileUpdate) error {
	if err := check(u); err != nil {
		return err
	}
	if current != nil &&
		current.Name == u.Name &&
		current.Email == u.Email &&
		current.Phone == u.Phone {
		return ErrNoChanges
	}
	return nil
}

// Rating validates a star rating.
func Rating(stars int) error {
	return check(&domain.Rating{Rating: stars})
}

// ParsePrice parses a user-entered price. Both "150.50" and "150,50" are
// accepted. The result must be positive and no greater than domain.MaxPrice.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingFields
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || p <= 0 {
		return 0, ErrInvalidPrice
	}
	if p > domain.MaxPrice {
		return 0, &FieldError{Field: "Price", Message: messages["Price.lte"]}
	}
	return p, nil
}

func check(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validating form: %w", err)
	}

	for _, fe := range ve {
		if fe.Tag() == "required" {
			return ErrMissingFields
		}
	}

	fe := ve[0]
	msg, ok := messages[fe.StructField()+"."+fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("invalid %s", strings.ToLower(fe.StructField()))
	}
	return &FieldError{Field: fe.StructField(), Message: msg}
}

// formatThousands renders n with "." thousands separators.
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}
