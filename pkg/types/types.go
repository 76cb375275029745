// Package domain defines the core business types for the clicklar marketplace.
package domain

import (
	"errors"
	"math"
	"strings"
)

// AllCategories is the sentinel category meaning "no category restriction".
// It is never sent to the API.
const AllCategories = "all"

// MaxPrice is the largest price a listing may be created or edited with.
const MaxPrice = 9_999_999

// ErrNoContactPhone is returned when a provider has not shared a phone number.
var ErrNoContactPhone = errors.New("provider has no contact phone")

// Provider is the user offering a service, as embedded in a listing.
type Provider struct {
	ID    string `json:"_id,omitempty"   yaml:"id,omitempty"`
	Name  string `json:"name"            yaml:"name"`
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// ContactURL returns a WhatsApp deep link for the provider's phone number.
// Numbers are assumed to be Brazilian and are prefixed with country code 55.
func (p *Provider) ContactURL() (string, error) {
	if p == nil {
		return "", ErrNoContactPhone
	}
	digits := Digits(p.Phone)
	if digits == "" {
		return "", ErrNoContactPhone
	}
	return "https://wa.me/55" + digits, nil
}

// Listing is a service advertised on the marketplace.
type Listing struct {
	ID            string    `json:"_id"                  yaml:"id"`
	Title         string    `json:"title"                yaml:"title"`
	Description   string    `json:"description"          yaml:"description"`
	Category      string    `json:"category"             yaml:"category"`
	Price         float64   `json:"price"                yaml:"price"`
	Provider      *Provider `json:"providerId,omitempty" yaml:"provider,omitempty"`
	AverageRating float64   `json:"averageRating"        yaml:"average_rating"`
	RatingsCount  int       `json:"ratingsCount"         yaml:"ratings_count"`
}

// RoundedRating returns the average rating rounded to the nearest half star.
func (l *Listing) RoundedRating() float64 {
	r := math.Round(l.AverageRating*2) / 2
	return math.Max(0, math.Min(5, r))
}

// ProviderName returns the provider's display name, or a generic label.
func (l *Listing) ProviderName() string {
	if l.Provider == nil || l.Provider.Name == "" {
		return "Provider"
	}
	return l.Provider.Name
}

// Profile is the authenticated user's account data.
type Profile struct {
	ID    string `json:"_id"   yaml:"id"`
	Name  string `json:"name"  yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone" yaml:"phone"`
}

// Credentials are the login form fields.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up form. ConfirmPassword never leaves the client.
type Registration struct {
	Name            string `json:"name"     validate:"required,person_name"`
	Email           string `json:"email"    validate:"required,email_address"`
	Phone           string `json:"phone"    validate:"required,phone_br"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-"        validate:"required,eqfield=Password"`
}

// ServiceInput is the create/edit listing form.
type ServiceInput struct {
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"gt=0,lte=9999999"`
	Category    string  `json:"category"    validate:"required"`
}

// ProfileUpdate is the edit profile form.
type ProfileUpdate struct {
	Name  string `json:"name"  validate:"required,person_name"`
	Email string `json:"email" validate:"required,email_address"`
	Phone string `json:"phone" validate:"required,phone_br"`
}

// PasswordChange is the change password form.
type PasswordChange struct {
	Current string `json:"currentPassword" validate:"required"`
	New     string `json:"newPassword"     validate:"required,min=6,nefield=Current"`
	Confirm string `json:"-"               validate:"required,eqfield=New"`
}

// Rating is a single 1-5 star rating of a service.
type Rating struct {
	Rating int `json:"rating" validate:"min=1,max=5"`
}

// Digits strips everything but ASCII digits from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
