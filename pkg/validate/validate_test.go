package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/clicklar/pkg/types"
	"github.com/donaldgifford/clicklar/pkg/validate"
)

func validRegistration() *domain.Registration {
	return &domain.Registration{
		Name:            "Maria José",
		Email:           "maria@example.com.br",
		Phone:           "(11) 98765-4321",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegistration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(r *domain.Registration)
		wantErr   error
		wantField string
	}{
		{name: "valid", mutate: func(*domain.Registration) {}},
		{
			name:    "missing phone",
			mutate:  func(r *domain.Registration) { r.Phone = "" },
			wantErr: validate.ErrMissingFields,
		},
		{
			name:    "missing confirmation",
			mutate:  func(r *domain.Registration) { r.ConfirmPassword = "" },
			wantErr: validate.ErrMissingFields,
		},
		{
			name:      "name with digits",
			mutate:    func(r *domain.Registration) { r.Name = "Maria 2" },
			wantField: "Name",
		},
		{
			name:      "name too short",
			mutate:    func(r *domain.Registration) { r.Name = "Al" },
			wantField: "Name",
		},
		{
			name:      "bad email",
			mutate:    func(r *domain.Registration) { r.Email = "maria@example" },
			wantField: "Email",
		},
		{
			name:      "phone too short",
			mutate:    func(r *domain.Registration) { r.Phone = "98765-4321" },
			wantField: "Phone",
		},
		{
			name: "short password",
			mutate: func(r *domain.Registration) {
				r.Password = "abc"
				r.ConfirmPassword = "abc"
			},
			wantField: "Password",
		},
		{
			name:      "mismatched confirmation",
			mutate:    func(r *domain.Registration) { r.ConfirmPassword = "secret2" },
			wantField: "ConfirmPassword",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := validRegistration()
			tt.mutate(r)
			err := validate.Registration(r)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantField != "":
				var fe *validate.FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.wantField, fe.Field)
				assert.NotEmpty(t, fe.Message)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	require.NoError(t, validate.Credentials(&domain.Credentials{Email: "a@b.co", Password: "x"}))
	require.ErrorIs(t, validate.Credentials(&domain.Credentials{Email: "a@b.co"}), validate.ErrMissingFields)
	require.ErrorIs(t, validate.Credentials(&domain.Credentials{Password: "x"}), validate.ErrMissingFields)
}

func TestService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   domain.ServiceInput
		wantErr bool
		wantMsg string
	}{
		{
			name:  "valid",
			input: domain.ServiceInput{Title: "Pintor", Description: "Pinturas", Price: 150, Category: "Pintura"},
		},
		{
			name:    "missing title",
			input:   domain.ServiceInput{Description: "d", Price: 1, Category: "c"},
			wantErr: true,
			wantMsg: validate.ErrMissingFields.Error(),
		},
		{
			name:    "zero price",
			input:   domain.ServiceInput{Title: "t", Description: "d", Category: "c"},
			wantErr: true,
			wantMsg: validate.ErrInvalidPrice.Error(),
		},
		{
			name:    "price above limit",
			input:   domain.ServiceInput{Title: "t", Description: "d", Price: 10_000_000, Category: "c"},
			wantErr: true,
			wantMsg: "price cannot exceed R$ 9.999.999",
		},
		{
			name:  "price at limit",
			input: domain.ServiceInput{Title: "t", Description: "d", Price: domain.MaxPrice, Category: "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validate.Service(&tt.input)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr error
	}{
		{name: "dot decimal", input: "150.50", want: 150.5},
		{name: "comma decimal", input: "150,50", want: 150.5},
		{name: "integer with spaces", input: " 80 ", want: 80},
		{name: "empty", input: "", wantErr: validate.ErrMissingFields},
		{name: "not a number", input: "abc", wantErr: validate.ErrInvalidPrice},
		{name: "negative", input: "-5", wantErr: validate.ErrInvalidPrice},
		{name: "zero", input: "0", wantErr: validate.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := validate.ParsePrice(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}

	_, err := validate.ParsePrice("10000000")
	var fe *validate.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Price", fe.Field)
}

func TestPasswordChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     domain.PasswordChange
		wantErr   error
		wantField string
	}{
		{name: "valid", input: domain.PasswordChange{Current: "old123", New: "new123", Confirm: "new123"}},
		{
			name:    "missing current",
			input:   domain.PasswordChange{New: "new123", Confirm: "new123"},
			wantErr: validate.ErrMissingFields,
		},
		{
			name:      "confirmation mismatch",
			input:     domain.PasswordChange{Current: "old123", New: "new123", Confirm: "new124"},
			wantField: "Confirm",
		},
		{
			name:      "too short",
			input:     domain.PasswordChange{Current: "old123", New: "abc", Confirm: "abc"},
			wantField: "New",
		},
		{
			name:      "same as current",
			input:     domain.PasswordChange{Current: "same123", New: "same123", Confirm: "same123"},
			wantField: "New",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validate.PasswordChange(&tt.input)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantField != "":
				var fe *validate.FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.wantField, fe.Field)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestProfileUpdate(t *testing.T) {
	t.Parallel()

	current := &domain.Profile{ID: "u1", Name: "Maria", Email: "maria@example.com", Phone: "11987654321"}

	err := validate.ProfileUpdate(current, &domain.ProfileUpdate{
		Name: "Maria", Email: "maria@example.com", Phone: "11987654321",
	})
	require.ErrorIs(t, err, validate.ErrNoChanges)

	err = validate.ProfileUpdate(current, &domain.ProfileUpdate{
		Name: "Maria Silva", Email: "maria@example.com", Phone: "11987654321",
	})
	require.NoError(t, err)

	err = validate.ProfileUpdate(current, &domain.ProfileUpdate{Name: "Maria"})
	require.ErrorIs(t, err, validate.ErrMissingFields)

	err = validate.ProfileUpdate(nil, &domain.ProfileUpdate{
		Name: "Maria", Email: "maria@example.com", Phone: "11987654321",
	})
	require.NoError(t, err)
}

func TestRating(t *testing.T) {
	t.Parallel()

	for stars := 1; stars <= 5; stars++ {
		require.NoError(t, validate.Rating(stars))
	}
	for _, stars := range []int{0, 6, -1} {
		var fe *validate.FieldError
		require.ErrorAs(t, validate.Rating(stars), &fe)
		assert.Equal(t, "select 1 to 5 stars", fe.Message)
	}
}
