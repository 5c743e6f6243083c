package validation

import (
	"delivery-tracking-service/internal/domain"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type businessInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100,bizname"`
	SiteURL string `json:"site_url" validate:"required,max=200,httpurl"`
}

type addressInput struct {
	Street string `json:"street" validate:"required,min=2,max=100"`
	Number int    `json:"number" validate:"required,min=1,max=99999"`
}

type customerInput struct {
	Name    string       `json:"name" validate:"required,min=2,max=50,personname"`
	Email   string       `json:"email" validate:"required,mailaddr"`
	Address addressInput `json:"address"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		field   string
		message string
	}{
		{
			name: "valid business",
			in:   businessInput{Name: "Acme & Sons", SiteURL: "https://acme.example"},
		},
		{
			name:    "first violation wins",
			in:      businessInput{Name: "", SiteURL: ""},
			field:   "name",
			message: "name is required",
		},
		{
			name:    "short name",
			in:      businessInput{Name: "A", SiteURL: "https://acme.example"},
			field:   "name",
			message: "name must be at least 2 characters long",
		},
		{
			name:    "bad charset",
			in:      businessInput{Name: "Acme!", SiteURL: "https://acme.example"},
			field:   "name",
			message: "name contains invalid characters",
		},
		{
			name:    "url scheme",
			in:      businessInput{Name: "Acme", SiteURL: "ftp://acme.example"},
			field:   "site_url",
			message: "site_url must be a valid URL starting with http:// or https://",
		},
		{
			name:    "url without host",
			in:      businessInput{Name: "Acme", SiteURL: "https://"},
			field:   "site_url",
			message: "site_url must be a valid URL starting with http:// or https://",
		},
		{
			name: "valid customer",
			in: customerInput{
				Name:    "Dana O'Neil-Cohen",
				Email:   "dana@example.com",
				Address: addressInput{Street: "Herzl", Number: 10},
			},
		},
		{
			name: "digits in person name",
			in: customerInput{
				Name:    "Dana 2",
				Email:   "dana@example.com",
				Address: addressInput{Street: "Herzl", Number: 10},
			},
			field:   "name",
			message: "name can only contain letters, spaces, hyphens, and apostrophes",
		},
		{
			name: "email shape",
			in: customerInput{
				Name:    "Dana",
				Email:   "dana@example",
				Address: addressInput{Street: "Herzl", Number: 10},
			},
			field:   "email",
			message: "Please enter a valid email address",
		},
		{
			name: "nested number range",
			in: customerInput{
				Name:    "Dana",
				Email:   "dana@example.com",
				Address: addressInput{Street: "Herzl", Number: 100000},
			},
			field:   "number",
			message: "number cannot exceed 99999",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.in)
			if tc.message == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, tc.message, ve.Message)
		})
	}
}

type wordedCustomer customerInput

func (wordedCustomer) ValidationMessages() map[string]string {
	return map[string]string{
		"address.number.min": "Street number must be positive",
		"name.personname":    "Name can only contain letters, spaces, hyphens, and apostrophes",
	}
}

func TestStructMessageOverrides(t *testing.T) {
	in := wordedCustomer{Name: "Dana", Email: "dana@example.com", Address: addressInput{Street: "Herzl", Number: -1}}
	err := Struct(in)
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "number", ve.Field)
	assert.Equal(t, "Street number must be positive", ve.Message)

	// Rules without an override keep the generic wording.
	in.Address.Number = 100000
	assert.EqualError(t, Struct(in), "number cannot exceed 99999")
}
