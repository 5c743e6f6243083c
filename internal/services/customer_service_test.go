package services

import (
	"context"
	"delivery-tracking-service/internal/adapters/geocoding"
	"delivery-tracking-service/internal/adapters/repositories"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/ports"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer() CreateCustomerInput {
	return CreateCustomerInput{
		Name:    "Dana Cohen",
		Email:   " Dana@Example.com ",
		Address: AddressInput{Street: "Herzl", Number: 10, City: "Tel Aviv"},
	}
}

func TestCreateCustomerGeocodes(t *testing.T) {
	ctx := context.Background()
	geo := geocoding.NewMockGeocoder(map[string][]ports.GeocodeResult{
		"10 Herzl, Tel Aviv": {{Lat: 32.0636, Lon: 34.7722}},
	})
	pub := &recordingPublisher{}
	svc := NewCustomerService(repositories.NewMemoryStore(), geo, pub, 0)

	id, err := svc.CreateCustomer(ctx, validCustomer())
	require.NoError(t, err)

	c, err := svc.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", c.Email)

	coords, ok := c.Address.Coordinates()
	require.True(t, ok)
	assert.Equal(t, 32.0636, coords.Lat)
	assert.Equal(t, 34.7722, coords.Lon)

	assert.Equal(t, []string{ports.EventCustomerCreated}, pub.types())
	assert.Equal(t, customerCreatedEvent{CustomerID: id, Email: "dana@example.com", Geocoded: true}, pub.events[0].Payload)
}

func TestCreateCustomerWithoutCoordinates(t *testing.T) {
	ctx := context.Background()

	failing := geocoding.NewMockGeocoder(nil)
	failing.Err = errors.New("upstream down")

	geocoders := map[string]ports.Geocoder{
		"no geocoder":   nil,
		"no results":    geocoding.NewMockGeocoder(nil),
		"geocoder down": failing,
		"invalid point": geocoding.NewMockGeocoder(map[string][]ports.GeocodeResult{
			"10 Herzl, Tel Aviv": {{Lat: 123, Lon: 34}},
		}),
	}

	for name, geo := range geocoders {
		t.Run(name, func(t *testing.T) {
			svc := NewCustomerService(repositories.NewMemoryStore(), geo, nil, 0)

			id, err := svc.CreateCustomer(ctx, validCustomer())
			require.NoError(t, err)

			c, err := svc.GetCustomer(ctx, id)
			require.NoError(t, err)
			_, ok := c.Address.Coordinates()
			assert.False(t, ok)
		})
	}
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := NewCustomerService(repositories.NewMemoryStore(), nil, nil, 0)

	tests := []struct {
		name   string
		mutate func(in *CreateCustomerInput)
		msg    string
	}{
		{name: "name with digits", mutate: func(in *CreateCustomerInput) { in.Name = "R2D2" }, msg: "Name can only contain letters, spaces, hyphens, and apostrophes"},
		{name: "short name", mutate: func(in *CreateCustomerInput) { in.Name = "D" }, msg: "Name must be at least 2 characters long"},
		{name: "bad email", mutate: func(in *CreateCustomerInput) { in.Email = "dana@example" }, msg: "Please enter a valid email address"},
		{name: "missing street", mutate: func(in *CreateCustomerInput) { in.Address.Street = " " }},
		{name: "short street", mutate: func(in *CreateCustomerInput) { in.Address.Street = "H" }, msg: "Street name must be at least 2 characters"},
		{name: "number zero", mutate: func(in *CreateCustomerInput) { in.Address.Number = 0 }},
		{name: "negative number", mutate: func(in *CreateCustomerInput) { in.Address.Number = -4 }, msg: "Street number must be positive"},
		{name: "number too large", mutate: func(in *CreateCustomerInput) { in.Address.Number = 100000 }, msg: "Street number seems too large"},
		{name: "city with digits", mutate: func(in *CreateCustomerInput) { in.Address.City = "Tel Aviv 2" }, msg: "City name contains invalid characters"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validCustomer()
			tc.mutate(&in)

			_, err := svc.CreateCustomer(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			if tc.msg != "" {
				assert.EqualError(t, err, tc.msg)
			}
		})
	}
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(repositories.NewMemoryStore(), nil, nil, 0)

	_, err := svc.CreateCustomer(ctx, validCustomer())
	require.NoError(t, err)

	in := validCustomer()
	in.Name = "Other Person"
	in.Email = "DANA@example.com"
	_, err = svc.CreateCustomer(ctx, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "email already exists")

	assert.Len(t, svc.ListCustomers(ctx), 1)
}

func TestListCustomersOnStoreFailure(t *testing.T) {
	svc := NewCustomerService(failingStore{}, nil, nil, 0)

	list := svc.ListCustomers(context.Background())
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
