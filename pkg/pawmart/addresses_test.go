package pawmart

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddressService_RegionCascade(t *testing.T) {
	client, mockTransport := newTestClient(true, testDebounce)
	ctx := context.Background()

	mockTransport.On("Do", mock.Anything, http.MethodGet, "/regions/provinces", mock.Anything, mock.Anything).
		Return(`[{"id": "79", "name": "Ho Chi Minh"}]`, nil).Once()
	mockTransport.On("Do", mock.Anything, http.MethodGet, "/regions/provinces/79/districts", mock.Anything, mock.Anything).
		Return(`[{"id": "760", "name": "District 1"}]`, nil).Once()
	mockTransport.On("Do", mock.Anything, http.MethodGet, "/regions/districts/760/wards", mock.Anything, mock.Anything).
		Return(`[{"id": "26734", "name": "Ben Nghe"}]`, nil).Once()

	provinces, err := client.Addresses.Provinces(ctx)
	require.NoError(t, err)
	require.Len(t, provinces, 1)

	districts, err := client.Addresses.Districts(ctx, provinces[0].ID)
	require.NoError(t, err)
	require.Len(t, districts, 1)

	wards, err := client.Addresses.Wards(ctx, districts[0].ID)
	require.NoError(t, err)
	require.Len(t, wards, 1)
	assert.Equal(t, "Ben Nghe", wards[0].Name)

	mockTransport.AssertExpectations(t)
}

func TestAddressService_CreateAndSetDefault(t *testing.T) {
	client, mockTransport := newTestClient(true, testDebounce)
	ctx := context.Background()

	address := &Address{
		FullName:   "Pat Example",
		Phone:      "0900000000",
		ProvinceID: "79",
		DistrictID: "760",
		WardID:     "26734",
		Street:     "12 Nguyen Hue",
	}

	mockTransport.On("Do", mock.Anything, http.MethodPost, "/addresses", address, mock.Anything).
		Return(`{"id": "addr-1", "fullName": "Pat Example", "street": "12 Nguyen Hue"}`, nil).Once()
	mockTransport.On("Do", mock.Anything, http.MethodPut, "/addresses/addr-1/default", mock.Anything, mock.Anything).
		Return(nil, nil).Once()

	created, err := client.Addresses.Create(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, "addr-1", created.ID)

	require.NoError(t, client.Addresses.SetDefault(ctx, created.ID))

	mockTransport.AssertExpectations(t)
}
