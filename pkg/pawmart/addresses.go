package pawmart

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

const (
	addressesEndpoint = "/addresses"
	provincesEndpoint = "/regions/provinces"
)

// addressService implements the AddressService interface
type addressService struct {
	client *Client
}

// List retrieves the address book
func (s *addressService) List(ctx context.Context) ([]*Address, error) {
	var addresses []*Address
	if err := s.client.do(ctx, http.MethodGet, addressesEndpoint, nil, &addresses); err != nil {
		return nil, errors.Wrap(err, "failed to list addresses")
	}
	return addresses, nil
}

// Create adds a delivery address
func (s *addressService) Create(ctx context.Context, address *Address) (*Address, error) {
	var created Address
	if err := s.client.do(ctx, http.MethodPost, addressesEndpoint, address, &created); err != nil {
		return nil, errors.Wrap(err, "failed to create address")
	}
	return &created, nil
}

// Update replaces a delivery address
func (s *addressService) Update(ctx context.Context, addressID string, address *Address) (*Address, error) {
	var updated Address
	if err := s.client.do(ctx, http.MethodPut, addressesEndpoint+"/"+addressID, address, &updated); err != nil {
		return nil, errors.Wrap(err, "failed to update address")
	}
	return &updated, nil
}

// Delete removes a delivery address
func (s *addressService) Delete(ctx context.Context, addressID string) error {
	if err := s.client.do(ctx, http.MethodDelete, addressesEndpoint+"/"+addressID, nil, nil); err != nil {
		return errors.Wrap(err, "failed to delete address")
	}
	return nil
}

// SetDefault marks an address as the default delivery address
func (s *addressService) SetDefault(ctx context.Context, addressID string) error {
	if err := s.client.do(ctx, http.MethodPut, addressesEndpoint+"/"+addressID+"/default", nil, nil); err != nil {
		return errors.Wrap(err, "failed to set default address")
	}
	return nil
}

// Provinces returns the top level of the region cascade
func (s *addressService) Provinces(ctx context.Context) ([]*Region, error) {
	var regions []*Region
	if err := s.client.do(ctx, http.MethodGet, provincesEndpoint, nil, &regions); err != nil {
		return nil, errors.Wrap(err, "failed to list provinces")
	}
	return regions, nil
}

// Districts returns the districts of a province
func (s *addressService) Districts(ctx context.Context, provinceID string) ([]*Region, error) {
	var regions []*Region
	if err := s.client.do(ctx, http.MethodGet, provincesEndpoint+"/"+provinceID+"/districts", nil, &regions); err != nil {
		return nil, errors.Wrap(err, "failed to list districts")
	}
	return regions, nil
}

// Wards returns the wards of a district
func (s *addressService) Wards(ctx context.Context, districtID string) ([]*Region, error) {
	var regions []*Region
	if err := s.client.do(ctx, http.MethodGet, "/regions/districts/"+districtID+"/wards", nil, &regions); err != nil {
		return nil, errors.Wrap(err, "failed to list wards")
	}
	return regions, nil
}
