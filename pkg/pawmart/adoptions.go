package pawmart

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

const (
	petsEndpoint      = "/pets"
	adoptionsEndpoint = "/adoptions"
)

// adoptionService implements the AdoptionService interface
type adoptionService struct {
	client *Client
}

// ListPets retrieves adoptable pets
func (s *adoptionService) ListPets(ctx context.Context, params *PetListParams) ([]*Pet, error) {
	path := petsEndpoint
	if params != nil {
		q := url.Values{}
		if params.Species != "" {
			q.Set("species", params.Species)
		}
		if params.Breed != "" {
			q.Set("breed", params.Breed)
		}
		if params.Page > 0 {
			q.Set("page", strconv.Itoa(params.Page))
		}
		if encoded := q.Encode(); encoded != "" {
			path += "?" + encoded
		}
	}

	var pets []*Pet
	if err := s.client.do(ctx, http.MethodGet, path, nil, &pets); err != nil {
		return nil, errors.Wrap(err, "failed to list pets")
	}
	return pets, nil
}

// GetPet retrieves a single adoptable pet
func (s *adoptionService) GetPet(ctx context.Context, petID string) (*Pet, error) {
	var pet Pet
	if err := s.client.do(ctx, http.MethodGet, petsEndpoint+"/"+petID, nil, &pet); err != nil {
		return nil, errors.Wrap(err, "failed to get pet")
	}
	return &pet, nil
}

// Apply submits an adoption application
func (s *adoptionService) Apply(ctx context.Context, application *AdoptionApplication) (*AdoptionApplication, error) {
	var created AdoptionApplication
	if err := s.client.do(ctx, http.MethodPost, adoptionsEndpoint, application, &created); err != nil {
		return nil, errors.Wrap(err, "failed to submit adoption application")
	}
	return &created, nil
}

// MyApplications retrieves the user's adoption applications
func (s *adoptionService) MyApplications(ctx context.Context) ([]*AdoptionApplication, error) {
	var applications []*AdoptionApplication
	if err := s.client.do(ctx, http.MethodGet, adoptionsEndpoint, nil, &applications); err != nil {
		return nil, errors.Wrap(err, "failed to list adoption applications")
	}
	return applications, nil
}
