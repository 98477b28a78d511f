package pawmart

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

const productsEndpoint = "/products"

// productService implements the ProductService interface
type productService struct {
	client *Client
}

// List retrieves a page of the catalog
func (s *productService) List(ctx context.Context, params *ProductListParams) (*ProductList, error) {
	path := productsEndpoint
	if params != nil {
		q := url.Values{}
		if params.Category != "" {
			q.Set("category", params.Category)
		}
		if params.Brand != "" {
			q.Set("brand", params.Brand)
		}
		if params.Search != "" {
			q.Set("search", params.Search)
		}
		if params.Page > 0 {
			q.Set("page", strconv.Itoa(params.Page))
		}
		if params.PageSize > 0 {
			q.Set("pageSize", strconv.Itoa(params.PageSize))
		}
		if encoded := q.Encode(); encoded != "" {
			path += "?" + encoded
		}
	}

	var list ProductList
	if err := s.client.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	return &list, nil
}

// Get retrieves a single product
func (s *productService) Get(ctx context.Context, productID string) (*Product, error) {
	var product Product
	if err := s.client.do(ctx, http.MethodGet, productsEndpoint+"/"+productID, nil, &product); err != nil {
		return nil, errors.Wrap(err, "failed to get product")
	}
	return &product, nil
}

// Variants retrieves the purchasable variants of a product
func (s *productService) Variants(ctx context.Context, productID string) ([]*ProductVariant, error) {
	var variants []*ProductVariant
	if err := s.client.do(ctx, http.MethodGet, productsEndpoint+"/"+productID+"/variants", nil, &variants); err != nil {
		return nil, errors.Wrap(err, "failed to get product variants")
	}
	return variants, nil
}
