// internal/session/products.go
package session

import (
	"context"
	"strings"

	"github.com/oxaDeveloper/e-commerce-task/internal/backend"
	"github.com/oxaDeveloper/e-commerce-task/internal/domain/product"
)

// FetchProductsParams are the UI-facing list parameters. Page is 1-based.
type FetchProductsParams struct {
	Page     int
	Size     int
	Name     string
	Category string
}

// FetchProducts loads a catalog page into the products slice. The 1-based UI
// page is translated to the backend's 0-based page here, and the stored page
// is the requested one, never recomputed from the response.
func (s *Session) FetchProducts(ctx context.Context, params FetchProductsParams) (ProductsState, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.Size
	if size <= 0 || size > 100 {
		size = 10
	}
	query := product.Query{
		Name:     strings.TrimSpace(params.Name),
		Category: strings.TrimSpace(params.Category),
	}

	s.store.ProductsLoading()

	items, total, err := s.backend.ListProducts(ctx, backend.ListProductsParams{
		Page:     page - 1,
		Size:     size,
		Name:     query.Name,
		Category: query.Category,
	})
	if err != nil {
		s.store.ProductsFailed(err.Error())
		return s.store.Products(), err
	}

	s.store.ProductsLoaded(items, total, page, size, query)
	return s.store.Products(), nil
}

// FetchProductByID loads a single product into the current slot for edit
// flows.
func (s *Session) FetchProductByID(ctx context.Context, id string) (*product.Product, error) {
	p, err := s.backend.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store.SetCurrentProduct(p)
	return p, nil
}

// CreateProduct creates a product and, only after server confirmation,
// prepends it to the slice.
func (s *Session) CreateProduct(ctx context.Context, req product.CreateRequest) (*product.Product, error) {
	p, err := s.backend.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}
	s.store.ProductCreated(*p)
	return p, nil
}

// UpdateProduct applies a partial update and replaces the confirmed entity
// in the slice.
func (s *Session) UpdateProduct(ctx context.Context, id string, req product.UpdateRequest) (*product.Product, error) {
	p, err := s.backend.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.store.ProductUpdated(*p)
	return p, nil
}

// DeleteProduct deletes a product and filters it from the slice after the
// server confirms.
func (s *Session) DeleteProduct(ctx context.Context, id string) error {
	if err := s.backend.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.store.ProductDeleted(product.StringID(id))
	return nil
}
