package client

import (
	"context"
	"net/http"

	"productdash/internal/pkg/validator"
	"productdash/internal/platform/models"
)

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	var products []models.Product
	err := c.do(ctx, request{op: "list products", method: http.MethodGet, path: "/products", query: q.Values()}, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, request{op: "get product", method: http.MethodGet, path: idPath("/products", id)}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	const op = "create product"
	if fields := validator.Struct(in); fields != nil {
		return nil, validationError(op, fields)
	}

	req, err := jsonRequest(op, http.MethodPost, "/products", in)
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := c.do(ctx, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, upd models.ProductUpdate) (*models.Product, error) {
	const op = "update product"
	if fields := validator.Struct(upd); fields != nil {
		return nil, validationError(op, fields)
	}

	req, err := jsonRequest(op, http.MethodPut, idPath("/products", id), upd)
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := c.do(ctx, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, request{op: "delete product", method: http.MethodDelete, path: idPath("/products", id)}, nil)
}

// DeleteAllProducts irreversibly empties the catalog.
func (c *Client) DeleteAllProducts(ctx context.Context) error {
	return c.do(ctx, request{op: "delete all products", method: http.MethodPost, path: "/products/delete_all"}, nil)
}

// Ping checks the service answers a minimal product listing.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, request{op: "ping", method: http.MethodGet, path: "/products", query: ProductQuery{Limit: 1}.Values()}, nil)
}
