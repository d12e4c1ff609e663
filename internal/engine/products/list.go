// Package products is the view model behind the products tab: one page of
// the catalog, the current search and the mutations that refresh it.
package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"productdash/internal/client"
	"productdash/internal/platform/models"
)

var ErrNotConfirmed = errors.New("delete not confirmed")

// API is the part of the catalog client the list needs.
type API interface {
	ListProducts(ctx context.Context, q client.ProductQuery) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, upd models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	DeleteAllProducts(ctx context.Context) error
}

// List is not safe for concurrent use; the dashboard serializes access.
type List struct {
	Term   string
	Filter client.Filter
	Active *bool
	Page   int
	Items  []models.Product

	// LoadErr is the result of the last fetch. A mutation that succeeded but
	// could not refresh the page leaves it set and the old items in place.
	LoadErr error

	api   API
	limit int
}

func NewList(api API, pageSize int) *List {
	if pageSize <= 0 {
		pageSize = client.DefaultPageSize
	}
	return &List{api: api, limit: pageSize, Filter: client.FilterAuto}
}

func (l *List) PageSize() int { return l.limit }

// PageLabel is the 1-based page indicator.
func (l *List) PageLabel() string {
	return fmt.Sprintf("Page %d", l.Page+1)
}

func (l *List) HasPrev() bool { return l.Page > 0 }

func (l *List) Load(ctx context.Context) error {
	return l.loadPage(ctx, l.Page)
}

// loadPage fetches page and only commits it on success.
func (l *List) loadPage(ctx context.Context, page int) error {
	items, err := l.api.ListProducts(ctx, client.ProductQuery{
		Term:   l.Term,
		Filter: l.Filter,
		Active: l.Active,
		Page:   page,
		Limit:  l.limit,
	})
	l.LoadErr = err
	if err != nil {
		log.Warn().Err(err).Int("page", page).Str("term", l.Term).Msg("product page load failed")
		return err
	}
	l.Page = page
	l.Items = items
	return nil
}

// Search applies a new term and goes back to the first page.
func (l *List) Search(ctx context.Context, term string, filter client.Filter) error {
	l.Term = strings.TrimSpace(term)
	if filter == "" {
		filter = client.FilterAuto
	}
	l.Filter = filter
	return l.loadPage(ctx, 0)
}

// Next has no upper bound: past the end the page is simply empty.
func (l *List) Next(ctx context.Context) error {
	return l.loadPage(ctx, l.Page+1)
}

func (l *List) Prev(ctx context.Context) error {
	page := l.Page - 1
	if page < 0 {
		page = 0
	}
	return l.loadPage(ctx, page)
}

// Reset is what activating the tab does: first page, current search kept.
func (l *List) Reset(ctx context.Context) error {
	return l.loadPage(ctx, 0)
}

func (l *List) Get(ctx context.Context, id int64) (*models.Product, error) {
	return l.api.GetProduct(ctx, id)
}

// Create adds a product and reloads the current page.
func (l *List) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	p, err := l.api.CreateProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	l.loadPage(ctx, l.Page)
	return p, nil
}

// Update saves a product and reloads the first page.
func (l *List) Update(ctx context.Context, id int64, upd models.ProductUpdate) (*models.Product, error) {
	p, err := l.api.UpdateProduct(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	l.loadPage(ctx, 0)
	return p, nil
}

func (l *List) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := l.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	l.loadPage(ctx, 0)
	return nil
}

// DeleteAll empties the whole catalog. It cannot be undone.
func (l *List) DeleteAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := l.api.DeleteAllProducts(ctx); err != nil {
		return err
	}
	l.loadPage(ctx, 0)
	return nil
}
