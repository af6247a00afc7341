package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/store"
	"github.com/openshelf/openshelf/pkg/idx"
)

// ErrMissingTitle means a catalog item was submitted without a title.
var ErrMissingTitle = errors.New("title is required")

// CatalogService manages the book and resource collections.
type CatalogService struct {
	Store store.Store
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.Store.Books().ListBooks(ctx)
}

func (s *CatalogService) GetBook(ctx context.Context, id string) (domain.Book, error) {
	return s.Store.Books().GetBookByID(ctx, id)
}

// CreateBook inserts a new book. ID and timestamps are assigned here so
// callers only supply descriptive fields.
func (s *CatalogService) CreateBook(ctx context.Context, b domain.Book) (domain.Book, error) {
	if strings.TrimSpace(b.Title) == "" {
		return domain.Book{}, ErrMissingTitle
	}

	now := time.Now().UTC()
	b.ID = idx.New().String()
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := s.Store.Books().CreateBook(ctx, b); err != nil {
		return domain.Book{}, err
	}
	return b, nil
}

// UpdateBook replaces the descriptive fields of an existing book.
func (s *CatalogService) UpdateBook(ctx context.Context, b domain.Book) (domain.Book, error) {
	if strings.TrimSpace(b.Title) == "" {
		return domain.Book{}, ErrMissingTitle
	}

	existing, err := s.Store.Books().GetBookByID(ctx, b.ID)
	if err != nil {
		return domain.Book{}, err
	}

	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now().UTC()

	if err := s.Store.Books().UpdateBook(ctx, b); err != nil {
		return domain.Book{}, err
	}
	return b, nil
}

func (s *CatalogService) DeleteBook(ctx context.Context, id string) error {
	return s.Store.Books().DeleteBook(ctx, id)
}

func (s *CatalogService) ListResources(ctx context.Context) ([]domain.Resource, error) {
	return s.Store.Resources().ListResources(ctx)
}

func (s *CatalogService) GetResource(ctx context.Context, id string) (domain.Resource, error) {
	return s.Store.Resources().GetResourceByID(ctx, id)
}

func (s *CatalogService) CreateResource(ctx context.Context, res domain.Resource) (domain.Resource, error) {
	if strings.TrimSpace(res.Title) == "" {
		return domain.Resource{}, ErrMissingTitle
	}

	now := time.Now().UTC()
	res.ID = idx.New().String()
	res.CreatedAt = now
	res.UpdatedAt = now

	if err := s.Store.Resources().CreateResource(ctx, res); err != nil {
		return domain.Resource{}, err
	}
	return res, nil
}

func (s *CatalogService) UpdateResource(ctx context.Context, res domain.Resource) (domain.Resource, error) {
	if strings.TrimSpace(res.Title) == "" {
		return domain.Resource{}, ErrMissingTitle
	}

	existing, err := s.Store.Resources().GetResourceByID(ctx, res.ID)
	if err != nil {
		return domain.Resource{}, err
	}

	res.CreatedAt = existing.CreatedAt
	res.UpdatedAt = time.Now().UTC()

	if err := s.Store.Resources().UpdateResource(ctx, res); err != nil {
		return domain.Resource{}, err
	}
	return res, nil
}

func (s *CatalogService) DeleteResource(ctx context.Context, id string) error {
	return s.Store.Resources().DeleteResource(ctx, id)
}
