package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/domain"
	"github.com/openshelf/openshelf/internal/store"
)

func TestBookCRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &CatalogService{Store: st}

	created, err := svc.CreateBook(ctx, domain.Book{
		Title:     "The Go Programming Language",
		Author:    "Donovan & Kernighan",
		Genre:     "reference",
		Available: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	fetched, err := svc.GetBook(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Title, fetched.Title)
	require.True(t, fetched.Available)

	fetched.Available = false
	fetched.Description = "on loan"
	updated, err := svc.UpdateBook(ctx, fetched)
	require.NoError(t, err)
	require.False(t, updated.Available)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	books, err := svc.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)

	require.NoError(t, svc.DeleteBook(ctx, created.ID))
	_, err = svc.GetBook(ctx, created.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, svc.DeleteBook(ctx, created.ID), store.ErrNotFound)
}

func TestBookValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &CatalogService{Store: st}

	_, err := svc.CreateBook(ctx, domain.Book{Author: "Anonymous"})
	require.ErrorIs(t, err, ErrMissingTitle)

	_, err = svc.UpdateBook(ctx, domain.Book{ID: "missing", Title: "Renamed"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestResourceCRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &CatalogService{Store: st}

	created, err := svc.CreateResource(ctx, domain.Resource{
		Title:   "Out of the Tar Pit",
		Author:  "Moseley & Marks",
		Year:    2006,
		Type:    "paper",
		Subject: "software design",
		URL:     "https://example.com/tarpit.pdf",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	created.Subject = "complexity"
	updated, err := svc.UpdateResource(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "complexity", updated.Subject)

	resources, err := svc.ListResources(ctx)
	require.NoError(t, err)
	require.Len(t, resources, 1)

	require.NoError(t, svc.DeleteResource(ctx, created.ID))
	_, err = svc.GetResource(ctx, created.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
