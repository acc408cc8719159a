package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bookgrove/bookgrove/models"
)

func TestMemStoreUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	id, err := s.CreateUser(ctx, &models.User{Email: "a@example.com", Password: "hash"})
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, id)

	_, err = s.CreateUser(ctx, &models.User{Email: "a@example.com", Password: "other"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	u, err := s.UserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)

	u, err = s.UserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestMemStoreBooks(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	owner := primitive.NewObjectID()

	id, err := s.InsertBook(ctx, &models.Book{UserID: owner, Title: "First"})
	require.NoError(t, err)

	got, err := s.BookByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)
	assert.Equal(t, owner, got.UserID)

	got.Title = "Renamed"
	require.NoError(t, s.ReplaceBook(ctx, id, got))
	got, err = s.BookByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	_, err = s.BookByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.DeleteBook(ctx, id)
	require.NoError(t, err)
	_, err = s.BookByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.DeleteBook(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreTopRated(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	owner := primitive.NewObjectID()

	for _, avg := range []float64{3.0, 4.5, 1.0, 5.0} {
		_, err := s.InsertBook(ctx, &models.Book{UserID: owner, AverageRating: avg})
		require.NoError(t, err)
	}

	top, err := s.TopRated(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []float64{5.0, 4.5, 3.0}, []float64{
		top[0].AverageRating, top[1].AverageRating, top[2].AverageRating,
	})
}
