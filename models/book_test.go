package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBookAddRating(t *testing.T) {
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()

	t.Run("average follows votes", func(t *testing.T) {
		var b Book
		assert.Equal(t, float64(0), b.AverageRating)

		require.NoError(t, b.AddRating(userA, 4))
		assert.Equal(t, 4.0, b.AverageRating)
		assert.Len(t, b.Ratings, 1)

		require.NoError(t, b.AddRating(userB, 5))
		assert.Equal(t, 4.5, b.AverageRating)
		assert.Len(t, b.Ratings, 2)
	})

	t.Run("second vote from same user rejected unchanged", func(t *testing.T) {
		var b Book
		require.NoError(t, b.AddRating(userA, 4))
		require.NoError(t, b.AddRating(userB, 5))

		err := b.AddRating(userA, 1)
		assert.ErrorIs(t, err, ErrAlreadyRated)
		assert.Len(t, b.Ratings, 2)
		assert.Equal(t, 4.5, b.AverageRating)
	})

	t.Run("grade domain", func(t *testing.T) {
		var b Book
		assert.ErrorIs(t, b.AddRating(userA, -1), ErrGradeOutOfRange)
		assert.ErrorIs(t, b.AddRating(userA, 6), ErrGradeOutOfRange)
		assert.Empty(t, b.Ratings)

		// zero is a valid vote, it just pulls the average down
		require.NoError(t, b.AddRating(userA, 0))
		assert.Equal(t, float64(0), b.AverageRating)
		require.NoError(t, b.AddRating(userB, 5))
		assert.Equal(t, 2.5, b.AverageRating)
	})
}

func TestRecomputeAverageRounding(t *testing.T) {
	users := []primitive.ObjectID{
		primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(),
	}

	cases := []struct {
		name   string
		grades []int
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []int{3}, 3.0},
		{"exact half", []int{4, 5}, 4.5},
		{"rounds up at hundredths", []int{2, 3, 3}, 2.7},   // 2.666...
		{"rounds down at hundredths", []int{4, 4, 5}, 4.3}, // 4.333...
		{"rounds half up", []int{1, 2, 2, 4}, 2.3},         // 2.25
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b Book
			for i, g := range tc.grades {
				b.Ratings = append(b.Ratings, Rating{UserID: users[i%len(users)], Grade: g})
			}
			b.RecomputeAverage()
			assert.Equal(t, tc.want, b.AverageRating)
		})
	}
}
