package models

import (
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrGradeOutOfRange = errors.New("grade must be between 0 and 5")
	ErrAlreadyRated    = errors.New("user has already rated this book")
)

// Rating is one user's vote on a book. A book holds at most one Rating per user.
type Rating struct {
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Grade  int                `bson:"grade" json:"grade"`
}

type Book struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Title         string             `bson:"title" json:"title"`
	Author        string             `bson:"author" json:"author"`
	Year          int                `bson:"year" json:"year"`
	Genre         string             `bson:"genre" json:"genre"`
	ImageURL      string             `bson:"imageUrl" json:"imageUrl"`
	Ratings       []Rating           `bson:"ratings" json:"ratings"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// AddRating records a vote and recomputes the average. It rejects grades
// outside [0,5] and a second vote from a user already present in Ratings,
// leaving the book unchanged in both cases.
func (b *Book) AddRating(userID primitive.ObjectID, grade int) error {
	if grade < 0 || grade > 5 {
		return ErrGradeOutOfRange
	}
	for _, r := range b.Ratings {
		if r.UserID == userID {
			return ErrAlreadyRated
		}
	}
	b.Ratings = append(b.Ratings, Rating{UserID: userID, Grade: grade})
	b.RecomputeAverage()
	return nil
}

// RecomputeAverage sets AverageRating to the mean of all grades rounded
// half-up to one decimal place, or 0 when there are no ratings.
func (b *Book) RecomputeAverage() {
	if len(b.Ratings) == 0 {
		b.AverageRating = 0
		return
	}
	sum := 0
	for _, r := range b.Ratings {
		sum += r.Grade
	}
	mean := float64(sum) / float64(len(b.Ratings))
	b.AverageRating = math.Round(mean*10) / 10
}
