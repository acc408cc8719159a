package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bookgrove/bookgrove/middleware"
	"github.com/bookgrove/bookgrove/models"
	"github.com/bookgrove/bookgrove/store"
)

// BookStore is the persistence surface the book workflows need.
type BookStore interface {
	InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
	AllBooks(ctx context.Context) ([]models.Book, error)
	TopRated(ctx context.Context, n int) ([]models.Book, error)
	BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	ReplaceBook(ctx context.Context, id primitive.ObjectID, book *models.Book) error
	DeleteBook(ctx context.Context, id primitive.ObjectID) (imageURL string, err error)
}

// ImagePipeline produces durable images from raw uploads and cleans up
// superseded ones. Remove is best-effort and never reports failure.
type ImagePipeline interface {
	Ingest(ctx context.Context, r io.Reader) (string, error)
	Remove(ctx context.Context, url string)
}

const bestRatedCount = 3

type BooksHandler struct {
	DB       BookStore
	Images   ImagePipeline
	MaxBytes int64
}

func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.DB.AllBooks(r.Context())
	if err != nil {
		serverError(w, err, "failed to list books")
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *BooksHandler) BestRating(w http.ResponseWriter, r *http.Request) {
	books, err := h.DB.TopRated(r.Context(), bestRatedCount)
	if err != nil {
		serverError(w, err, "failed to list books")
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		serverError(w, err, "failed to load book")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// Create persists a new book owned by the authenticated user. The request is
// multipart: an image file plus the book fields as a JSON-encoded string. An
// initial rating with a grade in (0,5] seeds the rating list; a zero or
// out-of-range grade is silently ignored.
func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	payload, file, err := decodeBookRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if file == nil {
		writeError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()
	if err := payload.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid book fields")
		return
	}

	imageURL, err := h.Images.Ingest(r.Context(), file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unsupported or corrupt image")
		return
	}

	book := &models.Book{
		UserID:    userID,
		Title:     payload.Title,
		Author:    payload.Author,
		Year:      payload.Year,
		Genre:     payload.Genre,
		ImageURL:  imageURL,
		Ratings:   []models.Rating{},
		CreatedAt: time.Now(),
	}
	if payload.Rating > 0 && payload.Rating <= 5 {
		book.Ratings = []models.Rating{{UserID: userID, Grade: payload.Rating}}
		book.RecomputeAverage()
	}

	if _, err := h.DB.InsertBook(r.Context(), book); err != nil {
		h.Images.Remove(r.Context(), imageURL)
		serverError(w, err, "failed to save book")
		return
	}
	writeMessage(w, http.StatusCreated, "book created")
}

// Update replaces a book's fields, owner only. A new image supersedes the
// stored one, whose file is removed best-effort. Owner, ratings and average
// are carried over from the stored record regardless of the request.
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		serverError(w, err, "failed to load book")
		return
	}
	if book.UserID != userID {
		writeError(w, http.StatusForbidden, "not the owner of this book")
		return
	}

	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	payload, file, err := decodeBookRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		if file != nil {
			file.Close()
		}
		writeError(w, http.StatusBadRequest, "invalid book fields")
		return
	}

	updated := *book
	updated.Title = payload.Title
	updated.Author = payload.Author
	updated.Year = payload.Year
	updated.Genre = payload.Genre
	if file != nil {
		newURL, err := h.Images.Ingest(r.Context(), file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unsupported or corrupt image")
			return
		}
		h.Images.Remove(r.Context(), book.ImageURL)
		updated.ImageURL = newURL
	}

	if err := h.DB.ReplaceBook(r.Context(), id, &updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		serverError(w, err, "failed to update book")
		return
	}
	writeMessage(w, http.StatusOK, "book updated")
}

// Delete removes a book, owner only. The record is the source of truth: its
// image file is removed best-effort after the document is gone.
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		serverError(w, err, "failed to load book")
		return
	}
	if book.UserID != userID {
		writeError(w, http.StatusForbidden, "not the owner of this book")
		return
	}

	imageURL, err := h.DB.DeleteBook(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		serverError(w, err, "failed to delete book")
		return
	}
	h.Images.Remove(r.Context(), imageURL)
	writeMessage(w, http.StatusOK, "book deleted")
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// Rate records the authenticated user's one vote on a book and answers the
// updated record. A second vote from the same user is rejected unchanged.
func (h *BooksHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "book not found")
		return
	}
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		serverError(w, err, "failed to load book")
		return
	}
	if err := book.AddRating(userID, req.Rating); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.DB.ReplaceBook(r.Context(), id, book); err != nil {
		serverError(w, err, "failed to save rating")
		return
	}
	writeJSON(w, http.StatusOK, book)
}
