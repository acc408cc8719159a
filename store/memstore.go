package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bookgrove/bookgrove/models"
)

// MemStore is an in-memory implementation of the user and book operations,
// used by handler tests in place of a running MongoDB.
type MemStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
	books map[primitive.ObjectID]models.Book
	// insertion order, the natural order a collection scan would yield
	bookOrder []primitive.ObjectID
}

func NewMemStore() *MemStore {
	return &MemStore{
		users: make(map[primitive.ObjectID]models.User),
		books: make(map[primitive.ObjectID]models.Book),
	}
}

func (m *MemStore) CreateUser(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, ErrDuplicateEmail
		}
	}
	id := primitive.NewObjectID()
	u := *user
	u.ID = id
	m.users[id] = u
	return id, nil
}

func (m *MemStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MemStore) UserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := u
	return &out, nil
}

func (m *MemStore) InsertBook(_ context.Context, book *models.Book) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	b := *book
	b.ID = id
	b.Ratings = append([]models.Rating(nil), book.Ratings...)
	m.books[id] = b
	m.bookOrder = append(m.bookOrder, id)
	return id, nil
}

func (m *MemStore) AllBooks(_ context.Context) ([]models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Book, 0, len(m.bookOrder))
	for _, id := range m.bookOrder {
		out = append(out, m.books[id])
	}
	return out, nil
}

func (m *MemStore) TopRated(ctx context.Context, n int) ([]models.Book, error) {
	books, _ := m.AllBooks(ctx)
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].AverageRating > books[j].AverageRating
	})
	if len(books) > n {
		books = books[:n]
	}
	return books, nil
}

func (m *MemStore) BookByID(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := b
	out.Ratings = append([]models.Rating{}, b.Ratings...)
	return &out, nil
}

func (m *MemStore) ReplaceBook(_ context.Context, id primitive.ObjectID, book *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return ErrNotFound
	}
	b := *book
	b.ID = id
	b.Ratings = append([]models.Rating(nil), book.Ratings...)
	m.books[id] = b
	return nil
}

func (m *MemStore) DeleteBook(_ context.Context, id primitive.ObjectID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return "", ErrNotFound
	}
	delete(m.books, id)
	for i, oid := range m.bookOrder {
		if oid == id {
			m.bookOrder = append(m.bookOrder[:i], m.bookOrder[i+1:]...)
			break
		}
	}
	return b.ImageURL, nil
}
