package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"muuapp-api/internal/auth"
	"muuapp-api/internal/domain"
	"muuapp-api/internal/mail"
	"muuapp-api/internal/repository"
)

// --- helpers ---

type fakeUsersRepo struct {
	mu   sync.Mutex
	byID map[string]domain.User
	err  error // returned by every call when set
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]domain.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	f.byID[id] = u
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.byID[id]
	delete(f.byID, id)
	return ok, nil
}

func (f *fakeUsersRepo) seed(fullName, email, password string) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := domain.User{ID: uuid.NewString(), FullName: fullName, Email: email, PasswordHash: string(hash)}
	f.byID[u.ID] = u
	return u
}

type fakeRanchRepo struct {
	byUser map[string][]domain.Ranch
	err    error
}

func (f *fakeRanchRepo) Create(ctx context.Context, r *domain.Ranch) error {
	if f.byUser == nil {
		f.byUser = map[string][]domain.Ranch{}
	}
	f.byUser[r.UserID] = append(f.byUser[r.UserID], *r)
	return nil
}

func (f *fakeRanchRepo) ListByUser(ctx context.Context, userID string) ([]domain.Ranch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "<test-id@muuapp.mx>", nil
}

var errDBDown = errors.New("db down")

func testIssuer() *auth.Issuer {
	return auth.NewIssuer("test-secret", time.Hour, 30*time.Minute)
}

func testHasher() *auth.Hasher {
	return auth.NewHasher(bcrypt.MinCost)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
