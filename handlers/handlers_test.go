package handlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	"utmattribution/api/attribution"
	"utmattribution/api/models"
	"utmattribution/api/store"
)

var testCookies = store.CookieOptions{Prefix: "utm_"}

type fakeSettings struct {
	mu      sync.Mutex
	cfg     attribution.Config
	saveErr error
}

func (f *fakeSettings) Get(context.Context) attribution.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

func (f *fakeSettings) Save(_ context.Context, cfg attribution.Config) (attribution.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return attribution.Config{}, f.saveErr
	}
	f.cfg = cfg.Normalize()
	return f.cfg, nil
}

type fakeSink struct {
	submissions []models.FormSubmission
	err         error
}

func (f *fakeSink) InsertSubmissions(_ context.Context, subs []models.FormSubmission) error {
	if f.err != nil {
		return f.err
	}
	f.submissions = append(f.submissions, subs...)
	return nil
}

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) CreateUser(_ context.Context, email string, hashed []byte) (*models.User, error) {
	if _, ok := f.users[email]; ok {
		return nil, store.ErrUserExists
	}
	u := &models.User{ID: len(f.users) + 1, Email: email, HashedPassword: hashed}
	f.users[email] = u
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user with email %q: %w", email, store.ErrUserNotFound)
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}
