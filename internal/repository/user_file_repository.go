package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"
)

// UserFileRepository stores parent accounts in a JSON snapshot file, same
// full-overwrite strategy as the alert store.
type UserFileRepository struct {
	path  string
	log   *logger.Logger
	mu    sync.RWMutex
	users map[string]models.User // keyed by lowercase email
}

func NewUserFileRepository(path string, log *logger.Logger) (*UserFileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	r := &UserFileRepository{
		path:  path,
		log:   log,
		users: make(map[string]models.User),
	}
	r.load()
	return r, nil
}

func (r *UserFileRepository) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn("Failed to read user snapshot %s: %v", r.path, err)
		}
		return
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		r.log.Warn("User snapshot %s is corrupted, discarding: %v", r.path, err)
		return
	}

	for _, u := range users {
		r.users[strings.ToLower(u.Email)] = u
	}
}

func (r *UserFileRepository) save() error {
	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0600)
}

func (r *UserFileRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.users[key]; exists {
		return ErrDuplicateEmail
	}

	r.users[key] = *user
	return r.save()
}

func (r *UserFileRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *UserFileRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *UserFileRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.users[key]; !exists {
		return ErrNotFound
	}

	r.users[key] = *user
	return r.save()
}
