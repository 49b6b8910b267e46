package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/wareflow-api/internal/domain"
	"github.com/jhoicas/wareflow-api/internal/domain/entity"
	"github.com/jhoicas/wareflow-api/internal/domain/repository"
)

const usersCollection = "users"

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository. El email se compara sin distinguir mayúsculas.
type UserRepo struct {
	s *Store
}

// NewUserRepository construye el repositorio sobre el Store.
func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

func (r *UserRepo) findByEmail(email string) *entity.User {
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

// Create persiste un usuario; email repetido → domain.ErrEmailAlreadyExists.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.findByEmail(user.Email) != nil {
		return domain.ErrEmailAlreadyExists
	}
	c := *user
	r.s.users[user.ID] = &c
	r.s.track(usersCollection, user.ID)
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u := r.findByEmail(email)
	if u == nil {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// List lista usuarios en orden de alta.
func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := r.s.page(usersCollection, nil, limit, offset)
	list := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		c := *r.s.users[id]
		list = append(list, &c)
	}
	return list, nil
}

// Delete elimina un usuario.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	r.s.untrack(usersCollection, id)
	return nil
}
