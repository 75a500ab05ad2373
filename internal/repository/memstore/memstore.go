// Package memstore is an in-process Record Store. It enforces the same
// constraints as the PostgreSQL schema: unique usernames, one profile per
// user, existing references on tasks and the category cascade.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/repository"
	"github.com/google/uuid"
)

// Store holds all records behind a single lock so every write is atomic.
type Store struct {
	mu sync.RWMutex

	users      map[int64]models.User
	profiles   map[int64]models.Profile
	categories map[int64]models.Category
	tasks      map[uuid.UUID]models.Task

	nextUser, nextProfile, nextCategory int64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:      make(map[int64]models.User),
		profiles:   make(map[int64]models.Profile),
		categories: make(map[int64]models.Category),
		tasks:      make(map[uuid.UUID]models.Task),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *Users { return &Users{s} }

// Profiles returns the profile repository view of the store.
func (s *Store) Profiles() *Profiles { return &Profiles{s} }

// Categories returns the category repository view of the store.
func (s *Store) Categories() *Categories { return &Categories{s} }

// Tasks returns the task repository view of the store.
func (s *Store) Tasks() *Tasks { return &Tasks{s} }

// Users stores users.
type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, u *models.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTaken(u.Username, 0) {
		return fmt.Errorf("create user: %w: users_username_key", repository.ErrDuplicate)
	}
	s.nextUser++
	u.ID = s.nextUser
	s.users[u.ID] = *u
	return nil
}

func (r *Users) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *Users) List(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *Users) Update(_ context.Context, u *models.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	if s.usernameTaken(u.Username, u.ID) {
		return fmt.Errorf("update user: %w: users_username_key", repository.ErrDuplicate)
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) usernameTaken(name string, except int64) bool {
	for id, u := range s.users {
		if id != except && u.Username == name {
			return true
		}
	}
	return false
}

// Profiles stores profiles.
type Profiles struct{ s *Store }

func (r *Profiles) Create(_ context.Context, p *models.Profile) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.UserID]; !ok {
		return fmt.Errorf("create profile: %w: profiles_user_id_fkey", repository.ErrReference)
	}
	for _, existing := range s.profiles {
		if existing.UserID == p.UserID {
			return fmt.Errorf("create profile: %w: profiles_user_id_key", repository.ErrDuplicate)
		}
	}
	s.nextProfile++
	p.ID = s.nextProfile
	s.profiles[p.ID] = cloneProfile(*p)
	return nil
}

func (r *Profiles) GetByID(_ context.Context, id int64) (*models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = cloneProfile(p)
	return &p, nil
}

func (r *Profiles) List(_ context.Context) ([]models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	profiles := make([]models.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		profiles = append(profiles, cloneProfile(p))
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles, nil
}

// Update rewrites the avatar reference; the owning user is kept.
func (r *Profiles) Update(_ context.Context, p *models.Profile) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.profiles[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Img = p.Img
	s.profiles[p.ID] = cloneProfile(existing)
	return nil
}

func (r *Profiles) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}

func cloneProfile(p models.Profile) models.Profile {
	if p.Img != nil {
		img := *p.Img
		p.Img = &img
	}
	return p
}

// Categories stores categories.
type Categories struct{ s *Store }

func (r *Categories) Create(_ context.Context, c *models.Category) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCategory++
	c.ID = s.nextCategory
	s.categories[c.ID] = *c
	return nil
}

func (r *Categories) GetByID(_ context.Context, id int64) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *Categories) List(_ context.Context) ([]models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

// Delete removes the category and every task referencing it.
func (r *Categories) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.categories, id)
	for tid, t := range s.tasks {
		if t.CategoryID == id {
			delete(s.tasks, tid)
		}
	}
	return nil
}

// Tasks stores tasks.
type Tasks struct{ s *Store }

func (r *Tasks) Create(_ context.Context, t *models.Task) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTask(t); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	if _, ok := s.tasks[t.ID]; ok {
		return fmt.Errorf("create task: %w: tasks_pkey", repository.ErrDuplicate)
	}
	s.tasks[t.ID] = *t
	return nil
}

func (r *Tasks) GetByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t = r.s.joinTask(t)
	return &t, nil
}

func (r *Tasks) List(_ context.Context) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tasks := make([]models.Task, 0, len(r.s.tasks))
	for _, t := range r.s.tasks {
		tasks = append(tasks, r.s.joinTask(t))
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID.String() < tasks[j].ID.String()
	})
	return tasks, nil
}

// Update replaces the writable fields; owner and creation time are kept.
func (r *Tasks) Update(_ context.Context, t *models.Task) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := s.checkTask(t); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	existing.Title = t.Title
	existing.Description = t.Description
	existing.Criteria = t.Criteria
	existing.Status = t.Status
	existing.CategoryID = t.CategoryID
	existing.Estimate = t.Estimate
	existing.ResponsibleID = t.ResponsibleID
	existing.UpdatedAt = t.UpdatedAt
	s.tasks[t.ID] = existing
	return nil
}

func (r *Tasks) Delete(_ context.Context, id uuid.UUID) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *Store) checkTask(t *models.Task) error {
	if t.Estimate < 0 {
		return fmt.Errorf("%w: tasks_estimate_check", repository.ErrCheck)
	}
	if _, ok := s.categories[t.CategoryID]; !ok {
		return fmt.Errorf("%w: tasks_category_id_fkey", repository.ErrReference)
	}
	if _, ok := s.users[t.OwnerID]; !ok {
		return fmt.Errorf("%w: tasks_owner_id_fkey", repository.ErrReference)
	}
	if _, ok := s.users[t.ResponsibleID]; !ok {
		return fmt.Errorf("%w: tasks_responsible_id_fkey", repository.ErrReference)
	}
	return nil
}

func (s *Store) joinTask(t models.Task) models.Task {
	t.CategoryItem = s.categories[t.CategoryID].Item
	t.OwnerUsername = s.users[t.OwnerID].Username
	t.ResponsibleUsername = s.users[t.ResponsibleID].Username
	return t
}
