package project

import (
	"context"
	"sync"
)

// MemoryRepo is a simple in-memory project repository for tests and early
// development. Lookups match the SQL repo: exact, case-sensitive names.
type MemoryRepo struct {
	mu       sync.Mutex
	projects map[string]Project // key: name
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{projects: map[string]Project{}}
}

func (r *MemoryRepo) AccessInfoByName(_ context.Context, name string) (AccessInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[name]
	if !ok {
		return AccessInfo{}, ErrNotFound
	}
	return p.AccessInfo(), nil
}

func (r *MemoryRepo) AccessInfoByID(_ context.Context, id string) (AccessInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		if p.ID == id {
			return p.AccessInfo(), nil
		}
	}
	return AccessInfo{}, ErrNotFound
}

func (r *MemoryRepo) Create(_ context.Context, p Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.Name] = p
	return nil
}
