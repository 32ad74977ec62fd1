package tasks

import (
	"context"
	"errors"
	"sync"
)

// ErrStaleTask is returned by a Store when an update targets a task that no
// longer exists, e.g. one deleted by a concurrent request.
var ErrStaleTask = errors.New("task no longer exists")

// Store is the durable keyed storage the Service builds on.
type Store interface {
	// Save inserts t when t.ID is zero, assigning a fresh ID, and updates
	// the stored record in place otherwise.
	Save(ctx context.Context, t Task) (Task, error)
	FindByID(ctx context.Context, id int64) (Task, bool, error)
	// FindAll returns every task in insertion order.
	FindAll(ctx context.Context) ([]Task, error)
	Delete(ctx context.Context, t Task) error
}

type InMemoryRepo struct {
	mu    sync.Mutex
	seq   int64
	order []int64
	store map[int64]Task
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		store: make(map[int64]Task),
	}
}

func (r *InMemoryRepo) Save(_ context.Context, t Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == 0 {
		r.seq++
		t.ID = r.seq
		r.order = append(r.order, t.ID)
	} else if _, ok := r.store[t.ID]; !ok {
		return Task{}, ErrStaleTask
	}
	r.store[t.ID] = cloneTask(t)
	return cloneTask(t), nil
}

func (r *InMemoryRepo) FindByID(_ context.Context, id int64) (Task, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.store[id]
	if !ok {
		return Task{}, false, nil
	}
	return cloneTask(t), true, nil
}

func (r *InMemoryRepo) FindAll(_ context.Context) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneTask(r.store[id]))
	}
	return out, nil
}

func (r *InMemoryRepo) Delete(_ context.Context, t Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[t.ID]; !ok {
		return nil
	}
	delete(r.store, t.ID)
	for i, id := range r.order {
		if id == t.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// cloneTask copies the due date so callers never share it with the store.
func cloneTask(t Task) Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}
