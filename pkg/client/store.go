package client

import (
	"context"
	"sync"
)

// TaskStore holds the task list as an in-memory cache over the API.
// Mutations take the server's authoritative response, never
// client-guessed state, and removal happens only after the server
// confirms. Overlapping calls are not coordinated; if two race, the
// last response wins.
type TaskStore struct {
	client *Client

	mu      sync.Mutex
	tasks   []Task
	loading bool
	lastErr string
}

// NewTaskStore creates a store backed by the given client.
func NewTaskStore(c *Client) *TaskStore {
	return &TaskStore{client: c}
}

// Tasks returns a snapshot of the cached task list.
func (s *TaskStore) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Loading reports whether a call is currently in flight.
func (s *TaskStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the first error message captured by the most recent
// failed call, or "" after a success.
func (s *TaskStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// FetchTasks replaces the whole cache with the server's task list.
func (s *TaskStore) FetchTasks(ctx context.Context) error {
	s.begin()
	tasks, err := s.client.ListTasks(ctx)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.tasks = tasks
	s.finishLocked()
	s.mu.Unlock()
	return nil
}

// AddTask creates a task and appends the server's response to the
// cache.
func (s *TaskStore) AddTask(ctx context.Context, input CreateTaskInput) (*Task, error) {
	s.begin()
	task, err := s.client.CreateTask(ctx, input)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, *task)
	s.finishLocked()
	s.mu.Unlock()
	return task, nil
}

// UpdateTask applies a partial update and replaces the cached entry
// with the server's response.
func (s *TaskStore) UpdateTask(ctx context.Context, id uint64, input UpdateTaskInput) (*Task, error) {
	s.begin()
	task, err := s.client.UpdateTask(ctx, id, input)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = *task
			break
		}
	}
	s.finishLocked()
	s.mu.Unlock()
	return task, nil
}

// DeleteTask deletes a task and removes the cached entry once the
// server confirms.
func (s *TaskStore) DeleteTask(ctx context.Context, id uint64) error {
	s.begin()
	if err := s.client.DeleteTask(ctx, id); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	filtered := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	s.tasks = filtered
	s.finishLocked()
	s.mu.Unlock()
	return nil
}

func (s *TaskStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *TaskStore) fail(err error) {
	s.mu.Lock()
	s.loading = false
	if s.lastErr == "" {
		s.lastErr = err.Error()
	}
	s.mu.Unlock()
}

func (s *TaskStore) finishLocked() {
	s.loading = false
}
