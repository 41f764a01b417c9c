// Package client is a thin Go SDK for the task API: an HTTP wrapper
// that attaches the current session's bearer token to every call, and
// an in-memory task store layered on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// TokenSource supplies the current session's bearer token. It is
// consulted fresh on every call so rotated tokens are picked up
// automatically. An empty token means no authenticated session; the
// request still goes out and the server answers 401.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns the same token on every call.
type StaticTokenSource string

func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}

// Task mirrors the server's task representation.
type Task struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	CreatorID   *string    `json:"creatorId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Creator     *User      `json:"creator,omitempty"`
	Assignees   []User     `json:"assignees"`
}

// User mirrors the server's user representation.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateTaskInput is the body for task creation.
type CreateTaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssigneeIDs []string   `json:"assigneeIds,omitempty"`
}

// UpdateTaskInput is a partial update; nil fields are not sent.
type UpdateTaskInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssigneeIDs *[]string  `json:"assigneeIds,omitempty"`
}

// CreateUserInput is the body for user registration.
type CreateUserInput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// APIError is the server's error body, carried through verbatim.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Client wraps the /api surface. No retries, no timeout beyond the
// supplied http.Client's.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New creates a Client. A nil httpClient falls back to
// http.DefaultClient; a nil tokens source sends unauthenticated calls.
func New(baseURL string, httpClient *http.Client, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		tokens:  tokens,
	}
}

// ListTasks fetches the caller's tasks.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task and returns the server's representation.
func (c *Client) CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask fetches a single task by ID.
func (c *Client) GetTask(ctx context.Context, id uint64) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update and returns the updated task.
func (c *Client) UpdateTask(ctx context.Context, id uint64, input UpdateTaskInput) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", id), input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil)
}

// CreateUser registers a user record for a provider-issued identity.
func (c *Client) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/api/users", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers fetches all users.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches a user by ID.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail fetches a user by exact email. A missing user is
// reported as (nil, nil) so callers can branch into registration.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/api/users/email/"+url.PathEscape(email), nil, &user)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("fetch token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
