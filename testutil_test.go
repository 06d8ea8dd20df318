package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stores standing in for the Mongo collections, including the
// duplicate-key behavior of the unique indexes.

type memUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[primitive.ObjectID]User)}
}

func (s *memUserStore) Insert(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicateUser
		}
	}
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *memUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, ErrUserNotFound
}

func (s *memUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *memUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *memUserStore) Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	for otherID, other := range s.users {
		if otherID == id {
			continue
		}
		if upd.Username != nil && other.Username == *upd.Username {
			return nil, ErrDuplicateUser
		}
		if upd.Email != nil && other.Email == *upd.Email {
			return nil, ErrDuplicateUser
		}
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return &u, nil
}

func (s *memUserStore) All(ctx context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *memUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type memTaskStore struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[primitive.ObjectID]Task)}
}

func (s *memTaskStore) Insert(ctx context.Context, task *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks[task.ID] = *task
	return nil
}

func (s *memTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		return &t, nil
	}
	return nil, ErrTaskNotFound
}

func (s *memTaskStore) FindByOwner(ctx context.Context, owner primitive.ObjectID, completed *bool) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tasks []Task
	for _, t := range s.tasks {
		if t.UserID != owner {
			continue
		}
		if completed != nil && t.Completed != *completed {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *memTaskStore) Update(ctx context.Context, task *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	s.tasks[task.ID] = *task
	return nil
}

func (s *memTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

type testApp struct {
	*App
	users   *memUserStore
	tasks   *memTaskStore
	handler http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	users := newMemUserStore()
	tasks := newMemTaskStore()
	app := &App{
		cfg: &Config{
			AllowedOrigins: []string{"http://localhost:5173"},
			CookieSecure:   true,
		},
		codec: NewTokenCodec("test-secret"),
		users: users,
		tasks: tasks,
		log:   zerolog.Nop(),
	}
	return &testApp{App: app, users: users, tasks: tasks, handler: app.routes()}
}

func (ta *testApp) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ta.handler.ServeHTTP(rec, req)
	return rec
}

// signup creates a user through the handler and returns it with its session
// cookie.
func (ta *testApp) signup(t *testing.T, username, email, password string) (*User, *http.Cookie) {
	t.Helper()
	rec := ta.do(t, http.MethodPost, "/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: status %d, body %s", username, rec.Code, rec.Body.String())
	}
	user, err := ta.users.FindByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("signup %s: user not stored: %v", username, err)
	}
	cookie := findCookie(rec, sessionCookieName)
	if cookie == nil {
		t.Fatalf("signup %s: no session cookie set", username)
	}
	return user, cookie
}

// addTask inserts a task directly into the store.
func (ta *testApp) addTask(t *testing.T, owner primitive.ObjectID, title, dueDate string, completed bool) *Task {
	t.Helper()
	task := &Task{
		Title:       title,
		Description: defaultTaskDescription,
		DueDate:     dueDate,
		Completed:   completed,
		UserID:      owner,
	}
	if err := ta.tasks.Insert(context.Background(), task); err != nil {
		t.Fatalf("insert task: %v", err)
	}
	return task
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}
