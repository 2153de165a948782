package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/arjun/quiz-api/internal/models"
)

// fakeUserStore is an in-memory UserStore keyed by username.
type fakeUserStore struct {
	users map[string]*models.User
	calls int
	err   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (s *fakeUserStore) CreateUser(_ context.Context, username, hashedPw string) (*models.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if _, exists := s.users[username]; exists {
		return nil, errors.New("duplicate key value violates unique constraint")
	}
	u := &models.User{
		ID:        "id-" + username,
		Username:  username,
		Password:  hashedPw,
		CreatedAt: time.Now(),
	}
	s.users[username] = u
	return u, nil
}

func (s *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[username]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return u, nil
}

func newTestHandler() (*Handler, *fakeUserStore) {
	store := newFakeUserStore()
	return NewHandler(store, NewTokenService([]byte("test-secret"), time.Hour)), store
}

func TestRegisterNeverExposesHash(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/users/register",
		strings.NewReader(`{"username":"alice","password":"pw1"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["username"] != "alice" {
		t.Errorf("username = %v, want alice", body["username"])
	}
	for _, k := range []string{"password", "passwordHash", "password_hash"} {
		if _, ok := body[k]; ok {
			t.Errorf("response must not contain %q field", k)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	h, store := newTestHandler()

	for _, payload := range []string{
		`not json`,
		`{"username":"","password":"pw"}`,
		`{"username":"bob","password":""}`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(payload))
		h.Register(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("payload %q: status = %d, want 400", payload, rec.Code)
		}
	}
	if store.calls != 0 {
		t.Errorf("store invoked %d times on invalid input, want 0", store.calls)
	}
}

func TestRegisterStoreFailureIsGeneric500(t *testing.T) {
	h, store := newTestHandler()
	store.err = errors.New("connection refused")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/register",
		strings.NewReader(`{"username":"alice","password":"pw1"}`))
	h.Register(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Errorf("internal error detail leaked to caller: %s", rec.Body.String())
	}
}

func TestRegisterDuplicateUsernameIs500(t *testing.T) {
	h, _ := newTestHandler()

	body := `{"username":"alice","password":"pw1"}`
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d, want 201", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(body)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("duplicate register status = %d, want 500", rec.Code)
	}
}

func TestLoginSuccessReturnsVerifiableToken(t *testing.T) {
	h, store := newTestHandler()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	store.users["alice"] = &models.User{ID: "id-alice", Username: "alice", Password: string(hashed)}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/login",
		strings.NewReader(`{"username":"alice","password":"pw1"}`))
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	userID, err := h.tokens.Verify(body["token"])
	if err != nil {
		t.Fatalf("returned token does not verify: %v", err)
	}
	if userID != "id-alice" {
		t.Errorf("token user id = %q, want id-alice", userID)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h, store := newTestHandler()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	store.users["alice"] = &models.User{ID: "id-alice", Username: "alice", Password: string(hashed)}

	responses := make([]*httptest.ResponseRecorder, 0, 2)
	for _, payload := range []string{
		`{"username":"alice","password":"wrong"}`,
		`{"username":"nobody","password":"pw1"}`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(payload))
		h.Login(rec, req)
		responses = append(responses, rec)
	}

	for _, rec := range responses {
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	}
	if responses[0].Body.String() != responses[1].Body.String() {
		t.Errorf("wrong-password and unknown-user bodies differ: %q vs %q",
			responses[0].Body.String(), responses[1].Body.String())
	}
}
