package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/curio-ai/topic-platform/internal/model"
	"github.com/curio-ai/topic-platform/internal/store"
)

type fakeUserGetter struct {
	users map[int64]*model.User
}

func (f *fakeUserGetter) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

const authTestSecret = "test-secret"

func signToken(t *testing.T, secret string, userID int64, expiry time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthValidToken(t *testing.T) {
	users := &fakeUserGetter{users: map[int64]*model.User{
		1: {ID: 1, Username: "ada", Email: "ada@example.com"},
	}}
	var seen *model.User
	handler := Auth(authTestSecret, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUser(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/trending/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, authTestSecret, 1, time.Hour))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if seen == nil || seen.ID != 1 || seen.Username != "ada" {
		t.Errorf("user in context = %+v", seen)
	}
}

func TestAuthRejections(t *testing.T) {
	users := &fakeUserGetter{users: map[int64]*model.User{
		1: {ID: 1, Username: "ada"},
	}}
	handler := Auth(authTestSecret, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", 1, time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, authTestSecret, 1, -time.Hour), http.StatusUnauthorized},
		{"unknown user", "Bearer " + signToken(t, authTestSecret, 42, time.Hour), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/trending/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q", ct)
			}
		})
	}
}

func TestGetUserWithoutAuth(t *testing.T) {
	if user := GetUser(context.Background()); user != nil {
		t.Errorf("GetUser() = %+v, want nil", user)
	}
}
