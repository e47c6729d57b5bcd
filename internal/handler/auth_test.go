package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/curio-ai/topic-platform/internal/apperr"
	"github.com/curio-ai/topic-platform/internal/model"
)

type fakeAuthService struct {
	resp *model.AuthResponse
	err  error
}

func (f *fakeAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	return f.resp, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	return f.resp, f.err
}

func TestRegisterHandler(t *testing.T) {
	svc := &fakeAuthService{resp: &model.AuthResponse{
		Message: "User created successfully",
		Token:   "signed-token",
		User:    &model.User{ID: 1, Username: "ada", Email: "ada@example.com", PasswordHash: "secret-hash"},
	}}
	h := NewAuthHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"ada@example.com","username":"ada","password":"hunter22"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Error("password hash leaked in response body")
	}
	body := decodeBody(t, rec)
	if body["token"] != "signed-token" {
		t.Errorf("token = %v", body["token"])
	}
}

func TestRegisterHandlerValidation(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"ada@example.com","username":"ada","password":"abc"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRegisterHandlerConflict(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{err: apperr.Conflict("Email already exists")}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"ada@example.com","username":"ada","password":"hunter22"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Email already exists" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestLoginHandler(t *testing.T) {
	svc := &fakeAuthService{resp: &model.AuthResponse{
		Message: "Login successful",
		Token:   "signed-token",
		User:    &model.User{ID: 1, Username: "ada"},
	}}
	h := NewAuthHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"hunter22"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestLoginHandlerUnauthorized(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{err: apperr.Unauthorized("Invalid email or password")}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
