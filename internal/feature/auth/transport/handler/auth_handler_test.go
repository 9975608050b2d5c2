package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market_trends/internal/feature/auth/domain/entity"
	"market_trends/internal/feature/auth/usecase"
	jwtmw "market_trends/internal/platform/jwt"
)

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	RegisterFunc func(ctx context.Context, in usecase.RegisterInput) error
	LoginFunc    func(ctx context.Context, username, password string) (string, error)
	LogoutFunc   func(ctx context.Context, session entity.Session) error
	MeFunc       func(ctx context.Context, session entity.Session) (*entity.User, error)
}

func (m *mockAuthUsecase) Register(ctx context.Context, in usecase.RegisterInput) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return nil
}

func (m *mockAuthUsecase) Login(ctx context.Context, username, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return "", errors.New("login failed")
}

func (m *mockAuthUsecase) Logout(ctx context.Context, session entity.Session) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, session)
	}
	return nil
}

func (m *mockAuthUsecase) Me(ctx context.Context, session entity.Session) (*entity.User, error) {
	if m.MeFunc != nil {
		return m.MeFunc(ctx, session)
	}
	return nil, usecase.ErrNotAuthenticated
}

// withSession は認証ミドルウェアの代わりにセッションをコンテキストへ設定します。
func withSession(s entity.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(jwtmw.ContextSession, s)
		c.Next()
	}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body gin.H) (*httptest.ResponseRecorder, gin.H) {
	t.Helper()
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var responseBody gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
	return w, responseBody
}

func TestAuthHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	validBody := gin.H{
		"username":         "alice",
		"email":            "alice@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	}

	tests := []struct {
		name             string
		requestBody      gin.H
		mockRegisterFunc func(ctx context.Context, in usecase.RegisterInput) error
		expectedStatus   int
		expectedBody     gin.H
	}{
		{
			name:        "success: user registration",
			requestBody: validBody,
			mockRegisterFunc: func(ctx context.Context, in usecase.RegisterInput) error {
				if in.Username != "alice" || in.ConfirmPassword != "password123" {
					return errors.New("unexpected input")
				}
				return nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   gin.H{"message": "ok"},
		},
		{
			name:           "failure: invalid email address",
			requestBody:    gin.H{"username": "alice", "email": "invalid-email", "password": "password123", "confirm_password": "password123"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "Key: 'RegisterReq.Email' Error:Field validation for 'Email' failed on the 'email' tag"},
		},
		{
			name:           "failure: missing username",
			requestBody:    gin.H{"email": "alice@example.com", "password": "password123", "confirm_password": "password123"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "Key: 'RegisterReq.Username' Error:Field validation for 'Username' failed on the 'required' tag"},
		},
		{
			name:             "failure: passwords do not match (usecase error)",
			requestBody:      validBody,
			mockRegisterFunc: func(ctx context.Context, in usecase.RegisterInput) error { return usecase.ErrPasswordMismatch },
			expectedStatus:   http.StatusBadRequest,
			expectedBody:     gin.H{"error": "passwords do not match"},
		},
		{
			name:             "failure: short password (usecase error)",
			requestBody:      validBody,
			mockRegisterFunc: func(ctx context.Context, in usecase.RegisterInput) error { return usecase.ErrPasswordTooShort },
			expectedStatus:   http.StatusBadRequest,
			expectedBody:     gin.H{"error": "password must be at least 8 characters long"},
		},
		{
			name:             "failure: duplicate username (usecase error)",
			requestBody:      validBody,
			mockRegisterFunc: func(ctx context.Context, in usecase.RegisterInput) error { return usecase.ErrUsernameAlreadyExists },
			expectedStatus:   http.StatusConflict,
			expectedBody:     gin.H{"error": "username already exists"},
		},
		{
			name:             "failure: storage error is hidden",
			requestBody:      validBody,
			mockRegisterFunc: func(ctx context.Context, in usecase.RegisterInput) error { return errors.New("disk full") },
			expectedStatus:   http.StatusInternalServerError,
			expectedBody:     gin.H{"error": "registration failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(&mockAuthUsecase{RegisterFunc: tt.mockRegisterFunc})
			router := gin.New()
			router.POST("/register", handler.Register)

			w, responseBody := postJSON(t, router, "/register", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			// Error messages include Gin validation error details, so check partial match
			if tt.expectedStatus == http.StatusBadRequest {
				assert.Contains(t, responseBody["error"], tt.expectedBody["error"])
			} else {
				assert.Equal(t, tt.expectedBody, responseBody)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    gin.H
		mockLoginFunc  func(ctx context.Context, username, password string) (string, error)
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name:           "success: user login",
			requestBody:    gin.H{"username": "alice", "password": "password123"},
			mockLoginFunc:  func(ctx context.Context, username, password string) (string, error) { return "dummy-jwt-token", nil },
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"token": "dummy-jwt-token"},
		},
		{
			name:           "failure: missing password",
			requestBody:    gin.H{"username": "alice"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "Key: 'LoginReq.Password' Error:Field validation for 'Password' failed on the 'required' tag"},
		},
		{
			name:        "failure: invalid credentials (usecase error)",
			requestBody: gin.H{"username": "alice", "password": "wrong-password"},
			mockLoginFunc: func(ctx context.Context, username, password string) (string, error) {
				return "", usecase.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": "invalid username or password"},
		},
		{
			name:        "failure: internal error is hidden",
			requestBody: gin.H{"username": "alice", "password": "password123"},
			mockLoginFunc: func(ctx context.Context, username, password string) (string, error) {
				return "", errors.New("failed to generate token: key missing")
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": "invalid username or password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(&mockAuthUsecase{LoginFunc: tt.mockLoginFunc})
			router := gin.New()
			router.POST("/login", handler.Login)

			w, responseBody := postJSON(t, router, "/login", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusBadRequest {
				assert.Contains(t, responseBody["error"], tt.expectedBody["error"])
			} else {
				assert.Equal(t, tt.expectedBody, responseBody)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	session := entity.Session{Authenticated: true, UserID: 1, Username: "alice", TokenID: "jti-1"}

	tests := []struct {
		name           string
		logoutErr      error
		expectedStatus int
		expectedBody   gin.H
	}{
		{"success", nil, http.StatusOK, gin.H{"message": "logged out"}},
		{"not authenticated", usecase.ErrNotAuthenticated, http.StatusUnauthorized, gin.H{"error": "not authenticated"}},
		{"store failure", errors.New("redis down"), http.StatusInternalServerError, gin.H{"error": "logout failed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got entity.Session
			mockUC := &mockAuthUsecase{
				LogoutFunc: func(ctx context.Context, s entity.Session) error {
					got = s
					return tt.logoutErr
				},
			}
			router := gin.New()
			router.POST("/logout", withSession(session), NewAuthHandler(mockUC).Logout)

			w, responseBody := postJSON(t, router, "/logout", gin.H{})

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, responseBody)
			assert.Equal(t, "jti-1", got.TokenID)
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	gin.SetMode(gin.TestMode)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns user details", func(t *testing.T) {
		mockUC := &mockAuthUsecase{
			MeFunc: func(ctx context.Context, s entity.Session) (*entity.User, error) {
				return &entity.User{ID: 3, Username: s.Username, Email: "alice@example.com", CreatedAt: created}, nil
			},
		}
		router := gin.New()
		router.GET("/me", withSession(entity.Session{Authenticated: true, Username: "alice"}), NewAuthHandler(mockUC).Me)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body gin.H
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "alice@example.com", body["email"])
		assert.Equal(t, float64(3), body["id"])
	})

	t.Run("anonymous request", func(t *testing.T) {
		router := gin.New()
		router.GET("/me", NewAuthHandler(&mockAuthUsecase{}).Me)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
