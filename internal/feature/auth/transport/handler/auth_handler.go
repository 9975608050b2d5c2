// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"market_trends/internal/feature/auth/domain/entity"
	"market_trends/internal/feature/auth/transport/http/dto"
	"market_trends/internal/feature/auth/usecase"
	jwtmw "market_trends/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) error
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, session entity.Session) error
	Me(ctx context.Context, session entity.Session) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - 入力不備・確認用パスワード不一致・短すぎるパスワードは400
// - ユーザー名重複は409
// - 成功時は201
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrUsernameAlreadyExists):
		slog.Warn("register failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "username already exists"})
		return
	case errors.Is(err, usecase.ErrMissingFields),
		errors.Is(err, usecase.ErrPasswordMismatch),
		errors.Is(err, usecase.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	default:
		slog.Error("register failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "registration failed"})
		return
	}

	slog.Info("user registered", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "ok"})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗の理由はユーザー列挙攻撃を防止するため公開しません。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid username or password"})
		return
	}
	slog.Info("user login successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Logout は現在のトークンを失効させます。
func (h *AuthHandler) Logout(c *gin.Context) {
	session := jwtmw.SessionFromContext(c)
	if err := h.auth.Logout(c.Request.Context(), session); err != nil {
		if errors.Is(err, usecase.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "not authenticated"})
			return
		}
		slog.Error("logout failed", "error", err, "username", session.Username)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "logout failed"})
		return
	}
	slog.Info("user logout", "username", session.Username)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

// Me はログイン中ユーザーの詳細を返します。
func (h *AuthHandler) Me(c *gin.Context) {
	session := jwtmw.SessionFromContext(c)
	user, err := h.auth.Me(c.Request.Context(), session)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotAuthenticated), errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "not authenticated"})
		default:
			slog.Error("failed to load user", "error", err, "username", session.Username)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}
