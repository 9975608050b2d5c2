// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "time"

// RegisterReq はユーザー登録リクエストです。
type RegisterReq struct {
	Username        string `json:"username" binding:"required,max=64"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginReq はログインリクエストです。
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse はログイン成功時のレスポンスです。
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse はログイン中ユーザーの詳細です。
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse は汎用のメッセージレスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse はエラー時のレスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}
