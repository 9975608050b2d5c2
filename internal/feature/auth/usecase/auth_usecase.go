package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"market_trends/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// dummyHash はユーザーが存在しない場合でもbcrypt比較を実行するためのハッシュです。
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じユーザー名が既に存在する場合、ErrUsernameAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername は指定されたユーザー名に一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
type JWTGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID uint, username string) (string, error)
}

// TokenStore は失効させたトークンIDを保持します。
type TokenStore interface {
	// Revoke はトークンIDを有効期限まで失効扱いにします。
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// RegisterInput は新規登録フォームの入力値です。
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users        UserRepository
	jwtGenerator JWTGenerator
	tokens       TokenStore
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, jwtGenerator JWTGenerator, tokens TokenStore) *authUsecase {
	return &authUsecase{
		users:        users,
		jwtGenerator: jwtGenerator,
		tokens:       tokens,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
// ユーザー名・メールアドレス・パスワードのいずれかが空の場合はErrMissingFields、
// 確認用パスワードが一致しない場合はErrPasswordMismatchを返します。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) error {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{Username: username, Email: email, Password: string(hashed)}
	return u.users.Create(ctx, user)
}

// Login はユーザーを認証し、成功時にJWTトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := u.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return "", ErrInvalidCredentials
	}

	token, tokenErr := u.jwtGenerator.GenerateToken(user.ID, user.Username)
	if tokenErr != nil {
		return "", fmt.Errorf("failed to generate token: %w", tokenErr)
	}
	return token, nil
}

// Logout はセッションのトークンを失効させます。
// 以降、同じトークンでのリクエストは未認証として扱われます。
func (u *authUsecase) Logout(ctx context.Context, session entity.Session) error {
	if !session.Authenticated || session.TokenID == "" {
		return ErrNotAuthenticated
	}
	if err := u.tokens.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Me はセッションのユーザー情報を返します。
func (u *authUsecase) Me(ctx context.Context, session entity.Session) (*entity.User, error) {
	if !session.Authenticated {
		return nil, ErrNotAuthenticated
	}
	return u.users.FindByUsername(ctx, session.Username)
}
