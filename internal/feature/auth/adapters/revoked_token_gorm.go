package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"market_trends/internal/feature/auth/usecase"
)

// RevokedToken は失効済みトークンIDのテーブルモデルです。
// Redisが設定されていない環境でのトークン失効に使います。
type RevokedToken struct {
	TokenID   string    `gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"index"`
}

// TableName はGORMが使用するテーブル名を返します。
func (RevokedToken) TableName() string { return "revoked_tokens" }

// revokedTokenGorm はトークン失効ストアのGORM実装です。
type revokedTokenGorm struct {
	db  *gorm.DB
	now func() time.Time
}

var _ usecase.TokenStore = (*revokedTokenGorm)(nil)

// NewRevokedTokenGorm はrevokedTokenGormの新しいインスタンスを生成します。
func NewRevokedTokenGorm(db *gorm.DB) *revokedTokenGorm {
	return &revokedTokenGorm{db: db, now: time.Now}
}

// Revoke はトークンIDを失効テーブルに記録します。
// 既に記録済みの場合は何もしません。期限切れの行はこのタイミングで掃除します。
func (r *revokedTokenGorm) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("expires_at < ?", r.now()).Delete(&RevokedToken{}).Error; err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&RevokedToken{TokenID: tokenID, ExpiresAt: expiresAt}).Error
}

// IsRevoked はトークンIDが失効済みかどうかを返します。
func (r *revokedTokenGorm) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&RevokedToken{}).
		Where("token_id = ? AND expires_at >= ?", tokenID, r.now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
