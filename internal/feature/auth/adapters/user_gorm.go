// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"myshop_backend/internal/feature/auth/domain/entity"
	"myshop_backend/internal/feature/auth/usecase"
	shopentity "myshop_backend/internal/feature/shop/domain/entity"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// userGorm はUserRepositoryインターフェースのGORM実装です。
// PostgreSQLとSQLiteの両方で動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// 同じメールアドレスのユーザーが既に存在する場合、usecase.ErrEmailAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translate(err)
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateCredential はパスワードハッシュとソルトを置き換えます。
func (r *userGorm) UpdateCredential(ctx context.Context, id, hash, salt string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "password_salt": salt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// Bootstrap は最初の管理者とサンプルショップを1つのトランザクションで作成します。
// ユーザーが1人でも存在する場合、usecase.ErrAlreadySeededを返します。
func (r *userGorm) Bootstrap(ctx context.Context, u *entity.User, s *shopentity.Shop) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entity.User{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return usecase.ErrAlreadySeeded
		}
		if err := tx.Create(u).Error; err != nil {
			return translate(err)
		}
		return tx.Create(s).Error
	})
}

// translate maps unique violations to usecase.ErrEmailAlreadyExists.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return usecase.ErrEmailAlreadyExists
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return usecase.ErrEmailAlreadyExists
	}
	return err
}
