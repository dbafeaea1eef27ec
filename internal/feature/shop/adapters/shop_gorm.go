// Package adapters はshopフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"myshop_backend/internal/feature/shop/domain/entity"
	"myshop_backend/internal/feature/shop/usecase"
)

// shopGorm はShopRepositoryインターフェースのGORM実装です。
type shopGorm struct {
	db *gorm.DB
}

// shopGormがShopRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ShopRepository = (*shopGorm)(nil)

// NewShopGorm は指定されたgorm.DB接続でshopGormの新しいインスタンスを生成します。
func NewShopGorm(db *gorm.DB) *shopGorm {
	return &shopGorm{db: db}
}

// Create inserts a new shop row.
func (r *shopGorm) Create(ctx context.Context, s *entity.Shop) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindByID はIDでショップを取得します。
// 存在しない場合、usecase.ErrShopNotFoundを返します。
func (r *shopGorm) FindByID(ctx context.Context, id string) (*entity.Shop, error) {
	var s entity.Shop
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrShopNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns every shop, most recently updated first.
func (r *shopGorm) List(ctx context.Context) ([]entity.Summary, error) {
	out := []entity.Summary{}
	err := r.db.WithContext(ctx).
		Model(&entity.Shop{}).
		Select("id", "name_lo", "name_en", "updated_at").
		Order("updated_at DESC").
		Order("id").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Modify locks the row, lets fn change it and saves it in one transaction.
func (r *shopGorm) Modify(ctx context.Context, id string, fn func(*entity.Shop) error) (*entity.Shop, error) {
	var out entity.Shop
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s entity.Shop
		// SELECT ... FOR UPDATE（SQLiteでは無視される）
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&s).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.ErrShopNotFound
		}
		if err != nil {
			return err
		}

		if err := fn(&s); err != nil {
			return err
		}
		if err := tx.Save(&s).Error; err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
