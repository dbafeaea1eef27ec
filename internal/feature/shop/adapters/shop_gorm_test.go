package adapters

import (
	"context"
	"errors"
	"testing"

	"myshop_backend/internal/feature/shop/domain/entity"
	"myshop_backend/internal/feature/shop/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	// every pooled connection to :memory: would be a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&entity.Shop{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func newShop(id string, updatedAt int64) *entity.Shop {
	s := entity.NewSampleShop(id, updatedAt)
	s.NameEn = "Shop " + id
	return s
}

func TestShopGorm_CreateAndFind(t *testing.T) {
	repo := NewShopGorm(setupTestDB(t))
	ctx := context.Background()

	s := newShop("abc123", 100)
	require.NoError(t, repo.Create(ctx, s))

	found, err := repo.FindByID(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, s, found)
	assert.Equal(t, int64(100), found.CreatedAt, "timestamps are stored as given")
	assert.Nil(t, found.ProfileImageID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrShopNotFound)
}

func TestShopGorm_CreateDuplicate(t *testing.T) {
	repo := NewShopGorm(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newShop("dup", 1)))
	assert.ErrorIs(t, repo.Create(ctx, newShop("dup", 2)), gorm.ErrDuplicatedKey)
}

func TestShopGorm_List(t *testing.T) {
	repo := NewShopGorm(setupTestDB(t))
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, repo.Create(ctx, newShop("old", 10)))
	require.NoError(t, repo.Create(ctx, newShop("new", 30)))
	require.NoError(t, repo.Create(ctx, newShop("mid", 20)))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, entity.Summary{ID: "new", NameLo: "ຮ້ານຕົວຢ່າງ", NameEn: "Shop new", UpdatedAt: 30}, list[0])
}

func TestShopGorm_Modify(t *testing.T) {
	t.Run("persists the change", func(t *testing.T) {
		repo := NewShopGorm(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, repo.Create(ctx, newShop("s1", 10)))

		updated, err := repo.Modify(ctx, "s1", func(s *entity.Shop) error {
			s.BioEn = "changed"
			img := "img-1"
			s.CoverImageID = &img
			s.UpdatedAt = 50
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "changed", updated.BioEn)

		found, err := repo.FindByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "changed", found.BioEn)
		require.NotNil(t, found.CoverImageID)
		assert.Equal(t, "img-1", *found.CoverImageID)
		assert.Equal(t, int64(50), found.UpdatedAt)
		assert.Equal(t, int64(10), found.CreatedAt)
	})

	t.Run("not found", func(t *testing.T) {
		repo := NewShopGorm(setupTestDB(t))

		_, err := repo.Modify(context.Background(), "nope", func(*entity.Shop) error {
			t.Error("fn must not run")
			return nil
		})
		assert.ErrorIs(t, err, usecase.ErrShopNotFound)
	})

	t.Run("fn error rolls back", func(t *testing.T) {
		repo := NewShopGorm(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, repo.Create(ctx, newShop("s1", 10)))

		boom := errors.New("boom")
		_, err := repo.Modify(ctx, "s1", func(s *entity.Shop) error {
			s.NameEn = "never saved"
			return boom
		})
		assert.ErrorIs(t, err, boom)

		found, err := repo.FindByID(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "Shop s1", found.NameEn)
	})
}
