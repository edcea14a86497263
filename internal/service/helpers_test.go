package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/cakeshop/internal/model"
	"github.com/d60-Lab/cakeshop/internal/repository"
	"github.com/d60-Lab/cakeshop/pkg/database"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: 每个连接各自一库，收紧到单连接
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func setupCartRepo(t *testing.T) repository.CartRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return repository.NewCartRepository(rdb, time.Hour)
}

func seedProduct(t *testing.T, db *gorm.DB, name, category string, price float64, stock int, variants ...model.ProductVariant) *model.Product {
	t.Helper()
	p := &model.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  category,
		Price:     price,
		Stock:     stock,
		Available: true,
	}
	for i := range variants {
		variants[i].ID = uuid.New().String()
		variants[i].ProductID = p.ID
	}
	p.Variants = variants
	require.NoError(t, db.Create(p).Error)
	return p
}
