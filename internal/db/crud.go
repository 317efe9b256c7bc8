package db

import (
	"context"

	"gorm.io/gorm"
)

// getByID loads one row of T with the given preloads
func getByID[T any](ctx context.Context, resource string, id uint, preloads ...string) (*T, error) {
	var row T
	q := DB.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&row, id).Error; err != nil {
		return nil, translate(err, resource, id, "get "+resource)
	}
	return &row, nil
}

// deleteByID soft-deletes (or deletes) one row of T
func deleteByID[T any](ctx context.Context, resource string, id uint) error {
	var row T
	res := DB.WithContext(ctx).Delete(&row, id)
	if res.Error != nil {
		return translate(res.Error, resource, id, "delete "+resource)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, resource, id, "delete "+resource)
	}
	return nil
}

// exists reports whether a row of T with id is present
func exists[T any](ctx context.Context, id uint) (bool, error) {
	return existsTx[T](DB.WithContext(ctx), id)
}
