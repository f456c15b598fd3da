package utils

import (
	"context"
	"errors"
	"strings"

	"github.com/mmdatafocus/ricemill_backend/config"
	"gorm.io/gorm"
)

/* DB fetching */

// fetch model from db
// (may return RecordNotFound)
func FetchSingleModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrorRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}

// fetch one row by a case-insensitive column match
func FetchModelByName[T any](ctx context.Context, tx *gorm.DB, column string, name string) (*T, error) {
	var result T
	err := tx.WithContext(ctx).Where("LOWER("+column+") = LOWER(?)", strings.TrimSpace(name)).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrorRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}
