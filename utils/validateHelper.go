package utils

import (
	"context"
	"reflect"
	"strings"

	"github.com/mmdatafocus/ricemill_backend/config"
)

// names are unique per master data table, case-insensitively
func ValidateUnique[T any](ctx context.Context, column string, value interface{}, exceptId interface{}) error {
	var count int64
	var err error
	if str, ok := value.(string); ok {
		value = strings.TrimSpace(str)
	}
	if reflect.ValueOf(exceptId).IsZero() {
		count, err = ResourceCountWhere[T](ctx, "LOWER("+column+") = LOWER(?)", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, "LOWER("+column+") = LOWER(?) AND NOT id = ?", value, exceptId)
	}

	if err != nil {
		return err
	}
	if count > 0 {
		return &DuplicateValueError{Column: column}
	}
	return nil
}

func ResourceCountWhere[T any](ctx context.Context, condition string, value ...interface{}) (int64, error) {
	var model T

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&model).Where(condition, value...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
