package models

import (
	"context"
	"strings"

	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/utils"
	"gorm.io/gorm"
)

// NamedResource is master data addressed by a unique name.
type NamedResource interface {
	GetId() int
	GetName() string
}

// first find in redis, then in db, cache result
// (may return RecordNotFound error)
func GetResource[T any](ctx context.Context, id int, associations ...string) (*T, error) {

	result, err := utils.RetrieveRedis[T](id)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result, err = utils.FetchSingleModel[T](ctx, id, associations...)
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedis[T](result, id); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// GetResourceByName looks a master data row up by name, through the
// Type:name:<name> cache. tx may be nil to use the shared connection.
func GetResourceByName[T NamedResource](ctx context.Context, tx *gorm.DB, name string) (*T, error) {
	logger := config.GetLogger()

	result, err := utils.RetrieveRedisByName[T](name)
	if err != nil {
		// cache is best effort for lookups
		config.LogError(logger, "generics.go", "GetResourceByName", "retrieve redis", name, err)
		result = nil
	}
	if result != nil {
		return result, nil
	}

	if tx == nil {
		tx = config.GetDB()
	}
	result, err = utils.FetchModelByName[T](ctx, tx, "name", name)
	if err != nil {
		return nil, err
	}
	if err := utils.StoreRedisByName[T](result, name); err != nil {
		config.LogError(logger, "generics.go", "GetResourceByName", "store redis", name, err)
	}
	return result, nil
}

// drop both cache keys of a named row, old name included when it was renamed
func clearResourceCache[T NamedResource](old *T, newName string) {
	if old == nil {
		return
	}
	if err := utils.RemoveRedisItemAndName[T]((*old).GetId(), (*old).GetName(), newName); err != nil {
		config.LogError(config.GetLogger(), "generics.go", "clearResourceCache", "remove redis", (*old).GetId(), err)
	}
}

// list rows whose name contains name, case-insensitively
func listByName[T any](ctx context.Context, name *string) ([]*T, error) {
	db := config.GetDB()
	var results []*T

	dbCtx := db.WithContext(ctx)
	if name != nil && len(strings.TrimSpace(*name)) > 0 {
		dbCtx = dbCtx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(*name))+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
