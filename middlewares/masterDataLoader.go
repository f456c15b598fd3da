package middlewares

import (
	"context"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/mmdatafocus/ricemill_backend/models"
	"gorm.io/gorm"
)

// masterReader batches id lookups of one master-data table.
type masterReader[T models.Data] struct {
	db *gorm.DB
}

func (r *masterReader[T]) getMany(ctx context.Context, ids []int) []*dataloader.Result[*T] {
	var results []T
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*T](len(ids), err)
	}
	return generateLoaderResults(results, ids)
}

func newMasterLoader[T models.Data](conn *gorm.DB) *dataloader.Loader[int, *T] {
	reader := &masterReader[T]{db: conn}
	return dataloader.NewBatchedLoader(reader.getMany, dataloader.WithWait[int, *T](time.Millisecond))
}
