package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/mmdatafocus/ricemill_backend/models"
	"gorm.io/gorm"
)

type stockMovementReader struct {
	db *gorm.DB
}

func (r *stockMovementReader) getStockMovements(ctx context.Context, transactionIds []int) []*dataloader.Result[[]*models.StockMovement] {
	var results []models.StockMovement
	err := r.db.WithContext(ctx).Where("transaction_id IN ?", transactionIds).Order("id").Find(&results).Error
	if err != nil {
		return handleError[[]*models.StockMovement](len(transactionIds), err)
	}
	return generateLoaderArrayResults(results, transactionIds)
}

func GetStockMovements(ctx context.Context, transactionId int) ([]*models.StockMovement, error) {
	return For(ctx).stockMovementLoader.Load(ctx, transactionId)()
}
