package middlewares

import (
	"context"
	"reflect"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/mmdatafocus/ricemill_backend/config"
	"github.com/mmdatafocus/ricemill_backend/models"
	"gorm.io/gorm"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

// Loaders wrap the per-request data loaders injected via middleware
type Loaders struct {
	partyLoader       *dataloader.Loader[int, *models.Party]
	brokerLoader      *dataloader.Loader[int, *models.Broker]
	transporterLoader *dataloader.Loader[int, *models.Transporter]
	operatorLoader    *dataloader.Loader[int, *models.WeightBridgeOperator]
	godownLoader      *dataloader.Loader[int, *models.Godown]
	stockItemLoader   *dataloader.Loader[int, *models.StockItem]
	packagingLoader   *dataloader.Loader[int, *models.Packaging]

	stockMovementLoader *dataloader.Loader[int, []*models.StockMovement]
}

// NewLoaders instantiates data loaders for the middleware
func NewLoaders(conn *gorm.DB) *Loaders {
	stockMovementReader := &stockMovementReader{db: conn}

	return &Loaders{
		partyLoader:       newMasterLoader[models.Party](conn),
		brokerLoader:      newMasterLoader[models.Broker](conn),
		transporterLoader: newMasterLoader[models.Transporter](conn),
		operatorLoader:    newMasterLoader[models.WeightBridgeOperator](conn),
		godownLoader:      newMasterLoader[models.Godown](conn),
		stockItemLoader:   newMasterLoader[models.StockItem](conn),
		packagingLoader:   newMasterLoader[models.Packaging](conn),

		stockMovementLoader: dataloader.NewBatchedLoader(stockMovementReader.getStockMovements, dataloader.WithWait[int, []*models.StockMovement](time.Millisecond)),
	}
}

func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders(config.GetDB())
		ctx := context.WithValue(c.Request.Context(), loadersKey, loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// For returns the loaders of the request, or a fresh set when the context
// did not pass through LoaderMiddleware.
func For(ctx context.Context) *Loaders {
	if loaders, ok := ctx.Value(loadersKey).(*Loaders); ok {
		return loaders
	}
	return NewLoaders(config.GetDB())
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}

// turns results from db into dataloader results
// (T must be a struct)
func generateLoaderResults[T models.Data](results []T, ids []int) []*dataloader.Result[*T] {
	resultMap := make(map[int]T)
	var resultZero T
	resultMap[0] = resultZero.GetDefault(0).(T)
	for _, result := range results {
		resultMap[result.GetId()] = result
	}

	loaderResults := make([]*dataloader.Result[*T], 0, len(ids))
	for _, id := range ids {
		data := resultMap[id]
		if reflect.ValueOf(data).IsZero() {
			data = data.GetDefault(id).(T)
		}
		loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: &data})
	}
	return loaderResults
}

// T must be struct
// each id has many related results
func generateLoaderArrayResults[T models.RelatedData](results []T, referenceIds []int) (loaderResults []*dataloader.Result[[]*T]) {
	resultMap := make(map[int][]*T)
	for _, result := range results {
		// new variable every turn, to avoid pointing to the address of result
		copy := result
		resultMap[result.GetReferenceId()] = append(resultMap[result.GetReferenceId()], &copy)
	}
	for _, id := range referenceIds {
		resultArray := resultMap[id]
		loaderResults = append(loaderResults, &dataloader.Result[[]*T]{Data: resultArray})
	}
	return loaderResults
}
