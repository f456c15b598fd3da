package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/ricemill_backend/models"
)

// masterDataRoutes binds the CRUD operations of one master-data entity.
type masterDataRoutes[In any, Out any] struct {
	create func(context.Context, *In) (*Out, error)
	update func(context.Context, int, *In) (*Out, error)
	get    func(context.Context, int) (*Out, error)
	byName func(context.Context, string) (*Out, error)
	list   func(context.Context, *string) ([]*Out, error)
}

type nameQuery struct {
	Name *string `form:"name"`
}

func (m masterDataRoutes[In, Out]) register(group *gin.RouterGroup, path string) {
	group.POST(path, m.createHandler())
	group.GET(path, m.listHandler())
	group.GET(path+"/:id", m.getHandler())
	group.GET(path+"/by-name/:name", m.byNameHandler())
	group.PUT(path+"/:id", m.updateHandler())
}

func (m masterDataRoutes[In, Out]) createHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input In
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := m.create(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func (m masterDataRoutes[In, Out]) updateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input In
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		result, err := m.update(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (m masterDataRoutes[In, Out]) getHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		result, err := m.get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (m masterDataRoutes[In, Out]) byNameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.Param("name"))
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		result, err := m.byName(c.Request.Context(), name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (m masterDataRoutes[In, Out]) listHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var query nameQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			bindError(c, err)
			return
		}
		results, err := m.list(c.Request.Context(), query.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func registerMasterDataRoutes(api *gin.RouterGroup) {
	masterDataRoutes[models.NewParty, models.Party]{
		create: models.CreateParty, update: models.UpdateParty, get: models.GetParty, byName: models.GetPartyByName,
		list: models.ListParty,
	}.register(api, "/parties")
	masterDataRoutes[models.NewBroker, models.Broker]{
		create: models.CreateBroker, update: models.UpdateBroker, get: models.GetBroker, byName: models.GetBrokerByName,
		list: models.ListBroker,
	}.register(api, "/brokers")
	masterDataRoutes[models.NewTransporter, models.Transporter]{
		create: models.CreateTransporter, update: models.UpdateTransporter, get: models.GetTransporter, byName: models.GetTransporterByName,
		list: models.ListTransporter,
	}.register(api, "/transporters")
	masterDataRoutes[models.NewWeightBridgeOperator, models.WeightBridgeOperator]{
		create: models.CreateWeightBridgeOperator, update: models.UpdateWeightBridgeOperator,
		get: models.GetWeightBridgeOperator, byName: models.GetWeightBridgeOperatorByName,
		list: models.ListWeightBridgeOperator,
	}.register(api, "/operators")
	masterDataRoutes[models.NewGodown, models.Godown]{
		create: models.CreateGodown, update: models.UpdateGodown, get: models.GetGodown, byName: models.GetGodownByName,
		list: models.ListGodown,
	}.register(api, "/godowns")
	masterDataRoutes[models.NewStockItem, models.StockItem]{
		create: models.CreateStockItem, update: models.UpdateStockItem, get: models.GetStockItem, byName: models.GetStockItemByName,
		list: models.ListStockItem,
	}.register(api, "/stock-items")
	masterDataRoutes[models.NewPackaging, models.Packaging]{
		create: models.CreatePackaging, update: models.UpdatePackaging, get: models.GetPackaging, byName: models.GetPackagingByName,
		list: models.ListPackaging,
	}.register(api, "/packagings")
}
