package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/ricemill_backend/middlewares"
	"github.com/mmdatafocus/ricemill_backend/models"
	"github.com/mmdatafocus/ricemill_backend/models/reports"
)

func registerTransactionRoutes(api *gin.RouterGroup) {
	api.POST("/transactions", createTransactionHandler())
	api.GET("/transactions", listTransactionsHandler())
	api.GET("/transactions/:id", getTransactionHandler())
	api.PUT("/transactions/:id", updateTransactionHandler())
	api.GET("/transactions/:id/stock-movements", transactionStockMovementsHandler())
	api.POST("/transactions/:id/return-bags", returnBagsHandler())
	api.GET("/stock-summary", stockSummaryHandler())
	api.GET("/stock-ledger", stockLedgerHandler())
}

func createTransactionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewTransaction
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		ctx := c.Request.Context()
		transaction, err := models.CreateTransaction(ctx, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := middlewares.RenderTransactions(ctx, transaction); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, transaction)
	}
}

func updateTransactionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.NewTransaction
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		ctx := c.Request.Context()
		transaction, err := models.UpdateTransaction(ctx, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := middlewares.RenderTransactions(ctx, transaction); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, transaction)
	}
}

func getTransactionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		transaction, err := models.GetTransaction(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := middlewares.RenderTransactions(ctx, transaction); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, transaction)
	}
}

func listTransactionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.TransactionFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			bindError(c, err)
			return
		}
		ctx := c.Request.Context()
		transactions, err := models.ListTransactions(ctx, &filter)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := middlewares.RenderTransactions(ctx, transactions...); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, transactions)
	}
}

func transactionStockMovementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		movements, err := middlewares.GetStockMovements(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if movements == nil {
			movements = []*models.StockMovement{}
		}
		c.JSON(http.StatusOK, movements)
	}
}

type returnBagsRequest struct {
	Returns []models.NewBagReturn `json:"returns" binding:"required,min=1,dive"`
}

func returnBagsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input returnBagsRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			bindError(c, err)
			return
		}
		details, err := models.ReturnBags(c.Request.Context(), id, input.Returns)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"bag_details": details})
	}
}

func stockSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter reports.StockSummaryFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			bindError(c, err)
			return
		}
		summary, err := reports.GetStockSummary(c.Request.Context(), &filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func stockLedgerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ledgers, err := models.ListStockLedger(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ledgers)
	}
}
