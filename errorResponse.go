package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/ricemill_backend/models"
	"github.com/mmdatafocus/ricemill_backend/utils"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var bagErr *models.BagDetailNotFoundError
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound),
		errors.Is(err, models.ErrTransactionNotFound),
		errors.As(err, &bagErr):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrorLockNotObtained):
		return http.StatusConflict
	case models.IsClientError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": msg}. Server errors are attached to the gin
// context so customErrorLogger picks them up.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindError answers a request body or query that failed binding.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
