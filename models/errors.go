package models

import (
	"errors"
	"fmt"

	"github.com/mmdatafocus/ricemill_backend/utils"
)

var (
	ErrBagsAlreadyReturned = errors.New("bags for this packaging have already been returned")
	ErrInsufficientStock   = errors.New("insufficient stock in godown")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// ReferenceNotFoundError is returned when an input names master data that
// does not exist. It is a client error.
type ReferenceNotFoundError struct {
	Kind string
	Name string
	Id   int
}

func (e *ReferenceNotFoundError) Error() string {
	switch e.Kind {
	case "party", "broker", "transportor", "weight bridge operator":
		return fmt.Sprintf("The person doesn't exist in the %s list.", e.Kind)
	case "stock item":
		return fmt.Sprintf("Stock item '%s' does not exist.", e.Name)
	case "godown":
		if e.Name == "" {
			return fmt.Sprintf("Godown with ID %d does not exist.", e.Id)
		}
		return fmt.Sprintf("Godown '%s' does not exist.", e.Name)
	case "packaging":
		return fmt.Sprintf("Packaging '%s' does not exist.", e.Name)
	}
	return fmt.Sprintf("%s '%s' does not exist.", e.Kind, e.Name)
}

// BagDetailNotFoundError means the transaction has no bag record for a packaging.
type BagDetailNotFoundError struct {
	PackagingName string
}

func (e *BagDetailNotFoundError) Error() string {
	return fmt.Sprintf("No bag record found for packaging '%s' in this transaction.", e.PackagingName)
}

// InsufficientStockError carries the balance a sale would have left.
type InsufficientStockError struct {
	GodownId    int
	StockItemId int
	Bags        int
	Weight      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: godown %d stock item %d would drop to %d bags / %s quintal",
		ErrInsufficientStock.Error(), e.GodownId, e.StockItemId, e.Bags, e.Weight)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// StockUpdateError wraps a database failure while reversing or reapplying
// ledger movements. It is a server error.
type StockUpdateError struct {
	Err error
}

func (e *StockUpdateError) Error() string {
	return "stock update failed: " + e.Err.Error()
}

func (e *StockUpdateError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err should be answered with a 400.
func IsClientError(err error) bool {
	var refErr *ReferenceNotFoundError
	var inputErr *InputError
	var dupErr *utils.DuplicateValueError
	switch {
	case errors.As(err, &refErr), errors.As(err, &inputErr), errors.As(err, &dupErr):
		return true
	case errors.Is(err, ErrBagsAlreadyReturned), errors.Is(err, ErrInsufficientStock):
		return true
	}
	return false
}

// InputError is a plain validation failure on request data.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func newInputError(format string, args ...any) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}
