package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("VALIDATION", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrBusinessRule        = NewDomainError("BUSINESS_RULE", "Business rule violation")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// NewNotFoundError reports a missing resource by field, e.g. "Supplier not found with id: ..."
func NewNotFoundError(resource, field string, value any) *DomainError {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found with %s: %v", resource, field, value))
}

// NewDuplicateError reports a unique code/number collision
func NewDuplicateError(resource, field string, value any) *DomainError {
	return NewDomainError("ALREADY_EXISTS", fmt.Sprintf("%s already exists with %s: %v", resource, field, value))
}

// InsufficientStockError carries the shortfall details so callers can surface
// the item and quantities involved.
type InsufficientStockError struct {
	ItemName  string
	ItemCode  string
	Requested decimal.Decimal
	Available decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): requested %s, available %s",
		e.ItemName, e.ItemCode, e.Requested.String(), e.Available.String())
}

// DomainError converts the stock error to the common taxonomy
func (e *InsufficientStockError) DomainError() *DomainError {
	return NewDomainError("INSUFFICIENT_STOCK", e.Error())
}

// NewInsufficientStockError creates a stock shortfall error
func NewInsufficientStockError(itemName, itemCode string, requested, available decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		ItemName:  itemName,
		ItemCode:  itemCode,
		Requested: requested,
		Available: available,
	}
}
