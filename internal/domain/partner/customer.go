package partner

import (
	"strings"
	"time"

	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE"
)

// Customer represents a customer in the partner context
// It is the aggregate root for customer-related operations
type Customer struct {
	shared.BaseAggregateRoot
	Code            string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Status          CustomerStatus  `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	ContactName     string          `gorm:"type:varchar(100)"`
	Phone           string          `gorm:"type:varchar(50)"`
	Email           string          `gorm:"type:varchar(200)"`
	BillingAddress  string          `gorm:"type:text"`
	ShippingAddress string          `gorm:"type:text"`
	City            string          `gorm:"type:varchar(100)"`
	State           string          `gorm:"type:varchar(100)"`
	Pincode         string          `gorm:"type:varchar(10)"`
	GSTNumber       string          `gorm:"type:varchar(20)"`
	CreditDays      int             `gorm:"not null;default:0"`
	CreditLimit     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(code, name string) (*Customer, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION", "Customer code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION", "Customer name cannot be empty")
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            CustomerStatusActive,
		CreditLimit:       decimal.Zero,
	}, nil
}

// Update updates the customer's basic information
func (c *Customer) Update(name, contactName, phone, email string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION", "Customer name cannot be empty")
	}
	c.Name = name
	c.ContactName = contactName
	c.Phone = phone
	c.Email = email
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetCreditTerms sets the credit days and limit
func (c *Customer) SetCreditTerms(days int, limit decimal.Decimal) error {
	if days < 0 {
		return shared.NewDomainError("VALIDATION", "Credit days cannot be negative")
	}
	if limit.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Credit limit cannot be negative")
	}
	c.CreditDays = days
	c.CreditLimit = limit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// IsActive returns true if the customer can be used on new orders
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}
