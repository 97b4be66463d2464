package partner

import (
	"strings"
	"time"

	"github.com/mfg-erp/backend/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "ACTIVE"
	SupplierStatusInactive SupplierStatus = "INACTIVE"
)

// Supplier represents a raw-material supplier
// It is the aggregate root for supplier-related operations
type Supplier struct {
	shared.BaseAggregateRoot
	Code        string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string         `gorm:"type:varchar(200);not null"`
	Status      SupplierStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	ContactName string         `gorm:"type:varchar(100)"`
	Phone       string         `gorm:"type:varchar(50)"`
	Email       string         `gorm:"type:varchar(200)"`
	Address     string         `gorm:"type:text"`
	City        string         `gorm:"type:varchar(100)"`
	State       string         `gorm:"type:varchar(100)"`
	Pincode     string         `gorm:"type:varchar(10)"`
	GSTNumber   string         `gorm:"type:varchar(20)"`
	PaymentTerms string        `gorm:"type:varchar(100)"`
	Notes       string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier with required fields
func NewSupplier(code, name string) (*Supplier, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION", "Supplier code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION", "Supplier name cannot be empty")
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            SupplierStatusActive,
	}, nil
}

// Update updates the supplier's basic information
func (s *Supplier) Update(name, contactName, phone, email string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION", "Supplier name cannot be empty")
	}
	s.Name = name
	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate marks the supplier inactive
func (s *Supplier) Deactivate() {
	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsActive returns true if the supplier can be used on new orders
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}
