package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfg-erp/backend/internal/domain/partner"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// CreateSupplierCommand carries the fields for supplier creation
type CreateSupplierCommand struct {
	Code         string
	Name         string
	ContactName  string
	Phone        string
	Email        string
	Address      string
	City         string
	State        string
	Pincode      string
	GSTNumber    string
	PaymentTerms string
}

// CreateCustomerCommand carries the fields for customer creation
type CreateCustomerCommand struct {
	Code            string
	Name            string
	ContactName     string
	Phone           string
	Email           string
	BillingAddress  string
	ShippingAddress string
	City            string
	State           string
	Pincode         string
	GSTNumber       string
	CreditDays      int
	CreditLimit     decimal.Decimal
}

// CreateWarehouseCommand carries the fields for warehouse creation
type CreateWarehouseCommand struct {
	Code    string
	Name    string
	Type    partner.WarehouseType
	Address string
	City    string
}

// Service manages suppliers, customers and warehouses
type Service struct {
	suppliers  partner.SupplierRepository
	customers  partner.CustomerRepository
	warehouses partner.WarehouseRepository
	log        *zap.Logger
}

// NewService creates a partner application service
func NewService(suppliers partner.SupplierRepository, customers partner.CustomerRepository,
	warehouses partner.WarehouseRepository, log *zap.Logger) *Service {
	return &Service{suppliers: suppliers, customers: customers, warehouses: warehouses, log: log}
}

// CreateSupplier registers a new supplier with a unique code
func (s *Service) CreateSupplier(ctx context.Context, cmd CreateSupplierCommand, userID uuid.UUID) (*partner.Supplier, error) {
	exists, err := s.suppliers.ExistsByCode(ctx, cmd.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("Supplier", "code", cmd.Code)
	}

	supplier, err := partner.NewSupplier(cmd.Code, cmd.Name)
	if err != nil {
		return nil, err
	}
	supplier.ContactName = cmd.ContactName
	supplier.Phone = cmd.Phone
	supplier.Email = cmd.Email
	supplier.Address = cmd.Address
	supplier.City = cmd.City
	supplier.State = cmd.State
	supplier.Pincode = cmd.Pincode
	supplier.GSTNumber = cmd.GSTNumber
	supplier.PaymentTerms = cmd.PaymentTerms
	supplier.SetCreatedBy(userID)

	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.log.Info("supplier created", zap.String("code", supplier.Code))
	return supplier, nil
}

// GetSupplier returns a supplier by ID
func (s *Service) GetSupplier(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	return s.suppliers.FindByID(ctx, id)
}

// ListSuppliers returns suppliers matching the filter
func (s *Service) ListSuppliers(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	return s.suppliers.FindAll(ctx, filter)
}

// UpdateSupplier updates supplier contact details
func (s *Service) UpdateSupplier(ctx context.Context, id uuid.UUID, name, contactName, phone, email string) (*partner.Supplier, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(name, contactName, phone, email); err != nil {
		return nil, err
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeactivateSupplier marks a supplier inactive
func (s *Service) DeactivateSupplier(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	supplier.Deactivate()
	return s.suppliers.Save(ctx, supplier)
}

// DeleteSupplier soft-deletes a supplier
func (s *Service) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.suppliers.FindByID(ctx, id); err != nil {
		return err
	}
	return s.suppliers.Delete(ctx, id)
}

// CreateCustomer registers a new customer with a unique code
func (s *Service) CreateCustomer(ctx context.Context, cmd CreateCustomerCommand, userID uuid.UUID) (*partner.Customer, error) {
	exists, err := s.customers.ExistsByCode(ctx, cmd.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("Customer", "code", cmd.Code)
	}

	customer, err := partner.NewCustomer(cmd.Code, cmd.Name)
	if err != nil {
		return nil, err
	}
	customer.ContactName = cmd.ContactName
	customer.Phone = cmd.Phone
	customer.Email = cmd.Email
	customer.BillingAddress = cmd.BillingAddress
	customer.ShippingAddress = cmd.ShippingAddress
	customer.City = cmd.City
	customer.State = cmd.State
	customer.Pincode = cmd.Pincode
	customer.GSTNumber = cmd.GSTNumber
	customer.CreditDays = cmd.CreditDays
	if !cmd.CreditLimit.IsZero() {
		customer.CreditLimit = cmd.CreditLimit
	}
	customer.SetCreatedBy(userID)

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.log.Info("customer created", zap.String("code", customer.Code))
	return customer, nil
}

// GetCustomer returns a customer by ID
func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// ListCustomers returns customers matching the filter
func (s *Service) ListCustomers(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	return s.customers.FindAll(ctx, filter)
}

// UpdateCustomer updates customer contact details
func (s *Service) UpdateCustomer(ctx context.Context, id uuid.UUID, name, contactName, phone, email string) (*partner.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(name, contactName, phone, email); err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer soft-deletes a customer
func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		return err
	}
	return s.customers.Delete(ctx, id)
}

// CreateWarehouse registers a new warehouse with a unique code
func (s *Service) CreateWarehouse(ctx context.Context, cmd CreateWarehouseCommand, userID uuid.UUID) (*partner.Warehouse, error) {
	exists, err := s.warehouses.ExistsByCode(ctx, cmd.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("Warehouse", "code", cmd.Code)
	}

	warehouse, err := partner.NewWarehouse(cmd.Code, cmd.Name, cmd.Type)
	if err != nil {
		return nil, err
	}
	warehouse.Address = cmd.Address
	warehouse.City = cmd.City
	warehouse.SetCreatedBy(userID)

	if err := s.warehouses.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	s.log.Info("warehouse created", zap.String("code", warehouse.Code))
	return warehouse, nil
}

// GetWarehouse returns a warehouse by ID
func (s *Service) GetWarehouse(ctx context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	return s.warehouses.FindByID(ctx, id)
}

// ListWarehouses returns warehouses matching the filter
func (s *Service) ListWarehouses(ctx context.Context, filter shared.Filter) ([]partner.Warehouse, error) {
	return s.warehouses.FindAll(ctx, filter)
}

// DeleteWarehouse soft-deletes a warehouse
func (s *Service) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	if _, err := s.warehouses.FindByID(ctx, id); err != nil {
		return err
	}
	return s.warehouses.Delete(ctx, id)
}
