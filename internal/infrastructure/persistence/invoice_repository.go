package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mfg-erp/backend/internal/domain/billing"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new invoice repository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)

// FindByID finds an invoice with its items and payments
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("id = ? AND is_deleted = false", id).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByInvoiceNumber finds an invoice by its document number
func (r *GormInvoiceRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("invoice_number = ? AND is_deleted = false", invoiceNumber).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll returns a page of invoices with the total count
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	base := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("is_deleted = false")
	base = applySearch(base, filter.Search, "invoice_number", "customer_name")

	var total int64
	if err := applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var invoices []billing.Invoice
	query := applyFilter(base.Session(&gorm.Session{}), filter).
		Preload("Items").
		Preload("Payments")
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(invoices, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindByCustomer returns invoices for a customer
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("customer_id = ? AND is_deleted = false", customerID)
	query = applyFilter(query, filter)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByPaymentStatus returns invoices with the given payment status
func (r *GormInvoiceRepository) FindByPaymentStatus(ctx context.Context, status billing.PaymentStatus, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		Where("payment_status = ? AND is_deleted = false", status)
	query = applyFilter(query, filter)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// ExistsByInvoiceNumber checks whether an invoice number is already taken
func (r *GormInvoiceRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error
	return count > 0, err
}

// Save persists an invoice with its items and payments
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Payments").Save(invoice).Error; err != nil {
			return err
		}
		return replaceInvoiceChildren(tx, invoice)
	})
}

// SaveWithLock persists an invoice only if the stored version matches
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&billing.Invoice{}).
			Where("id = ? AND version = ?", invoice.ID, expectedVersion).
			Select("*").
			Omit("Items", "Payments").
			Updates(invoice)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return replaceInvoiceChildren(tx, invoice)
	})
}

// Delete soft-deletes an invoice
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

// replaceInvoiceChildren rewrites items and payments from the aggregate.
// Payments are append-only in the domain, rewriting them is still safe
// because the aggregate always carries the full list.
func replaceInvoiceChildren(tx *gorm.DB, invoice *billing.Invoice) error {
	if err := tx.Where("invoice_id = ?", invoice.ID).
		Delete(&billing.InvoiceItem{}).Error; err != nil {
		return err
	}
	if len(invoice.Items) > 0 {
		if err := tx.Create(&invoice.Items).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("invoice_id = ?", invoice.ID).
		Delete(&billing.Payment{}).Error; err != nil {
		return err
	}
	if len(invoice.Payments) > 0 {
		if err := tx.Create(&invoice.Payments).Error; err != nil {
			return err
		}
	}
	return nil
}
