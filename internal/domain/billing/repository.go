package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence.
// Payments travel with the invoice aggregate and are saved through it.
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Invoice], error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	FindByPaymentStatus(ctx context.Context, status PaymentStatus, filter shared.Filter) ([]Invoice, error)
	ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error)
	Save(ctx context.Context, invoice *Invoice) error
	SaveWithLock(ctx context.Context, invoice *Invoice, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
}
