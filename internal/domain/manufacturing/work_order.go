package manufacturing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mfg-erp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WorkOrderStatus represents the status of a work order
type WorkOrderStatus string

const (
	WorkOrderStatusDraft      WorkOrderStatus = "DRAFT"
	WorkOrderStatusPlanned    WorkOrderStatus = "PLANNED"
	WorkOrderStatusReleased   WorkOrderStatus = "RELEASED"
	WorkOrderStatusInProgress WorkOrderStatus = "IN_PROGRESS"
	WorkOrderStatusCompleted  WorkOrderStatus = "COMPLETED"
	WorkOrderStatusCancelled  WorkOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid WorkOrderStatus
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusDraft, WorkOrderStatusPlanned, WorkOrderStatusReleased,
		WorkOrderStatusInProgress, WorkOrderStatusCompleted, WorkOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of WorkOrderStatus
func (s WorkOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s WorkOrderStatus) CanTransitionTo(target WorkOrderStatus) bool {
	if target == WorkOrderStatusCancelled {
		return s != WorkOrderStatusCompleted && s != WorkOrderStatusCancelled
	}
	switch s {
	case WorkOrderStatusDraft:
		return target == WorkOrderStatusPlanned || target == WorkOrderStatusReleased
	case WorkOrderStatusPlanned:
		return target == WorkOrderStatusReleased
	case WorkOrderStatusReleased:
		return target == WorkOrderStatusInProgress
	case WorkOrderStatusInProgress:
		return target == WorkOrderStatusCompleted
	case WorkOrderStatusCompleted, WorkOrderStatusCancelled:
		return false
	}
	return false
}

// WorkOrderPriority orders the production queue
type WorkOrderPriority string

const (
	WorkOrderPriorityLow    WorkOrderPriority = "LOW"
	WorkOrderPriorityNormal WorkOrderPriority = "NORMAL"
	WorkOrderPriorityHigh   WorkOrderPriority = "HIGH"
	WorkOrderPriorityUrgent WorkOrderPriority = "URGENT"
)

// IsValid checks if the priority is a known WorkOrderPriority
func (p WorkOrderPriority) IsValid() bool {
	switch p {
	case WorkOrderPriorityLow, WorkOrderPriorityNormal, WorkOrderPriorityHigh, WorkOrderPriorityUrgent:
		return true
	}
	return false
}

// WorkOrder is the aggregate root for a production run of a finished good
// against a BOM.
type WorkOrder struct {
	shared.BaseAggregateRoot
	WorkOrderNumber   string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	FinishedGoodID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductName       string            `gorm:"type:varchar(200);not null"`
	ProductCode       string            `gorm:"type:varchar(50);not null"`
	BomID             uuid.UUID         `gorm:"type:uuid;not null;index"`
	WarehouseID       *uuid.UUID        `gorm:"type:uuid;index"`
	SalesOrderID      *uuid.UUID        `gorm:"type:uuid;index"`
	PlannedQuantity   decimal.Decimal   `gorm:"type:decimal(15,3);not null"`
	CompletedQuantity decimal.Decimal   `gorm:"type:decimal(15,3);not null;default:0"`
	RejectedQuantity  decimal.Decimal   `gorm:"type:decimal(15,3);not null;default:0"`
	Unit              string            `gorm:"type:varchar(10);not null"`
	Priority          WorkOrderPriority `gorm:"type:varchar(10);not null;default:'NORMAL'"`
	Status            WorkOrderStatus   `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	PlannedStartDate  *time.Time        ``
	PlannedEndDate    *time.Time        ``
	ActualStartDate   *time.Time        ``
	ActualEndDate     *time.Time        ``
	Notes             string            `gorm:"type:varchar(1000)"`
	CancelledAt       *time.Time        ``
	CancelReason      string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (WorkOrder) TableName() string {
	return "work_orders"
}

// NewWorkOrder creates a new work order in DRAFT status
func NewWorkOrder(workOrderNumber string, finishedGoodID uuid.UUID, productName, productCode string,
	bomID uuid.UUID, plannedQuantity decimal.Decimal, unit string) (*WorkOrder, error) {

	if workOrderNumber == "" {
		return nil, shared.NewDomainError("VALIDATION", "Work order number cannot be empty")
	}
	if finishedGoodID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "Finished good ID cannot be empty")
	}
	if bomID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION", "BOM ID cannot be empty")
	}
	if plannedQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION", "Planned quantity must be positive")
	}

	return &WorkOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WorkOrderNumber:   workOrderNumber,
		FinishedGoodID:    finishedGoodID,
		ProductName:       productName,
		ProductCode:       productCode,
		BomID:             bomID,
		PlannedQuantity:   plannedQuantity,
		CompletedQuantity: decimal.Zero,
		RejectedQuantity:  decimal.Zero,
		Unit:              unit,
		Priority:          WorkOrderPriorityNormal,
		Status:            WorkOrderStatusDraft,
	}, nil
}

// CanModify returns true while the header can still be edited
func (w *WorkOrder) CanModify() bool {
	return w.Status == WorkOrderStatusDraft || w.Status == WorkOrderStatusPlanned
}

// UpdatePlan updates the planned quantity and schedule.
// Only allowed in DRAFT or PLANNED status.
func (w *WorkOrder) UpdatePlan(plannedQuantity decimal.Decimal, plannedStart, plannedEnd *time.Time) error {
	if !w.CanModify() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot update work order in %s status", w.Status))
	}
	if plannedQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION", "Planned quantity must be positive")
	}
	if plannedStart != nil && plannedEnd != nil && plannedEnd.Before(*plannedStart) {
		return shared.NewDomainError("VALIDATION", "Planned end date cannot be before planned start date")
	}

	w.PlannedQuantity = plannedQuantity
	w.PlannedStartDate = plannedStart
	w.PlannedEndDate = plannedEnd
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// SetPriority sets the production priority.
// Only allowed in DRAFT or PLANNED status.
func (w *WorkOrder) SetPriority(priority WorkOrderPriority) error {
	if !w.CanModify() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot update work order in %s status", w.Status))
	}
	if !priority.IsValid() {
		return shared.NewDomainError("VALIDATION", fmt.Sprintf("Unknown priority: %s", priority))
	}
	w.Priority = priority
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// SetWarehouse sets the warehouse receiving the produced goods.
// Only allowed before completion.
func (w *WorkOrder) SetWarehouse(warehouseID uuid.UUID) error {
	if w.Status == WorkOrderStatusCompleted || w.Status == WorkOrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot set warehouse for work order in %s status", w.Status))
	}
	if warehouseID == uuid.Nil {
		return shared.NewDomainError("VALIDATION", "Warehouse ID cannot be empty")
	}
	w.WarehouseID = &warehouseID
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// LinkSalesOrder ties the production run to the sales order demanding it
func (w *WorkOrder) LinkSalesOrder(salesOrderID uuid.UUID) error {
	if salesOrderID == uuid.Nil {
		return shared.NewDomainError("VALIDATION", "Sales order ID cannot be empty")
	}
	w.SalesOrderID = &salesOrderID
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// Plan moves the order from DRAFT to PLANNED
func (w *WorkOrder) Plan() error {
	if !w.Status.CanTransitionTo(WorkOrderStatusPlanned) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot plan work order in %s status", w.Status))
	}
	w.Status = WorkOrderStatusPlanned
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// Release frees the order for the shop floor, DRAFT or PLANNED to RELEASED
func (w *WorkOrder) Release() error {
	if !w.Status.CanTransitionTo(WorkOrderStatusReleased) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot release work order in %s status", w.Status))
	}
	w.Status = WorkOrderStatusReleased
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// Start begins production, stamping the actual start date
func (w *WorkOrder) Start() error {
	if !w.Status.CanTransitionTo(WorkOrderStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot start work order in %s status", w.Status))
	}
	now := time.Now()
	w.Status = WorkOrderStatusInProgress
	w.ActualStartDate = &now
	w.UpdatedAt = now
	w.IncrementVersion()
	return nil
}

// RecordProgress accumulates completed and rejected quantities while the
// order runs
func (w *WorkOrder) RecordProgress(completedQuantity, rejectedQuantity decimal.Decimal) error {
	if w.Status != WorkOrderStatusInProgress {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot record progress on work order in %s status", w.Status))
	}
	if completedQuantity.IsNegative() || rejectedQuantity.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Progress quantities cannot be negative")
	}
	if completedQuantity.IsZero() && rejectedQuantity.IsZero() {
		return shared.NewDomainError("VALIDATION", "Progress must report a completed or rejected quantity")
	}

	w.CompletedQuantity = w.CompletedQuantity.Add(completedQuantity)
	w.RejectedQuantity = w.RejectedQuantity.Add(rejectedQuantity)
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// Complete finishes the run with the final quantities, stamping the actual
// end date. Final quantities overwrite accumulated progress.
func (w *WorkOrder) Complete(completedQuantity, rejectedQuantity decimal.Decimal) error {
	if !w.Status.CanTransitionTo(WorkOrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot complete work order in %s status", w.Status))
	}
	if completedQuantity.IsNegative() || rejectedQuantity.IsNegative() {
		return shared.NewDomainError("VALIDATION", "Completion quantities cannot be negative")
	}
	if completedQuantity.IsZero() && rejectedQuantity.IsZero() {
		return shared.NewDomainError("BUSINESS_RULE", "Cannot complete work order with no output")
	}

	now := time.Now()
	w.CompletedQuantity = completedQuantity
	w.RejectedQuantity = rejectedQuantity
	w.Status = WorkOrderStatusCompleted
	w.ActualEndDate = &now
	w.UpdatedAt = now
	w.IncrementVersion()
	return nil
}

// Cancel cancels the work order.
// Allowed in every status except COMPLETED and CANCELLED.
func (w *WorkOrder) Cancel(reason string) error {
	if !w.Status.CanTransitionTo(WorkOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel work order in %s status", w.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION", "Cancel reason is required")
	}

	now := time.Now()
	w.Status = WorkOrderStatusCancelled
	w.CancelledAt = &now
	w.CancelReason = reason
	w.UpdatedAt = now
	w.IncrementVersion()
	return nil
}

// Delete soft-deletes the work order. Only allowed in DRAFT or PLANNED status.
func (w *WorkOrder) Delete() error {
	if !w.CanModify() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot delete work order in %s status", w.Status))
	}
	w.MarkDeleted()
	w.IncrementVersion()
	return nil
}

// PendingQuantity returns planned minus completed minus rejected. It goes
// negative when output exceeds the plan and is deliberately not clamped.
func (w *WorkOrder) PendingQuantity() decimal.Decimal {
	return w.PlannedQuantity.Sub(w.CompletedQuantity).Sub(w.RejectedQuantity)
}

// CompletionPercentage returns completed/planned as a percentage rounded to
// four decimal places, zero when nothing was planned.
func (w *WorkOrder) CompletionPercentage() decimal.Decimal {
	if w.PlannedQuantity.IsZero() {
		return decimal.Zero
	}
	return w.CompletedQuantity.Div(w.PlannedQuantity).Mul(hundred).Round(4)
}

// IsCompleted returns true if production has finished
func (w *WorkOrder) IsCompleted() bool {
	return w.Status == WorkOrderStatusCompleted
}

// IsCancelled returns true if the work order is cancelled
func (w *WorkOrder) IsCancelled() bool {
	return w.Status == WorkOrderStatusCancelled
}
