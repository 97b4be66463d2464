package manufacturing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkOrder(t *testing.T) *WorkOrder {
	t.Helper()
	wo, err := NewWorkOrder("WO-2026-00001", uuid.New(), "Office Chair", "FG-CHAIR",
		uuid.New(), decimal.NewFromInt(100), "pcs")
	require.NoError(t, err)
	return wo
}

func startedWorkOrder(t *testing.T) *WorkOrder {
	t.Helper()
	wo := newWorkOrder(t)
	require.NoError(t, wo.Release())
	require.NoError(t, wo.Start())
	return wo
}

func TestNewWorkOrder(t *testing.T) {
	t.Run("creates draft order", func(t *testing.T) {
		wo := newWorkOrder(t)
		assert.Equal(t, WorkOrderStatusDraft, wo.Status)
		assert.Equal(t, WorkOrderPriorityNormal, wo.Priority)
		assert.True(t, wo.CompletedQuantity.IsZero())
	})

	t.Run("rejects zero planned quantity", func(t *testing.T) {
		_, err := NewWorkOrder("WO-1", uuid.New(), "Chair", "FG-01", uuid.New(), decimal.Zero, "pcs")
		assert.Error(t, err)
	})
}

func TestWorkOrder_Lifecycle(t *testing.T) {
	t.Run("plan release start complete", func(t *testing.T) {
		wo := newWorkOrder(t)

		require.NoError(t, wo.Plan())
		assert.Equal(t, WorkOrderStatusPlanned, wo.Status)

		require.NoError(t, wo.Release())
		assert.Equal(t, WorkOrderStatusReleased, wo.Status)

		require.NoError(t, wo.Start())
		assert.Equal(t, WorkOrderStatusInProgress, wo.Status)
		assert.NotNil(t, wo.ActualStartDate)
		assert.Nil(t, wo.ActualEndDate)

		require.NoError(t, wo.Complete(decimal.NewFromInt(95), decimal.NewFromInt(5)))
		assert.Equal(t, WorkOrderStatusCompleted, wo.Status)
		assert.NotNil(t, wo.ActualEndDate)
		assert.Equal(t, "95", wo.CompletedQuantity.String())
		assert.Equal(t, "5", wo.RejectedQuantity.String())
	})

	t.Run("release straight from draft", func(t *testing.T) {
		wo := newWorkOrder(t)
		require.NoError(t, wo.Release())
		assert.Equal(t, WorkOrderStatusReleased, wo.Status)
	})

	t.Run("cannot start unreleased order", func(t *testing.T) {
		wo := newWorkOrder(t)
		err := wo.Start()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DRAFT")
	})

	t.Run("cannot complete without output", func(t *testing.T) {
		wo := startedWorkOrder(t)
		assert.Error(t, wo.Complete(decimal.Zero, decimal.Zero))
	})
}

func TestWorkOrder_RecordProgress(t *testing.T) {
	wo := startedWorkOrder(t)

	require.NoError(t, wo.RecordProgress(decimal.NewFromInt(30), decimal.NewFromInt(2)))
	require.NoError(t, wo.RecordProgress(decimal.NewFromInt(20), decimal.Zero))
	assert.Equal(t, "50", wo.CompletedQuantity.String())
	assert.Equal(t, "2", wo.RejectedQuantity.String())

	assert.Error(t, wo.RecordProgress(decimal.Zero, decimal.Zero))

	draft := newWorkOrder(t)
	assert.Error(t, draft.RecordProgress(decimal.NewFromInt(1), decimal.Zero))
}

func TestWorkOrder_PendingQuantity(t *testing.T) {
	tests := []struct {
		name      string
		planned   string
		completed string
		rejected  string
		want      string
	}{
		{"untouched", "100", "0", "0", "100"},
		{"partial", "100", "60", "5", "35"},
		{"exact", "100", "95", "5", "0"},
		{"over-production goes negative", "100", "104", "2", "-6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wo := newWorkOrder(t)
			wo.PlannedQuantity = decimal.RequireFromString(tt.planned)
			wo.CompletedQuantity = decimal.RequireFromString(tt.completed)
			wo.RejectedQuantity = decimal.RequireFromString(tt.rejected)

			got := wo.PendingQuantity()
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "pending = %s", got)
		})
	}
}

func TestWorkOrder_CompletionPercentage(t *testing.T) {
	tests := []struct {
		name      string
		planned   string
		completed string
		want      string
	}{
		{"zero planned", "0", "0", "0"},
		{"half done", "100", "50", "50"},
		{"repeating fraction", "3", "1", "33.3333"},
		{"two thirds rounds half up", "3", "2", "66.6667"},
		{"over-production exceeds 100", "100", "110", "110"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wo := newWorkOrder(t)
			wo.PlannedQuantity = decimal.RequireFromString(tt.planned)
			wo.CompletedQuantity = decimal.RequireFromString(tt.completed)

			got := wo.CompletionPercentage()
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "pct = %s", got)
		})
	}
}

func TestWorkOrder_Cancel(t *testing.T) {
	t.Run("cancel in progress", func(t *testing.T) {
		wo := startedWorkOrder(t)
		require.NoError(t, wo.Cancel("machine breakdown"))
		assert.Equal(t, WorkOrderStatusCancelled, wo.Status)
		assert.Equal(t, "machine breakdown", wo.CancelReason)
	})

	t.Run("cannot cancel completed", func(t *testing.T) {
		wo := startedWorkOrder(t)
		require.NoError(t, wo.Complete(decimal.NewFromInt(100), decimal.Zero))

		err := wo.Cancel("too late")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "COMPLETED")
	})
}

func TestWorkOrder_UpdatePlan(t *testing.T) {
	t.Run("update in planned", func(t *testing.T) {
		wo := newWorkOrder(t)
		require.NoError(t, wo.Plan())

		start := time.Now()
		end := start.Add(72 * time.Hour)
		require.NoError(t, wo.UpdatePlan(decimal.NewFromInt(150), &start, &end))
		assert.Equal(t, "150", wo.PlannedQuantity.String())
	})

	t.Run("rejects end before start", func(t *testing.T) {
		wo := newWorkOrder(t)
		start := time.Now()
		end := start.Add(-time.Hour)
		assert.Error(t, wo.UpdatePlan(decimal.NewFromInt(10), &start, &end))
	})

	t.Run("frozen once released", func(t *testing.T) {
		wo := newWorkOrder(t)
		require.NoError(t, wo.Release())
		err := wo.UpdatePlan(decimal.NewFromInt(10), nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RELEASED")
	})
}

func TestWorkOrder_Delete(t *testing.T) {
	wo := newWorkOrder(t)
	require.NoError(t, wo.Delete())
	assert.True(t, wo.IsDeleted)

	released := newWorkOrder(t)
	require.NoError(t, released.Release())
	assert.Error(t, released.Delete())
}

func TestWorkOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    WorkOrderStatus
		to      WorkOrderStatus
		allowed bool
	}{
		{WorkOrderStatusDraft, WorkOrderStatusPlanned, true},
		{WorkOrderStatusDraft, WorkOrderStatusReleased, true},
		{WorkOrderStatusDraft, WorkOrderStatusInProgress, false},
		{WorkOrderStatusPlanned, WorkOrderStatusReleased, true},
		{WorkOrderStatusReleased, WorkOrderStatusInProgress, true},
		{WorkOrderStatusInProgress, WorkOrderStatusCompleted, true},
		{WorkOrderStatusInProgress, WorkOrderStatusCancelled, true},
		{WorkOrderStatusCompleted, WorkOrderStatusCancelled, false},
		{WorkOrderStatusCancelled, WorkOrderStatusReleased, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}
