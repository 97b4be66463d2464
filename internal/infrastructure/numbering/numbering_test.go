package numbering

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSeeder struct {
	last  int64
	calls int
}

func (s *stubSeeder) LastSequence(ctx context.Context, prefix string, year int) (int64, error) {
	s.calls++
	return s.last, nil
}

func newTestGenerator(t *testing.T, seeder SequenceSeeder) *Generator {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewGenerator(rdb, seeder, zap.NewNop())
}

func TestGenerator_Next(t *testing.T) {
	gen := newTestGenerator(t, nil)
	year := time.Now().Year()

	first, err := gen.Next(context.Background(), PrefixPurchaseOrder)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PO-%d-00001", year), first)

	second, err := gen.Next(context.Background(), PrefixPurchaseOrder)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PO-%d-00002", year), second)

	// prefixes count independently
	inv, err := gen.Next(context.Background(), PrefixInvoice)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-00001", year), inv)
}

func TestGenerator_ReseedsFreshCounter(t *testing.T) {
	seeder := &stubSeeder{last: 41}
	gen := newTestGenerator(t, seeder)
	year := time.Now().Year()

	got, err := gen.Next(context.Background(), PrefixWorkOrder)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("WO-%d-00042", year), got)
	assert.Equal(t, 1, seeder.calls)

	// warm counter skips the seeder
	got, err = gen.Next(context.Background(), PrefixWorkOrder)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("WO-%d-00043", year), got)
	assert.Equal(t, 1, seeder.calls)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "SO-2026-00007", Format(PrefixSalesOrder, 2026, 7))
	assert.Equal(t, "INV-2026-12345", Format(PrefixInvoice, 2026, 12345))
}
