package numbering

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Document number prefixes
const (
	PrefixPurchaseOrder = "PO"
	PrefixSalesOrder    = "SO"
	PrefixWorkOrder     = "WO"
	PrefixInvoice       = "INV"
)

// SequenceSeeder recovers the last issued sequence from durable storage.
// It is consulted only when the Redis counter for a prefix/year is fresh,
// so numbers keep increasing after a cache flush.
type SequenceSeeder interface {
	LastSequence(ctx context.Context, prefix string, year int) (int64, error)
}

// Generator issues gapless-enough document numbers like PO-2026-00042.
// Sequences reset each calendar year per prefix.
type Generator struct {
	rdb    *redis.Client
	seeder SequenceSeeder
	log    *zap.Logger
}

// NewGenerator creates a document number generator
func NewGenerator(rdb *redis.Client, seeder SequenceSeeder, log *zap.Logger) *Generator {
	return &Generator{rdb: rdb, seeder: seeder, log: log}
}

// Next issues the next document number for the given prefix
func (g *Generator) Next(ctx context.Context, prefix string) (string, error) {
	year := time.Now().Year()
	key := counterKey(prefix, year)

	seq, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to increment document counter %s: %w", key, err)
	}

	// A fresh counter after a Redis flush would restart at 1 and collide
	// with numbers already issued, so reseed from storage.
	if seq == 1 && g.seeder != nil {
		last, err := g.seeder.LastSequence(ctx, prefix, year)
		if err != nil {
			return "", fmt.Errorf("failed to seed document counter %s: %w", key, err)
		}
		if last > 0 {
			seq, err = g.rdb.IncrBy(ctx, key, last).Result()
			if err != nil {
				return "", fmt.Errorf("failed to advance document counter %s: %w", key, err)
			}
			g.log.Info("reseeded document counter",
				zap.String("prefix", prefix),
				zap.Int("year", year),
				zap.Int64("last_sequence", last),
			)
		}
	}

	return Format(prefix, year, seq), nil
}

// Format renders a document number from its parts
func Format(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}

func counterKey(prefix string, year int) string {
	return fmt.Sprintf("docnum:%s:%d", strings.ToLower(prefix), year)
}
