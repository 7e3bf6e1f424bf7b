package sequence

import (
	"context"
	"fmt"
	"time"
)

// Counter hands out the next value for a day key, starting at 1. Two
// concurrent calls for the same day must never return the same value.
type Counter interface {
	Next(ctx context.Context, day string) (int64, error)
}

// Generator produces day-scoped order numbers such as ORD2608220042.
// The sequence resets at local midnight because the day key is derived
// from the local date.
type Generator struct {
	counter Counter
	now     func() time.Time
}

func NewGenerator(counter Counter) *Generator {
	return &Generator{counter: counter, now: time.Now}
}

func (g *Generator) Next(ctx context.Context) (string, error) {
	day := g.now().Format("060102")
	seq, err := g.counter.Next(ctx, day)
	if err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}
	return fmt.Sprintf("ORD%s%04d", day, seq), nil
}
