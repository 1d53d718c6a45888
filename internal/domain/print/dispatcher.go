package print

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Dispatcher ties the router to the spooler: it partitions a table's items by
// station and enqueues one job per non-empty partition.
type Dispatcher struct {
	router  *Router
	spooler *Spooler
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(router *Router, spooler *Spooler) *Dispatcher {
	return &Dispatcher{router: router, spooler: spooler}
}

// Dispatch partitions items for table and schedules the resulting jobs.
// It returns the items that could not be routed (missing product number).
// An error is returned only when the binding lookup itself fails; enqueued
// jobs report their outcome through the spooler's logs.
func (d *Dispatcher) Dispatch(ctx context.Context, table string, items []Item) ([]Item, error) {
	jobs, dropped, err := d.router.Partition(ctx, table, items)
	if err != nil {
		return nil, err
	}

	if len(dropped) > 0 {
		zctx.From(ctx).Warn("items without product number excluded from print",
			zap.String("table", table),
			zap.Int("count", len(dropped)),
		)
	}

	for _, job := range jobs {
		d.spooler.Enqueue(job)
	}
	return dropped, nil
}

// DispatchDeletion schedules a deletion notice for productName on every
// configured station.
func (d *Dispatcher) DispatchDeletion(productName string) {
	d.spooler.EnqueueDeletion(productName)
}
