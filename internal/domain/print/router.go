package print

import (
	"context"

	"github.com/go-faster/errors"
)

// BindingLookup resolves the printer station bound to a product. It returns
// an empty station when the product has no binding.
type BindingLookup interface {
	Station(ctx context.Context, productNumber string) (string, error)
}

// Router partitions order items into per-station print jobs.
type Router struct {
	bindings       BindingLookup
	defaultStation string
}

// NewRouter creates a Router. Items whose product has no device binding are
// routed to defaultStation.
func NewRouter(bindings BindingLookup, defaultStation string) *Router {
	return &Router{
		bindings:       bindings,
		defaultStation: defaultStation,
	}
}

// Partition splits items into one Job per destination station, preserving the
// input order of items within each job. Items without a product number cannot
// be routed; they are excluded from every job and returned separately. An
// empty partition produces no job. Jobs are returned in order of first
// appearance of their station.
func (r *Router) Partition(ctx context.Context, table string, items []Item) (jobs []Job, dropped []Item, err error) {
	byStation := make(map[string]int, 2)

	for _, item := range items {
		if item.ProductNumber == "" {
			dropped = append(dropped, item)
			continue
		}

		station, err := r.bindings.Station(ctx, item.ProductNumber)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "lookup binding for product %s", item.ProductNumber)
		}
		if station == "" {
			station = r.defaultStation
		}

		idx, ok := byStation[station]
		if !ok {
			idx = len(jobs)
			byStation[station] = idx
			jobs = append(jobs, Job{Station: station, Table: table})
		}
		jobs[idx].Items = append(jobs[idx].Items, item)
	}

	return jobs, dropped, nil
}
