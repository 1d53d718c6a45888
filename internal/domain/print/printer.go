// Package print routes order items to printer stations and dispatches
// formatted receipt jobs to them.
package print

import "context"

// Align selects horizontal text alignment on a receipt.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Receipt is a single open print session on a physical printer. Style and
// Text buffer output; Cut flushes the buffer and terminates the receipt with
// a paper cut. Close releases the underlying connection and must always be
// called.
type Receipt interface {
	// Style sets alignment, character scale (1 or 2) and emphasis for
	// subsequent Text calls.
	Style(align Align, scale int, emphasized bool)
	Text(s string)
	Cut() error
	Close() error
}

// Client opens print sessions against a printer address. Implementations own
// the wire protocol; the router and spooler only emit styled lines.
type Client interface {
	Open(ctx context.Context, addr string) (Receipt, error)
}
