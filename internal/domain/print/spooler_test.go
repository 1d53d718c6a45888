package print

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeClient records one receipt per opened session and can fail or stall
// individual addresses.
type fakeClient struct {
	mu       sync.Mutex
	receipts map[string][]*fakeReceipt

	failAddr  string
	blockAddr string
	unblock   chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		receipts: make(map[string][]*fakeReceipt),
		unblock:  make(chan struct{}),
	}
}

func (c *fakeClient) Open(ctx context.Context, addr string) (Receipt, error) {
	if addr == c.failAddr {
		return nil, errors.New("printer unreachable")
	}
	if addr == c.blockAddr {
		select {
		case <-c.unblock:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	rc := &fakeReceipt{}
	c.mu.Lock()
	c.receipts[addr] = append(c.receipts[addr], rc)
	c.mu.Unlock()
	return rc, nil
}

func (c *fakeClient) printed(addr string) []*fakeReceipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receipts[addr]
}

type fakeReceipt struct {
	sb     strings.Builder
	cut    bool
	closed bool
}

func (r *fakeReceipt) Style(Align, int, bool) {}
func (r *fakeReceipt) Text(s string)          { r.sb.WriteString(s) }
func (r *fakeReceipt) Cut() error             { r.cut = true; return nil }
func (r *fakeReceipt) Close() error           { r.closed = true; return nil }

func newTestSpooler(client Client, stations map[string]string) *Spooler {
	s := NewSpooler(client, SpoolerConfig{
		Stations:      stations,
		Timeout:       time.Second,
		MaxConcurrent: 4,
	}, zap.NewNop())
	s.now = func() time.Time { return time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC) }
	return s
}

func TestSpooler_PrintsFormattedReceipt(t *testing.T) {
	client := newFakeClient()
	s := newTestSpooler(client, map[string]string{"kitchen": "printer-a"})

	s.Enqueue(Job{
		Station: "kitchen",
		Table:   "5",
		Items: []Item{
			{ProductNumber: "1", ProductName: "Carbonara", OptionDetails: "Extra cheese", OptionText: "no pepper"},
			{ProductNumber: "2", ProductName: "Espresso"},
		},
	})
	s.Drain()

	printed := client.printed("printer-a")
	require.Len(t, printed, 1)
	rc := printed[0]

	out := rc.sb.String()
	assert.Contains(t, out, "Table: 5\n")
	assert.Contains(t, out, "Carbonara\n")
	assert.Contains(t, out, "Options: Extra cheese\n")
	assert.Contains(t, out, "Comment: no pepper\n")
	assert.Contains(t, out, "Options: No option\n")
	assert.Contains(t, out, "Comment: No comment\n")
	assert.Contains(t, out, "Timestamp: 18:30:00")
	assert.True(t, rc.cut, "receipt must end with a paper cut")
	assert.True(t, rc.closed)
}

func TestSpooler_FailureIsolation(t *testing.T) {
	client := newFakeClient()
	client.failAddr = "printer-a"
	s := newTestSpooler(client, map[string]string{
		"kitchen": "printer-a",
		"expo":    "printer-b",
	})

	s.Enqueue(Job{Station: "kitchen", Table: "5", Items: []Item{{ProductNumber: "1", ProductName: "Carbonara"}}})
	s.Enqueue(Job{Station: "expo", Table: "5", Items: []Item{{ProductNumber: "2", ProductName: "Espresso"}}})
	s.Drain()

	assert.Empty(t, client.printed("printer-a"))
	require.Len(t, client.printed("printer-b"), 1, "one printer failing must not block the other")
	assert.True(t, client.printed("printer-b")[0].cut)
}

func TestSpooler_SlowPrinterDoesNotBlockOthers(t *testing.T) {
	client := newFakeClient()
	client.blockAddr = "printer-a"
	s := newTestSpooler(client, map[string]string{
		"kitchen": "printer-a",
		"expo":    "printer-b",
	})

	s.Enqueue(Job{Station: "kitchen", Table: "5", Items: []Item{{ProductNumber: "1", ProductName: "Carbonara"}}})
	s.Enqueue(Job{Station: "expo", Table: "5", Items: []Item{{ProductNumber: "2", ProductName: "Espresso"}}})

	// The expo job must complete while the kitchen printer is still stalled.
	require.Eventually(t, func() bool {
		printed := client.printed("printer-b")
		return len(printed) == 1 && printed[0].cut
	}, time.Second, 5*time.Millisecond)

	close(client.unblock)
	s.Drain()
	require.Len(t, client.printed("printer-a"), 1)
}

func TestSpooler_SaturatedPoolDropsInsteadOfBlocking(t *testing.T) {
	client := newFakeClient()
	client.blockAddr = "printer-a"
	s := NewSpooler(client, SpoolerConfig{
		Stations: map[string]string{
			"kitchen": "printer-a",
			"expo":    "printer-b",
		},
		Timeout:       time.Second,
		MaxConcurrent: 1,
	}, zap.NewNop())

	// Occupy the only worker slot with a stalled job.
	s.Enqueue(Job{Station: "kitchen", Table: "5", Items: []Item{{ProductNumber: "1", ProductName: "Carbonara"}}})

	returned := make(chan struct{})
	go func() {
		s.Enqueue(Job{Station: "expo", Table: "6", Items: []Item{{ProductNumber: "2", ProductName: "Espresso"}}})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("enqueue blocked on a saturated worker pool")
	}

	close(client.unblock)
	s.Drain()

	assert.Empty(t, client.printed("printer-b"), "job over capacity is dropped, not queued")
	require.Len(t, client.printed("printer-a"), 1)
}

func TestSpooler_SaturatedPoolDropsDeletionNotice(t *testing.T) {
	client := newFakeClient()
	client.blockAddr = "printer-a"
	s := NewSpooler(client, SpoolerConfig{
		Stations:      map[string]string{"kitchen": "printer-a"},
		Timeout:       time.Second,
		MaxConcurrent: 1,
	}, zap.NewNop())

	s.Enqueue(Job{Station: "kitchen", Table: "5", Items: []Item{{ProductNumber: "1", ProductName: "Carbonara"}}})

	returned := make(chan struct{})
	go func() {
		s.EnqueueDeletion("Carbonara")
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("deletion notice blocked on a saturated worker pool")
	}

	close(client.unblock)
	s.Drain()
	require.Len(t, client.printed("printer-a"), 1, "only the original job prints")
}

func TestSpooler_UnknownStationSkipped(t *testing.T) {
	client := newFakeClient()
	s := newTestSpooler(client, map[string]string{"kitchen": "printer-a"})

	s.Enqueue(Job{Station: "patio", Table: "5", Items: []Item{{ProductNumber: "1"}}})
	s.Drain()

	assert.Empty(t, client.printed("printer-a"))
}

func TestSpooler_DeletionNoticeToAllStations(t *testing.T) {
	client := newFakeClient()
	s := newTestSpooler(client, map[string]string{
		"kitchen": "printer-a",
		"expo":    "printer-b",
	})

	s.EnqueueDeletion("Carbonara")
	s.Drain()

	for _, addr := range []string{"printer-a", "printer-b"} {
		printed := client.printed(addr)
		require.Len(t, printed, 1, addr)
		assert.Contains(t, printed[0].sb.String(), "Order deleted: Carbonara")
		assert.True(t, printed[0].cut)
	}
}
