package print

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Placeholders used when an item carries no option information, matching the
// receipt layout the kitchen staff expect.
const (
	noOption  = "No option"
	noComment = "No comment"
)

// ErrStationUnknown is reported when a job names a station with no configured
// printer address.
var ErrStationUnknown = errors.New("no printer configured for station")

// SpoolerConfig configures the print spooler.
type SpoolerConfig struct {
	// Stations maps station names to printer network addresses.
	Stations map[string]string
	// Timeout bounds connect plus transmit for a single job.
	Timeout time.Duration
	// MaxConcurrent limits the number of jobs printing at once.
	MaxConcurrent int
}

// Spooler executes print jobs on a bounded worker group. Each job runs on its
// own goroutine so a slow or unreachable printer never blocks the caller or
// the other jobs; failures are logged, not returned. In-flight jobs are
// drainable at shutdown via Drain.
type Spooler struct {
	client   Client
	stations map[string]string
	timeout  time.Duration
	lg       *zap.Logger
	now      func() time.Time

	g errgroup.Group
}

// NewSpooler creates a Spooler over the given printer client.
func NewSpooler(client Client, cfg SpoolerConfig, lg *zap.Logger) *Spooler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}

	s := &Spooler{
		client:   client,
		stations: cfg.Stations,
		timeout:  cfg.Timeout,
		lg:       lg,
		now:      time.Now,
	}
	s.g.SetLimit(cfg.MaxConcurrent)
	return s
}

// Enqueue schedules a job for printing and returns immediately. The job is
// not tied to the caller's request context: once accepted it runs to
// completion or to its own timeout. When every worker slot is occupied the
// job is dropped and logged instead of blocking the caller.
func (s *Spooler) Enqueue(job Job) {
	addr, ok := s.stations[job.Station]
	if !ok {
		s.lg.Error("print job skipped",
			zap.Error(ErrStationUnknown),
			zap.String("station", job.Station),
			zap.String("table", job.Table),
		)
		return
	}

	started := s.g.TryGo(func() error {
		if err := s.printOrder(addr, job); err != nil {
			s.lg.Error("print job failed",
				zap.Error(err),
				zap.String("station", job.Station),
				zap.String("addr", addr),
				zap.String("table", job.Table),
				zap.Int("items", len(job.Items)),
			)
			return nil
		}
		s.lg.Info("print job done",
			zap.String("station", job.Station),
			zap.String("table", job.Table),
			zap.Int("items", len(job.Items)),
		)
		return nil
	})
	if !started {
		s.lg.Error("print job dropped, all printer workers busy",
			zap.String("station", job.Station),
			zap.String("table", job.Table),
			zap.Int("items", len(job.Items)),
		)
	}
}

// EnqueueDeletion schedules a deletion notice naming the removed product on
// every configured station.
func (s *Spooler) EnqueueDeletion(productName string) {
	for station, addr := range s.stations {
		started := s.g.TryGo(func() error {
			if err := s.printDeletion(addr, productName); err != nil {
				s.lg.Error("deletion notice failed",
					zap.Error(err),
					zap.String("station", station),
					zap.String("addr", addr),
					zap.String("product", productName),
				)
			}
			return nil
		})
		if !started {
			s.lg.Error("deletion notice dropped, all printer workers busy",
				zap.String("station", station),
				zap.String("product", productName),
			)
		}
	}
}

// Drain blocks until every accepted job has finished. Call at shutdown.
func (s *Spooler) Drain() {
	_ = s.g.Wait()
}

func (s *Spooler) printOrder(addr string, job Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	rc, err := s.client.Open(ctx, addr)
	if err != nil {
		return errors.Wrap(err, "open printer")
	}
	defer rc.Close()

	rc.Style(AlignCenter, 2, true)
	rc.Text(fmt.Sprintf("Table: %s\n\n", job.Table))

	for _, item := range job.Items {
		options := item.OptionDetails
		if options == "" {
			options = noOption
		}
		comment := item.OptionText
		if comment == "" {
			comment = noComment
		}

		rc.Style(AlignRight, 2, true)
		rc.Text(item.ProductName + "\n")
		rc.Text("Options: " + options + "\n")
		rc.Text("Comment: " + comment + "\n\n")
	}

	rc.Style(AlignCenter, 1, false)
	rc.Text("Timestamp: " + s.now().Format("15:04:05"))

	return rc.Cut()
}

func (s *Spooler) printDeletion(addr, productName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	rc, err := s.client.Open(ctx, addr)
	if err != nil {
		return errors.Wrap(err, "open printer")
	}
	defer rc.Close()

	rc.Style(AlignCenter, 2, true)
	rc.Text(fmt.Sprintf("Order deleted: %s\n\n", productName))
	rc.Text("Timestamp: " + s.now().Format("15:04:05"))

	return rc.Cut()
}
