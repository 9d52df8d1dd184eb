package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dmlogistics/portal/internal/api/metrics"
	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// Dispatcher persists activity entries off the request path. Entries are
// sharded by tracking number so one shipment's entries keep their order.
type Dispatcher struct {
	workers []chan domain.ActivityEntry
	repo    ports.ActivityRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

var _ ports.ActivityRecorder = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.ActivityRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ActivityEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ActivityEntry, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain what is already queued and exit
// once ctx is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record queues entry without blocking. When the shard is full the entry is
// dropped and counted; the log is best-effort.
func (d *Dispatcher) Record(entry domain.ActivityEntry) {
	idx := d.shardIndex(entry.TrackingNumber)
	select {
	case d.workers[idx] <- entry:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityEntriesTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("action", entry.Action).
			Str("tracking_number", entry.TrackingNumber).
			Int("worker_id", idx).
			Msg("activity queue full, entry dropped")
	}
}

// shardIndex maps a tracking number deterministically to a worker index.
func (d *Dispatcher) shardIndex(trackingNumber string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(trackingNumber))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityEntry) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case entry := <-ch:
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.persist(context.Background(), id, entry)
		}
	}
}

// drain flushes entries queued before shutdown.
func (d *Dispatcher) drain(id int, ch <-chan domain.ActivityEntry) {
	for {
		select {
		case entry := <-ch:
			d.persist(context.Background(), id, entry)
		default:
			return
		}
	}
}

func (d *Dispatcher) persist(parent context.Context, id int, entry domain.ActivityEntry) {
	ctx, cancel := context.WithTimeout(parent, insertTimeout)
	defer cancel()

	if err := d.repo.Insert(ctx, entry); err != nil {
		metrics.ActivityEntriesTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("action", entry.Action).
			Str("tracking_number", entry.TrackingNumber).
			Int("worker_id", id).
			Msg("activity insert failed")
		return
	}
	metrics.ActivityEntriesTotal.WithLabelValues("stored").Inc()
}
