package panel

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"modelboard/internal/api"
)

// SnapshotAPI is the read-only slice of the client the poller uses.
type SnapshotAPI interface {
	ListModels(ctx context.Context) ([]api.Model, error)
	Metrics(ctx context.Context) ([]api.MetricEntry, error)
}

// Poller periodically pulls the model and metrics snapshots and delivers
// them on the UI goroutine. A failed fetch is logged and the previous
// snapshot stays on screen.
type Poller struct {
	api       SnapshotAPI
	log       zerolog.Logger
	interval  time.Duration
	update    func(func())
	onModels  func([]api.Model)
	onMetrics func([]api.MetricEntry)
	onError   func(error)

	ticker *time.Ticker
	stop   chan struct{}
}

// NewPoller wires a poller; Start must be called to begin polling. onError
// fires once per failed fetch, on the UI goroutine like the snapshot
// callbacks.
func NewPoller(a SnapshotAPI, interval time.Duration, log zerolog.Logger, update func(func()), onModels func([]api.Model), onMetrics func([]api.MetricEntry), onError func(error)) *Poller {
	return &Poller{
		api:       a,
		log:       log,
		interval:  interval,
		update:    update,
		onModels:  onModels,
		onMetrics: onMetrics,
		onError:   onError,
	}
}

// Start begins the poll loop and triggers an immediate refresh. Calling
// Start on a running poller restarts it.
func (p *Poller) Start() {
	p.Stop()
	p.stop = make(chan struct{})
	p.ticker = time.NewTicker(p.interval)
	stop := p.stop
	ticker := p.ticker
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				p.refresh()
			}
		}
	}()
	go p.refresh()
}

// Stop halts the poll loop. Safe to call when not running.
func (p *Poller) Stop() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

// Refresh pulls fresh snapshots immediately without waiting for the tick.
func (p *Poller) Refresh() {
	go p.refresh()
}

func (p *Poller) refresh() {
	ctx := context.Background()
	models, merr := p.api.ListModels(ctx)
	metrics, serr := p.api.Metrics(ctx)
	p.update(func() {
		if merr != nil {
			p.log.Error().Err(merr).Msg("list models failed")
			p.onError(merr)
		} else {
			p.onModels(models)
		}
		if serr != nil {
			p.log.Error().Err(serr).Msg("fetch metrics failed")
			p.onError(serr)
		} else {
			p.onMetrics(metrics)
		}
	})
}
