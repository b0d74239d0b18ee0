package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fkhayef/splitledger/internal/split"
)

// ErrDispatcherClosed is returned by Close when it is called twice
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Sink delivers split events to one destination
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event split.Event) error
}

// DeliveryObserver is told the outcome of every sink delivery
type DeliveryObserver interface {
	Delivered(sink string, err error)
}

// Dispatcher fans split events out to sinks in the background.
// Publish never blocks the lifecycle operation that produced the event.
type Dispatcher struct {
	sinks    []Sink
	logger   *slog.Logger
	observer DeliveryObserver
	timeout  time.Duration
	sem      chan struct{}

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithDeliveryObserver reports delivery outcomes, typically to metrics
func WithDeliveryObserver(o DeliveryObserver) DispatcherOption {
	return func(d *Dispatcher) { d.observer = o }
}

// WithDeliveryTimeout bounds each sink delivery
func WithDeliveryTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.timeout = timeout }
}

// WithConcurrency caps the number of in-flight deliveries
func WithConcurrency(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.sem = make(chan struct{}, n)
		}
	}
}

// NewDispatcher creates a dispatcher over the given sinks
func NewDispatcher(logger *slog.Logger, sinks []Sink, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		sinks:   sinks,
		logger:  logger,
		timeout: 5 * time.Second,
		sem:     make(chan struct{}, 16),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Publish hands the event to every sink asynchronously.
// Events published after Close are dropped.
func (d *Dispatcher) Publish(ctx context.Context, event split.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.WarnContext(ctx, "dropping split event after shutdown", "split_id", event.SplitID, "action", event.Action)
		return
	}

	for _, sink := range d.sinks {
		d.wg.Add(1)
		go d.deliver(context.WithoutCancel(ctx), sink, event)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, sink Sink, event split.Event) {
	defer d.wg.Done()

	d.sem <- struct{}{}
	defer func() { <-d.sem }()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := sink.Deliver(ctx, event)
	if d.observer != nil {
		d.observer.Delivered(sink.Name(), err)
	}
	if err != nil {
		d.logger.ErrorContext(ctx, "split event delivery failed",
			"sink", sink.Name(),
			"split_id", event.SplitID,
			"action", event.Action,
			"error", err,
		)
	}
}

// Close stops accepting events and waits for in-flight deliveries
// until ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
