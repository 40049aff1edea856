// internal/dispatcher/dispatcher.go
package dispatcher

import (
	"context"
	"time"

	"sms-dispatcher/internal/common/errors"
	"sms-dispatcher/internal/common/logger"
	"sms-dispatcher/internal/common/metrics"
	"sms-dispatcher/internal/common/observability"
)

// Backend is one SMS-capable messaging variant. Implementations hold a single
// long-lived client handle, constructed once and safe for concurrent use.
type Backend interface {
	Name() string
	Send(ctx context.Context, req SendRequest) (*DeliveryResult, error)
}

// Sink receives the outcome of every dispatch attempt. Sink failures must not
// affect the dispatch outcome; implementations log and move on.
type Sink interface {
	RecordDelivery(ctx context.Context, req SendRequest, res *DeliveryResult, sendErr error)
}

// Dispatcher sends one SMS per call through the configured backend and
// reports the outcome. No retry is performed internally; a send is a single
// best-effort attempt and retry policy belongs to the caller.
type Dispatcher struct {
	backend Backend
	logger  logger.Logger
	obs     *observability.Observability
	sink    Sink
}

type Option func(*Dispatcher)

// WithSink attaches a delivery history sink.
func WithSink(sink Sink) Option {
	return func(d *Dispatcher) { d.sink = sink }
}

// WithObservability attaches the otel meter.
func WithObservability(obs *observability.Observability) Option {
	return func(d *Dispatcher) { d.obs = obs }
}

func New(backend Backend, log logger.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		backend: backend,
		logger:  log.WithFields(map[string]interface{}{"backend": backend.Name()}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send dispatches one message and returns the backend-reported result.
// Blocks until the backend responds or the context expires.
func (d *Dispatcher) Send(ctx context.Context, req SendRequest) (*DeliveryResult, error) {
	backend := d.backend.Name()
	metrics.SMSSendsAttempted.WithLabelValues(backend).Inc()

	start := time.Now()
	res, err := d.backend.Send(ctx, req)
	elapsed := time.Since(start)

	metrics.SMSSendDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
	if d.obs != nil {
		d.obs.RecordDispatchDuration(ctx, backend, elapsed)
	}

	if d.sink != nil {
		d.sink.RecordDelivery(ctx, req, res, err)
	}

	if err != nil {
		metrics.SMSSendsFailed.WithLabelValues(backend, string(errors.GetCode(err))).Inc()
		if d.obs != nil {
			d.obs.RecordDispatch(ctx, backend, "failed")
		}
		d.logger.Error("SMS send failed", map[string]interface{}{
			"recipient": req.Recipient,
			"error":     err,
		})
		return nil, err
	}

	metrics.SMSSendsSucceeded.WithLabelValues(backend).Inc()
	if d.obs != nil {
		d.obs.RecordDispatch(ctx, backend, "sent")
	}
	d.logger.Info("SMS sent", map[string]interface{}{
		"recipient":  req.Recipient,
		"messageId":  res.MessageID,
		"statusCode": res.StatusCode,
	})
	return res, nil
}

// SendBatch dispatches each request independently and in order. A failure on
// one recipient does not prevent attempts on the rest; the caller gets one
// outcome per request and tracks failures from individual entries. There is
// no atomicity across the set.
func (d *Dispatcher) SendBatch(ctx context.Context, reqs []SendRequest) []Outcome {
	outcomes := make([]Outcome, 0, len(reqs))
	for _, req := range reqs {
		res, err := d.Send(ctx, req)
		outcomes = append(outcomes, Outcome{Request: req, Result: res, Err: err})
	}
	return outcomes
}
