// internal/history/sink.go
package history

import (
	"context"
	"time"

	"sms-dispatcher/internal/common/logger"
	"sms-dispatcher/internal/dispatcher"
)

// DeliverySink records every dispatch attempt in the delivery log and, on
// success, in the sent-message cache. History failures are logged and
// dropped: the dispatch outcome is the backend's, not the log's.
type DeliverySink struct {
	store   *Store
	cache   *SentCache
	backend string
	logger  logger.Logger
}

func NewDeliverySink(store *Store, cache *SentCache, backend string, log logger.Logger) *DeliverySink {
	return &DeliverySink{
		store:   store,
		cache:   cache,
		backend: backend,
		logger:  log.WithFields(map[string]interface{}{"component": "history"}),
	}
}

func (s *DeliverySink) RecordDelivery(ctx context.Context, req dispatcher.SendRequest, res *dispatcher.DeliveryResult, sendErr error) {
	rec := &Record{
		Recipient: req.Recipient,
		Body:      req.Body,
		Backend:   s.backend,
		Kind:      string(req.Kind),
		CreatedAt: time.Now().UTC(),
	}

	if sendErr != nil {
		rec.Status = StatusFailed
		rec.Fault = sendErr.Error()
	} else {
		rec.Status = StatusSent
		rec.StatusCode = res.StatusCode
		rec.MessageID = res.MessageID
	}

	if s.store != nil {
		if err := s.store.LogAttempt(ctx, rec); err != nil {
			s.logger.Warn("delivery log write failed", map[string]interface{}{
				"recipient": req.Recipient,
				"error":     err,
			})
		}
	}

	if s.cache != nil && sendErr == nil && rec.MessageID != "" {
		if err := s.cache.Add(ctx, rec.MessageID, rec.CreatedAt); err != nil {
			s.logger.Warn("sent cache write failed", map[string]interface{}{
				"messageId": rec.MessageID,
				"error":     err,
			})
		}
	}
}
