package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/activeplay/booking-service/internal/config"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	// Event processing timeouts
	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	// Health check configuration
	healthCheckStaleThreshold = 5 * time.Minute

	// Batch processing limits
	maxEventsPerBatch = 100
)

// errBadPayload marks an event that can never be published.
var errBadPayload = errors.New("invalid event payload")

// Relay listens for PostgreSQL NOTIFY signals on the outbox_channel
// and publishes session events to RabbitMQ.
type Relay struct {
	db        *sql.DB
	publisher ports.SessionEventPublisher
	listener  *pq.Listener
	dbURL     string
	dbCB      *gobreaker.CircuitBreaker
	log       logrus.FieldLogger

	mu            sync.RWMutex
	lastProcessed time.Time
	isHealthy     bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.SessionEventPublisher, log logrus.FieldLogger) *Relay {
	return &Relay{
		db:            db,
		dbURL:         dbURL,
		publisher:     publisher,
		dbCB:          config.NewCircuitBreaker(config.BreakerRelay),
		log:           log,
		lastProcessed: time.Now(),
		isHealthy:     true,
	}
}

// IsHealthy reports whether the listener loop is alive. An open breaker is
// degraded but recoverable, so liveness ignores it.
func (r *Relay) IsHealthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isHealthy
}

// IsReady reports whether the relay can process events.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.isHealthy
}

func (r *Relay) markProcessed() {
	r.mu.Lock()
	r.lastProcessed = time.Now()
	r.isHealthy = true
	r.mu.Unlock()
}

func (r *Relay) markUnhealthy() {
	r.mu.Lock()
	r.isHealthy = false
	r.mu.Unlock()
}

// Start blocks, processing outbox notifications until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.log.WithError(err).Warn("outbox listener error")
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}

	r.log.WithField("channel", outboxChannelName).Info("listening for outbox notifications")

	// Catch up on events written while the relay was down.
	if err := r.processUnprocessedEvents(ctx); err != nil {
		r.log.WithError(err).Error("failed to process startup backlog")
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("outbox relay shutting down")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				r.log.Warn("received nil notification, listener reconnecting")
				r.markUnhealthy()
				continue
			}

			log := r.log.WithField("event_id", notification.Extra)
			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				log.WithError(err).Error("failed to process outbox event")
			} else {
				r.markProcessed()
			}

		case <-ticker.C:
			go r.listener.Ping()

			if err := r.processUnprocessedEvents(ctx); err != nil {
				r.log.WithError(err).Error("periodic outbox processing failed")
			} else {
				r.markProcessed()
			}
		}
	}
}

// dispatch publishes one outbox row. Unknown event types are skipped so the
// row is still marked processed.
func (r *Relay) dispatch(ctx context.Context, eventType string, payload []byte) error {
	switch eventType {
	case ports.EventSessionCancelled:
		var evt ports.SessionCancelledEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			return errors.Join(errBadPayload, err)
		}
		return r.publisher.PublishSessionCancelled(ctx, evt)
	default:
		r.log.WithField("event_type", eventType).Warn("skipping unknown outbox event type")
		return nil
	}
}

func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var id, eventType string
		var payload []byte
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&id, &eventType, &payload)

		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.dispatch(ctx, eventType, payload); err != nil {
			if !errors.Is(err, errBadPayload) {
				return nil, err
			}
			// Bad data is marked processed to avoid infinite retries.
			r.log.WithError(err).WithField("event_id", id).Error("dropping outbox event")
		}

		if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		type record struct {
			ID        string
			EventType string
			Payload   []byte
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				rows.Close()
				return nil, err
			}
			records = append(records, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			log := r.log.WithField("event_id", rec.ID)
			if err := r.dispatch(ctx, rec.EventType, rec.Payload); err != nil {
				if !errors.Is(err, errBadPayload) {
					log.WithError(err).Error("failed to publish outbox event")
					continue
				}
				log.WithError(err).Error("dropping outbox event")
			}

			if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, rec.ID); err != nil {
				return nil, err
			}
			log.Debug("processed outbox event")
		}

		return nil, tx.Commit()
	})
	return err
}
