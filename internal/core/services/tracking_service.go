package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

const (
	defaultTickInterval = 10 * time.Second
	persistTimeout      = 5 * time.Second
	subscriberBuffer    = 8
)

// visit is a running tracking visit: its sequencer, the cancel func of its
// ticker goroutine and the stream subscribers. A visit stays in memory
// while a request holds it, a subscriber listens or its tick is pending.
type visit struct {
	seq    *Sequencer
	cancel context.CancelFunc
	refs   int // guarded by TrackingService.mu

	mu      sync.Mutex
	subs    map[chan domain.Tracking]struct{}
	ticking bool
	closed  bool
}

func (v *visit) broadcast(t domain.Tracking) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	for ch := range v.subs {
		select {
		case ch <- t:
		default:
			// slow subscriber; it will pick up the next update
		}
	}
}

func (v *visit) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	for ch := range v.subs {
		close(ch)
	}
	v.subs = nil
}

func (v *visit) idle() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs) == 0 && !v.ticking
}

type TrackingService struct {
	schedule  ports.ScheduleRepository
	roster    ports.DriverRoster
	store     ports.TrackingStore
	publisher ports.TrackingEventPublisher
	metrics   ports.Metrics
	interval  time.Duration
	log       logrus.FieldLogger
	otp       OTPGenerator
	now       func() time.Time

	startMu sync.Mutex
	mu      sync.Mutex
	visits  map[string]*visit
}

var _ ports.TrackingService = (*TrackingService)(nil)

func NewTrackingService(
	schedule ports.ScheduleRepository,
	roster ports.DriverRoster,
	store ports.TrackingStore,
	publisher ports.TrackingEventPublisher,
	metrics ports.Metrics,
	interval time.Duration,
	log logrus.FieldLogger,
) *TrackingService {
	if interval <= 0 {
		interval = defaultTickInterval
	}
	return &TrackingService{
		schedule:  schedule,
		roster:    roster,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		interval:  interval,
		log:       log,
		otp:       RandomOTP,
		now:       time.Now,
		visits:    make(map[string]*visit),
	}
}

// Start opens a tracking visit for an upcoming schedule item and assigns
// the next available driver. A visit that is still open for the item is
// returned instead of a new one.
func (s *TrackingService) Start(ctx context.Context, parentID, scheduleItemID string) (*domain.Tracking, error) {
	item, err := s.schedule.GetScheduleItem(ctx, parentID, scheduleItemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.SessionUpcoming {
		return nil, domain.ErrInvalidTransition
	}

	s.startMu.Lock()
	defer s.startMu.Unlock()

	existing, err := s.store.FindTrackingByItem(ctx, item.ID)
	switch {
	case err == nil && existing.Open():
		return s.Get(ctx, parentID, existing.ID)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("find tracking: %w", err)
	}

	driver, err := s.roster.NextAvailableDriver(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign driver: %w", err)
	}

	tracking := domain.NewTracking(uuid.NewString(), *item, *driver, s.now())
	if err := s.store.SaveTracking(ctx, tracking); err != nil {
		return nil, fmt.Errorf("save tracking: %w", err)
	}

	v := s.register(tracking)
	defer s.release(tracking.ID, v)
	s.publish(tracking)
	s.metrics.TrackingTransitioned(string(tracking.Status))

	s.log.WithFields(logrus.Fields{
		"tracking_id": tracking.ID,
		"item_id":     item.ID,
		"driver":      driver.Name,
	}).Info("tracking started")

	public := v.seq.Snapshot().Public()
	return &public, nil
}

func (s *TrackingService) Get(ctx context.Context, parentID, trackingID string) (*domain.Tracking, error) {
	v, err := s.load(ctx, trackingID, ownedBy(parentID))
	if err != nil {
		return nil, err
	}
	defer s.release(trackingID, v)
	public := v.seq.Snapshot().Public()
	return &public, nil
}

func (s *TrackingService) ConfirmPickup(ctx context.Context, parentID, trackingID, otp string) (*domain.Tracking, error) {
	v, err := s.load(ctx, trackingID, ownedBy(parentID))
	if err != nil {
		return nil, err
	}
	defer s.release(trackingID, v)
	changed, err := v.seq.ConfirmPickup(otp)
	if err != nil {
		return nil, err
	}
	if changed {
		s.transitioned(ctx, v)
	}
	public := v.seq.Snapshot().Public()
	return &public, nil
}

// Depart moves a boarded visit in transit. An empty driverID skips the
// assigned-driver check.
func (s *TrackingService) Depart(ctx context.Context, driverID, trackingID string) (*domain.Tracking, error) {
	v, err := s.load(ctx, trackingID, drivenBy(driverID))
	if err != nil {
		return nil, err
	}
	defer s.release(trackingID, v)
	if err := v.seq.Depart(); err != nil {
		return nil, err
	}
	s.transitioned(ctx, v)
	public := v.seq.Snapshot().Public()
	return &public, nil
}

// Complete finishes the visit and releases its stream subscribers.
func (s *TrackingService) Complete(ctx context.Context, driverID, trackingID string) (*domain.Tracking, error) {
	v, err := s.load(ctx, trackingID, drivenBy(driverID))
	if err != nil {
		return nil, err
	}
	defer s.release(trackingID, v)
	if err := v.seq.Complete(); err != nil {
		return nil, err
	}
	s.transitioned(ctx, v)
	s.Stop(trackingID)
	public := v.seq.Snapshot().Public()
	return &public, nil
}

// Subscribe streams the visit's public state, starting with the current
// one. The returned func unsubscribes; the last subscriber to leave stops
// the visit.
func (s *TrackingService) Subscribe(ctx context.Context, parentID, trackingID string) (<-chan domain.Tracking, func(), error) {
	v, err := s.load(ctx, trackingID, ownedBy(parentID))
	if err != nil {
		return nil, nil, err
	}
	defer s.release(trackingID, v)

	ch := make(chan domain.Tracking, subscriberBuffer)
	v.mu.Lock()
	ch <- v.seq.Snapshot().Public()
	if v.closed {
		v.mu.Unlock()
		close(ch)
		return ch, func() {}, nil
	}
	v.subs[ch] = struct{}{}
	v.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			v.mu.Lock()
			if v.closed {
				v.mu.Unlock()
				return
			}
			delete(v.subs, ch)
			close(ch)
			last := len(v.subs) == 0
			v.mu.Unlock()
			if last {
				s.Stop(trackingID)
			}
		})
	}
	return ch, unsubscribe, nil
}

// Stop cancels the visit's ticker and drops it from memory. The last saved
// snapshot stays in the tracking store.
func (s *TrackingService) Stop(trackingID string) {
	s.mu.Lock()
	v, ok := s.visits[trackingID]
	delete(s.visits, trackingID)
	s.mu.Unlock()
	if !ok {
		return
	}
	v.cancel()
	v.close()
}

// Shutdown stops every running visit.
func (s *TrackingService) Shutdown() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.visits))
	for id := range s.visits {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.Stop(id)
	}
}

// register puts t in memory, or returns the visit already there, holding
// one reference for the caller.
func (s *TrackingService) register(t domain.Tracking) *visit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.visits[t.ID]; ok {
		existing.refs++
		return existing
	}

	ctx, cancel := context.WithCancel(context.Background())
	v := &visit{
		seq:     NewSequencer(t, s.otp, s.now),
		cancel:  cancel,
		refs:    1,
		subs:    make(map[chan domain.Tracking]struct{}),
		ticking: t.Status == domain.TrackingApproaching,
	}
	s.visits[t.ID] = v
	if v.ticking {
		go s.tick(ctx, t.ID, v)
	}
	return v
}

// load returns the visit with a reference held, restoring it from the
// tracking store when it is not in memory. Visits the caller may not see
// are reported as not found and never brought into memory.
func (s *TrackingService) load(ctx context.Context, trackingID string, allowed func(domain.Tracking) bool) (*visit, error) {
	s.mu.Lock()
	v, ok := s.visits[trackingID]
	if ok {
		v.refs++
	}
	s.mu.Unlock()

	if ok {
		if !allowed(v.seq.Snapshot()) {
			s.release(trackingID, v)
			return nil, domain.ErrNotFound
		}
		return v, nil
	}

	t, err := s.store.GetTracking(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if !allowed(*t) {
		return nil, domain.ErrNotFound
	}
	if !t.Open() {
		return &visit{seq: NewSequencer(*t, s.otp, s.now), cancel: func() {}, closed: true}, nil
	}
	return s.register(*t), nil
}

// release drops the caller's reference and evicts the visit once idle. The
// tracking store keeps its snapshot for a later load.
func (s *TrackingService) release(trackingID string, v *visit) {
	s.mu.Lock()
	v.refs--
	s.mu.Unlock()
	s.evictIfIdle(trackingID, v)
}

func (s *TrackingService) evictIfIdle(trackingID string, v *visit) {
	s.mu.Lock()
	evict := s.visits[trackingID] == v && v.refs <= 0 && v.idle()
	if evict {
		delete(s.visits, trackingID)
	}
	s.mu.Unlock()
	if evict {
		v.cancel()
		v.close()
	}
}

func ownedBy(parentID string) func(domain.Tracking) bool {
	return func(t domain.Tracking) bool { return t.ParentID == parentID }
}

func drivenBy(driverID string) func(domain.Tracking) bool {
	return func(t domain.Tracking) bool { return driverID == "" || t.DriverID == driverID }
}

// tick waits one interval and then performs the automatic transition.
func (s *TrackingService) tick(ctx context.Context, trackingID string, v *visit) {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	defer func() {
		v.mu.Lock()
		v.ticking = false
		v.mu.Unlock()
		s.evictIfIdle(trackingID, v)
	}()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	changed, err := v.seq.Tick()
	if err != nil {
		s.log.WithError(err).Error("tracking tick failed")
		return
	}
	if !changed {
		return
	}
	persistCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	s.transitioned(persistCtx, v)
}

// transitioned saves, broadcasts and publishes the visit's new state.
func (s *TrackingService) transitioned(ctx context.Context, v *visit) {
	t := v.seq.Snapshot()
	log := s.log.WithFields(logrus.Fields{
		"tracking_id": t.ID,
		"status":      t.Status,
	})

	if err := s.store.SaveTracking(ctx, t); err != nil {
		log.WithError(err).Error("failed to save tracking")
	}
	v.broadcast(t.Public())
	s.publish(t)
	s.metrics.TrackingTransitioned(string(t.Status))
	log.Info("tracking status changed")
}

func (s *TrackingService) publish(t domain.Tracking) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err := s.publisher.PublishTrackingUpdated(ctx, ports.TrackingEvent{
		TrackingID:     t.ID,
		ScheduleItemID: t.ScheduleItemID,
		ParentID:       t.ParentID,
		Status:         string(t.Status),
		OccurredAt:     t.UpdatedAt,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.log.WithError(err).WithField("tracking_id", t.ID).Warn("failed to publish tracking event")
	}
}
