package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
)

// OTPGenerator issues the code the driver shows at pickup.
type OTPGenerator func() (string, error)

// RandomOTP returns a uniformly random 4-digit code.
func RandomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// Sequencer owns one tracking visit and serializes its transitions.
type Sequencer struct {
	mu       sync.Mutex
	tracking domain.Tracking
	otp      OTPGenerator
	now      func() time.Time
}

func NewSequencer(t domain.Tracking, otp OTPGenerator, now func() time.Time) *Sequencer {
	if otp == nil {
		otp = RandomOTP
	}
	if now == nil {
		now = time.Now
	}
	return &Sequencer{tracking: t, otp: otp, now: now}
}

// Snapshot returns a copy of the full state, OTP included.
func (s *Sequencer) Snapshot() domain.Tracking {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tracking
	t.Children = append([]string(nil), t.Children...)
	return t
}

// Tick performs the automatic approaching -> arrived transition. It
// reports false without error in any other state.
func (s *Sequencer) Tick() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracking.Status != domain.TrackingApproaching {
		return false, nil
	}
	code, err := s.otp()
	if err != nil {
		return false, err
	}
	if err := s.tracking.Arrive(code, s.now()); err != nil {
		return false, err
	}
	return true, nil
}

// ConfirmPickup boards the children once the parent enters the code shown
// on the driver's device. Confirming again after boarding is a no-op.
func (s *Sequencer) ConfirmPickup(code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracking.Status == domain.TrackingBoarded {
		return false, nil
	}
	if err := s.tracking.Board(code, s.now()); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Sequencer) Depart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracking.Depart(s.now())
}

func (s *Sequencer) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracking.Complete(s.now())
}
