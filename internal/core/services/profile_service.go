package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

type ProfileService struct {
	users    ports.UserRepository
	children ports.ChildRepository
	log      logrus.FieldLogger
	now      func() time.Time
}

var _ ports.ProfileService = (*ProfileService)(nil)

func NewProfileService(users ports.UserRepository, children ports.ChildRepository, log logrus.FieldLogger) *ProfileService {
	return &ProfileService{users: users, children: children, log: log, now: time.Now}
}

func (s *ProfileService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.GetUser(ctx, userID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, profile domain.Profile) (*domain.User, error) {
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Phone = strings.TrimSpace(profile.Phone)
	if profile.Name == "" {
		return nil, domain.NewValidationError("name", "Name is required")
	}
	user, err := s.users.UpdateProfile(ctx, userID, profile)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *ProfileService) Children(ctx context.Context, parentID string) ([]domain.Child, error) {
	children, err := s.children.ListChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	for i := range children {
		children[i].Age = children[i].AgeOn(s.now())
	}
	return children, nil
}

func (s *ProfileService) AddChild(ctx context.Context, parentID string, child domain.Child) (*domain.Child, error) {
	now := s.now()
	child.ID = uuid.NewString()
	child.ParentID = parentID
	child.Name = strings.TrimSpace(child.Name)
	child.Age = child.AgeOn(now)
	child.CreatedAt = now
	child.UpdatedAt = now
	if child.Allergies == nil {
		child.Allergies = []string{}
	}
	if child.Preferences == nil {
		child.Preferences = []string{}
	}
	if err := child.Validate(); err != nil {
		return nil, err
	}

	if err := s.children.CreateChild(ctx, child); err != nil {
		return nil, fmt.Errorf("add child: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"parent_id": parentID,
		"child_id":  child.ID,
	}).Info("child added")
	return &child, nil
}

// EditChild applies the non-nil fields of edit. A child that belongs to
// another parent is reported as not found.
func (s *ProfileService) EditChild(ctx context.Context, parentID, childID string, edit ports.ChildEdit) (*domain.Child, error) {
	child, err := s.children.GetChild(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}

	if edit.Name != nil {
		child.Name = strings.TrimSpace(*edit.Name)
	}
	if edit.Age != nil {
		child.Age = *edit.Age
	}
	if edit.Allergies != nil {
		child.Allergies = *edit.Allergies
	}
	if edit.Preferences != nil {
		child.Preferences = *edit.Preferences
	}
	if edit.MedicalNotes != nil {
		child.MedicalNotes = *edit.MedicalNotes
	}
	if edit.Photo != nil {
		child.Photo = *edit.Photo
	}
	if err := child.Validate(); err != nil {
		return nil, err
	}
	child.UpdatedAt = s.now()

	if err := s.children.UpdateChild(ctx, *child); err != nil {
		return nil, fmt.Errorf("edit child: %w", err)
	}
	return child, nil
}

func (s *ProfileService) UpdateEmergencyContact(ctx context.Context, parentID, childID string, contact domain.EmergencyContact) (*domain.Child, error) {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Phone = strings.TrimSpace(contact.Phone)
	if contact.Name == "" || contact.Phone == "" {
		return nil, domain.NewValidationError("emergencyContact", "Emergency contact name and phone are required")
	}

	child, err := s.children.GetChild(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}
	child.EmergencyContact = contact
	child.UpdatedAt = s.now()
	if err := s.children.UpdateChild(ctx, *child); err != nil {
		return nil, fmt.Errorf("update emergency contact: %w", err)
	}
	return child, nil
}

// Placeholder acknowledges profile menu entries that are not built yet.
func (s *ProfileService) Placeholder(_ context.Context, feature string) error {
	feature = strings.TrimSpace(feature)
	if feature == "" {
		feature = "This"
	}
	return domain.ComingSoon(feature)
}
