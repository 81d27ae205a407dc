package domain

import "time"

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type Child struct {
	ID               string           `json:"id"`
	ParentID         string           `json:"parentId"`
	Name             string           `json:"name"`
	Age              int              `json:"age"`
	DateOfBirth      time.Time        `json:"dateOfBirth"`
	Photo            string           `json:"photo,omitempty"`
	Allergies        []string         `json:"allergies"`
	Preferences      []string         `json:"preferences"`
	MedicalNotes     string           `json:"medicalNotes,omitempty"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// AgeOn returns the child's age in whole years at the given instant.
func (c Child) AgeOn(t time.Time) int {
	if c.DateOfBirth.IsZero() {
		return c.Age
	}
	age := t.Year() - c.DateOfBirth.Year()
	if t.Month() < c.DateOfBirth.Month() ||
		(t.Month() == c.DateOfBirth.Month() && t.Day() < c.DateOfBirth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func (c Child) Validate() error {
	if c.Name == "" {
		return NewValidationError("name", "child name is required")
	}
	if c.Age < 0 {
		return NewValidationError("age", "age must not be negative")
	}
	return nil
}
