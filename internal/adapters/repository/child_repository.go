package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
)

const childColumns = `id, parent_id, name, age, date_of_birth, photo, allergies, preferences,
	medical_notes, emergency_name, emergency_phone, emergency_relationship, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChild(row rowScanner) (domain.Child, error) {
	var (
		c   domain.Child
		dob sql.NullTime
	)
	err := row.Scan(
		&c.ID, &c.ParentID, &c.Name, &c.Age, &dob, &c.Photo,
		pq.Array(&c.Allergies), pq.Array(&c.Preferences), &c.MedicalNotes,
		&c.EmergencyContact.Name, &c.EmergencyContact.Phone, &c.EmergencyContact.Relationship,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if dob.Valid {
		c.DateOfBirth = dob.Time
	}
	if c.Allergies == nil {
		c.Allergies = []string{}
	}
	if c.Preferences == nil {
		c.Preferences = []string{}
	}
	return c, err
}

func nullTime(c domain.Child) sql.NullTime {
	return sql.NullTime{Time: c.DateOfBirth, Valid: !c.DateOfBirth.IsZero()}
}

func (r *SQLRepository) ListChildren(ctx context.Context, parentID string) ([]domain.Child, error) {
	var children []domain.Child
	err := r.exec(func() error {
		rows, err := r.db.QueryContext(ctx,
			"SELECT "+childColumns+" FROM children WHERE parent_id = $1 ORDER BY created_at",
			parentID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		children = make([]domain.Child, 0)
		for rows.Next() {
			c, err := scanChild(rows)
			if err != nil {
				return err
			}
			children = append(children, c)
		}
		return rows.Err()
	})
	return children, err
}

// GetChild only returns children of the given parent.
func (r *SQLRepository) GetChild(ctx context.Context, parentID, childID string) (*domain.Child, error) {
	var child domain.Child
	err := r.exec(func() error {
		c, err := scanChild(r.db.QueryRowContext(ctx,
			"SELECT "+childColumns+" FROM children WHERE id = $1 AND parent_id = $2",
			childID, parentID,
		))
		child = c
		return notFound(err)
	})
	if err != nil {
		return nil, err
	}
	return &child, nil
}

func (r *SQLRepository) CreateChild(ctx context.Context, c domain.Child) error {
	return r.exec(func() error {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO children (`+childColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			c.ID, c.ParentID, c.Name, c.Age, nullTime(c), c.Photo,
			pq.Array(c.Allergies), pq.Array(c.Preferences), c.MedicalNotes,
			c.EmergencyContact.Name, c.EmergencyContact.Phone, c.EmergencyContact.Relationship,
			c.CreatedAt, c.UpdatedAt,
		)
		return err
	})
}

func (r *SQLRepository) UpdateChild(ctx context.Context, c domain.Child) error {
	return r.exec(func() error {
		res, err := r.db.ExecContext(ctx, `
			UPDATE children SET
				name = $3, age = $4, date_of_birth = $5, photo = $6,
				allergies = $7, preferences = $8, medical_notes = $9,
				emergency_name = $10, emergency_phone = $11, emergency_relationship = $12,
				updated_at = $13
			WHERE id = $1 AND parent_id = $2`,
			c.ID, c.ParentID, c.Name, c.Age, nullTime(c), c.Photo,
			pq.Array(c.Allergies), pq.Array(c.Preferences), c.MedicalNotes,
			c.EmergencyContact.Name, c.EmergencyContact.Phone, c.EmergencyContact.Relationship,
			c.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
